package structure

import "github.com/dgallion1/docoutline/internal/doctree"

func span(text string, size float64, bold bool, page int, y float64) doctree.Span {
	return doctree.Span{
		Text:       text,
		FontSize:   size,
		IsBold:     bold,
		FontFamily: "Helvetica",
		Page:       page,
		Y:          y,
		CharCount:  len([]rune(text)),
	}
}

func bodySpans(pages int, perPage int) []doctree.Span {
	var out []doctree.Span
	for p := 1; p <= pages; p++ {
		for i := 0; i < perPage; i++ {
			out = append(out, span("body text that fills the page with ordinary prose", 12, false, p, 100+float64(i)*20))
		}
	}
	return out
}

func body12() BodyStyle {
	return BodyStyle{StyleKey: doctree.StyleKey{Size: 12, Family: "Helvetica"}, Valid: true}
}
