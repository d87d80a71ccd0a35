package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. Glyphs that share a font, size and
// baseline and sit next to each other are merged into one span.
type PDFParser struct {
	// MaxPages skips documents with more pages. 0 means no limit.
	MaxPages int
}

const (
	// Baseline drift, as a fraction of font size, still counted as one line.
	baselineTolerance = 0.2
	// Horizontal gap, as a fraction of font size, that implies a word space.
	wordGap = 0.15
	// Horizontal gap, as a fraction of font size, that ends a run (columns).
	columnGap = 3.0
)

func (p *PDFParser) Parse(r io.Reader, filename string) (stream *doctree.SpanStream, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	// The pdf library panics on some malformed files.
	defer func() {
		if rec := recover(); rec != nil {
			stream, err = nil, fmt.Errorf("extract pdf text: %v", rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	if p.MaxPages > 0 && numPages > p.MaxPages {
		return nil, fmt.Errorf("%w: %d pages (limit %d)", ErrPageLimit, numPages, p.MaxPages)
	}

	stream = &doctree.SpanStream{PageCount: numPages}
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		glyphs := page.Content().Text
		top, height := mediaBox(page.V)
		if height <= 0 {
			top = glyphTop(glyphs)
			height = top
		}
		stream.Pages = append(stream.Pages, doctree.PageInfo{Number: i, Height: height})
		stream.Spans = append(stream.Spans, glyphRuns(glyphs, i, top)...)
	}
	return stream, nil
}

// mediaBox returns the top edge and height of the MediaBox, walking up the
// page tree when it is inherited. The box need not start at y=0.
func mediaBox(v pdflib.Value) (top, height float64) {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdflib.Array && box.Len() == 4 {
			y0, y1 := box.Index(1).Float64(), box.Index(3).Float64()
			return max(y0, y1), math.Abs(y1 - y0)
		}
		v = v.Key("Parent")
	}
	return 0, 0
}

// glyphTop estimates a page height from the highest glyph.
func glyphTop(glyphs []pdflib.Text) float64 {
	var top float64
	for _, g := range glyphs {
		top = max(top, g.Y+g.FontSize)
	}
	return top
}

type glyphRun struct {
	font string
	size float64
	y    float64
	endX float64
	text strings.Builder
}

// glyphRuns merges glyphs into spans in content-stream order. PDF y grows
// upward; span Y is measured down from the page's top edge.
func glyphRuns(glyphs []pdflib.Text, page int, top float64) []doctree.Span {
	var spans []doctree.Span
	var cur *glyphRun

	flush := func() {
		if cur == nil {
			return
		}
		if sp, ok := runSpan(cur, page, top); ok {
			spans = append(spans, sp)
		}
		cur = nil
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if cur != nil && continuesRun(cur, g) {
			gap := g.X - cur.endX
			if gap > wordGap*cur.size && !strings.HasSuffix(cur.text.String(), " ") && !strings.HasPrefix(g.S, " ") {
				cur.text.WriteByte(' ')
			}
			cur.text.WriteString(g.S)
			cur.endX = g.X + g.W
			continue
		}
		flush()
		cur = &glyphRun{font: g.Font, size: g.FontSize, y: g.Y, endX: g.X + g.W}
		cur.text.WriteString(g.S)
	}
	flush()
	return spans
}

func continuesRun(r *glyphRun, g pdflib.Text) bool {
	if g.Font != r.font || g.FontSize != r.size {
		return false
	}
	if math.Abs(g.Y-r.y) > baselineTolerance*r.size {
		return false
	}
	gap := g.X - r.endX
	return gap > -r.size && gap <= columnGap*r.size
}

func runSpan(r *glyphRun, page int, top float64) (doctree.Span, bool) {
	text := normalizeText(r.text.String())
	if text == "" {
		return doctree.Span{}, false
	}
	family, bold, italic := parseFontName(r.font)
	return doctree.Span{
		Text:       text,
		FontSize:   math.Round(r.size*100) / 100,
		IsBold:     bold,
		IsItalic:   italic,
		FontFamily: family,
		Page:       page,
		Y:          max(top-r.y, 0),
		CharCount:  len([]rune(text)),
	}, true
}

// parseFontName splits a PDF base font name such as "ABCDEF+Arial-BoldItalicMT"
// into its family and style flags.
func parseFontName(name string) (family string, bold, italic bool) {
	// Subset fonts carry a six-letter tag: "ABCDEF+".
	if i := strings.IndexByte(name, '+'); i == 6 {
		name = name[i+1:]
	}
	lower := strings.ToLower(name)
	for _, m := range []string{"bold", "black", "heavy", "semibold", "demi"} {
		if strings.Contains(lower, m) {
			bold = true
			break
		}
	}
	italic = strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")

	family = name
	if i := strings.IndexAny(name, "-,"); i > 0 {
		family = name[:i]
	}
	return family, bold, italic
}
