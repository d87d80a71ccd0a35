package structure

import (
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Title is the extracted document title and the spans it was built from.
type Title struct {
	Text  string
	Spans map[int]bool
}

// ExtractTitle looks only at page 1. The title style is the largest page-1
// style that would itself qualify as a heading against the body style;
// ties go to more characters, more occurrences, then first seen. Spans of
// that style in the upper part of the page are joined in reading order.
func ExtractTitle(stream *doctree.SpanStream, body BodyStyle, cfg Config) Title {
	var idx []int
	var first []doctree.Span
	for i, sp := range stream.Spans {
		if sp.Page == 1 && strings.TrimSpace(sp.Text) != "" {
			idx = append(idx, i)
			first = append(first, sp)
		}
	}
	if len(first) == 0 {
		return Title{}
	}

	key, ok := titleStyle(first, body, cfg)
	if !ok {
		return Title{}
	}

	limit := firstPageHeight(stream, first) * cfg.TitleSearchRatio
	var parts []int
	for j, sp := range first {
		if sp.Key() == key && sp.Y <= limit {
			parts = append(parts, idx[j])
		}
	}
	if len(parts) == 0 {
		return Title{}
	}

	sort.SliceStable(parts, func(a, b int) bool {
		return stream.Spans[parts[a]].Y < stream.Spans[parts[b]].Y
	})

	t := Title{Spans: make(map[int]bool, len(parts))}
	texts := make([]string, 0, len(parts))
	for _, i := range parts {
		t.Spans[i] = true
		texts = append(texts, stream.Spans[i].Text)
	}
	t.Text = cleanText(strings.Join(texts, " "))
	return t
}

func titleStyle(spans []doctree.Span, body BodyStyle, cfg Config) (doctree.StyleKey, bool) {
	// Representative span per style, for the heading qualification check.
	rep := make(map[doctree.StyleKey]doctree.Span)
	for _, sp := range spans {
		if _, ok := rep[sp.Key()]; !ok {
			rep[sp.Key()] = sp
		}
	}

	var best StyleCount
	found := false
	for _, c := range AggregateStyles(spans).Counts() {
		if classifySpan(rep[c.Key], body, cfg) == OriginNone {
			continue
		}
		if !found || outranks(c, best) {
			best, found = c, true
		}
	}
	return best.Key, found
}

func outranks(a, b StyleCount) bool {
	if a.Key.Size != b.Key.Size {
		return a.Key.Size > b.Key.Size
	}
	if a.Chars != b.Chars {
		return a.Chars > b.Chars
	}
	return a.Occurrences > b.Occurrences
}

// firstPageHeight prefers the parser's page height. Without one, the page
// is taken to end at the bottom of its lowest span.
func firstPageHeight(stream *doctree.SpanStream, spans []doctree.Span) float64 {
	if h := stream.PageHeight(1); h > 0 {
		return h
	}
	var h float64
	for _, sp := range spans {
		h = max(h, sp.Y+sp.Key().Size)
	}
	return h
}

// TitleFallback returns the text of the first H1 in the outline, or "".
func TitleFallback(outline doctree.Outline) string {
	for _, e := range outline {
		if e.Level == doctree.H1 {
			return e.Text
		}
	}
	return ""
}
