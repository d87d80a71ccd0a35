package parser

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
	"golang.org/x/text/unicode/norm"
)

// Point sizes for formats that carry structure but no typography.
const (
	flowBodySize   = 12.0
	flowFamily     = "serif"
	flowMonoFamily = "monospace"
)

var flowHeadingSizes = [...]float64{1: 24, 2: 20, 3: 16, 4: 14, 5: 13, 6: 12}

// headingSize returns the synthetic size for an HTML-style heading level.
func headingSize(level int) float64 {
	if level < 1 || level >= len(flowHeadingSizes) {
		return flowBodySize
	}
	return flowHeadingSizes[level]
}

// normalizeText applies NFKC (no-break spaces, ligatures, full-width
// forms) and collapses whitespace.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// flowLayout places spans for formats without page geometry. Each span
// takes as many lines as its text needs and pages break after a fixed
// number of lines.
type flowLayout struct {
	linesPerPage int
	charsPerLine int
	lineHeight   float64

	page  int
	line  int
	spans []doctree.Span
}

func newFlowLayout() *flowLayout {
	return &flowLayout{
		linesPerPage: 50,
		charsPerLine: 90,
		lineHeight:   14,
		page:         1,
	}
}

// add appends one span. Empty text is dropped.
func (f *flowLayout) add(text string, size float64, bold, italic bool, family string) {
	text = normalizeText(text)
	if text == "" {
		return
	}
	n := utf8.RuneCountInString(text)
	lines := int(math.Ceil(float64(n) * size / flowBodySize / float64(f.charsPerLine)))
	lines = max(lines, 1)
	if f.line > 0 && f.line+lines > f.linesPerPage {
		f.page++
		f.line = 0
	}
	f.spans = append(f.spans, doctree.Span{
		Text:       text,
		FontSize:   size,
		IsBold:     bold,
		IsItalic:   italic,
		FontFamily: family,
		Page:       f.page,
		Y:          float64(f.line) * f.lineHeight,
		CharCount:  n,
	})
	f.line += lines
}

// addBody appends a regular body paragraph.
func (f *flowLayout) addBody(text string) {
	f.add(text, flowBodySize, false, false, flowFamily)
}

// addHeading appends a heading of the given level (1-6).
func (f *flowLayout) addHeading(level int, text string) {
	f.add(text, headingSize(level), true, false, flowFamily)
}

// finish returns the stream, or ErrPageLimit when the estimated page
// count exceeds maxPages. 0 means no limit.
func (f *flowLayout) finish(maxPages int) (*doctree.SpanStream, error) {
	s := f.stream()
	if maxPages > 0 && s.PageCount > maxPages {
		return nil, fmt.Errorf("%w: about %d pages (limit %d)", ErrPageLimit, s.PageCount, maxPages)
	}
	return s, nil
}

func (f *flowLayout) stream() *doctree.SpanStream {
	pages := 0
	if len(f.spans) > 0 {
		pages = f.page
	}
	s := &doctree.SpanStream{Spans: f.spans, PageCount: pages}
	for i := 1; i <= pages; i++ {
		s.Pages = append(s.Pages, doctree.PageInfo{Number: i, Height: float64(f.linesPerPage) * f.lineHeight})
	}
	return s
}
