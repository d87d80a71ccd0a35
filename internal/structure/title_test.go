package structure

import (
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/stretchr/testify/assert"
)

func TestExtractTitle_LargestHeadingStyleInUpperHalf(t *testing.T) {
	spans := []doctree.Span{
		span("Overview of the", 20, true, 1, 80),
		span("Foundation Level", 20, true, 1, 50),
		span("Subtitle", 16, false, 1, 120),
		span("plenty of body text on the first page", 12, false, 1, 300),
		span("Late big text", 20, true, 1, 700),
	}
	stream := &doctree.SpanStream{Spans: spans, Pages: []doctree.PageInfo{{Number: 1, Height: 800}}}

	title := ExtractTitle(stream, body12(), DefaultConfig())
	assert.Equal(t, "Foundation Level Overview of the", title.Text, "ordered by y, lower half excluded")
	assert.Equal(t, map[int]bool{0: true, 1: true}, title.Spans)
}

func TestExtractTitle_IgnoresOtherPages(t *testing.T) {
	spans := []doctree.Span{
		span("body body body", 12, false, 1, 10),
		span("Big on page two", 30, true, 2, 10),
	}
	title := ExtractTitle(&doctree.SpanStream{Spans: spans}, body12(), DefaultConfig())
	assert.Empty(t, title.Text)
}

func TestExtractTitle_SmallPrintIsNotTitle(t *testing.T) {
	spans := []doctree.Span{
		span("Copyright notice", 8, false, 1, 10),
		span("body body body", 12, false, 1, 100),
	}
	title := ExtractTitle(&doctree.SpanStream{Spans: spans}, body12(), DefaultConfig())
	assert.Empty(t, title.Text)
}

func TestExtractTitle_DerivedPageHeight(t *testing.T) {
	spans := []doctree.Span{
		span("Only Title", 24, true, 1, 10),
	}
	body := BodyStyle{StyleKey: doctree.StyleKey{Size: 12, Family: "Helvetica"}, Valid: true}
	title := ExtractTitle(&doctree.SpanStream{Spans: spans}, body, DefaultConfig())
	assert.Equal(t, "Only Title", title.Text)
}

func TestExtractTitle_SentinelBody(t *testing.T) {
	spans := []doctree.Span{span("Anything", 24, true, 1, 10)}
	assert.Empty(t, ExtractTitle(&doctree.SpanStream{Spans: spans}, BodyStyle{}, DefaultConfig()).Text)
}

func TestTitleFallback(t *testing.T) {
	outline := doctree.Outline{
		{Level: doctree.H2, Text: "Preface", Page: 1},
		{Level: doctree.H1, Text: "Chapter One", Page: 2},
		{Level: doctree.H1, Text: "Chapter Two", Page: 5},
	}
	assert.Equal(t, "Chapter One", TitleFallback(outline))
	assert.Equal(t, "", TitleFallback(nil))
	assert.Equal(t, "", TitleFallback(doctree.Outline{{Level: doctree.H3, Text: "x", Page: 1}}))
}

func TestAssemble_OrderAndDedup(t *testing.T) {
	outline := Assemble([]Heading{
		{Level: doctree.H2, Text: "B", Page: 2, Y: 50},
		{Level: doctree.H1, Text: "A", Page: 1, Y: 300},
		{Level: doctree.H1, Text: "Header", Page: 1, Y: 10},
		{Level: doctree.H1, Text: "A", Page: 1, Y: 310},
		{Level: doctree.H2, Text: "A", Page: 1, Y: 320},
		{Level: doctree.H1, Text: "Header", Page: 2, Y: 10},
	})
	assert.Equal(t, doctree.Outline{
		{Level: doctree.H1, Text: "Header", Page: 1},
		{Level: doctree.H1, Text: "A", Page: 1},
		{Level: doctree.H2, Text: "A", Page: 1},
		{Level: doctree.H1, Text: "Header", Page: 2},
		{Level: doctree.H2, Text: "B", Page: 2},
	}, outline)
}

func TestAssemble_EmptyIsNonNil(t *testing.T) {
	outline := Assemble(nil)
	assert.NotNil(t, outline)
	assert.Empty(t, outline)
}
