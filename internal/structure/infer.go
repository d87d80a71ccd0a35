// Package structure infers a document title and heading outline from the
// typography of its spans: size, weight, family and position. It runs two
// passes over the span stream. The first builds style statistics and picks
// the body style; the second classifies, filters and levels headings
// against that baseline.
//
// Nothing here fails. Empty or uniform input yields an empty outline and a
// fallback title.
package structure

import "github.com/dgallion1/docoutline/internal/doctree"

// Analyzer runs the inference pipeline with a fixed configuration. It holds
// no per-document state and is safe for concurrent use.
type Analyzer struct {
	cfg Config
}

func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Config returns the analyzer's configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Infer returns the title and outline for one document.
func (a *Analyzer) Infer(stream *doctree.SpanStream) doctree.Result {
	if stream == nil || len(stream.Spans) == 0 {
		return doctree.Result{Outline: doctree.Outline{}}
	}

	// Pass 1.
	body := SelectBodyStyle(AggregateStyles(stream.Spans))

	// Pass 2.
	title := ExtractTitle(stream, body, a.cfg)
	cands := Classify(stream.Spans, body, a.cfg)
	cands = excludeSpans(cands, title.Spans)
	cands = MergeLines(cands, a.cfg)
	cands = Filter(cands, a.cfg)
	outline := Assemble(AssignLevels(cands, a.cfg))

	text := title.Text
	if text == "" {
		text = TitleFallback(outline)
	}
	return doctree.Result{Title: text, Outline: outline}
}
