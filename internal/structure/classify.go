package structure

import (
	"math"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Origin records which rule made a span a heading candidate.
type Origin int

const (
	OriginNone Origin = iota
	OriginSize        // Visibly larger than body text
	OriginWeight      // Bold at body size
)

func (o Origin) String() string {
	switch o {
	case OriginSize:
		return "size"
	case OriginWeight:
		return "weight"
	default:
		return "none"
	}
}

// Candidate is a span, or a run of adjacent spans, that may be a heading.
type Candidate struct {
	Text   string
	Page   int
	Y      float64
	Style  doctree.StyleKey
	Origin Origin

	// First and Last are the indices of the source spans in the stream.
	First int
	Last  int

	lastY float64
}

// Classify scans spans against the body style. The size rule wins when
// both rules match. Candidates come back in stream order.
func Classify(spans []doctree.Span, body BodyStyle, cfg Config) []Candidate {
	var out []Candidate
	for i, sp := range spans {
		origin := classifySpan(sp, body, cfg)
		if origin == OriginNone {
			continue
		}
		text := cleanText(sp.Text)
		if text == "" {
			continue
		}
		out = append(out, Candidate{
			Text:   text,
			Page:   sp.Page,
			Y:      sp.Y,
			Style:  sp.Key(),
			Origin: origin,
			First:  i,
			Last:   i,
			lastY:  sp.Y,
		})
	}
	return out
}

func classifySpan(sp doctree.Span, body BodyStyle, cfg Config) Origin {
	if !body.Valid || body.Size <= 0 {
		return OriginNone
	}
	key := sp.Key()
	if key.Size <= 0 || key == body.StyleKey {
		return OriginNone
	}
	if key.Size > body.Size*cfg.GrowthThreshold {
		return OriginSize
	}
	if math.Abs(key.Size-body.Size) <= cfg.BoldSizeTolerance &&
		sp.IsBold && !body.Bold && !sp.IsItalic {
		return OriginWeight
	}
	return OriginNone
}

// MergeLines joins candidates that continue each other: neighbours in the
// span stream, same page, same style and origin, and close vertically.
func MergeLines(cands []Candidate, cfg Config) []Candidate {
	if cfg.MergeLineGap <= 0 || len(cands) < 2 {
		return cands
	}
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if n := len(out); n > 0 && continues(out[n-1], c, cfg.MergeLineGap) {
			prev := &out[n-1]
			prev.Text = prev.Text + " " + c.Text
			prev.Last = c.Last
			prev.lastY = c.Y
			continue
		}
		out = append(out, c)
	}
	return out
}

func continues(prev, next Candidate, gap float64) bool {
	if next.First != prev.Last+1 || next.Page != prev.Page {
		return false
	}
	if next.Style != prev.Style || next.Origin != prev.Origin {
		return false
	}
	dy := next.Y - prev.lastY
	return dy >= 0 && dy <= gap*prev.Style.Size
}

// excludeSpans drops candidates built from any span in skip.
func excludeSpans(cands []Candidate, skip map[int]bool) []Candidate {
	if len(skip) == 0 {
		return cands
	}
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if skip[c.First] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// cleanText collapses whitespace runs to single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
