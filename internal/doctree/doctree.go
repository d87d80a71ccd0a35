package doctree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf8"
)

// Span is one styled text run delivered by a parser. Spans are read-only
// once produced.
type Span struct {
	Text       string
	FontSize   float64
	IsBold     bool
	IsItalic   bool
	FontFamily string
	Page       int     // 1-based
	Y          float64 // Distance from the top of the page
	CharCount  int
}

// Key returns the style identity of the span. Sizes that are missing or
// not finite collapse to 0.
func (s Span) Key() StyleKey {
	size := s.FontSize
	if math.IsNaN(size) || math.IsInf(size, 0) || size < 0 {
		size = 0
	}
	return StyleKey{Size: size, Bold: s.IsBold, Family: s.FontFamily}
}

// Chars returns the character weight of the span, falling back to the
// rune count of its text when the parser left CharCount unset.
func (s Span) Chars() int {
	if s.CharCount > 0 {
		return s.CharCount
	}
	return utf8.RuneCountInString(s.Text)
}

// StyleKey groups spans into styles. It is comparable and safe as a map key.
type StyleKey struct {
	Size   float64
	Bold   bool
	Family string
}

func (k StyleKey) String() string {
	weight := "regular"
	if k.Bold {
		weight = "bold"
	}
	return fmt.Sprintf("%.1fpt %s %s", k.Size, weight, k.Family)
}

// PageInfo carries per-page geometry reported by a parser.
type PageInfo struct {
	Number int
	Height float64
}

// SpanStream is everything a parser hands over for one document.
type SpanStream struct {
	Spans     []Span
	Pages     []PageInfo
	PageCount int
}

// PageHeight returns the reported height of page n, or 0 if unknown.
func (s *SpanStream) PageHeight(n int) float64 {
	for _, p := range s.Pages {
		if p.Number == n {
			return p.Height
		}
	}
	return 0
}

// Level is a heading depth, H1 through H4.
type Level int

const (
	LevelNone Level = iota
	H1
	H2
	H3
	H4
)

// MaxDepth is the deepest level an outline can carry.
const MaxDepth = H4

func (l Level) String() string {
	if l < H1 || l > MaxDepth {
		return "none"
	}
	return fmt.Sprintf("H%d", int(l))
}

func (l Level) MarshalJSON() ([]byte, error) {
	if l < H1 || l > MaxDepth {
		return nil, fmt.Errorf("invalid heading level %d", int(l))
	}
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var n int
	if _, err := fmt.Sscanf(s, "H%d", &n); err != nil || n < int(H1) || n > int(MaxDepth) {
		return fmt.Errorf("invalid heading level %q", s)
	}
	*l = Level(n)
	return nil
}

// OutlineEntry is one heading in the final outline.
type OutlineEntry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Outline is ordered by page, then by position on the page.
type Outline []OutlineEntry

// Result is the per-document output handed to serialization.
type Result struct {
	Title   string  `json:"title"`
	Outline Outline `json:"outline"`
}

// MarshalJSON keeps "outline" an array even when no headings were found.
// Heading text is written as is, without HTML escaping.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	p := plain(r)
	if p.Outline == nil {
		p.Outline = Outline{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Node is a heading nested under its nearest shallower predecessor.
type Node struct {
	Level    Level   `json:"level"`
	Text     string  `json:"text"`
	Page     int     `json:"page"`
	Children []*Node `json:"children,omitempty"`
}

// Tree nests the flat outline by level. A heading that skips levels
// (H1 followed by H3) attaches to the closest shallower heading.
func (o Outline) Tree() []*Node {
	type stackEntry struct {
		node  *Node
		level Level
	}

	root := &Node{}
	stack := []stackEntry{{node: root, level: LevelNone}}

	for _, e := range o {
		n := &Node{Level: e.Level, Text: e.Text, Page: e.Page}
		for len(stack) > 1 && stack[len(stack)-1].level >= e.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, n)
		stack = append(stack, stackEntry{node: n, level: e.Level})
	}
	return root.Children
}
