package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/fumiama/go-docx"
)

// docxDefaultSize is Word's default body size when a run sets none.
const docxDefaultSize = 11.0

// DOCXParser handles .docx files. Run properties supply size, weight,
// slant and font; paragraphs with a HeadingN style and no explicit run
// size use the synthetic heading scale. Word documents carry no page
// geometry, so pages are estimated.
type DOCXParser struct {
	MaxPages int
}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.SpanStream, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	layout := newFlowLayout()
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		for _, run := range docxRuns(para, docxHeadingLevel(para)) {
			layout.add(run.text, run.size, run.bold, run.italic, run.family)
		}
	}
	return layout.finish(p.MaxPages)
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(style, "heading"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= 6 {
			return n
		}
	}
	return 0
}

type docxRun struct {
	text   string
	size   float64
	bold   bool
	italic bool
	family string
}

// docxRuns returns the paragraph's text grouped into consecutive runs of
// the same style.
func docxRuns(para *docx.Paragraph, level int) []docxRun {
	var out []docxRun
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var buf strings.Builder
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
		if buf.Len() == 0 {
			continue
		}

		style := runStyle(run.RunProperties, level)
		if n := len(out); n > 0 && out[n-1].sameStyle(style) {
			out[n-1].text += buf.String()
			continue
		}
		style.text = buf.String()
		out = append(out, style)
	}
	return out
}

func runStyle(props *docx.RunProperties, level int) docxRun {
	s := docxRun{size: docxDefaultSize, family: "default"}
	if level > 0 {
		s.size = headingSize(level)
		s.bold = true
	}
	if props == nil {
		return s
	}
	if props.Size != nil {
		// w:sz is in half-points.
		if hp, err := strconv.ParseFloat(props.Size.Val, 64); err == nil && hp > 0 {
			s.size = hp / 2
		}
	}
	if props.Bold != nil {
		s.bold = true
	}
	if props.Italic != nil {
		s.italic = true
	}
	if props.Fonts != nil && props.Fonts.ASCII != "" {
		s.family = props.Fonts.ASCII
	}
	return s
}

func (r docxRun) sameStyle(o docxRun) bool {
	return r.size == o.size && r.bold == o.bold && r.italic == o.italic && r.family == o.family
}
