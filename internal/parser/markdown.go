package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. ATX and setext
// headings get the synthetic heading scale; a paragraph that is entirely
// strong emphasis becomes bold body text.
type MarkdownParser struct {
	MaxPages int
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.SpanStream, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	layout := newFlowLayout()
	walkMarkdown(doc, src, layout)
	return layout.finish(p.MaxPages)
}

func walkMarkdown(n ast.Node, src []byte, layout *flowLayout) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Heading:
			layout.addHeading(node.Level, extractText(node, src))
		case *ast.Paragraph, *ast.TextBlock:
			layout.add(extractText(node, src), flowBodySize, strongOnly(node), false, flowFamily)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			layout.add(blockLines(node, src), flowBodySize, false, false, flowMonoFamily)
		case *ast.ThematicBreak, *ast.HTMLBlock:
			// No text content.
		default:
			walkMarkdown(c, src, layout)
		}
	}
}

// strongOnly reports whether a block's only inline child is **strong** text.
func strongOnly(n ast.Node) bool {
	if n.ChildCount() != 1 {
		return false
	}
	em, ok := n.FirstChild().(*ast.Emphasis)
	return ok && em.Level == 2
}

// extractText gets the inline text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			// Recurse for nested inlines.
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}

// blockLines joins the raw lines of a block node such as a code block.
func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}
