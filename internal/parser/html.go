package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Heading tags map onto the synthetic
// heading scale; blocks whose text is all inside <b>/<strong> are bold.
type HTMLParser struct {
	MaxPages int
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.SpanStream, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	layout := newFlowLayout()

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				layout.addHeading(level, textContent(n))
				return // Don't recurse into heading children (already extracted text).
			}

			// Skip non-content elements.
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head":
				return
			case "pre", "code":
				layout.add(textContent(n), flowBodySize, false, false, flowMonoFamily)
				return
			case "p", "li", "td", "th", "blockquote", "dt", "dd", "figcaption", "caption":
				if !hasBlockChild(n) {
					layout.add(textContent(n), flowBodySize, boldOnly(n), italicOnly(n), flowFamily)
					return
				}
			}
		}

		// Loose text and inline elements between blocks form one body span.
		var run []*html.Node
		flush := func() {
			if len(run) == 0 {
				return
			}
			var buf strings.Builder
			for _, c := range run {
				appendText(&buf, c)
			}
			layout.add(buf.String(), flowBodySize, styledOnly(run, "b", "strong"), styledOnly(run, "i", "em"), flowFamily)
			run = nil
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if isInline(c) {
				run = append(run, c)
				continue
			}
			flush()
			walk(c)
		}
		flush()
	}

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return layout.finish(p.MaxPages)
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	appendText(&buf, n)
	return strings.TrimSpace(buf.String())
}

func appendText(buf *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendText(buf, c)
	}
}

var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "br": true, "cite": true,
	"data": true, "dfn": true, "em": true, "font": true, "i": true, "kbd": true,
	"label": true, "mark": true, "q": true, "s": true, "samp": true, "small": true,
	"span": true, "strong": true, "sub": true, "sup": true, "time": true, "u": true,
	"var": true,
}

// isInline reports whether n belongs to the running text of its parent.
func isInline(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		return true
	case html.ElementNode:
		return inlineTags[n.Data]
	}
	return false
}

var blockTags = map[string]bool{
	"p": true, "div": true, "ul": true, "ol": true, "li": true, "table": true,
	"blockquote": true, "pre": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// hasBlockChild reports whether n nests other block elements, in which
// case the children are walked individually.
func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockTags[c.Data] {
			return true
		}
	}
	return false
}

// boldOnly reports whether every non-blank text node under n sits inside
// a <b> or <strong>.
func boldOnly(n *html.Node) bool {
	return styledOnly([]*html.Node{n}, "b", "strong")
}

func italicOnly(n *html.Node) bool {
	return styledOnly([]*html.Node{n}, "i", "em")
}

func styledOnly(nodes []*html.Node, tags ...string) bool {
	found := false
	ok := true
	var visit func(*html.Node, bool)
	visit = func(n *html.Node, inside bool) {
		if n.Type == html.ElementNode {
			for _, t := range tags {
				if n.Data == t {
					inside = true
				}
			}
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			found = true
			if !inside {
				ok = false
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c, inside)
		}
	}
	for _, n := range nodes {
		visit(n, false)
	}
	return found && ok
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
