package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// TextParser handles plain text files. Plain text has no typography, so
// every paragraph becomes a body span.
type TextParser struct {
	// MaxPages skips documents with more estimated pages. 0 means no limit.
	MaxPages int
}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.SpanStream, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	layout := newFlowLayout()
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				layout.addBody(current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		layout.addBody(current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return layout.finish(p.MaxPages)
}
