package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

var (
	// ErrUnsupported is returned for file extensions with no parser.
	ErrUnsupported = errors.New("unsupported file type")
	// ErrPageLimit means the document was skipped before any text was read.
	ErrPageLimit = errors.New("page limit exceeded")
)

// SpanParser converts raw document bytes into a stream of styled spans.
type SpanParser interface {
	Parse(r io.Reader, filename string) (*doctree.SpanStream, error)
}

// Options configures parsers built by ForFile.
type Options struct {
	// MaxPages skips documents with more pages. Formats without page
	// geometry use the estimated layout. 0 means no limit.
	MaxPages int
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".docx":     true,
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (SpanParser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFParser{MaxPages: opts.MaxPages}, nil
	case ".docx":
		return &DOCXParser{MaxPages: opts.MaxPages}, nil
	case ".html", ".htm":
		return &HTMLParser{MaxPages: opts.MaxPages}, nil
	case ".md", ".markdown":
		return &MarkdownParser{MaxPages: opts.MaxPages}, nil
	case ".txt":
		return &TextParser{MaxPages: opts.MaxPages}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
