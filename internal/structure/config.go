package structure

import (
	"fmt"
	"regexp"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Config holds every heuristic threshold used by the analyzer.
type Config struct {
	// GrowthThreshold is the size ratio over body text a span must exceed
	// to count as a size-based heading.
	GrowthThreshold float64

	// BoldSizeTolerance is how far (in points) a bold span may differ from
	// body size and still count as a weight-based heading.
	BoldSizeTolerance float64

	// MinLength and MaxLength bound heading text, in runes after trimming.
	MinLength int
	MaxLength int

	// ProseMinWords: text ending in a period with more words than this is prose.
	ProseMinWords int

	// MaxLevel is the deepest level assigned. Extra size buckets share it.
	MaxLevel doctree.Level

	// BoldOnlyLevel is used for weight-based headings when no size-based
	// heading exists in the document.
	BoldOnlyLevel doctree.Level

	// TitleSearchRatio is the fraction of the first page, from the top,
	// searched for title spans.
	TitleSearchRatio float64

	// MaxPages is the page limit enforced by parsers before analysis.
	MaxPages int

	// NoisePatterns drop dates, version strings and similar boilerplate.
	NoisePatterns []*regexp.Regexp

	// NumberedLevels lets a "1.2.3" style prefix decide the level.
	NumberedLevels bool

	// MergeLineGap joins adjacent candidates of one style whose vertical
	// distance is at most this many font sizes. 0 disables merging.
	MergeLineGap float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		GrowthThreshold:   1.05,
		BoldSizeTolerance: 0.5,
		MinLength:         3,
		MaxLength:         120,
		ProseMinWords:     10,
		MaxLevel:          doctree.H4,
		BoldOnlyLevel:     doctree.H4,
		TitleSearchRatio:  0.5,
		MaxPages:          50,
		NoisePatterns:     DefaultNoisePatterns(),
		MergeLineGap:      1.5,
	}
}

const months = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

// DefaultNoisePatterns returns the built-in date, version and boilerplate patterns.
func DefaultNoisePatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		// Numbers with separators: dates, page numbers, bare version numbers.
		regexp.MustCompile(`^[\d\s./:,\-–]+$`),
		regexp.MustCompile(`(?i)^(?:` + months + `)\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}$`),
		regexp.MustCompile(`(?i)^\d{1,2}(?:st|nd|rd|th)?\s+(?:` + months + `)\.?,?\s+\d{4}$`),
		regexp.MustCompile(`(?i)^(?:` + months + `)\.?\s+\d{4}$`),
		regexp.MustCompile(`(?i)^(?:version|ver\.|v)\s*\d+(?:\.\d+)*$`),
		regexp.MustCompile(`(?i)^(?:rev\.?|revision)\s*\d+(?:\.\d+)*[a-z]?$`),
		// Revision history rows: "0.1 18 JUNE 2013 Initial draft".
		regexp.MustCompile(`^\d+\.\d+\s+\d{1,2}\s+[A-Z]{3,9}\s+\d{4}\s+`),
		regexp.MustCompile(`(?i)^page\s+\d+(?:\s+of\s+\d+)?$`),
	}
}

// Validate rejects thresholds the analyzer cannot work with.
func (c Config) Validate() error {
	if c.GrowthThreshold < 1 {
		return fmt.Errorf("growth threshold must be >= 1, got %g", c.GrowthThreshold)
	}
	if c.BoldSizeTolerance < 0 {
		return fmt.Errorf("bold size tolerance must be >= 0, got %g", c.BoldSizeTolerance)
	}
	if c.MinLength < 0 || c.MaxLength < c.MinLength {
		return fmt.Errorf("invalid heading length bounds [%d, %d]", c.MinLength, c.MaxLength)
	}
	if c.MaxLevel < doctree.H1 || c.MaxLevel > doctree.MaxDepth {
		return fmt.Errorf("max level must be within H1..H4, got %d", int(c.MaxLevel))
	}
	if c.BoldOnlyLevel < doctree.H1 || c.BoldOnlyLevel > doctree.MaxDepth {
		return fmt.Errorf("bold-only level must be within H1..H4, got %d", int(c.BoldOnlyLevel))
	}
	if c.TitleSearchRatio <= 0 || c.TitleSearchRatio > 1 {
		return fmt.Errorf("title search ratio must be in (0, 1], got %g", c.TitleSearchRatio)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("max pages must be >= 0, got %d", c.MaxPages)
	}
	if c.MergeLineGap < 0 {
		return fmt.Errorf("merge line gap must be >= 0, got %g", c.MergeLineGap)
	}
	return nil
}
