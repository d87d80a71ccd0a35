package structure

import (
	"regexp"
	"sort"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Heading is a candidate with its level decided.
type Heading struct {
	Level doctree.Level
	Text  string
	Page  int
	Y     float64
}

var numberingPatterns = []struct {
	re    *regexp.Regexp
	level doctree.Level
}{
	{regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+\.?\s`), doctree.H4},
	{regexp.MustCompile(`^\d+\.\d+\.\d+\.?\s`), doctree.H3},
	{regexp.MustCompile(`^\d+\.\d+\.?\s`), doctree.H2},
	{regexp.MustCompile(`^\d+\.\s`), doctree.H1},
}

// numberedLevel returns the depth implied by a "1.2.3" prefix, or LevelNone.
func numberedLevel(text string) doctree.Level {
	for _, p := range numberingPatterns {
		if p.re.MatchString(text) {
			return p.level
		}
	}
	return doctree.LevelNone
}

// AssignLevels ranks the distinct sizes of size-based candidates, largest
// first, as H1, H2, ... with everything past cfg.MaxLevel sharing it.
// Weight-based candidates sit one level below the deepest size level in
// use, or at cfg.BoldOnlyLevel when there is none.
func AssignLevels(cands []Candidate, cfg Config) []Heading {
	maxLevel := cfg.MaxLevel
	if maxLevel < doctree.H1 || maxLevel > doctree.MaxDepth {
		maxLevel = doctree.MaxDepth
	}

	var sizes []float64
	seen := make(map[float64]bool)
	for _, c := range cands {
		if c.Origin == OriginSize && !seen[c.Style.Size] {
			seen[c.Style.Size] = true
			sizes = append(sizes, c.Style.Size)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	bySize := make(map[float64]doctree.Level, len(sizes))
	deepest := doctree.LevelNone
	for i, s := range sizes {
		lvl := min(doctree.Level(i+1), maxLevel)
		bySize[s] = lvl
		deepest = max(deepest, lvl)
	}

	weightLevel := min(cfg.BoldOnlyLevel, maxLevel)
	if deepest != doctree.LevelNone {
		weightLevel = min(deepest+1, maxLevel)
	}

	out := make([]Heading, 0, len(cands))
	for _, c := range cands {
		lvl := weightLevel
		if c.Origin == OriginSize {
			lvl = bySize[c.Style.Size]
		}
		if cfg.NumberedLevels {
			if n := numberedLevel(c.Text); n != doctree.LevelNone {
				lvl = min(n, maxLevel)
			}
		}
		out = append(out, Heading{Level: lvl, Text: c.Text, Page: c.Page, Y: c.Y})
	}
	return out
}
