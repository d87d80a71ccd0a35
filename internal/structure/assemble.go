package structure

import (
	"sort"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Assemble orders headings by page and vertical position and drops an
// entry that repeats the previous one's level and text on the same page.
func Assemble(headings []Heading) doctree.Outline {
	sorted := make([]Heading, len(headings))
	copy(sorted, headings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Page != sorted[j].Page {
			return sorted[i].Page < sorted[j].Page
		}
		return sorted[i].Y < sorted[j].Y
	})

	outline := make(doctree.Outline, 0, len(sorted))
	for _, h := range sorted {
		if n := len(outline); n > 0 {
			last := outline[n-1]
			if last.Page == h.Page && last.Level == h.Level && last.Text == h.Text {
				continue
			}
		}
		outline = append(outline, doctree.OutlineEntry{Level: h.Level, Text: h.Text, Page: h.Page})
	}
	return outline
}
