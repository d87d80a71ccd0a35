package structure

import (
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sizeCand(text string, size float64) Candidate {
	return Candidate{Text: text, Page: 1, Style: doctree.StyleKey{Size: size}, Origin: OriginSize}
}

func weightCand(text string) Candidate {
	return Candidate{Text: text, Page: 1, Style: doctree.StyleKey{Size: 12, Bold: true}, Origin: OriginWeight}
}

func levelsOf(hs []Heading) []doctree.Level {
	out := make([]doctree.Level, len(hs))
	for i, h := range hs {
		out[i] = h.Level
	}
	return out
}

func TestAssignLevels_DistinctSizesDescending(t *testing.T) {
	hs := AssignLevels([]Candidate{
		sizeCand("c", 14), sizeCand("a", 24), sizeCand("b", 18), sizeCand("a2", 24),
	}, DefaultConfig())
	assert.Equal(t, []doctree.Level{doctree.H3, doctree.H1, doctree.H2, doctree.H1}, levelsOf(hs))
}

func TestAssignLevels_OverflowSharesDeepestLevel(t *testing.T) {
	hs := AssignLevels([]Candidate{
		sizeCand("1", 30), sizeCand("2", 26), sizeCand("3", 22),
		sizeCand("4", 18), sizeCand("5", 16), sizeCand("6", 14),
	}, DefaultConfig())
	assert.Equal(t, []doctree.Level{
		doctree.H1, doctree.H2, doctree.H3, doctree.H4, doctree.H4, doctree.H4,
	}, levelsOf(hs))
}

func TestAssignLevels_WeightBelowDeepestSizeLevel(t *testing.T) {
	hs := AssignLevels([]Candidate{sizeCand("big", 20), weightCand("bold")}, DefaultConfig())
	assert.Equal(t, []doctree.Level{doctree.H1, doctree.H2}, levelsOf(hs))

	hs = AssignLevels([]Candidate{
		sizeCand("1", 30), sizeCand("2", 26), sizeCand("3", 22), sizeCand("4", 18), weightCand("bold"),
	}, DefaultConfig())
	assert.Equal(t, doctree.H4, hs[4].Level, "capped at the deepest level")
}

func TestAssignLevels_WeightOnly(t *testing.T) {
	hs := AssignLevels([]Candidate{weightCand("one"), weightCand("two")}, DefaultConfig())
	assert.Equal(t, []doctree.Level{doctree.H4, doctree.H4}, levelsOf(hs))

	cfg := DefaultConfig()
	cfg.BoldOnlyLevel = doctree.H2
	hs = AssignLevels([]Candidate{weightCand("one")}, cfg)
	assert.Equal(t, doctree.H2, hs[0].Level)
}

func TestAssignLevels_MaxLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLevel = doctree.H2
	hs := AssignLevels([]Candidate{sizeCand("a", 24), sizeCand("b", 18), sizeCand("c", 14), weightCand("d")}, cfg)
	assert.Equal(t, []doctree.Level{doctree.H1, doctree.H2, doctree.H2, doctree.H2}, levelsOf(hs))
}

func TestAssignLevels_Monotonic(t *testing.T) {
	sizes := []float64{13, 31, 17.5, 22, 13, 40, 17.5, 15, 28}
	var cands []Candidate
	for _, s := range sizes {
		cands = append(cands, sizeCand("h", s))
	}
	hs := AssignLevels(cands, DefaultConfig())
	require.Len(t, hs, len(sizes))
	for i := range sizes {
		for j := range sizes {
			if sizes[i] > sizes[j] {
				assert.LessOrEqual(t, hs[i].Level, hs[j].Level, "size %v vs %v", sizes[i], sizes[j])
			}
		}
	}
}

func TestAssignLevels_Numbered(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumberedLevels = true
	hs := AssignLevels([]Candidate{
		sizeCand("1. Introduction", 14),
		sizeCand("2.1 Scope", 24),
		sizeCand("3.1.2 Details", 24),
		sizeCand("Appendix", 24),
	}, cfg)
	assert.Equal(t, []doctree.Level{doctree.H1, doctree.H2, doctree.H3, doctree.H1}, levelsOf(hs))
}

func TestNumberedLevel(t *testing.T) {
	assert.Equal(t, doctree.H1, numberedLevel("1. Intro"))
	assert.Equal(t, doctree.H2, numberedLevel("1.2 Scope"))
	assert.Equal(t, doctree.H2, numberedLevel("1.2. Scope"))
	assert.Equal(t, doctree.H3, numberedLevel("1.2.3 Deep"))
	assert.Equal(t, doctree.H4, numberedLevel("1.2.3.4 Deeper"))
	assert.Equal(t, doctree.LevelNone, numberedLevel("Intro"))
	assert.Equal(t, doctree.LevelNone, numberedLevel("2023 Plan"))
}
