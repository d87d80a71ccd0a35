package structure

import "github.com/dgallion1/docoutline/internal/doctree"

// StyleCount is the accumulated weight of one style.
type StyleCount struct {
	Key         doctree.StyleKey
	Chars       int
	Occurrences int
}

// StyleStats maps each style to its accumulated counts. Styles keep the
// order in which they were first seen so that ties resolve the same way
// on every run.
type StyleStats struct {
	index  map[doctree.StyleKey]int
	counts []StyleCount
}

// AggregateStyles makes a single pass over spans. Every span counts,
// including whitespace-only runs.
func AggregateStyles(spans []doctree.Span) *StyleStats {
	s := &StyleStats{index: make(map[doctree.StyleKey]int)}
	for _, sp := range spans {
		s.add(sp)
	}
	return s
}

func (s *StyleStats) add(sp doctree.Span) {
	key := sp.Key()
	i, ok := s.index[key]
	if !ok {
		i = len(s.counts)
		s.index[key] = i
		s.counts = append(s.counts, StyleCount{Key: key})
	}
	s.counts[i].Chars += sp.Chars()
	s.counts[i].Occurrences++
}

// Len returns the number of distinct styles.
func (s *StyleStats) Len() int {
	return len(s.counts)
}

// Get returns the counts for key.
func (s *StyleStats) Get(key doctree.StyleKey) (StyleCount, bool) {
	i, ok := s.index[key]
	if !ok {
		return StyleCount{}, false
	}
	return s.counts[i], true
}

// Counts returns a copy of all counts in first-seen order.
func (s *StyleStats) Counts() []StyleCount {
	out := make([]StyleCount, len(s.counts))
	copy(out, s.counts)
	return out
}

// BodyStyle is the baseline every other style is compared against.
// Valid is false when the document has no text at all.
type BodyStyle struct {
	doctree.StyleKey
	Valid bool
}

// SelectBodyStyle picks the style carrying the most characters. Ties go to
// the style seen more often, then to the one seen first.
func SelectBodyStyle(stats *StyleStats) BodyStyle {
	if stats == nil || stats.Len() == 0 {
		return BodyStyle{}
	}
	best := stats.counts[0]
	for _, c := range stats.counts[1:] {
		if c.Chars > best.Chars || (c.Chars == best.Chars && c.Occurrences > best.Occurrences) {
			best = c
		}
	}
	return BodyStyle{StyleKey: best.Key, Valid: true}
}
