package structure

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNoise(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		text  string
		noise bool
	}{
		{"Introduction", false},
		{"2.1 Background and Motivation", false},
		{"Review", false},
		{"Revision History", false},
		{"A", true},
		{"ab", true},
		{"  x  ", true},
		{"abc", false},
		{strings.Repeat("word ", 30), true},
		{"This sentence is long enough to read like a paragraph of prose text.", true},
		{"Short sentence ends here.", false},
		{"2023-01-15", true},
		{"15/01/2023", true},
		{"42", true},
		{"1.2.3", true},
		{"March 21, 2003", true},
		{"21 March 2003", true},
		{"Sept. 2024", true},
		{"Version 1.0", true},
		{"v2.3", true},
		{"Rev. 4", true},
		{"0.1 18 JUNE 2013 Initial version of the syllabus", true},
		{"Page 3 of 12", true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.noise, IsNoise(tt.text, cfg))
		})
	}
}

func TestIsNoise_CustomPatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoisePatterns = []*regexp.Regexp{regexp.MustCompile(`(?i)^confidential$`)}
	assert.True(t, IsNoise("CONFIDENTIAL", cfg))
	assert.False(t, IsNoise("2023-01-15", cfg), "built-ins replaced")
}

func TestFilter_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	var cands []Candidate
	for _, text := range []string{
		"Overview", "2023-01-01", "x", "Goals and Scope",
		strings.Repeat("long ", 40), "Version 2", "Appendix A",
		"It was the best of times, it was the worst of times, it was the age.",
	} {
		cands = append(cands, Candidate{Text: text, Origin: OriginSize})
	}

	once := Filter(cands, cfg)
	twice := Filter(once, cfg)
	assert.Equal(t, once, twice)
	assert.Len(t, once, 3)
}
