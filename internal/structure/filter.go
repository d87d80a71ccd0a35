package structure

import (
	"strings"
	"unicode/utf8"
)

// IsNoise reports whether text looks like something other than a heading:
// too short, too long, a sentence of prose, or a date/version string.
func IsNoise(text string, cfg Config) bool {
	t := strings.TrimSpace(text)
	n := utf8.RuneCountInString(t)
	if n < cfg.MinLength || n > cfg.MaxLength {
		return true
	}
	if strings.HasSuffix(t, ".") && len(strings.Fields(t)) > cfg.ProseMinWords {
		return true
	}
	for _, re := range cfg.NoisePatterns {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}

// Filter returns the candidates that are not noise. It looks at each
// candidate on its own, so Filter(Filter(x)) == Filter(x).
func Filter(cands []Candidate, cfg Config) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if IsNoise(c.Text, cfg) {
			continue
		}
		out = append(out, c)
	}
	return out
}
