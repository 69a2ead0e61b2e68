// Package match scores how well a claimed value is supported by its quoted
// source text. Scores are deterministic token-level similarity in [0,100];
// no network or document access happens here.
package match

import (
	"strings"
	"unicode"

	"github.com/ppiankov/credence/internal/model"
)

// Score returns the 0-100 fuzzy similarity between a claimed value and a
// quoted span. An exact (normalized) containment of the claim in the quote
// scores 100; zero shared tokens score 0.
func Score(value model.Value, quote string) int {
	claim := normalize(value.String())
	q := normalize(quote)
	if claim == "" || q == "" {
		return 0
	}

	// Full containment of the normalized claim is maximal support
	if strings.Contains(q, claim) {
		return 100
	}

	claimTokens := tokenize(claim)
	if len(claimTokens) == 0 {
		return 0
	}

	quoteTokens := make(map[string]bool)
	for _, t := range tokenize(q) {
		quoteTokens[t] = true
	}

	matched := 0
	for _, t := range claimTokens {
		if quoteTokens[t] {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}

	return matched * 100 / len(claimTokens)
}

// Best returns the highest match score across the fact's attached evidence.
// A fact with no evidence scores 0.
func Best(f model.Fact) int {
	best := 0
	for _, ev := range f.Evidence {
		if ev.MatchScore > best {
			best = ev.MatchScore
		}
	}
	return best
}

// Rescore recomputes the match score of every evidence entry against the
// fact's current value and returns the best score. Called at ingest and
// whenever a correction changes the value or attaches new evidence.
func Rescore(f *model.Fact) int {
	best := 0
	for i := range f.Evidence {
		f.Evidence[i].MatchScore = Score(f.Value, f.Evidence[i].Quote)
		if f.Evidence[i].MatchScore > best {
			best = f.Evidence[i].MatchScore
		}
	}
	return best
}

// normalize lowercases and strips punctuation so that "vSphere 6.7" matches
// "vsphere 6.7" regardless of casing and separators
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// tokenize splits normalized text into tokens
func tokenize(s string) []string {
	return strings.Fields(s)
}
