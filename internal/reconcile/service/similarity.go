package service

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var reNonWord = regexp.MustCompile(`[^\w\s]+`)

// minTokenLen filters units and noise words ("ml", "g", "of") out of titles.
const minTokenLen = 3

// tokenSet lower-cases, strips punctuation and splits a title into its set
// of tokens of at least minTokenLen runes.
func tokenSet(s string) map[string]struct{} {
	s = reNonWord.ReplaceAllString(strings.ToLower(s), "")
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		if utf8.RuneCountInString(tok) >= minTokenLen {
			out[tok] = struct{}{}
		}
	}
	return out
}

// Similarity is the Jaccard index over the two filtered token sets, in [0,1].
// Two titles that both reduce to nothing score 1.0 (trivially equal, treat
// with suspicion); one empty side scores 0.
func Similarity(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}
