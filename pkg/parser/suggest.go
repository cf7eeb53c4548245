package parser

import (
	"sort"
	"strings"

	"github.com/subculture-collective/clipper-sub005/pkg/token"
)

// suggestionThreshold is the minimum similarity score for a filter name
// to be offered as a "did you mean" candidate.
const suggestionThreshold = 0.5

// prefixScore is the fixed score for a prefix relationship between the
// input and a candidate. It outranks most overlap scores without claiming
// certainty.
const prefixScore = 0.8

// SuggestFilterNames returns the valid filter names similar to input,
// best match first. Ties keep the canonical filter order.
func SuggestFilterNames(input string) []string {
	input = strings.ToLower(input)
	if input == "" {
		return nil
	}

	type scored struct {
		name  string
		score float64
	}
	var matches []scored
	for _, name := range token.FilterNameStrings() {
		score := similarity(input, name)
		if score >= suggestionThreshold {
			matches = append(matches, scored{name: name, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}

// topSuggestions caps SuggestFilterNames at n entries.
func topSuggestions(input string, n int) []string {
	names := SuggestFilterNames(input)
	if len(names) > n {
		names = names[:n]
	}
	return names
}

// similarity scores how close input is to a candidate filter name. A
// prefix relationship in either direction scores a fixed 0.8; anything
// else scores by character-set overlap.
func similarity(input, candidate string) float64 {
	if strings.HasPrefix(candidate, input) || strings.HasPrefix(input, candidate) {
		return prefixScore
	}
	return charOverlap(input, candidate)
}

// charOverlap computes the Jaccard index of the two strings' character
// sets: the size of the intersection over the size of the union.
func charOverlap(a, b string) float64 {
	setA := runeSet(a)
	setB := runeSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for r := range setA {
		if setB[r] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}
