// Package column_matcher locates spreadsheet columns by approximate header
// similarity. Headers are compared as multisets of overlapping k-length
// shingles scored with Jaccard similarity, so the same column is found across
// uploads with inconsistent casing or formatting.
//
// Key functions:
//   - Shingle: builds the shingle multiset of a string
//   - Similarity: multiset Jaccard similarity of two shingle sets
//   - FindBestColumn: threshold-gated best header match
package column_matcher

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultThreshold is the minimum score for a confident match.
	DefaultThreshold = 0.9
	// MinShingleSize is the smallest shingle length used for matching.
	MinShingleSize = 3
)

// Multiset maps a shingle to its number of occurrences.
type Multiset map[string]int

// Len returns the number of shingles counted with multiplicity.
func (m Multiset) Len() int {
	n := 0
	for _, c := range m {
		n += c
	}
	return n
}

// Shingle returns every length-k substring of the lowercased s, keeping
// duplicates. Strings shorter than k produce an empty multiset.
// Length is measured in runes.
func Shingle(s string, k int) Multiset {
	set := Multiset{}
	runes := []rune(strings.ToLower(s))
	if k <= 0 || len(runes) < k {
		return set
	}

	for i := 0; i+k <= len(runes); i++ {
		set[string(runes[i:i+k])]++
	}

	return set
}

// Similarity returns |a ∩ b| / |a ∪ b| where intersection and union take the
// per-shingle minimum and maximum counts. Two empty multisets score 0.
func Similarity(a, b Multiset) float64 {
	var intersection, union int

	for s, ca := range a {
		cb := b[s]
		intersection += min(ca, cb)
		union += max(ca, cb)
	}
	for s, cb := range b {
		if _, ok := a[s]; !ok {
			union += cb
		}
	}

	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// Match is the outcome of a header lookup. Index is -1 when nothing cleared
// the threshold; Score then carries the best score that was seen.
type Match struct {
	Index  int     `json:"index"`
	Header string  `json:"header,omitempty"`
	Score  float64 `json:"score"`
}

// Found reports whether the match points at a column.
func (m Match) Found() bool {
	return m.Index >= 0
}

// FindBestColumn scores every header against target using shingles of length
// max(len(target), 3) and returns the best one. Ties go to the earliest header.
// When the best score is strictly below threshold the result is a no-match
// (Index -1, ok false). Call with threshold 0 to get the nearest header as a
// suggestion.
func FindBestColumn(target string, headers []string, threshold float64) (Match, bool) {
	return FindBestColumnK(target, headers, 0, threshold)
}

// FindBestColumnK is FindBestColumn with an explicit shingle length. k <= 0
// selects the default length; other values are raised to MinShingleSize.
func FindBestColumnK(target string, headers []string, k int, threshold float64) (Match, bool) {
	if k <= 0 {
		k = utf8.RuneCountInString(target)
	}
	k = max(k, MinShingleSize)

	want := Shingle(target, k)

	best := Match{Index: -1}
	for i, h := range headers {
		score := Similarity(want, Shingle(h, k))
		if best.Index < 0 || score > best.Score {
			best = Match{Index: i, Header: h, Score: score}
		}
	}

	if best.Index < 0 || best.Score < threshold {
		return Match{Index: -1, Score: best.Score}, false
	}

	return best, true
}
