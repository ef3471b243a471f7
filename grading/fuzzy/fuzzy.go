/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package fuzzy

import (
	"sort"
	"strings"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/normalize"
)

// DefaultThreshold is the minimum query-to-recommendation similarity a pair
// must reach to be graded by the judge.
const DefaultThreshold = 0.7

// maxTopItems caps how many candidate item names are compared against the
// recommendation; rows can carry hundreds of menu items.
const maxTopItems = 20

// Scores holds the similarity ratios computed for one task. All values are
// in [0, 1].
type Scores struct {
	// QueryToRec is the similarity between the query and the recommendation.
	QueryToRec float64 `json:"query_to_rec"`

	// RecToTopItem is the similarity between the recommendation and the
	// best-matching candidate item name.
	RecToTopItem float64 `json:"rec_to_top_item"`

	// MaxItemSimilarity mirrors RecToTopItem in the output record shape.
	MaxItemSimilarity float64 `json:"max_item_similarity"`

	// HasTopItems distinguishes "no items to compare" (false, scores 0.0)
	// from "compared and found nothing similar" (true, scores 0.0).
	HasTopItems bool `json:"has_top_items"`

	// Passed is true when QueryToRec meets the matcher threshold.
	Passed bool `json:"passed"`
}

// Matcher scores query/recommendation pairs against a pass threshold.
type Matcher struct {
	threshold float64
}

// NewMatcher returns a matcher with the given pass threshold. Thresholds
// outside [0, 1] fall back to DefaultThreshold.
func NewMatcher(threshold float64) *Matcher {
	if threshold < 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold}
}

// Threshold returns the configured pass threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Match computes the fuzzy scores for a query/recommendation pair. topItems
// is the list of candidate item names from the store; only the first 20 are
// considered.
func (m *Matcher) Match(query, recommendation string, topItems []string) Scores {
	nq := normalize.Normalize(query)
	nr := normalize.Normalize(recommendation)

	s := Scores{
		QueryToRec:  TokenSortRatio(nq, nr),
		HasTopItems: len(topItems) > 0,
	}

	items := topItems
	if len(items) > maxTopItems {
		items = items[:maxTopItems]
	}
	for _, item := range items {
		if sim := TokenSortRatio(nr, normalize.Normalize(item)); sim > s.RecToTopItem {
			s.RecToTopItem = sim
		}
	}
	s.MaxItemSimilarity = s.RecToTopItem
	s.Passed = s.QueryToRec >= m.threshold
	return s
}

// TokenSortRatio computes an order-insensitive similarity ratio between two
// already-normalized strings: both sides are tokenized, the tokens sorted
// and rejoined, and the rejoined strings compared with an edit-based ratio.
// Either side being empty yields 0.0.
func TokenSortRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	return ratio(sortTokens(a), sortTokens(b))
}

// sortTokens splits on whitespace, sorts the tokens, and rejoins them.
func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// ratio is the classic sequence-similarity ratio: edit distance with
// substitutions costing 2, scaled so identical strings score 1.0.
func ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return float64(total-editDistance(ra, rb)) / float64(total)
}

// editDistance computes Levenshtein distance where a substitution counts as
// a delete plus an insert. Single-row dynamic programming.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
			} else {
				sub := prev[j-1] + 2
				del := prev[j] + 1
				ins := curr[j-1] + 1
				curr[j] = min(sub, del, ins)
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
