/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import "fmt"

// verifyTolerance absorbs rounding in judge-reported scores before a
// mismatch is flagged.
const verifyTolerance = 0.15

// Mismatch records a disagreement between a judge-reported score and the
// value recomputed from the raw checks.
type Mismatch struct {
	// Field names the score that disagreed.
	Field string `json:"field"`
	// Reported is what the judge claimed.
	Reported float64 `json:"reported"`
	// Computed is the value derived from the check answers.
	Computed float64 `json:"computed"`
}

// String renders the mismatch for logs.
func (m Mismatch) String() string {
	return fmt.Sprintf("%s: judge said %.2f, checks sum to %.2f", m.Field, m.Reported, m.Computed)
}

// Verification pairs the recomputed scores with any mismatches found
// against the judge's own arithmetic. Mismatches are a data-quality
// signal, not a task failure; the recomputed scores are authoritative.
type Verification struct {
	Scores     *FuzzyQueryResult `json:"scores"`
	Mismatches []Mismatch        `json:"mismatches,omitempty"`
}

// VerifyFuzzyQuery recomputes the fuzzy-query scores from the raw checks
// and compares them with the judge-reported values.
func VerifyFuzzyQuery(answers *FuzzyQueryAnswers) *Verification {
	computed := ScoreFuzzyQuery(answers)
	v := &Verification{Scores: computed}

	v.check("relevance_format_score", answers.RelevanceFormatScore, computed.Relevance)
	v.check("serendipity_score", answers.SerendipityScore, computed.Serendipity)
	v.check("weighted_score", answers.WeightedScore, computed.Weighted)
	return v
}

func (v *Verification) check(field string, reported, computed float64) {
	diff := reported - computed
	if diff < 0 {
		diff = -diff
	}
	if diff > verifyTolerance {
		v.Mismatches = append(v.Mismatches, Mismatch{
			Field:    field,
			Reported: reported,
			Computed: computed,
		})
	}
}
