/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import "fmt"

// Result is the scored outcome of one task under a structured-query
// criteria table.
type Result struct {
	// EarnedPoints is the weighted sum of Yes answers.
	EarnedPoints float64 `json:"earned_points"`

	// ApplicablePoints is the weighted sum of non-NA answers.
	ApplicablePoints float64 `json:"applicable_points"`

	// ScorePct is EarnedPoints/ApplicablePoints*100, or 0 when nothing
	// applied.
	ScorePct float64 `json:"score_pct"`

	// Scorable is false when every criterion was answered NA.
	Scorable bool `json:"scorable"`

	// CriticalFailures lists the reasons for critical criteria answered No.
	CriticalFailures []string `json:"critical_failures,omitempty"`

	// IntentMatchScore is the earned percentage over the intent-match
	// criteria alone (Q1+Q2); zero for tables without intent criteria.
	IntentMatchScore float64 `json:"intent_match_score"`

	// IsRelevant is true when any intent-match weight was earned.
	IsRelevant bool `json:"is_relevant"`

	// Answers preserves the scored answer set for provenance.
	Answers AnswerSet `json:"answers"`
}

// Score applies a criteria table to a judge answer set. NA answers are
// excluded from both the numerator and the denominator; critical criteria
// answered No are collected without affecting the score. The answer set
// must contain exactly the table's criterion IDs.
func Score(criteria []Criterion, answers AnswerSet) (*Result, error) {
	if err := ValidateAnswerSet(criteria, answers); err != nil {
		return nil, err
	}

	res := &Result{Answers: answers}
	var intentEarned, intentTotal float64

	for _, c := range criteria {
		answer := answers[c.ID]
		if answer == NA {
			continue
		}
		res.ApplicablePoints += c.Weight
		if answer == Yes {
			res.EarnedPoints += c.Weight
		} else if c.Critical {
			reason := criticalReasons[c.ID]
			if reason == "" {
				reason = c.ID
			}
			res.CriticalFailures = append(res.CriticalFailures, reason)
		}

		if _, ok := intentMatchIDs[c.ID]; ok {
			intentTotal += c.Weight
			if answer == Yes {
				intentEarned += c.Weight
			}
		}
	}

	if res.ApplicablePoints > 0 {
		res.Scorable = true
		res.ScorePct = res.EarnedPoints / res.ApplicablePoints * 100
	}
	if intentTotal > 0 {
		res.IntentMatchScore = intentEarned / intentTotal * 100
		res.IsRelevant = res.IntentMatchScore > 0
	}
	return res, nil
}

// ValidateAnswerSet checks that the answer set covers every criterion in
// the table and contains no unknown IDs. Judges occasionally drop or
// invent keys; that is an error status for the task, not a crash.
func ValidateAnswerSet(criteria []Criterion, answers AnswerSet) error {
	known := make(map[string]struct{}, len(criteria))
	for _, c := range criteria {
		if _, ok := answers[c.ID]; !ok {
			return fmt.Errorf("answer set missing criterion %q", c.ID)
		}
		known[c.ID] = struct{}{}
	}
	for id := range answers {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("answer set contains unknown criterion %q", id)
		}
	}
	return nil
}
