/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric_test

import (
	"math"
	"testing"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/rubric"
)

// fullAnswers returns a fuzzy-query answer set with every relevance check
// passed and every serendipity check passed at the given novelty tier.
func fullAnswers(tier int) *rubric.FuzzyQueryAnswers {
	rel := make(map[string]rubric.CheckAnswer)
	for _, c := range rubric.RelevanceCriteria {
		rel[c.ID] = rubric.CheckAnswer{Passed: true, Points: c.Weight}
	}
	ser := make(map[string]rubric.CheckAnswer)
	for _, c := range rubric.SerendipityCriteria {
		if c.ID == "check_1_novelty_tier" {
			ser[c.ID] = rubric.CheckAnswer{Tier: tier}
		} else {
			ser[c.ID] = rubric.CheckAnswer{Passed: true, Points: 1}
		}
	}
	return &rubric.FuzzyQueryAnswers{RelevanceChecks: rel, SerendipityChecks: ser}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreFuzzyQueryPerfect(t *testing.T) {
	t.Parallel()
	res := rubric.ScoreFuzzyQuery(fullAnswers(6))
	if !almostEqual(res.Relevance, 10) {
		t.Errorf("Relevance = %v, want 10", res.Relevance)
	}
	if !almostEqual(res.Serendipity, 10) {
		t.Errorf("Serendipity = %v, want 10", res.Serendipity)
	}
	if !almostEqual(res.Weighted, 10) {
		t.Errorf("Weighted = %v, want 10", res.Weighted)
	}
	if res.GateViolated {
		t.Error("unexpected gate violation")
	}
}

func TestScoreFuzzyQueryWeightedFormula(t *testing.T) {
	t.Parallel()
	answers := fullAnswers(5)
	// Fail checks worth 4 raw points: relevance = 16/20*10 = 8.0.
	answers.RelevanceChecks["check_2_descriptive_traits"] = rubric.CheckAnswer{Passed: false}
	answers.RelevanceChecks["check_3_category_dietary"] = rubric.CheckAnswer{Passed: false}
	// Tier 5 (4 pts), drop all five binary serendipity checks: 4.0.
	for _, c := range rubric.SerendipityCriteria {
		if c.ID != "check_1_novelty_tier" {
			answers.SerendipityChecks[c.ID] = rubric.CheckAnswer{Passed: false}
		}
	}

	res := rubric.ScoreFuzzyQuery(answers)
	if !almostEqual(res.Relevance, 8.0) {
		t.Errorf("Relevance = %v, want 8.0", res.Relevance)
	}
	if !almostEqual(res.Serendipity, 4.0) {
		t.Errorf("Serendipity = %v, want 4.0", res.Serendipity)
	}
	// 8.0*0.70 + 4.0*0.30 = 6.8
	if !almostEqual(res.Weighted, 6.8) {
		t.Errorf("Weighted = %v, want 6.8", res.Weighted)
	}
}

func TestScoreFuzzyQueryGateZeroesRelevanceOnly(t *testing.T) {
	t.Parallel()
	answers := fullAnswers(6)
	answers.RelevanceChecks["check_6_profile_dietary_gate"] = rubric.CheckAnswer{
		Passed:        false,
		GateViolation: true,
	}

	res := rubric.ScoreFuzzyQuery(answers)
	if !res.GateViolated {
		t.Fatal("expected gate violation")
	}
	if res.Relevance != 0 {
		t.Errorf("Relevance = %v, want 0 under gate violation", res.Relevance)
	}
	if !almostEqual(res.Serendipity, 10) {
		t.Errorf("Serendipity = %v, want 10 (unaffected by gate)", res.Serendipity)
	}
	// Weighted capped by serendipity's 30% share alone.
	if !almostEqual(res.Weighted, 3.0) {
		t.Errorf("Weighted = %v, want 3.0", res.Weighted)
	}
}

func TestScoreFuzzyQueryNoveltyTiers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		tier int
		want float64
	}{
		{tier: 1, want: 0},
		{tier: 2, want: 1},
		{tier: 3, want: 2},
		{tier: 4, want: 3},
		{tier: 5, want: 4},
		{tier: 6, want: 5},
		{tier: 0, want: 0},
		{tier: 9, want: 5},
	}
	for _, tt := range tests {
		answers := fullAnswers(tt.tier)
		res := rubric.ScoreFuzzyQuery(answers)
		// Five binary checks contribute 5 on top of the tier points.
		if !almostEqual(res.Serendipity, tt.want+5) {
			t.Errorf("tier %d: Serendipity = %v, want %v", tt.tier, res.Serendipity, tt.want+5)
		}
	}
}

func TestVerifyFuzzyQueryAgreement(t *testing.T) {
	t.Parallel()
	answers := fullAnswers(6)
	answers.RelevanceFormatScore = 10
	answers.SerendipityScore = 10
	answers.WeightedScore = 10

	v := rubric.VerifyFuzzyQuery(answers)
	if len(v.Mismatches) != 0 {
		t.Errorf("unexpected mismatches: %v", v.Mismatches)
	}
}

func TestVerifyFuzzyQueryWithinTolerance(t *testing.T) {
	t.Parallel()
	answers := fullAnswers(6)
	answers.RelevanceFormatScore = 9.9
	answers.SerendipityScore = 10.1
	answers.WeightedScore = 10

	v := rubric.VerifyFuzzyQuery(answers)
	if len(v.Mismatches) != 0 {
		t.Errorf("differences within tolerance flagged: %v", v.Mismatches)
	}
}

func TestVerifyFuzzyQueryMismatch(t *testing.T) {
	t.Parallel()
	answers := fullAnswers(6)
	// Judge claims a much lower weighted score than its own checks imply.
	answers.RelevanceFormatScore = 10
	answers.SerendipityScore = 10
	answers.WeightedScore = 7.15

	v := rubric.VerifyFuzzyQuery(answers)
	if len(v.Mismatches) != 1 {
		t.Fatalf("Mismatches = %v, want exactly one", v.Mismatches)
	}
	m := v.Mismatches[0]
	if m.Field != "weighted_score" || !almostEqual(m.Computed, 10) || !almostEqual(m.Reported, 7.15) {
		t.Errorf("unexpected mismatch %+v", m)
	}
	// Recomputed scores are authoritative regardless of the claim.
	if !almostEqual(v.Scores.Weighted, 10) {
		t.Errorf("Scores.Weighted = %v, want 10", v.Scores.Weighted)
	}
}
