/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric_test

import (
	"strings"
	"testing"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/rubric"
)

// allAnswers builds an answer set covering the given criteria with the
// same answer everywhere, then applies overrides.
func allAnswers(criteria []rubric.Criterion, base rubric.Answer, overrides map[string]rubric.Answer) rubric.AnswerSet {
	answers := make(rubric.AnswerSet, len(criteria))
	for _, c := range criteria {
		answers[c.ID] = base
	}
	for id, a := range overrides {
		answers[id] = a
	}
	return answers
}

func TestScoreIntentAllYes(t *testing.T) {
	t.Parallel()
	criteria := rubric.IntentCriteriaFor(rubric.IntentGeneric)
	res, err := rubric.Score(criteria, allAnswers(criteria, rubric.Yes, nil))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.ScorePct != 100 {
		t.Errorf("ScorePct = %v, want 100", res.ScorePct)
	}
	// q1..q9 with default q8 weight: 3+2+1+1+1+1+2+2+2 = 15
	if res.ApplicablePoints != 15 {
		t.Errorf("ApplicablePoints = %v, want 15", res.ApplicablePoints)
	}
	if !res.Scorable || !res.IsRelevant {
		t.Errorf("expected scorable and relevant, got %+v", res)
	}
}

func TestScoreNAExclusion(t *testing.T) {
	t.Parallel()
	criteria := rubric.IntentCriteriaFor(rubric.IntentGeneric)

	base, err := rubric.Score(criteria, allAnswers(criteria, rubric.Yes, map[string]rubric.Answer{
		"q9": rubric.No,
	}))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	// Turning q3 from Yes to NA must drop its weight from both totals and
	// leave every other contribution alone.
	withNA, err := rubric.Score(criteria, allAnswers(criteria, rubric.Yes, map[string]rubric.Answer{
		"q9": rubric.No,
		"q3": rubric.NA,
	}))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	if withNA.ApplicablePoints != base.ApplicablePoints-1 {
		t.Errorf("ApplicablePoints = %v, want %v", withNA.ApplicablePoints, base.ApplicablePoints-1)
	}
	if withNA.EarnedPoints != base.EarnedPoints-1 {
		t.Errorf("EarnedPoints = %v, want %v", withNA.EarnedPoints, base.EarnedPoints-1)
	}
}

func TestScoreAllNA(t *testing.T) {
	t.Parallel()
	criteria := rubric.IntentCriteriaFor(rubric.IntentGeneric)
	res, err := rubric.Score(criteria, allAnswers(criteria, rubric.NA, nil))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.Scorable {
		t.Error("all-NA answer set must not be scorable")
	}
	if res.ScorePct != 0 {
		t.Errorf("ScorePct = %v, want 0 for all-NA", res.ScorePct)
	}
}

func TestScoreIntentMatch(t *testing.T) {
	t.Parallel()
	criteria := rubric.IntentCriteriaFor(rubric.IntentGeneric)

	// q1 yes, q2 no: intent match = 3/5.
	res, err := rubric.Score(criteria, allAnswers(criteria, rubric.No, map[string]rubric.Answer{
		"q1": rubric.Yes,
	}))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.IntentMatchScore != 60 {
		t.Errorf("IntentMatchScore = %v, want 60", res.IntentMatchScore)
	}
	if !res.IsRelevant {
		t.Error("expected IsRelevant=true with partial intent match")
	}

	// Both intent criteria answered No: irrelevant.
	res, err = rubric.Score(criteria, allAnswers(criteria, rubric.Yes, map[string]rubric.Answer{
		"q1": rubric.No,
		"q2": rubric.No,
	}))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.IsRelevant {
		t.Error("expected IsRelevant=false with no intent match")
	}
}

func TestScoreQ8WeightByIntent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		category rubric.IntentCategory
		want     float64
	}{
		{rubric.IntentComfort, 3},
		{rubric.IntentFlavor, 2},
		{rubric.IntentExploration, 1},
		{rubric.IntentGroup, 1},
		{rubric.IntentCrowdPleaser, 1},
		{rubric.IntentCategory("something unknown"), 2},
	}
	for _, tt := range tests {
		if got := tt.category.Q8Weight(); got != tt.want {
			t.Errorf("Q8Weight(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}

func TestScoreCriticalNonGating(t *testing.T) {
	t.Parallel()
	// C17 answered No: the score stays non-zero and the failure is listed.
	res, err := rubric.Score(rubric.StoreCriteria, allAnswers(rubric.StoreCriteria, rubric.Yes, map[string]rubric.Answer{
		"c17": rubric.No,
	}))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.ScorePct == 0 {
		t.Error("critical failure must not zero the score")
	}
	if len(res.CriticalFailures) != 1 || !strings.Contains(res.CriticalFailures[0], "closed") {
		t.Errorf("CriticalFailures = %v, want single store-closed entry", res.CriticalFailures)
	}

	// All three critical checks failing are all reported.
	res, err = rubric.Score(rubric.StoreCriteria, allAnswers(rubric.StoreCriteria, rubric.Yes, map[string]rubric.Answer{
		"c17": rubric.No,
		"c18": rubric.No,
		"c19": rubric.No,
	}))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(res.CriticalFailures) != 3 {
		t.Errorf("CriticalFailures = %v, want 3 entries", res.CriticalFailures)
	}
}

func TestScoreStoreCriteriaWeights(t *testing.T) {
	t.Parallel()
	res, err := rubric.Score(rubric.StoreCriteria, allAnswers(rubric.StoreCriteria, rubric.Yes, nil))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	// 3+2+2+3+3+2+2+1+1+2+3+2+2+2+2+2+3+2+3 = 42
	if res.ApplicablePoints != 42 {
		t.Errorf("ApplicablePoints = %v, want 42", res.ApplicablePoints)
	}
}

func TestValidateAnswerSet(t *testing.T) {
	t.Parallel()
	criteria := rubric.IntentCriteriaFor(rubric.IntentGeneric)

	missing := allAnswers(criteria, rubric.Yes, nil)
	delete(missing, "q5")
	if _, err := rubric.Score(criteria, missing); err == nil {
		t.Error("expected error for missing criterion")
	}

	extra := allAnswers(criteria, rubric.Yes, nil)
	extra["q99"] = rubric.Yes
	if _, err := rubric.Score(criteria, extra); err == nil {
		t.Error("expected error for unknown criterion")
	}
}

func TestParseAnswer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    rubric.Answer
		wantErr bool
	}{
		{in: "Yes", want: rubric.Yes},
		{in: "y", want: rubric.Yes},
		{in: "NO", want: rubric.No},
		{in: "n", want: rubric.No},
		{in: "NA", want: rubric.NA},
		{in: "NA to Query", want: rubric.NA},
		{in: " n/a ", want: rubric.NA},
		{in: "maybe", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := rubric.ParseAnswer(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAnswer(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAnswer(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAnswer(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
