/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report_test

import (
	"strings"
	"testing"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/aggregate"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/reconcile"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/report"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/resultstore"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/rubric"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/runner"
)

func TestRunReport(t *testing.T) {
	t.Parallel()

	summary := &runner.Summary{
		TotalTasks:       10,
		Success:          7,
		Errors:           1,
		Skipped:          2,
		VerifyMismatches: 1,
		Results: []aggregate.ConversationResult{{
			ConversationID:   "conv-1",
			NumTraces:        2,
			AvgFuzzyScore:    75.5,
			AvgCombinedScore: 80.2,
			AvgNDCGCombined:  0.93,
			IrrelevanceRate:  12.5,
		}, {
			ConversationID: "conv-2",
			Error:          "no valid traces to evaluate",
		}},
	}

	got := report.Run(summary)
	for _, want := range []string{"conv-1", "conv-2", "80.2", "0.930", "no valid traces to evaluate", "disagreed"} {
		if !strings.Contains(got, want) {
			t.Errorf("Run() output missing %q:\n%s", want, got)
		}
	}
}

func TestValidationReport(t *testing.T) {
	t.Parallel()

	clean := &resultstore.ValidationReport{
		TotalLines:   3,
		ValidRecords: 3,
		StatusCounts: map[resultstore.Status]int{resultstore.StatusSuccess: 3},
	}
	got := report.Validation("results.jsonl", clean)
	if !strings.Contains(got, "No defects found") {
		t.Errorf("Validation() output missing clean marker:\n%s", got)
	}

	dirty := &resultstore.ValidationReport{
		TotalLines:   2,
		ValidRecords: 1,
		StatusCounts: map[resultstore.Status]int{resultstore.StatusSuccess: 1},
		Defects:      []resultstore.LineDefect{{Line: 2, Message: "invalid JSON"}},
	}
	got = report.Validation("results.jsonl", dirty)
	if !strings.Contains(got, "invalid JSON") {
		t.Errorf("Validation() output missing defect:\n%s", got)
	}
}

func TestReconciliationReport(t *testing.T) {
	t.Parallel()

	rep := reconcile.Reconcile(
		[]reconcile.ManualGrade{{
			Query:          "tacos",
			Recommendation: "al pastor tacos",
			WeightedScore:  6,
		}},
		[]resultstore.Record{{
			Query:          "tacos",
			Recommendation: "al pastor tacos",
			Status:         resultstore.StatusSuccess,
			VerifiedScores: &rubric.FuzzyQueryResult{Relevance: 8, Serendipity: 4, Weighted: 6.8},
		}},
	)

	got := report.Reconciliation(rep)
	for _, want := range []string{"1 matched pairs", "weighted_score", "+0.80"} {
		if !strings.Contains(got, want) {
			t.Errorf("Reconciliation() output missing %q:\n%s", want, got)
		}
	}
}
