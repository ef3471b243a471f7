/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runner_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/judge"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/resultstore"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/rubric"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/runner"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/trace"
)

// stubJudge returns canned answers, optionally failing for one store.
type stubJudge struct {
	failStoreID string
}

func (s *stubJudge) ClassifyIntent(context.Context, string) (rubric.IntentCategory, error) {
	return rubric.IntentComfort, nil
}

func (s *stubJudge) EvaluateRecommendation(_ context.Context, req *judge.RecommendationRequest) (*rubric.FuzzyQueryAnswers, error) {
	relevance := make(map[string]rubric.CheckAnswer)
	for _, c := range rubric.RelevanceCriteria {
		relevance[c.ID] = rubric.CheckAnswer{Passed: true, Points: c.Weight}
	}
	serendipity := make(map[string]rubric.CheckAnswer)
	for _, c := range rubric.SerendipityCriteria {
		serendipity[c.ID] = rubric.CheckAnswer{Passed: false}
	}
	serendipity["check_1_novelty_tier"] = rubric.CheckAnswer{Passed: true, Tier: 5, Points: 4}
	return &rubric.FuzzyQueryAnswers{
		RelevanceChecks:      relevance,
		SerendipityChecks:    serendipity,
		RelevanceFormatScore: 10,
		SerendipityScore:     4,
		WeightedScore:        8.2,
	}, nil
}

func (s *stubJudge) EvaluateIntentStore(_ context.Context, req *judge.StoreRequest) (rubric.AnswerSet, error) {
	if req.Store.StoreID == s.failStoreID {
		return nil, errors.New("503 judge unavailable")
	}
	answers := rubric.AnswerSet{}
	for _, c := range rubric.IntentCriteria {
		answers[c.ID] = rubric.Yes
	}
	answers["q3"] = rubric.NA
	return answers, nil
}

func (s *stubJudge) EvaluateStructuredStore(_ context.Context, req *judge.StoreRequest) (rubric.AnswerSet, error) {
	answers := rubric.AnswerSet{}
	for _, c := range rubric.StoreCriteria {
		answers[c.ID] = rubric.Yes
	}
	answers["c17"] = rubric.No
	return answers, nil
}

func testConversations() []trace.Conversation {
	return []trace.Conversation{{
		ConversationID: "conv-1",
		ConsumerID:     "consumer-1",
		ConsumerProfile: map[string]any{
			"dietary_preferences": []string{"vegetarian"},
		},
		Traces: []trace.Trace{{
			TraceID:          "trace-1",
			OriginalQuery:    "spicy noodle soup",
			RewrittenQueries: []string{"cuisine:asian dish:spicy noodle soup"},
			StoreRecommendations: []trace.Carousel{{
				Stores: []trace.Store{
					{StoreID: "s1", Name: "Spicy Noodle Soup House"},
					{StoreID: "s2", Name: "Noodle Soup Spicy Kitchen"},
				},
			}},
		}},
	}}
}

func TestExtractTasks(t *testing.T) {
	t.Parallel()

	tasks := runner.ExtractTasks(testConversations(), "", 0)
	// 2 stores x (1 original + 1 rewrite) = 4 tasks.
	if len(tasks) != 4 {
		t.Fatalf("len(tasks) = %d, want 4", len(tasks))
	}

	first := tasks[0]
	if first.RewriteID != runner.OriginalRewriteID {
		t.Errorf("RewriteID = %q, want original", first.RewriteID)
	}
	if first.Variant != rubric.FuzzyQuery {
		t.Errorf("Variant = %q, want fuzzy_query", first.Variant)
	}
	if first.Recommendation() != "Spicy Noodle Soup House" {
		t.Errorf("Recommendation() = %q", first.Recommendation())
	}

	second := tasks[1]
	if second.RewriteID != "rewrite_0" {
		t.Errorf("RewriteID = %q, want rewrite_0", second.RewriteID)
	}
	if second.Variant != rubric.StructuredQuery {
		t.Errorf("Variant = %q, want structured_query", second.Variant)
	}
	if second.Query != "cuisine:asian dish:spicy noodle soup" {
		t.Errorf("Query = %q, want the rewritten text", second.Query)
	}
	if second.OriginalQuery != "spicy noodle soup" {
		t.Errorf("OriginalQuery = %q", second.OriginalQuery)
	}
}

func TestExtractTasksFilters(t *testing.T) {
	t.Parallel()

	if got := runner.ExtractTasks(testConversations(), "other-consumer", 0); len(got) != 0 {
		t.Errorf("consumer filter: len(tasks) = %d, want 0", len(got))
	}
	if got := runner.ExtractTasks(testConversations(), "consumer-1", 3); len(got) != 3 {
		t.Errorf("limit: len(tasks) = %d, want 3", len(got))
	}

	empty := []trace.Conversation{{
		ConversationID: "conv-2",
		Traces:         []trace.Trace{{OriginalQuery: "   "}},
	}}
	if got := runner.ExtractTasks(empty, "", 0); len(got) != 0 {
		t.Errorf("blank query: len(tasks) = %d, want 0", len(got))
	}
}

func newTestRunner(t *testing.T, j judge.Interface, cfg runner.Config) (*runner.Runner, *resultstore.Writer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.jsonl")
	w, err := resultstore.NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter() = %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return runner.New(j, w, cfg), w, path
}

func TestRunGradesAllTasks(t *testing.T) {
	t.Parallel()

	cfg := runner.Config{JudgeModel: "stub", FuzzyThreshold: 0.5, ParallelLimit: 2}
	r, w, path := newTestRunner(t, &stubJudge{}, cfg)

	summary, err := r.Run(context.Background(), testConversations())
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if summary.TotalTasks != 4 {
		t.Errorf("TotalTasks = %d, want 4", summary.TotalTasks)
	}
	if summary.Success != 4 {
		t.Errorf("Success = %d, want 4 (got %d errors, %d skipped)", summary.Success, summary.Errors, summary.Skipped)
	}

	if len(summary.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(summary.Results))
	}
	conv := summary.Results[0]
	if conv.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %q", conv.ConversationID)
	}
	if len(conv.Traces) != 1 {
		t.Fatalf("len(Traces) = %d, want 1", len(conv.Traces))
	}
	tr := conv.Traces[0]
	// Only the two original-query tasks feed the tree.
	if tr.NumStoresEvaluated != 2 {
		t.Errorf("NumStoresEvaluated = %d, want 2", tr.NumStoresEvaluated)
	}
	if tr.IntentCategory != rubric.IntentComfort {
		t.Errorf("IntentCategory = %q", tr.IntentCategory)
	}
	// All relevance checks pass, tier 5 novelty only: weighted =
	// 10*0.7 + 4*0.3 = 8.2 -> 82 pct; Q1-Q9 all Yes -> 100 pct.
	store := tr.Stores[0]
	if store.FuzzyScorePct < 81.9 || store.FuzzyScorePct > 82.1 {
		t.Errorf("FuzzyScorePct = %v, want 82", store.FuzzyScorePct)
	}
	if store.StructuredScorePct != 100 {
		t.Errorf("StructuredScorePct = %v, want 100", store.StructuredScorePct)
	}
	if store.CombinedScorePct < 90.9 || store.CombinedScorePct > 91.1 {
		t.Errorf("CombinedScorePct = %v, want 91", store.CombinedScorePct)
	}
	if !store.IsRelevant {
		t.Error("IsRelevant = false, want true")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	records, err := resultstore.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() = %v", err)
	}
	if len(records) != 4 {
		t.Errorf("len(records) = %d, want 4", len(records))
	}
}

func TestRunSkipsBelowThreshold(t *testing.T) {
	t.Parallel()

	cfg := runner.Config{JudgeModel: "stub", FuzzyThreshold: 0.95, ParallelLimit: 2}
	r, w, path := newTestRunner(t, &stubJudge{}, cfg)

	summary, err := r.Run(context.Background(), testConversations())
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if summary.Skipped != 4 {
		t.Errorf("Skipped = %d, want 4", summary.Skipped)
	}
	if summary.Success != 0 {
		t.Errorf("Success = %d, want 0", summary.Success)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	records, err := resultstore.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() = %v", err)
	}
	for _, rec := range records {
		if rec.Status != resultstore.StatusSkipped {
			t.Errorf("status = %q, want skipped", rec.Status)
		}
		if rec.JudgeResult != nil {
			t.Error("skipped task should not carry a judge result")
		}
	}
}

func TestRunDryRun(t *testing.T) {
	t.Parallel()

	cfg := runner.Config{JudgeModel: "stub", FuzzyThreshold: 0.5, DryRun: true}
	r, w, path := newTestRunner(t, &stubJudge{}, cfg)

	summary, err := r.Run(context.Background(), testConversations())
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if summary.DryRuns != 4 {
		t.Errorf("DryRuns = %d, want 4", summary.DryRuns)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	records, err := resultstore.ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll() = %v", err)
	}
	for _, rec := range records {
		if rec.Status != resultstore.StatusDryRun {
			t.Errorf("status = %q, want dry_run", rec.Status)
		}
		if rec.FuzzyScores == nil {
			t.Error("dry-run task should still carry fuzzy scores")
		}
	}
}

func TestRunIsolatesTaskErrors(t *testing.T) {
	t.Parallel()

	cfg := runner.Config{JudgeModel: "stub", FuzzyThreshold: 0.5, ParallelLimit: 1}
	r, _, _ := newTestRunner(t, &stubJudge{failStoreID: "s1"}, cfg)

	summary, err := r.Run(context.Background(), testConversations())
	if err != nil {
		t.Fatalf("Run() = %v (task errors must not abort the run)", err)
	}
	if summary.Errors != 1 {
		t.Errorf("Errors = %d, want 1", summary.Errors)
	}
	if summary.Success != 3 {
		t.Errorf("Success = %d, want 3", summary.Success)
	}

	// The errored store is excluded from the trace mean, not zeroed.
	tr := summary.Results[0].Traces[0]
	if tr.NumStoresEvaluated != 1 {
		t.Errorf("NumStoresEvaluated = %d, want 1", tr.NumStoresEvaluated)
	}
}
