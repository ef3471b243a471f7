/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/aggregate"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/fuzzy"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/judge"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/metrics"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/resultstore"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/rubric"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/trace"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

const (
	defaultParallelLimit = 10
	defaultTaskTimeout   = 5 * time.Minute
	defaultTopItemLimit  = 20
	progressInterval     = 25
)

// Config controls one grading run.
type Config struct {
	// JudgeModel labels output records; it does not select the backend.
	JudgeModel string

	// FuzzyThreshold gates tasks before any judge call; out-of-range
	// values fall back to the matcher default.
	FuzzyThreshold float64

	// ParallelLimit bounds in-flight tasks.
	ParallelLimit int

	// TaskTimeout bounds each task's judge calls.
	TaskTimeout time.Duration

	// DryRun extracts and fuzzy-scores tasks without calling the judge.
	DryRun bool

	// Limit caps the number of tasks; 0 means unlimited.
	Limit int

	// TopItemLimit caps how many menu item names feed the fuzzy matcher.
	TopItemLimit int

	// ConsumerID, when set, keeps only that consumer's conversations.
	ConsumerID string
}

func (c Config) withDefaults() Config {
	if c.ParallelLimit <= 0 {
		c.ParallelLimit = defaultParallelLimit
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = defaultTaskTimeout
	}
	if c.TopItemLimit <= 0 {
		c.TopItemLimit = defaultTopItemLimit
	}
	return c
}

// Summary reports a completed run.
type Summary struct {
	TotalTasks int `json:"total_tasks"`
	Success    int `json:"success"`
	Errors     int `json:"errors"`
	Skipped    int `json:"skipped"`
	DryRuns    int `json:"dry_runs"`

	// VerifyMismatches counts judge-reported scores that disagreed with
	// the recomputed values.
	VerifyMismatches int `json:"verify_mismatches"`

	Results []aggregate.ConversationResult `json:"results"`
}

// Runner drives grading tasks through the pipeline.
type Runner struct {
	judge   judge.Interface
	writer  *resultstore.Writer
	matcher *fuzzy.Matcher
	obs     *metrics.Observer
	cfg     Config

	mu      sync.Mutex
	intents map[string]rubric.IntentCategory
}

// New creates a Runner writing task records through w.
func New(j judge.Interface, w *resultstore.Writer, cfg Config) *Runner {
	cfg = cfg.withDefaults()
	return &Runner{
		judge:   j,
		writer:  w,
		matcher: fuzzy.NewMatcher(cfg.FuzzyThreshold),
		obs:     metrics.NewObserver(cfg.JudgeModel),
		cfg:     cfg,
		intents: make(map[string]rubric.IntentCategory),
	}
}

// outcome pairs a task's output record with its aggregation node. eval is
// nil for tasks that do not feed the conversation trees.
type outcome struct {
	record   *resultstore.Record
	eval     *aggregate.StoreEvaluation
	category rubric.IntentCategory
}

// Run extracts tasks from the conversations and grades them on a bounded
// pool. Task-level failures are recorded, not returned; only setup and
// write failures abort the run.
func (r *Runner) Run(ctx context.Context, conversations []trace.Conversation) (*Summary, error) {
	log := clog.FromContext(ctx)

	tasks := ExtractTasks(conversations, r.cfg.ConsumerID, r.cfg.Limit)
	log.With("tasks", len(tasks)).
		With("conversations", len(conversations)).
		With("parallel_limit", r.cfg.ParallelLimit).
		With("dry_run", r.cfg.DryRun).
		Info("Starting grading run")

	outcomes := make([]outcome, len(tasks))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.ParallelLimit)
	for i := range tasks {
		g.Go(func() error {
			outcomes[i] = r.gradeTask(gctx, &tasks[i])
			if r.writer != nil {
				if err := r.writer.Append(outcomes[i].record); err != nil {
					return fmt.Errorf("appending task record: %w", err)
				}
			}
			if n := done.Add(1); n%progressInterval == 0 {
				log.With("completed", n).With("total", len(tasks)).Info("Grading progress")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := r.summarize(conversations, tasks, outcomes)
	log.With("success", summary.Success).
		With("errors", summary.Errors).
		With("skipped", summary.Skipped).
		Info("Grading run complete")
	return summary, nil
}

// gradeTask runs one task through fuzzy gating, the judge, and scoring.
// All failures land in the record's status and error fields.
func (r *Runner) gradeTask(ctx context.Context, task *Task) outcome {
	start := time.Now()
	record := &resultstore.Record{
		ConversationID: task.ConversationID,
		TraceIndex:     task.TraceIndex,
		RewriteID:      task.RewriteID,
		CarouselIndex:  task.CarouselIndex,
		StoreID:        task.Store.StoreID,
		Query:          task.Query,
		Recommendation: task.Recommendation(),
		Variant:        task.Variant,
		JudgeModel:     r.cfg.JudgeModel,
	}
	finish := func(status resultstore.Status, err error) outcome {
		record.Status = status
		if err != nil {
			record.Error = err.Error()
		}
		record.ElapsedMs = time.Since(start).Milliseconds()
		r.obs.Task(string(status))
		eval := &aggregate.StoreEvaluation{StoreID: task.Store.StoreID}
		switch status {
		case resultstore.StatusError:
			eval.Error = record.Error
		case resultstore.StatusSkipped:
			eval.Error = "skipped by fuzzy pre-filter"
		case resultstore.StatusDryRun:
			eval.Error = "dry run"
		}
		if task.RewriteID != OriginalRewriteID {
			// Rewrite tasks are recorded but do not feed the trees.
			return outcome{record: record}
		}
		return outcome{record: record, eval: eval}
	}

	scores := r.matcher.Match(task.Query, task.Recommendation(), task.Store.TopItemNames(r.cfg.TopItemLimit))
	record.FuzzyScores = &scores
	record.FuzzyPassed = scores.Passed
	if !scores.Passed {
		return finish(resultstore.StatusSkipped, nil)
	}
	if r.cfg.DryRun {
		return finish(resultstore.StatusDryRun, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.TaskTimeout)
	defer cancel()

	if task.Variant == rubric.StructuredQuery {
		result, err := r.gradeStructured(ctx, task)
		if err != nil {
			return finish(resultstore.StatusError, err)
		}
		record.StructuredResult = result
		return finish(resultstore.StatusSuccess, nil)
	}

	category, err := r.intentFor(ctx, task.Query)
	if err != nil {
		r.obs.JudgeError("classify_intent")
		return finish(resultstore.StatusError, err)
	}

	answers, err := r.judge.EvaluateRecommendation(ctx, &judge.RecommendationRequest{
		Query:           task.Query,
		Recommendation:  task.Recommendation(),
		ConsumerProfile: task.ConsumerProfile,
	})
	if err != nil {
		r.obs.JudgeError("evaluate_recommendation")
		return finish(resultstore.StatusError, err)
	}
	verification := rubric.VerifyFuzzyQuery(answers)
	record.JudgeResult = answers
	record.VerifiedScores = verification.Scores
	for _, m := range verification.Mismatches {
		record.ScoreMismatches = append(record.ScoreMismatches, m.String())
		r.obs.VerifyMismatch()
	}

	intentAnswers, err := r.judge.EvaluateIntentStore(ctx, &judge.StoreRequest{
		Query:           task.Query,
		ConsumerProfile: task.ConsumerProfile,
		Store:           &task.Store,
		IntentCategory:  category,
	})
	if err != nil {
		r.obs.JudgeError("evaluate_intent_store")
		return finish(resultstore.StatusError, err)
	}
	intentResult, err := rubric.Score(rubric.IntentCriteriaFor(category), intentAnswers)
	if err != nil {
		return finish(resultstore.StatusError, err)
	}
	record.StructuredResult = intentResult

	out := finish(resultstore.StatusSuccess, nil)
	out.eval = &aggregate.StoreEvaluation{
		StoreID:            task.Store.StoreID,
		FuzzyScorePct:      verification.Scores.Weighted * 10,
		StructuredScorePct: intentResult.ScorePct,
		IntentMatchScore:   intentResult.IntentMatchScore,
		IsRelevant:         intentResult.IsRelevant,
		CriticalFailures:   intentResult.CriticalFailures,
	}
	out.eval.Combine()
	out.category = category
	r.obs.Score(out.eval.CombinedScorePct)
	return out
}

// gradeStructured runs the C1-C19 rubric for a rewritten query.
func (r *Runner) gradeStructured(ctx context.Context, task *Task) (*rubric.Result, error) {
	answers, err := r.judge.EvaluateStructuredStore(ctx, &judge.StoreRequest{
		Query:           task.OriginalQuery,
		StructuredQuery: task.Query,
		ConsumerProfile: task.ConsumerProfile,
		Store:           &task.Store,
	})
	if err != nil {
		r.obs.JudgeError("evaluate_structured_store")
		return nil, err
	}
	return rubric.Score(rubric.StoreCriteria, answers)
}

// intentFor classifies a query's intent category, caching per query so a
// trace's stores share one classification call.
func (r *Runner) intentFor(ctx context.Context, query string) (rubric.IntentCategory, error) {
	r.mu.Lock()
	if category, ok := r.intents[query]; ok {
		r.mu.Unlock()
		return category, nil
	}
	r.mu.Unlock()

	category, err := r.judge.ClassifyIntent(ctx, query)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.intents[query] = category
	r.mu.Unlock()
	return category, nil
}

// summarize counts terminal statuses and builds the conversation trees
// from the original-query outcomes, preserving served order.
func (r *Runner) summarize(conversations []trace.Conversation, tasks []Task, outcomes []outcome) *Summary {
	summary := &Summary{TotalTasks: len(tasks)}

	type traceKey struct {
		conversationID string
		traceIndex     int
	}
	type traceGroup struct {
		traceID  string
		query    string
		category rubric.IntentCategory
		stores   []aggregate.StoreEvaluation
	}
	groups := make(map[traceKey]*traceGroup)

	for i, out := range outcomes {
		switch out.record.Status {
		case resultstore.StatusSuccess:
			summary.Success++
		case resultstore.StatusError:
			summary.Errors++
		case resultstore.StatusSkipped:
			summary.Skipped++
		case resultstore.StatusDryRun:
			summary.DryRuns++
		}
		summary.VerifyMismatches += len(out.record.ScoreMismatches)

		if out.eval == nil {
			continue
		}
		key := traceKey{tasks[i].ConversationID, tasks[i].TraceIndex}
		group, ok := groups[key]
		if !ok {
			group = &traceGroup{traceID: tasks[i].TraceID, query: tasks[i].OriginalQuery}
			groups[key] = group
		}
		if group.category == "" && out.category != "" {
			group.category = out.category
		}
		group.stores = append(group.stores, *out.eval)
	}

	for _, conv := range conversations {
		var traces []aggregate.TraceEvaluation
		for ti := range conv.Traces {
			group, ok := groups[traceKey{conv.ConversationID, ti}]
			if !ok {
				continue
			}
			traces = append(traces, *aggregate.Trace(group.traceID, group.query, group.category, group.stores))
		}
		if len(traces) == 0 {
			continue
		}
		summary.Results = append(summary.Results, *aggregate.Conversation(conv.ConversationID, traces))
	}
	return summary
}
