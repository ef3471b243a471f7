/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package aggregate

import (
	"github.com/Big-OO7/VOX-Trace-GUI/grading/rubric"
)

// StoreEvaluation is the scored outcome for one store within a trace,
// under both rubric variants.
type StoreEvaluation struct {
	StoreID string `json:"store_id"`

	// FuzzyScorePct and StructuredScorePct are the two independent
	// per-store scores on a 0-100 scale.
	FuzzyScorePct      float64 `json:"fuzzy_score_pct"`
	StructuredScorePct float64 `json:"structured_score_pct"`

	// CombinedScorePct is the arithmetic mean of the two.
	CombinedScorePct float64 `json:"combined_score_pct"`

	IntentMatchScore float64  `json:"intent_match_score"`
	IsRelevant       bool     `json:"is_relevant"`
	CriticalFailures []string `json:"critical_failures,omitempty"`

	// Error marks a failed evaluation; errored stores are excluded from
	// trace means, not counted as zero.
	Error string `json:"error,omitempty"`
}

// Combine fills CombinedScorePct from the two per-variant scores.
func (s *StoreEvaluation) Combine() {
	s.CombinedScorePct = (s.FuzzyScorePct + s.StructuredScorePct) / 2
}

// TraceEvaluation aggregates the stores served for a single query. The
// averaged fields are recomputed from Stores on aggregation, never stored
// alongside mutable children.
type TraceEvaluation struct {
	TraceID        string                `json:"trace_id"`
	Query          string                `json:"query"`
	IntentCategory rubric.IntentCategory `json:"intent_category,omitempty"`

	NumStoresEvaluated int `json:"num_stores_evaluated"`

	AvgFuzzyScore      float64 `json:"avg_fuzzy_score"`
	AvgStructuredScore float64 `json:"avg_structured_score"`
	AvgCombinedScore   float64 `json:"avg_combined_score"`

	NDCGFuzzy      float64 `json:"ndcg_fuzzy"`
	NDCGStructured float64 `json:"ndcg_structured"`
	NDCGCombined   float64 `json:"ndcg_combined"`

	AvgIntentMatchScore float64 `json:"avg_intent_match_score"`

	// IrrelevanceRate is the percentage of evaluated stores whose intent
	// match earned nothing.
	IrrelevanceRate float64 `json:"irrelevance_rate"`

	Stores []StoreEvaluation `json:"store_evaluations"`

	// Error is set when no store in the trace could be evaluated.
	Error string `json:"error,omitempty"`
}

// ConversationResult aggregates the traces of one conversation.
type ConversationResult struct {
	ConversationID string `json:"conversation_id"`
	NumTraces      int    `json:"num_traces"`

	AvgFuzzyScore      float64 `json:"avg_fuzzy_score"`
	AvgStructuredScore float64 `json:"avg_structured_score"`
	AvgCombinedScore   float64 `json:"avg_combined_score"`
	AvgNDCGCombined    float64 `json:"avg_ndcg_combined"`

	AvgIntentMatchScore float64 `json:"avg_intent_match_score"`
	IrrelevanceRate     float64 `json:"avg_irrelevance_rate"`

	Traces []TraceEvaluation `json:"trace_evaluations"`

	// Error is set when the conversation had no evaluable traces.
	Error string `json:"error,omitempty"`
}

// Trace aggregates per-store evaluations into trace-level metrics. Stores
// with Error set are excluded from means and NDCG; position order of the
// remaining stores is the served order.
func Trace(traceID, query string, category rubric.IntentCategory, stores []StoreEvaluation) *TraceEvaluation {
	te := &TraceEvaluation{
		TraceID:        traceID,
		Query:          query,
		IntentCategory: category,
		Stores:         stores,
	}

	var (
		fuzzyRels, structuredRels, combinedRels []float64
		sumFuzzy, sumStructured, sumCombined    float64
		sumIntent                               float64
		irrelevant                              int
	)
	for _, s := range stores {
		if s.Error != "" {
			continue
		}
		te.NumStoresEvaluated++
		sumFuzzy += s.FuzzyScorePct
		sumStructured += s.StructuredScorePct
		sumCombined += s.CombinedScorePct
		sumIntent += s.IntentMatchScore
		if !s.IsRelevant {
			irrelevant++
		}
		fuzzyRels = append(fuzzyRels, s.FuzzyScorePct/100)
		structuredRels = append(structuredRels, s.StructuredScorePct/100)
		combinedRels = append(combinedRels, s.CombinedScorePct/100)
	}

	if te.NumStoresEvaluated == 0 {
		te.Error = "no stores evaluated"
		return te
	}

	n := float64(te.NumStoresEvaluated)
	te.AvgFuzzyScore = sumFuzzy / n
	te.AvgStructuredScore = sumStructured / n
	te.AvgCombinedScore = sumCombined / n
	te.AvgIntentMatchScore = sumIntent / n
	te.IrrelevanceRate = float64(irrelevant) / n * 100
	te.NDCGFuzzy = NDCG(fuzzyRels)
	te.NDCGStructured = NDCG(structuredRels)
	te.NDCGCombined = NDCG(combinedRels)
	return te
}

// Conversation aggregates trace evaluations into conversation-level
// metrics; traces with Error set are excluded from the means.
func Conversation(conversationID string, traces []TraceEvaluation) *ConversationResult {
	cr := &ConversationResult{
		ConversationID: conversationID,
		NumTraces:      len(traces),
		Traces:         traces,
	}

	var valid int
	var sumFuzzy, sumStructured, sumCombined, sumNDCG, sumIntent, sumIrrelevance float64
	for _, t := range traces {
		if t.Error != "" {
			continue
		}
		valid++
		sumFuzzy += t.AvgFuzzyScore
		sumStructured += t.AvgStructuredScore
		sumCombined += t.AvgCombinedScore
		sumNDCG += t.NDCGCombined
		sumIntent += t.AvgIntentMatchScore
		sumIrrelevance += t.IrrelevanceRate
	}

	if valid == 0 {
		cr.Error = "no valid traces to evaluate"
		return cr
	}

	n := float64(valid)
	cr.AvgFuzzyScore = sumFuzzy / n
	cr.AvgStructuredScore = sumStructured / n
	cr.AvgCombinedScore = sumCombined / n
	cr.AvgNDCGCombined = sumNDCG / n
	cr.AvgIntentMatchScore = sumIntent / n
	cr.IrrelevanceRate = sumIrrelevance / n
	return cr
}
