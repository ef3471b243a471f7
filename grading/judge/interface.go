/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/rubric"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/trace"
)

// RecommendationRequest asks the judge to grade one query/recommendation
// pair under the fuzzy-query rubric.
type RecommendationRequest struct {
	// Query is the text the recommendation was produced for.
	Query string `json:"query"`

	// Recommendation is the dish or cuisine text under evaluation.
	Recommendation string `json:"recommendation"`

	// Daypart situates the query (breakfast, lunch, late night).
	Daypart string `json:"daypart,omitempty"`

	// ConsumerProfile carries the dietary and preference constraints used
	// by the profile-compliance gate.
	ConsumerProfile map[string]any `json:"consumer_profile,omitempty"`
}

// StoreRequest asks the judge to grade one query/store pair under a
// structured rubric.
type StoreRequest struct {
	// Query is the fuzzy query as the consumer typed it.
	Query string `json:"query"`

	// StructuredQuery is the rewritten form, when available.
	StructuredQuery string `json:"structured_query,omitempty"`

	// ConsumerProfile carries dietary and preference constraints.
	ConsumerProfile map[string]any `json:"consumer_profile,omitempty"`

	// Store is the canonical store under evaluation.
	Store *trace.Store `json:"store"`

	// IntentCategory sets the dynamic personalization weight for the
	// Q1-Q9 rubric; ignored by the C1-C19 rubric.
	IntentCategory rubric.IntentCategory `json:"intent_category,omitempty"`
}

// Interface is the judge contract the grading core consumes. Responses
// are validated against the expected criterion set before scoring; a
// malformed or partial answer set is returned as an error.
type Interface interface {
	// ClassifyIntent assigns the query an intent category, which picks
	// the dynamic Q8 weight.
	ClassifyIntent(ctx context.Context, query string) (rubric.IntentCategory, error)

	// EvaluateRecommendation grades a pair under the relevance +
	// serendipity rubric with chain-of-thought check answers.
	EvaluateRecommendation(ctx context.Context, req *RecommendationRequest) (*rubric.FuzzyQueryAnswers, error)

	// EvaluateIntentStore grades a store under the Q1-Q9 rubric.
	EvaluateIntentStore(ctx context.Context, req *StoreRequest) (rubric.AnswerSet, error)

	// EvaluateStructuredStore grades a store under the C1-C19 rubric.
	EvaluateStructuredStore(ctx context.Context, req *StoreRequest) (rubric.AnswerSet, error)
}
