/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package resultstore

import (
	"fmt"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/fuzzy"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/rubric"
)

// Status is the terminal state of a grading task. Every task ends in
// exactly one status; tasks never transition backward.
type Status string

const (
	// StatusSuccess means the judge was called and the answers scored.
	StatusSuccess Status = "success"
	// StatusError means the judge call or answer validation failed.
	StatusError Status = "error"
	// StatusSkipped means the fuzzy pre-filter rejected the pair before
	// any judge call.
	StatusSkipped Status = "skipped"
	// StatusDryRun means the task was extracted and fuzzy-scored but the
	// judge was deliberately not called.
	StatusDryRun Status = "dry_run"
)

// valid reports whether s is one of the terminal statuses.
func (s Status) valid() bool {
	switch s {
	case StatusSuccess, StatusError, StatusSkipped, StatusDryRun:
		return true
	}
	return false
}

// Record is one grading task's output row. Provenance fields are enough
// to reconstruct the original serving order deterministically.
type Record struct {
	ConversationID string `json:"conversation_id"`
	TraceIndex     int    `json:"trace_index"`
	RewriteID      string `json:"rewrite_id"`
	CarouselIndex  int    `json:"carousel_index"`
	StoreID        string `json:"store_id,omitempty"`

	Query          string         `json:"query"`
	Recommendation string         `json:"recommendation"`
	Variant        rubric.Variant `json:"variant"`

	FuzzyScores *fuzzy.Scores `json:"fuzzy_scores,omitempty"`
	FuzzyPassed bool          `json:"fuzzy_passed"`

	// JudgeResult is the raw fuzzy-query judge response; VerifiedScores
	// are recomputed from its check answers and are authoritative.
	JudgeResult     *rubric.FuzzyQueryAnswers `json:"judge_result,omitempty"`
	VerifiedScores  *rubric.FuzzyQueryResult  `json:"verified_scores,omitempty"`
	ScoreMismatches []string                  `json:"score_mismatches,omitempty"`

	// StructuredResult holds the Q1-Q9 or C1-C19 outcome for store tasks.
	StructuredResult *rubric.Result `json:"structured_result,omitempty"`

	Status     Status `json:"status"`
	Error      string `json:"error,omitempty"`
	JudgeModel string `json:"judge_model,omitempty"`
	ElapsedMs  int64  `json:"elapsed_ms,omitempty"`
}

// Validate checks the structural invariants a written record must hold.
func (r *Record) Validate() error {
	if r.ConversationID == "" {
		return fmt.Errorf("missing conversation_id")
	}
	if r.Query == "" {
		return fmt.Errorf("missing query")
	}
	if !r.Status.valid() {
		return fmt.Errorf("invalid status %q", r.Status)
	}
	if r.Status == StatusError && r.Error == "" {
		return fmt.Errorf("error status without error message")
	}
	if r.Status == StatusSuccess && r.JudgeResult == nil && r.StructuredResult == nil {
		return fmt.Errorf("success status without a judge result")
	}
	return nil
}
