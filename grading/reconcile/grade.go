/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reconcile

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ManualGrade is one human-entered grade for a <query, recommendation>
// pair, carrying the same score dimensions as the fuzzy-query rubric.
type ManualGrade struct {
	Query          string `json:"query"`
	Recommendation string `json:"recommendation"`

	RelevanceScore   float64 `json:"relevance_format_score"`
	SerendipityScore float64 `json:"serendipity_score"`
	WeightedScore    float64 `json:"weighted_score"`

	GradedBy  string    `json:"graded_by,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the fields a stored grade must carry.
func (g *ManualGrade) Validate() error {
	if strings.TrimSpace(g.Query) == "" {
		return errors.New("manual grade needs a query")
	}
	if strings.TrimSpace(g.Recommendation) == "" {
		return errors.New("manual grade needs a recommendation")
	}
	for _, score := range []float64{g.RelevanceScore, g.SerendipityScore, g.WeightedScore} {
		if score < 0 || score > 10 {
			return errors.New("scores must be between 0 and 10")
		}
	}
	return nil
}

// Key returns the case-insensitive match key for the grade.
func (g *ManualGrade) Key() string {
	return matchKey(g.Query, g.Recommendation)
}

func matchKey(query, recommendation string) string {
	return strings.ToLower(strings.TrimSpace(query)) + "\x00" + strings.ToLower(strings.TrimSpace(recommendation))
}

// GradeStore persists manual grades. Saving an existing key overwrites
// the previous grade.
type GradeStore interface {
	Save(ctx context.Context, grade *ManualGrade) error
	List(ctx context.Context) ([]ManualGrade, error)
	Delete(ctx context.Context, query, recommendation string) error
}
