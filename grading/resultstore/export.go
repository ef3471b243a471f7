/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package resultstore

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/aggregate"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/rubric"
	"github.com/google/uuid"
)

// Metadata describes one grading run in the aggregate export.
type Metadata struct {
	RunID        string             `json:"run_id"`
	TotalTasks   int                `json:"total_tasks"`
	Timestamp    string             `json:"timestamp"`
	JudgeModel   string             `json:"judge_model"`
	ScoreMapping map[string]float64 `json:"score_mapping"`
}

// Aggregate is the JSON export of a run: run metadata plus the
// conversation result trees.
type Aggregate struct {
	Metadata Metadata                       `json:"metadata"`
	Results  []aggregate.ConversationResult `json:"results"`
}

// scoreMapping flattens the criterion weight tables for the export, so
// downstream readers can reproduce the scoring arithmetic.
func scoreMapping() map[string]float64 {
	mapping := make(map[string]float64)
	for _, c := range rubric.IntentCriteria {
		mapping[c.ID] = c.Weight
	}
	for _, c := range rubric.StoreCriteria {
		mapping[c.ID] = c.Weight
	}
	return mapping
}

// NewAggregate assembles the export document for a completed run.
func NewAggregate(judgeModel string, totalTasks int, results []aggregate.ConversationResult) *Aggregate {
	return &Aggregate{
		Metadata: Metadata{
			RunID:        uuid.NewString(),
			TotalTasks:   totalTasks,
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			JudgeModel:   judgeModel,
			ScoreMapping: scoreMapping(),
		},
		Results: results,
	}
}

// WriteAggregate writes the export document as indented JSON.
func WriteAggregate(path string, doc *Aggregate) error {
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding aggregate output: %w", err)
	}
	if err := os.WriteFile(path, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing aggregate output: %w", err)
	}
	return nil
}
