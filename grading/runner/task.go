/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runner

import (
	"fmt"
	"strings"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/rubric"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/trace"
)

// OriginalRewriteID marks tasks built from the consumer's own query text.
const OriginalRewriteID = "original"

// Task is one <query, store> pair to grade. Tasks are immutable once
// extracted and carry enough provenance to reconstruct serving order.
type Task struct {
	ConversationID string
	TraceID        string
	TraceIndex     int

	// RewriteID is "original" for the consumer's query or "rewrite_N" for
	// the Nth rewritten query.
	RewriteID     string
	CarouselIndex int
	StoreIndex    int

	// Query is the text under evaluation: the original query for
	// fuzzy-variant tasks, the rewritten query for structured-variant ones.
	Query string

	// OriginalQuery is always the consumer's query as typed.
	OriginalQuery string

	Variant         rubric.Variant
	Store           trace.Store
	ConsumerProfile map[string]any
}

// Recommendation is the candidate text the fuzzy pre-filter and the
// recommendation rubric compare against the query.
func (t *Task) Recommendation() string {
	return t.Store.Name
}

// ExtractTasks flattens conversations into grading tasks: one per query
// variant per store, in served order. Traces without a query or without
// stores are skipped. A non-empty consumerID keeps only that consumer's
// conversations; limit > 0 caps the number of tasks.
func ExtractTasks(conversations []trace.Conversation, consumerID string, limit int) []Task {
	var tasks []Task
	for _, conv := range conversations {
		if consumerID != "" && conv.ConsumerID != consumerID {
			continue
		}
		for ti, tr := range conv.Traces {
			original := strings.TrimSpace(tr.OriginalQuery)
			if original == "" {
				continue
			}

			queries := []struct {
				rewriteID string
				text      string
				variant   rubric.Variant
			}{{OriginalRewriteID, original, rubric.FuzzyQuery}}
			for ri, rewritten := range tr.RewrittenQueries {
				rewritten = strings.TrimSpace(rewritten)
				if rewritten == "" {
					continue
				}
				queries = append(queries, struct {
					rewriteID string
					text      string
					variant   rubric.Variant
				}{fmt.Sprintf("rewrite_%d", ri), rewritten, rubric.StructuredQuery})
			}

			for ci, carousel := range tr.StoreRecommendations {
				for si, store := range carousel.Stores {
					if store.Name == "" {
						continue
					}
					for _, q := range queries {
						tasks = append(tasks, Task{
							ConversationID:  conv.ConversationID,
							TraceID:         tr.TraceID,
							TraceIndex:      ti,
							RewriteID:       q.rewriteID,
							CarouselIndex:   ci,
							StoreIndex:      si,
							Query:           q.text,
							OriginalQuery:   original,
							Variant:         q.variant,
							Store:           store,
							ConsumerProfile: conv.ConsumerProfile,
						})
						if limit > 0 && len(tasks) >= limit {
							return tasks
						}
					}
				}
			}
		}
	}
	return tasks
}
