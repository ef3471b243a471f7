/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reconcile

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory GradeStore, used by tests and dry runs.
type MemoryStore struct {
	mu     sync.RWMutex
	grades map[string]ManualGrade
}

// NewMemoryStore creates an empty in-memory grade store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{grades: make(map[string]ManualGrade)}
}

// Save implements GradeStore.
func (s *MemoryStore) Save(_ context.Context, grade *ManualGrade) error {
	if err := grade.Validate(); err != nil {
		return err
	}
	saved := *grade
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grades[grade.Key()] = saved
	return nil
}

// List implements GradeStore, returning grades sorted by query then
// recommendation for deterministic output.
func (s *MemoryStore) List(context.Context) ([]ManualGrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grades := make([]ManualGrade, 0, len(s.grades))
	for _, g := range s.grades {
		grades = append(grades, g)
	}
	sort.Slice(grades, func(i, j int) bool {
		if grades[i].Query != grades[j].Query {
			return grades[i].Query < grades[j].Query
		}
		return grades[i].Recommendation < grades[j].Recommendation
	})
	return grades, nil
}

// Delete implements GradeStore. Deleting a missing key is a no-op.
func (s *MemoryStore) Delete(_ context.Context, query, recommendation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grades, matchKey(query, recommendation))
	return nil
}
