/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reconcile

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

// SQLiteStore is a GradeStore backed by a local sqlite database, so
// manual grades survive between grading sessions.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the grade database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening grade database: %w", err)
	}
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS manual_grades (
			match_key TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			recommendation TEXT NOT NULL,
			relevance_score REAL NOT NULL,
			serendipity_score REAL NOT NULL,
			weighted_score REAL NOT NULL,
			graded_by TEXT,
			notes TEXT,
			created_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating manual_grades table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save implements GradeStore, overwriting any grade with the same key.
func (s *SQLiteStore) Save(ctx context.Context, grade *ManualGrade) error {
	if err := grade.Validate(); err != nil {
		return err
	}
	createdAt := grade.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO manual_grades
			(match_key, query, recommendation, relevance_score, serendipity_score, weighted_score, graded_by, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_key) DO UPDATE SET
			query = excluded.query,
			recommendation = excluded.recommendation,
			relevance_score = excluded.relevance_score,
			serendipity_score = excluded.serendipity_score,
			weighted_score = excluded.weighted_score,
			graded_by = excluded.graded_by,
			notes = excluded.notes,
			created_at = excluded.created_at
	`, grade.Key(), grade.Query, grade.Recommendation,
		grade.RelevanceScore, grade.SerendipityScore, grade.WeightedScore,
		grade.GradedBy, grade.Notes, createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving manual grade: %w", err)
	}
	return nil
}

// List implements GradeStore.
func (s *SQLiteStore) List(ctx context.Context) ([]ManualGrade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT query, recommendation, relevance_score, serendipity_score, weighted_score, graded_by, notes, created_at
		FROM manual_grades
		ORDER BY query, recommendation
	`)
	if err != nil {
		return nil, fmt.Errorf("listing manual grades: %w", err)
	}
	defer rows.Close()

	var grades []ManualGrade
	for rows.Next() {
		var g ManualGrade
		var createdAt string
		if err := rows.Scan(&g.Query, &g.Recommendation,
			&g.RelevanceScore, &g.SerendipityScore, &g.WeightedScore,
			&g.GradedBy, &g.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning manual grade: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			g.CreatedAt = t
		}
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing manual grades: %w", err)
	}
	return grades, nil
}

// Delete implements GradeStore.
func (s *SQLiteStore) Delete(ctx context.Context, query, recommendation string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM manual_grades WHERE match_key = ?`,
		matchKey(query, recommendation)); err != nil {
		return fmt.Errorf("deleting manual grade: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
