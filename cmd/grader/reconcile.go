/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/reconcile"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/report"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/resultstore"
	"github.com/spf13/cobra"
)

func buildReconcileCmd() *cobra.Command {
	var gradesPath string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare manual grades against AI grades",
	}
	cmd.PersistentFlags().StringVar(&gradesPath, "grades", "grades.db", "SQLite file holding manual grades")

	cmd.AddCommand(
		buildReconcileCompareCmd(&gradesPath),
		buildReconcileAddCmd(&gradesPath),
		buildReconcileListCmd(&gradesPath),
		buildReconcileRemoveCmd(&gradesPath),
	)
	return cmd
}

// withGradeStore opens the grade store for one subcommand invocation.
func withGradeStore(ctx context.Context, path string, fn func(*reconcile.SQLiteStore) error) error {
	store, err := reconcile.OpenSQLite(ctx, path)
	if err != nil {
		return fmt.Errorf("opening grade store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func buildReconcileCompareCmd(gradesPath *string) *cobra.Command {
	var resultsPath string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Match manual grades to AI records and report score deltas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGradeStore(cmd.Context(), *gradesPath, func(store *reconcile.SQLiteStore) error {
				grades, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				records, err := resultstore.ReadAll(resultsPath)
				if err != nil {
					return err
				}
				fmt.Print(report.Reconciliation(reconcile.Reconcile(grades, records)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&resultsPath, "results", "results.jsonl", "JSONL result file from a grading run")
	return cmd
}

func buildReconcileAddCmd(gradesPath *string) *cobra.Command {
	var grade reconcile.ManualGrade
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a manual grade, overwriting any grade for the same pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGradeStore(cmd.Context(), *gradesPath, func(store *reconcile.SQLiteStore) error {
				return store.Save(cmd.Context(), &grade)
			})
		},
	}
	cmd.Flags().StringVar(&grade.Query, "query", "", "Query text")
	cmd.Flags().StringVar(&grade.Recommendation, "recommendation", "", "Recommended store name")
	cmd.Flags().Float64Var(&grade.RelevanceScore, "relevance", 0, "Relevance score in [0,10]")
	cmd.Flags().Float64Var(&grade.SerendipityScore, "serendipity", 0, "Serendipity score in [0,10]")
	cmd.Flags().Float64Var(&grade.WeightedScore, "weighted", 0, "Weighted score in [0,10]")
	cmd.Flags().StringVar(&grade.GradedBy, "graded-by", "", "Grader identity")
	cmd.Flags().StringVar(&grade.Notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("query")
	_ = cmd.MarkFlagRequired("recommendation")
	return cmd
}

func buildReconcileListCmd(gradesPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored manual grades",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGradeStore(cmd.Context(), *gradesPath, func(store *reconcile.SQLiteStore) error {
				grades, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, g := range grades {
					fmt.Printf("%s | %s | relevance=%.1f serendipity=%.1f weighted=%.1f | %s\n",
						g.Query, g.Recommendation, g.RelevanceScore, g.SerendipityScore, g.WeightedScore, g.GradedBy)
				}
				return nil
			})
		},
	}
}

func buildReconcileRemoveCmd(gradesPath *string) *cobra.Command {
	var query, recommendation string
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the manual grade for a pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGradeStore(cmd.Context(), *gradesPath, func(store *reconcile.SQLiteStore) error {
				return store.Delete(cmd.Context(), query, recommendation)
			})
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "Query text")
	cmd.Flags().StringVar(&recommendation, "recommendation", "", "Recommended store name")
	_ = cmd.MarkFlagRequired("query")
	_ = cmd.MarkFlagRequired("recommendation")
	return cmd
}
