/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/report"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/resultstore"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/runner"
	"github.com/spf13/cobra"
)

func buildReportCmd() *cobra.Command {
	var resultsPath string
	cmd := &cobra.Command{
		Use:   "report <scores.json>",
		Short: "Render the summary tables for a finished run",
		Long: `Report reads an aggregate score file written by grade
--aggregate-output and renders the per-conversation tables. With
--results it also recounts task statuses from the JSONL record file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading aggregate: %w", err)
			}
			var doc resultstore.Aggregate
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("parsing aggregate: %w", err)
			}

			summary := &runner.Summary{
				TotalTasks: doc.Metadata.TotalTasks,
				Results:    doc.Results,
			}
			if resultsPath != "" {
				records, err := resultstore.ReadAll(resultsPath)
				if err != nil {
					return err
				}
				for _, r := range records {
					switch r.Status {
					case resultstore.StatusSuccess:
						summary.Success++
					case resultstore.StatusError:
						summary.Errors++
					case resultstore.StatusSkipped:
						summary.Skipped++
					case resultstore.StatusDryRun:
						summary.DryRuns++
					}
					summary.VerifyMismatches += len(r.ScoreMismatches)
				}
			}
			fmt.Print(report.Run(summary))
			return nil
		},
	}
	cmd.Flags().StringVar(&resultsPath, "results", "", "Optional JSONL record file for status counts")
	return cmd
}
