/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/judge"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/report"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/resultstore"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/rubric"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/runner"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/trace"
	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type gradeOptions struct {
	input           string
	output          string
	aggregateOutput string
	aliasFile       string
	rubricWeights   string
	judgeModel      string
	consumerID      string
	fuzzyThreshold  float64
	temperature     float64
	parallelLimit   int
	limit           int
	itemLimit       int
	dryRun          bool
	validateOutput  bool
	metricsPort     int
}

func buildGradeCmd(cfg *config) *cobra.Command {
	var opts gradeOptions
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade recommendation traces through the judge pipeline",
		Long: `Grade extracts <query, recommendation> tasks from a trace export,
gates them with a fuzzy pre-filter, and scores the survivors with an
LLM judge. Records stream to a JSONL file as tasks finish; per-task
failures are recorded there without failing the run.`,
		Example: `  # Grade a CSV export with the default judge
  grader grade --input traces.csv --output results.jsonl

  # Preview extraction and fuzzy gating without judge calls
  grader grade --input traces.csv --output results.jsonl --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.metricsPort = cfg.MetricsPort
			if opts.judgeModel == "" {
				opts.judgeModel = cfg.JudgeModel
			}
			return runGrade(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Trace export to grade (.csv or .json)")
	cmd.Flags().StringVar(&opts.output, "output", "results.jsonl", "JSONL file for per-task records")
	cmd.Flags().StringVar(&opts.aggregateOutput, "aggregate-output", "", "Optional JSON file for the aggregated score tree")
	cmd.Flags().StringVar(&opts.aliasFile, "alias-file", "", "YAML alias overrides for store field spellings")
	cmd.Flags().StringVar(&opts.rubricWeights, "rubric-weights", "", "YAML weight overrides for the structured rubrics")
	cmd.Flags().StringVar(&opts.judgeModel, "judge-model", "", "Judge model (default from JUDGE_MODEL)")
	cmd.Flags().StringVar(&opts.consumerID, "consumer-id", "", "Grade only this consumer's conversations")
	cmd.Flags().Float64Var(&opts.fuzzyThreshold, "fuzzy-threshold", 0.7, "Fuzzy pre-filter threshold in [0,1]")
	cmd.Flags().Float64Var(&opts.temperature, "temperature", 0.0, "Judge sampling temperature")
	cmd.Flags().IntVar(&opts.parallelLimit, "parallel-limit", 10, "Maximum in-flight grading tasks")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Cap on extracted tasks (0 = unlimited)")
	cmd.Flags().IntVar(&opts.itemLimit, "item-limit", 20, "Menu item names compared per store in the fuzzy pre-filter")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Extract and fuzzy-score without judge calls")
	cmd.Flags().BoolVar(&opts.validateOutput, "validate-output", false, "Re-parse the output file after the run")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runGrade(ctx context.Context, opts *gradeOptions) error {
	log := clog.FromContext(ctx)

	if opts.aliasFile != "" {
		f, err := os.Open(opts.aliasFile)
		if err != nil {
			return fmt.Errorf("opening alias file: %w", err)
		}
		overrides, err := trace.LoadAliasOverrides(f)
		f.Close()
		if err != nil {
			return err
		}
		trace.UseAliasTable(trace.DefaultAliasTable().Merge(overrides))
	}

	if opts.rubricWeights != "" {
		f, err := os.Open(opts.rubricWeights)
		if err != nil {
			return fmt.Errorf("opening rubric weights: %w", err)
		}
		overrides, err := rubric.LoadWeightOverrides(f)
		f.Close()
		if err != nil {
			return err
		}
		if err := rubric.ApplyWeightOverrides(overrides); err != nil {
			return err
		}
	}

	conversations, err := loadConversations(ctx, opts.input)
	if err != nil {
		return err
	}

	var j judge.Interface
	if !opts.dryRun {
		j, err = judge.New(opts.judgeModel, judge.WithTemperature(opts.temperature))
		if err != nil {
			return fmt.Errorf("creating judge: %w", err)
		}
	}

	writer, err := resultstore.NewWriter(opts.output)
	if err != nil {
		return fmt.Errorf("creating result writer: %w", err)
	}

	if opts.metricsPort > 0 {
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.metricsPort),
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.With("error", err.Error()).Warn("Metrics server stopped")
			}
		}()
		defer srv.Close()
	}

	r := runner.New(j, writer, runner.Config{
		JudgeModel:     opts.judgeModel,
		FuzzyThreshold: opts.fuzzyThreshold,
		ParallelLimit:  opts.parallelLimit,
		DryRun:         opts.dryRun,
		Limit:          opts.limit,
		TopItemLimit:   opts.itemLimit,
		ConsumerID:     opts.consumerID,
	})
	summary, err := r.Run(ctx, conversations)
	if err != nil {
		writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing result writer: %w", err)
	}

	fmt.Print(report.Run(summary))

	if opts.aggregateOutput != "" {
		doc := resultstore.NewAggregate(opts.judgeModel, summary.TotalTasks, summary.Results)
		if err := resultstore.WriteAggregate(opts.aggregateOutput, doc); err != nil {
			return err
		}
		log.With("run_id", doc.Metadata.RunID).
			With("output", opts.aggregateOutput).
			Info("Wrote aggregated scores")
	}

	if opts.validateOutput {
		rep, err := resultstore.Validate(opts.output)
		if err != nil {
			return err
		}
		fmt.Print(report.Validation(opts.output, rep))
		if !rep.OK() {
			return fmt.Errorf("%s has %d defects", opts.output, len(rep.Defects))
		}
	}
	return nil
}

// loadConversations picks a loader by file extension: CSV exports go
// through the row-tolerant CSV path, anything else is treated as JSON.
func loadConversations(ctx context.Context, path string) ([]trace.Conversation, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return trace.LoadCSV(ctx, path, 0)
	}
	return trace.LoadJSON(path)
}
