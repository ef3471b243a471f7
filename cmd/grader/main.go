/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements the grader CLI. It grades food recommendation
// traces with an LLM judge, validates result files, reconciles manual
// grades against AI grades, and converts trace exports into chunked JSON.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

type config struct {
	// JudgeModel is the default judge backend; claude-* models route to
	// Anthropic, everything else to OpenAI.
	JudgeModel string `env:"JUDGE_MODEL,default=claude-sonnet-4-5"`

	// MetricsPort exposes Prometheus metrics during grading runs when
	// nonzero.
	MetricsPort int `env:"METRICS_PORT,default=0"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	root := &cobra.Command{
		Use:          "grader",
		Short:        "Grade food recommendation traces with an LLM judge",
		SilenceUsage: true,
	}
	root.AddCommand(
		buildGradeCmd(&cfg),
		buildValidateCmd(),
		buildReconcileCmd(),
		buildConvertCmd(),
		buildReportCmd(),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		clog.FatalContextf(ctx, "%v", err)
	}
}
