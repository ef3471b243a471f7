/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/resultstore"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/trace"
	"github.com/spf13/cobra"
)

func buildConvertCmd() *cobra.Command {
	var (
		outputDir string
		output    string
		chunkSize int
	)
	cmd := &cobra.Command{
		Use:   "convert <traces.csv | results.jsonl>",
		Short: "Convert between trace and result formats",
		Long: `Convert a CSV trace export into chunked JSON files with a manifest,
or flatten a JSONL result file into a single JSON array for viewers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.EqualFold(filepath.Ext(args[0]), ".jsonl") {
				return flattenResults(args[0], output)
			}
			_, err := trace.ConvertCSV(cmd.Context(), args[0], outputDir, chunkSize)
			return err
		},
	}
	cmd.Flags().StringVar(&outputDir, "output-dir", "traces", "Directory for chunk files and manifest (CSV input)")
	cmd.Flags().StringVar(&output, "output", "results.json", "Flat JSON file (JSONL input)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 10, "Conversations per chunk file (CSV input)")
	return cmd
}

func flattenResults(input, output string) error {
	records, err := resultstore.ReadAll(input)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	return nil
}
