/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/report"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/resultstore"
	"github.com/spf13/cobra"
)

func buildValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <results.jsonl>",
		Short: "Re-parse a result file and report malformed records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := resultstore.Validate(args[0])
			if err != nil {
				return err
			}
			fmt.Print(report.Validation(args[0], rep))
			if !rep.OK() {
				return fmt.Errorf("%s has %d defects", args[0], len(rep.Defects))
			}
			return nil
		},
	}
}
