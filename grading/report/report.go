/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders grading run summaries, validation reports, and
// reconciliation comparisons as markdown tables.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/reconcile"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/resultstore"
	"github.com/Big-OO7/VOX-Trace-GUI/grading/runner"
)

// Run renders a grading run: task status counts, per-conversation
// averages, and an overall line.
func Run(summary *runner.Summary) string {
	var out strings.Builder
	out.WriteString("## Grading Run\n\n")

	var buf bytes.Buffer
	statusTable := newStandardTable([]string{"Status", "Tasks"}, &buf)
	_ = statusTable.Append([]string{"success", fmt.Sprint(summary.Success)})
	_ = statusTable.Append([]string{"error", fmt.Sprint(summary.Errors)})
	_ = statusTable.Append([]string{"skipped", fmt.Sprint(summary.Skipped)})
	_ = statusTable.Append([]string{"dry_run", fmt.Sprint(summary.DryRuns)})
	_ = statusTable.Append([]string{"total", fmt.Sprint(summary.TotalTasks)})
	_ = statusTable.Render()
	out.WriteString(buf.String())

	if summary.VerifyMismatches > 0 {
		fmt.Fprintf(&out, "\n%d judge-reported scores disagreed with the recomputed values.\n", summary.VerifyMismatches)
	}

	if len(summary.Results) == 0 {
		return out.String()
	}

	out.WriteString("\n## Conversations\n\n")
	buf.Reset()
	convTable := newStandardTable([]string{
		"Conversation", "Traces", "Avg Fuzzy", "Avg Structured", "Avg Combined", "Avg NDCG", "Irrelevance",
	}, &buf)

	var sumCombined, sumNDCG, sumIrrelevance float64
	var scored int
	for _, conv := range summary.Results {
		if conv.Error != "" {
			_ = convTable.Append([]string{conv.ConversationID, fmt.Sprint(conv.NumTraces), "-", "-", "-", "-", conv.Error})
			continue
		}
		scored++
		sumCombined += conv.AvgCombinedScore
		sumNDCG += conv.AvgNDCGCombined
		sumIrrelevance += conv.IrrelevanceRate
		_ = convTable.Append([]string{
			conv.ConversationID,
			fmt.Sprint(conv.NumTraces),
			fmt.Sprintf("%.1f", conv.AvgFuzzyScore),
			fmt.Sprintf("%.1f", conv.AvgStructuredScore),
			fmt.Sprintf("%.1f", conv.AvgCombinedScore),
			fmt.Sprintf("%.3f", conv.AvgNDCGCombined),
			fmt.Sprintf("%.1f%%", conv.IrrelevanceRate),
		})
	}
	_ = convTable.Render()
	out.WriteString(buf.String())

	if scored > 0 {
		n := float64(scored)
		fmt.Fprintf(&out, "\nOverall: combined %.1f, NDCG %.3f, irrelevance %.1f%% across %d conversations.\n",
			sumCombined/n, sumNDCG/n, sumIrrelevance/n, scored)
	}
	return out.String()
}

// Validation renders a post-write check of a result file.
func Validation(path string, report *resultstore.ValidationReport) string {
	var out strings.Builder
	fmt.Fprintf(&out, "## Validation: %s\n\n", path)
	fmt.Fprintf(&out, "%d lines, %d valid records.\n", report.TotalLines, report.ValidRecords)

	if len(report.StatusCounts) > 0 {
		var buf bytes.Buffer
		table := newStandardTable([]string{"Status", "Records"}, &buf)
		for _, status := range []resultstore.Status{
			resultstore.StatusSuccess, resultstore.StatusError,
			resultstore.StatusSkipped, resultstore.StatusDryRun,
		} {
			if n := report.StatusCounts[status]; n > 0 {
				_ = table.Append([]string{string(status), fmt.Sprint(n)})
			}
		}
		_ = table.Render()
		out.WriteString("\n")
		out.WriteString(buf.String())
	}

	if report.OK() {
		out.WriteString("\nNo defects found.\n")
		return out.String()
	}

	out.WriteString("\n## Defects\n\n")
	var buf bytes.Buffer
	table := newStandardTable([]string{"Line", "Problem"}, &buf)
	for _, defect := range report.Defects {
		_ = table.Append([]string{fmt.Sprint(defect.Line), defect.Message})
	}
	_ = table.Render()
	out.WriteString(buf.String())
	return out.String()
}

// Reconciliation renders the comparison between manual and AI grades.
func Reconciliation(report *reconcile.Report) string {
	var out strings.Builder
	out.WriteString("## Manual vs AI Grades\n\n")
	fmt.Fprintf(&out, "%d matched pairs, %d unmatched manual grades.\n\n",
		len(report.Pairs), len(report.Unmatched))

	if len(report.Pairs) == 0 {
		return out.String()
	}

	var buf bytes.Buffer
	deltaTable := newStandardTable([]string{"Metric", "Mean Delta (AI - human)"}, &buf)
	_ = deltaTable.Append([]string{"relevance_format_score", fmt.Sprintf("%+.2f", report.MeanRelevanceDelta)})
	_ = deltaTable.Append([]string{"serendipity_score", fmt.Sprintf("%+.2f", report.MeanSerendipityDelta)})
	_ = deltaTable.Append([]string{"weighted_score", fmt.Sprintf("%+.2f", report.MeanWeightedDelta)})
	_ = deltaTable.Render()
	out.WriteString(buf.String())

	out.WriteString("\n## Weighted Score Distribution\n\n")
	buf.Reset()
	histTable := newStandardTable([]string{"Bin", "AI", "Human"}, &buf)
	for i := 0; i < reconcile.HistogramBins; i++ {
		if report.AIHistogram[i] == 0 && report.HumanHistogram[i] == 0 {
			continue
		}
		_ = histTable.Append([]string{
			fmt.Sprint(i),
			fmt.Sprint(report.AIHistogram[i]),
			fmt.Sprint(report.HumanHistogram[i]),
		})
	}
	_ = histTable.Render()
	out.WriteString(buf.String())

	ambiguous := 0
	for _, pair := range report.Pairs {
		if pair.Ambiguous {
			ambiguous++
		}
	}
	if ambiguous > 0 {
		fmt.Fprintf(&out, "\n%d pairs matched ambiguously (several AI records share the same key).\n", ambiguous)
	}
	return out.String()
}
