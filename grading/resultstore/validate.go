/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package resultstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// LineDefect describes one invalid line found during validation.
type LineDefect struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ValidationReport summarizes a post-write check of a JSONL result file.
// Validation never mutates the file.
type ValidationReport struct {
	TotalLines   int            `json:"total_lines"`
	ValidRecords int            `json:"valid_records"`
	Defects      []LineDefect   `json:"defects,omitempty"`
	StatusCounts map[Status]int `json:"status_counts"`
}

// OK reports whether every line parsed and validated.
func (r *ValidationReport) OK() bool {
	return len(r.Defects) == 0
}

// Validate re-parses a JSONL result file line by line and reports
// line-level defects.
func Validate(path string) (*ValidationReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening result file: %w", err)
	}
	defer file.Close()

	report := &ValidationReport{StatusCounts: make(map[Status]int)}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		report.TotalLines++
		line := scanner.Bytes()
		if len(line) == 0 {
			report.Defects = append(report.Defects, LineDefect{
				Line:    report.TotalLines,
				Message: "empty line",
			})
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			report.Defects = append(report.Defects, LineDefect{
				Line:    report.TotalLines,
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}
		if err := record.Validate(); err != nil {
			report.Defects = append(report.Defects, LineDefect{
				Line:    report.TotalLines,
				Message: err.Error(),
			})
			continue
		}
		report.ValidRecords++
		report.StatusCounts[record.Status]++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	return report, nil
}
