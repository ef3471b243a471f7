/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package resultstore persists grading output: one JSONL record per task
// with full provenance, an aggregate JSON export of the conversation
// trees, and post-write validation of result files.
package resultstore
