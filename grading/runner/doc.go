/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package runner extracts grading tasks from conversation traces and
// drives them through the fuzzy pre-filter, the judge, and the rubric
// scorers on a bounded worker pool. Task failures are recorded per task
// and never abort sibling tasks.
package runner
