/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package rubric defines the weighted point schemas used to score judge
// answers, and the scorers that turn answer sets into normalized scores.
//
// Two variants exist: the fuzzy-query variant (relevance + serendipity
// checks on a 0-10 scale with a hard profile-compliance gate) and the
// structured-query variant (Q1-Q9 and C1-C19 percentage schemas with
// NA exclusion and non-gating critical checks). Both are driven by
// Criterion descriptor tables so the earned/applicable arithmetic lives
// in one place.
package rubric
