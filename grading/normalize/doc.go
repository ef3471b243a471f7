/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package normalize prepares query and recommendation text for fuzzy
// comparison: lowercasing, punctuation stripping, whitespace collapsing,
// and stopword removal.
package normalize
