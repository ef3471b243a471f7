/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package fuzzy computes token-sort-ratio similarity between normalized
// query and recommendation strings. It is the deterministic pre-filter that
// decides whether a pair is worth sending to the judge at all.
package fuzzy
