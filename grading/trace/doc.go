/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package trace models the raw conversation exports consumed by the
// grader: conversations of traces, traces of store carousels, stores with
// menu items. Raw rows spell field names inconsistently, so stores pass
// through a data-driven alias table on their way to the canonical shape.
package trace
