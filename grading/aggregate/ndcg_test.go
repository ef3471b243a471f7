/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package aggregate_test

import (
	"math"
	"testing"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/aggregate"
)

func TestNDCGSortedDescending(t *testing.T) {
	t.Parallel()
	got := aggregate.NDCG([]float64{1.0, 0.8, 0.5, 0.1})
	if got != 1.0 {
		t.Errorf("NDCG(descending) = %v, want 1.0", got)
	}
}

func TestNDCGAllEqual(t *testing.T) {
	t.Parallel()
	for _, rels := range [][]float64{
		{0.5, 0.5, 0.5},
		{0, 0, 0},
		{1.0},
	} {
		if got := aggregate.NDCG(rels); got != 1.0 {
			t.Errorf("NDCG(%v) = %v, want 1.0 for equal relevances", rels, got)
		}
	}
}

func TestNDCGWorstOrder(t *testing.T) {
	t.Parallel()
	got := aggregate.NDCG([]float64{0.1, 0.5, 1.0})
	if got <= 0 || got >= 1.0 {
		t.Errorf("NDCG(ascending) = %v, want value in (0, 1)", got)
	}
}

func TestNDCGBounds(t *testing.T) {
	t.Parallel()
	lists := [][]float64{
		{0.3, 0.9, 0.1, 0.7, 0.7},
		{0, 1},
		{0.42, 0.41, 0.43},
	}
	for _, rels := range lists {
		got := aggregate.NDCG(rels)
		if got < 0 || got > 1.0 {
			t.Errorf("NDCG(%v) = %v, out of [0, 1]", rels, got)
		}
	}
}

func TestNDCGEmpty(t *testing.T) {
	t.Parallel()
	if got := aggregate.NDCG(nil); got != 0 {
		t.Errorf("NDCG(nil) = %v, want 0", got)
	}
}

func TestNDCGKnownValue(t *testing.T) {
	t.Parallel()
	// DCG  = 0.5/log2(2) + 1.0/log2(3) = 0.5 + 0.63093
	// IDCG = 1.0/log2(2) + 0.5/log2(3) = 1.0 + 0.31546
	rels := []float64{0.5, 1.0}
	dcg := 0.5 + 1.0/math.Log2(3)
	idcg := 1.0 + 0.5/math.Log2(3)
	want := dcg / idcg
	if got := aggregate.NDCG(rels); math.Abs(got-want) > 1e-9 {
		t.Errorf("NDCG(%v) = %v, want %v", rels, got, want)
	}
}
