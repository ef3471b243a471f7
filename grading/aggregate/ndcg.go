/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package aggregate

import (
	"math"
	"sort"
)

// NDCG computes the normalized discounted cumulative gain of relevance
// values in their served order. Position i (zero-based) is discounted by
// log2(i+2). IDCG uses the same values sorted descending. When every value
// is equal, including all-zero, NDCG is 1.0 by convention: the served order
// cannot be improved.
func NDCG(relevances []float64) float64 {
	if len(relevances) == 0 {
		return 0
	}

	allEqual := true
	for _, r := range relevances[1:] {
		if r != relevances[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return 1.0
	}

	ideal := make([]float64, len(relevances))
	copy(ideal, relevances)
	sort.Sort(sort.Reverse(sort.Float64Slice(ideal)))

	dcg := discountedGain(relevances)
	idcg := discountedGain(ideal)
	if idcg == 0 {
		return 1.0
	}
	return dcg / idcg
}

func discountedGain(relevances []float64) float64 {
	var sum float64
	for i, rel := range relevances {
		sum += rel / math.Log2(float64(i+2))
	}
	return sum
}
