/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reconcile

import (
	"math"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/resultstore"
)

// HistogramBins is the number of integer score bins; scores land in
// [0..10] after rounding.
const HistogramBins = 11

// MatchedPair joins one manual grade with one AI record sharing its
// case-insensitive (query, recommendation) key. When several AI records
// share the key, every match is reported and flagged ambiguous.
type MatchedPair struct {
	Grade  ManualGrade        `json:"manual_grade"`
	Record resultstore.Record `json:"ai_record"`

	// Deltas are AI minus human, per metric.
	RelevanceDelta   float64 `json:"relevance_delta"`
	SerendipityDelta float64 `json:"serendipity_delta"`
	WeightedDelta    float64 `json:"weighted_delta"`

	Ambiguous bool `json:"ambiguous,omitempty"`
}

// Report is the outcome of reconciling a result file against a set of
// manual grades. Neither source record is mutated.
type Report struct {
	Pairs     []MatchedPair `json:"pairs"`
	Unmatched []ManualGrade `json:"unmatched_grades,omitempty"`

	// Mean deltas (AI - human) across all matched pairs.
	MeanRelevanceDelta   float64 `json:"mean_relevance_delta"`
	MeanSerendipityDelta float64 `json:"mean_serendipity_delta"`
	MeanWeightedDelta    float64 `json:"mean_weighted_delta"`

	// Weighted-score distributions, bucketed into integer bins [0..10].
	// The AI histogram counts every matched record; the human histogram
	// counts each matched grade once, no matter how many records share
	// its key.
	AIHistogram    [HistogramBins]int `json:"ai_histogram"`
	HumanHistogram [HistogramBins]int `json:"human_histogram"`
}

// Reconcile matches manual grades against AI records. Only records that
// carry verified fuzzy-query scores participate; grades that match no
// record are listed as unmatched.
func Reconcile(grades []ManualGrade, records []resultstore.Record) *Report {
	byKey := make(map[string][]resultstore.Record)
	for _, rec := range records {
		if rec.VerifiedScores == nil {
			continue
		}
		key := matchKey(rec.Query, rec.Recommendation)
		byKey[key] = append(byKey[key], rec)
	}

	report := &Report{}
	var sumRel, sumSer, sumWeighted float64
	for _, grade := range grades {
		matches := byKey[grade.Key()]
		if len(matches) == 0 {
			report.Unmatched = append(report.Unmatched, grade)
			continue
		}
		ambiguous := len(matches) > 1
		report.HumanHistogram[bin(grade.WeightedScore)]++
		for _, rec := range matches {
			pair := MatchedPair{
				Grade:            grade,
				Record:           rec,
				RelevanceDelta:   rec.VerifiedScores.Relevance - grade.RelevanceScore,
				SerendipityDelta: rec.VerifiedScores.Serendipity - grade.SerendipityScore,
				WeightedDelta:    rec.VerifiedScores.Weighted - grade.WeightedScore,
				Ambiguous:        ambiguous,
			}
			report.Pairs = append(report.Pairs, pair)
			sumRel += pair.RelevanceDelta
			sumSer += pair.SerendipityDelta
			sumWeighted += pair.WeightedDelta
			report.AIHistogram[bin(rec.VerifiedScores.Weighted)]++
		}
	}

	if n := float64(len(report.Pairs)); n > 0 {
		report.MeanRelevanceDelta = sumRel / n
		report.MeanSerendipityDelta = sumSer / n
		report.MeanWeightedDelta = sumWeighted / n
	}
	return report
}

// bin maps a 0-10 score onto its integer histogram bin, clamping
// out-of-range values.
func bin(score float64) int {
	b := int(math.Round(score))
	if b < 0 {
		return 0
	}
	if b >= HistogramBins {
		return HistogramBins - 1
	}
	return b
}
