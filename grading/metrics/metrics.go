/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics exposes Prometheus metrics for grading runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	taskCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grading_tasks_total",
			Help: "Total number of grading tasks by terminal status",
		},
		[]string{"status", "judge_model"},
	)

	judgeErrorCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grading_judge_errors_total",
			Help: "Total number of judge call failures",
		},
		[]string{"operation", "judge_model"},
	)

	verifyMismatchCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grading_verification_mismatches_total",
			Help: "Judge-reported scores that disagreed with the recomputed values",
		},
		[]string{"judge_model"},
	)

	scoreGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "grading_latest_score",
			Help: "Most recent per-store combined score (0-100)",
		},
		[]string{"judge_model"},
	)
)

// Observer records run-level metrics for one judge model.
type Observer struct {
	judgeModel string
}

// NewObserver creates a metrics observer labeled with the judge model.
func NewObserver(judgeModel string) *Observer {
	return &Observer{judgeModel: judgeModel}
}

// Task records a task reaching a terminal status.
func (o *Observer) Task(status string) {
	taskCounter.WithLabelValues(status, o.judgeModel).Inc()
}

// JudgeError records a failed judge call for one operation.
func (o *Observer) JudgeError(operation string) {
	judgeErrorCounter.WithLabelValues(operation, o.judgeModel).Inc()
}

// VerifyMismatch records a score the judge reported incorrectly.
func (o *Observer) VerifyMismatch() {
	verifyMismatchCounter.WithLabelValues(o.judgeModel).Inc()
}

// Score records the most recent combined store score.
func (o *Observer) Score(combinedPct float64) {
	scoreGauge.WithLabelValues(o.judgeModel).Set(combinedPct)
}
