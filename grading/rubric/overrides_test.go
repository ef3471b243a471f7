/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric_test

import (
	"strings"
	"testing"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/rubric"
)

func TestLoadWeightOverrides(t *testing.T) {
	t.Parallel()
	overrides, err := rubric.LoadWeightOverrides(strings.NewReader("c1: 5\nq2: 1.5\n"))
	if err != nil {
		t.Fatalf("LoadWeightOverrides: %v", err)
	}
	if overrides["c1"] != 5 || overrides["q2"] != 1.5 {
		t.Errorf("overrides = %v, want c1=5 q2=1.5", overrides)
	}
}

func TestApplyWeightOverridesRejections(t *testing.T) {
	t.Parallel()
	for name, overrides := range map[string]rubric.WeightOverrides{
		"unknown criterion": {"c99": 2},
		"negative weight":   {"c1": -1},
		"dynamic q8":        {"q8": 4},
	} {
		if err := rubric.ApplyWeightOverrides(overrides); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

// Not parallel: mutates the shared criterion tables and restores them
// before the parallel tests run.
func TestApplyWeightOverrides(t *testing.T) {
	original := rubric.StoreCriteria[0].Weight
	defer func() {
		rubric.StoreCriteria[0].Weight = original
	}()

	if err := rubric.ApplyWeightOverrides(rubric.WeightOverrides{"c1": 7}); err != nil {
		t.Fatalf("ApplyWeightOverrides: %v", err)
	}
	if rubric.StoreCriteria[0].Weight != 7 {
		t.Errorf("c1 weight = %v, want 7", rubric.StoreCriteria[0].Weight)
	}
}
