/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// WeightOverrides maps criterion IDs to replacement weights for the
// structured tables (q1-q9, c1-c19).
type WeightOverrides map[string]float64

// LoadWeightOverrides reads a WeightOverrides from YAML.
func LoadWeightOverrides(r io.Reader) (WeightOverrides, error) {
	var o WeightOverrides
	if err := yaml.NewDecoder(r).Decode(&o); err != nil {
		return nil, fmt.Errorf("decoding weight overrides: %w", err)
	}
	return o, nil
}

// ApplyWeightOverrides rewrites the weights of the structured criterion
// tables in place. Call once at startup, before any scoring. Overriding
// q8 is rejected; its weight is dynamic per intent category.
func ApplyWeightOverrides(overrides WeightOverrides) error {
	for id, weight := range overrides {
		if weight < 0 {
			return fmt.Errorf("criterion %q: weight %v is negative", id, weight)
		}
		if id == "q8" {
			return fmt.Errorf("criterion q8 has a dynamic weight and cannot be overridden")
		}
		if !setWeight(IntentCriteria, id, weight) && !setWeight(StoreCriteria, id, weight) {
			return fmt.Errorf("unknown criterion %q", id)
		}
	}
	return nil
}

func setWeight(criteria []Criterion, id string, weight float64) bool {
	for i := range criteria {
		if criteria[i].ID == id {
			criteria[i].Weight = weight
			return true
		}
	}
	return false
}
