/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"fmt"
	"strings"
)

// Answer is a judge's response to one criterion.
type Answer string

const (
	// Yes means the criterion is satisfied; its weight counts toward both
	// earned and applicable points.
	Yes Answer = "Yes"
	// No means the criterion is not satisfied; its weight counts toward
	// applicable points only.
	No Answer = "No"
	// NA means the criterion does not apply to this query; its weight is
	// excluded from both totals.
	NA Answer = "NA"
)

// ParseAnswer maps the spellings judges actually emit ("Y", "yes", "NA to
// Query", ...) onto the canonical Answer values.
func ParseAnswer(s string) (Answer, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Y", "YES":
		return Yes, nil
	case "N", "NO":
		return No, nil
	case "NA", "N/A", "NA TO QUERY", "NOT APPLICABLE":
		return NA, nil
	default:
		return "", fmt.Errorf("unrecognized answer %q", s)
	}
}

// AnswerSet maps criterion IDs to answers for one task.
type AnswerSet map[string]Answer
