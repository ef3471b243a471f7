/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

// CheckAnswer is a judge's response to one fuzzy-query check, including
// its chain-of-thought fields.
type CheckAnswer struct {
	// Passed reports whether the binary check succeeded.
	Passed bool `json:"passed"`

	// Points is the point value the judge claims for the check; scoring
	// recomputes from Passed and the criterion table instead of trusting it.
	Points float64 `json:"points"`

	// Tier is the novelty tier (1-6) for the graded serendipity check.
	Tier int `json:"tier,omitempty"`

	// Reason is the judge's one-line justification.
	Reason string `json:"reason,omitempty"`

	// GateViolation is set by the judge on the profile-compliance check.
	GateViolation bool `json:"is_gate_violation,omitempty"`
}

// FuzzyQueryAnswers is the full structured response of the fuzzy-query
// judge for one recommendation.
type FuzzyQueryAnswers struct {
	RelevanceChecks   map[string]CheckAnswer `json:"relevance_format_checks"`
	SerendipityChecks map[string]CheckAnswer `json:"serendipity_checks"`

	// Judge-reported scores, cross-checked by VerifyFuzzyQuery.
	RelevanceFormatScore float64 `json:"relevance_format_score"`
	SerendipityScore     float64 `json:"serendipity_score"`
	WeightedScore        float64 `json:"weighted_score"`

	RelevanceFormatReasoning string `json:"relevance_format_reasoning,omitempty"`
	SerendipityReasoning     string `json:"serendipity_reasoning,omitempty"`
	OverallReasoning         string `json:"overall_reasoning,omitempty"`
}

// FuzzyQueryResult holds the recomputed fuzzy-query scores for one task.
type FuzzyQueryResult struct {
	// Relevance is the relevance & format score on 0-10.
	Relevance float64 `json:"relevance_format_score"`

	// Serendipity is the serendipity score on 0-10.
	Serendipity float64 `json:"serendipity_score"`

	// Weighted is Relevance*0.70 + Serendipity*0.30.
	Weighted float64 `json:"weighted_score"`

	// GateViolated is true when the profile-compliance check failed.
	// Only the relevance score is zeroed; serendipity's 30% share of the
	// weighted score survives a gate violation.
	GateViolated bool `json:"gate_violated"`
}

const (
	relevanceWeight   = 0.70
	serendipityWeight = 0.30
)

// ScoreFuzzyQuery recomputes the fuzzy-query scores from the raw check
// answers. Points come from the criterion table and the Passed flags, not
// from the judge's own arithmetic. A gate violation zeroes relevance and
// leaves serendipity intact.
func ScoreFuzzyQuery(answers *FuzzyQueryAnswers) *FuzzyQueryResult {
	res := &FuzzyQueryResult{}

	var relPoints float64
	for _, c := range RelevanceCriteria {
		check, ok := answers.RelevanceChecks[c.ID]
		if !ok {
			continue
		}
		if c.Gate && (check.GateViolation || !check.Passed) {
			res.GateViolated = true
		}
		if check.Passed {
			relPoints += c.Weight
		}
	}
	if !res.GateViolated {
		res.Relevance = relPoints / relevanceMaxPoints * 10
	}

	for _, c := range SerendipityCriteria {
		check, ok := answers.SerendipityChecks[c.ID]
		if !ok {
			continue
		}
		if c.ID == "check_1_novelty_tier" {
			res.Serendipity += noveltyTierPoints(check.Tier)
		} else if check.Passed {
			res.Serendipity += c.Weight
		}
	}

	res.Weighted = res.Relevance*relevanceWeight + res.Serendipity*serendipityWeight
	return res
}

// noveltyTierPoints maps the 1-6 novelty tier to its point value:
// Tier1=0 (disconnected cuisine) through Tier6=5 (new dish, connected new
// cuisine). Out-of-range tiers clamp.
func noveltyTierPoints(tier int) float64 {
	switch {
	case tier <= 1:
		return 0
	case tier >= 6:
		return 5
	default:
		return float64(tier - 1)
	}
}
