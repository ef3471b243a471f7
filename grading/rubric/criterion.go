/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

// Criterion describes one check in a scoring schema.
type Criterion struct {
	// ID is the criterion key as it appears in judge answer sets.
	ID string
	// Weight is the point value when answered Yes.
	Weight float64
	// Gate marks the criterion whose "No" zeroes the relevance score.
	Gate bool
	// Critical marks criteria whose "No" is recorded in CriticalFailures
	// without affecting the score.
	Critical bool
}

// Variant selects which scoring schema applies to a task.
type Variant string

const (
	// FuzzyQuery is the relevance + serendipity schema on a 0-10 scale.
	FuzzyQuery Variant = "fuzzy_query"
	// StructuredQuery is the weighted percentage schema (Q1-Q9 or C1-C19).
	StructuredQuery Variant = "structured_query"
)

// RelevanceCriteria are the 11 relevance and format checks of the
// fuzzy-query variant. Raw points sum to 20; the final score is
// earned/20*10. Check 6 is the profile-compliance gate.
var RelevanceCriteria = []Criterion{
	{ID: "check_1_primary_intent", Weight: 3},
	{ID: "check_2_descriptive_traits", Weight: 2},
	{ID: "check_3_category_dietary", Weight: 2},
	{ID: "check_4_situational", Weight: 2},
	{ID: "check_5_explicit_constraints", Weight: 2},
	{ID: "check_6_profile_dietary_gate", Weight: 1, Gate: true},
	{ID: "check_7_output_clarity", Weight: 2},
	{ID: "check_8_mainstream_availability", Weight: 2},
	{ID: "check_9_format_correctness", Weight: 2},
	{ID: "check_10_no_redundant_info", Weight: 1},
	{ID: "check_11_no_vague_filler", Weight: 1},
}

// SerendipityCriteria are the serendipity checks of the fuzzy-query
// variant: one graded novelty tier worth up to 5 points plus five binary
// checks worth 1 point each, max 10, already on the 0-10 scale.
var SerendipityCriteria = []Criterion{
	{ID: "check_1_novelty_tier", Weight: 5},
	{ID: "check_2_low_discoverability", Weight: 1},
	{ID: "check_3_familiar_ingredients_new_context", Weight: 1},
	{ID: "check_4_context_fit_while_novel", Weight: 1},
	{ID: "check_5_aha_moment", Weight: 1},
	{ID: "check_6_creates_curiosity", Weight: 1},
}

// relevanceMaxPoints is the raw point ceiling of the relevance checks.
const relevanceMaxPoints = 20.0

// IntentCriteria is the Q1-Q9 schema for fuzzy-intent store evaluation.
// Q8's weight is dynamic; the table carries the default and callers
// override it via IntentCriteriaFor.
var IntentCriteria = []Criterion{
	{ID: "q1", Weight: 3},
	{ID: "q2", Weight: 2},
	{ID: "q3", Weight: 1},
	{ID: "q4", Weight: 1},
	{ID: "q5", Weight: 1},
	{ID: "q6", Weight: 1},
	{ID: "q7", Weight: 2},
	{ID: "q8", Weight: defaultQ8Weight},
	{ID: "q9", Weight: 2},
}

// intentMatchIDs are the criteria whose earned share defines the
// intent-match score and the relevance flag.
var intentMatchIDs = map[string]struct{}{"q1": {}, "q2": {}}

// StoreCriteria is the C1-C19 schema for structured-query store
// evaluation. C17-C19 are always enforced: a "No" lands in
// CriticalFailures but never zeroes the score.
var StoreCriteria = []Criterion{
	{ID: "c1", Weight: 3},
	{ID: "c2", Weight: 2},
	{ID: "c3", Weight: 2},
	{ID: "c4", Weight: 3},
	{ID: "c5", Weight: 3},
	{ID: "c6", Weight: 2},
	{ID: "c7", Weight: 2},
	{ID: "c8", Weight: 1},
	{ID: "c9", Weight: 1},
	{ID: "c10", Weight: 2},
	{ID: "c11", Weight: 3},
	{ID: "c12", Weight: 2},
	{ID: "c13", Weight: 2},
	{ID: "c14", Weight: 2},
	{ID: "c15", Weight: 2},
	{ID: "c16", Weight: 2},
	{ID: "c17", Weight: 3, Critical: true},
	{ID: "c18", Weight: 2, Critical: true},
	{ID: "c19", Weight: 3, Critical: true},
}

// criticalReasons labels critical failures in output records.
var criticalReasons = map[string]string{
	"c17": "store is closed",
	"c18": "rating at or below 4.5",
	"c19": "missing query modifiers",
}

// IntentCategory classifies a fuzzy query and determines the dynamic Q8
// weight.
type IntentCategory string

const (
	IntentComfort      IntentCategory = "Comfort / Craving / Emotional"
	IntentFlavor       IntentCategory = "Flavor-Based (Taste / Texture)"
	IntentExploration  IntentCategory = "Exploration / Novelty"
	IntentGroup        IntentCategory = "Group / Occasion"
	IntentDietary      IntentCategory = "Dietary / Health-Driven"
	IntentFunctional   IntentCategory = "Functional / Ergonomic"
	IntentGeneric      IntentCategory = "Generic / Vague / Underspecified"
	IntentCrowdPleaser IntentCategory = "Popularity / Crowd-Pleaser"
)

const defaultQ8Weight = 2.0

// q8Weights maps intent categories to the personalization weight. Unknown
// categories use the default.
var q8Weights = map[IntentCategory]float64{
	IntentComfort:      3,
	IntentFlavor:       2,
	IntentExploration:  1,
	IntentGroup:        1,
	IntentDietary:      2,
	IntentFunctional:   2,
	IntentGeneric:      2,
	IntentCrowdPleaser: 1,
}

// Q8Weight returns the personalization weight for the category.
func (c IntentCategory) Q8Weight() float64 {
	if w, ok := q8Weights[c]; ok {
		return w
	}
	return defaultQ8Weight
}

// IntentCriteriaFor returns the Q1-Q9 table with Q8's weight set for the
// given intent category.
func IntentCriteriaFor(category IntentCategory) []Criterion {
	criteria := make([]Criterion, len(IntentCriteria))
	copy(criteria, IntentCriteria)
	for i := range criteria {
		if criteria[i].ID == "q8" {
			criteria[i].Weight = category.Q8Weight()
		}
	}
	return criteria
}

// CriterionIDs returns the IDs of the table in order, used to validate
// judge answer sets for completeness.
func CriterionIDs(criteria []Criterion) []string {
	ids := make([]string, len(criteria))
	for i, c := range criteria {
		ids[i] = c.ID
	}
	return ids
}
