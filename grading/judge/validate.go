/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/rubric"
	"github.com/invopop/jsonschema"
	schemavalidate "github.com/santhosh-tekuri/jsonschema/v5"
)

// recommendationSchema is the compiled JSON Schema a fuzzy-query judge
// response must satisfy, derived from the Go response type.
var recommendationSchema = sync.OnceValues(func() (*schemavalidate.Schema, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	generated, err := json.Marshal(reflector.Reflect(&rubric.FuzzyQueryAnswers{}))
	if err != nil {
		return nil, fmt.Errorf("encoding generated schema: %w", err)
	}

	compiler := schemavalidate.NewCompiler()
	if err := compiler.AddResource("recommendation.json", bytes.NewReader(generated)); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	return compiler.Compile("recommendation.json")
})

// parseRecommendationAnswers validates the raw judge payload against the
// generated schema, then decodes it.
func parseRecommendationAnswers(raw string) (*rubric.FuzzyQueryAnswers, error) {
	schema, err := recommendationSchema()
	if err != nil {
		return nil, fmt.Errorf("building recommendation schema: %w", err)
	}

	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("judge response is not valid JSON: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return nil, fmt.Errorf("judge response failed schema validation: %w", err)
	}

	var answers rubric.FuzzyQueryAnswers
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil, fmt.Errorf("decoding judge response: %w", err)
	}
	if err := requireChecks(answers.RelevanceChecks, rubric.RelevanceCriteria); err != nil {
		return nil, fmt.Errorf("relevance checks: %w", err)
	}
	if err := requireChecks(answers.SerendipityChecks, rubric.SerendipityCriteria); err != nil {
		return nil, fmt.Errorf("serendipity checks: %w", err)
	}
	return &answers, nil
}

// requireChecks rejects a check map missing any criterion of the table.
// Scoring skips absent criteria, so a partial answer set would silently
// deflate points and could hide a gate violation; it must be an error
// instead.
func requireChecks(checks map[string]rubric.CheckAnswer, criteria []rubric.Criterion) error {
	var missing []string
	for _, id := range rubric.CriterionIDs(criteria) {
		if _, ok := checks[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing answers for %s", strings.Join(missing, ", "))
	}
	return nil
}

// answerSetSchemas caches the compiled schema per criteria table.
var answerSetSchemas sync.Map

// answerSetSchema builds a schema requiring exactly the table's criterion
// IDs, each mapped to a string answer.
func answerSetSchema(criteria []rubric.Criterion) (*schemavalidate.Schema, error) {
	ids := rubric.CriterionIDs(criteria)
	key := fmt.Sprint(ids)
	if cached, ok := answerSetSchemas.Load(key); ok {
		return cached.(*schemavalidate.Schema), nil
	}

	properties := make(map[string]any, len(ids))
	for _, id := range ids {
		properties[id] = map[string]any{"type": "string"}
	}
	doc, err := json.Marshal(map[string]any{
		"type":                 "object",
		"required":             ids,
		"properties":           properties,
		"additionalProperties": false,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding answer-set schema: %w", err)
	}

	compiler := schemavalidate.NewCompiler()
	if err := compiler.AddResource("answers.json", bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	schema, err := compiler.Compile("answers.json")
	if err != nil {
		return nil, err
	}
	answerSetSchemas.Store(key, schema)
	return schema, nil
}

// parseAnswerSet validates the raw judge payload against the criteria
// table and canonicalizes the answer spellings.
func parseAnswerSet(raw string, criteria []rubric.Criterion) (rubric.AnswerSet, error) {
	schema, err := answerSetSchema(criteria)
	if err != nil {
		return nil, fmt.Errorf("building answer-set schema: %w", err)
	}

	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("judge response is not valid JSON: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return nil, fmt.Errorf("judge response failed schema validation: %w", err)
	}

	var spelled map[string]string
	if err := json.Unmarshal([]byte(raw), &spelled); err != nil {
		return nil, fmt.Errorf("decoding judge response: %w", err)
	}

	answers := make(rubric.AnswerSet, len(spelled))
	for id, s := range spelled {
		answer, err := rubric.ParseAnswer(s)
		if err != nil {
			return nil, fmt.Errorf("criterion %q: %w", id, err)
		}
		answers[id] = answer
	}
	return answers, nil
}
