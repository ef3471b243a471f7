/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/rubric"
	"github.com/chainguard-dev/clog"
)

// completionFunc issues one chat completion and returns the raw response
// text. Backends provide this; everything else is shared.
type completionFunc func(ctx context.Context, system, user string) (string, error)

// client implements Interface on top of a completion function.
type client struct {
	model    string
	complete completionFunc
	retry    RetryConfig
}

// Model reports the backing model identifier for output records.
func (c *client) Model() string { return c.model }

// call renders a bound prompt, sends it, and extracts the JSON payload,
// retrying transient API failures.
func (c *client) call(ctx context.Context, operation, system string, user *Prompt) (string, error) {
	rendered, err := user.Build()
	if err != nil {
		return "", fmt.Errorf("building %s prompt: %w", operation, err)
	}
	start := time.Now()
	raw, err := retryWithBackoff(ctx, c.retry, operation, isRetryableAPIError, func() (string, error) {
		return c.complete(ctx, system, rendered)
	})
	if err != nil {
		return "", err
	}
	clog.FromContext(ctx).With("operation", operation).
		With("model", c.model).
		With("duration", time.Since(start)).
		Debug("Judge call completed")
	return ExtractJSON(raw), nil
}

// intentResponse is the payload shape of the classification call.
type intentResponse struct {
	IntentCategory string `json:"intent_category"`
}

// knownIntents canonicalizes classifier output; anything else maps to the
// generic category.
var knownIntents = map[string]rubric.IntentCategory{
	string(rubric.IntentComfort):      rubric.IntentComfort,
	string(rubric.IntentFlavor):       rubric.IntentFlavor,
	string(rubric.IntentExploration):  rubric.IntentExploration,
	string(rubric.IntentGroup):        rubric.IntentGroup,
	string(rubric.IntentDietary):      rubric.IntentDietary,
	string(rubric.IntentFunctional):   rubric.IntentFunctional,
	string(rubric.IntentGeneric):      rubric.IntentGeneric,
	string(rubric.IntentCrowdPleaser): rubric.IntentCrowdPleaser,
}

func (c *client) ClassifyIntent(ctx context.Context, query string) (rubric.IntentCategory, error) {
	if strings.TrimSpace(query) == "" {
		return "", errors.New("query is empty")
	}
	prompt, err := intentUserPrompt.Bind("query", query)
	if err != nil {
		return "", err
	}
	raw, err := c.call(ctx, "classify_intent", intentSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	resp, err := Extract[intentResponse](raw)
	if err != nil {
		return "", fmt.Errorf("decoding intent classification: %w", err)
	}
	category, ok := knownIntents[strings.TrimSpace(resp.IntentCategory)]
	if !ok {
		clog.FromContext(ctx).With("category", resp.IntentCategory).
			Warn("Unknown intent category, defaulting to generic")
		return rubric.IntentGeneric, nil
	}
	return category, nil
}

func (c *client) EvaluateRecommendation(ctx context.Context, req *RecommendationRequest) (*rubric.FuzzyQueryAnswers, error) {
	if req == nil || req.Query == "" || req.Recommendation == "" {
		return nil, errors.New("recommendation request needs a query and a recommendation")
	}
	prompt, err := bindAll(recommendationUserPrompt, map[string]string{
		"query":          req.Query,
		"recommendation": req.Recommendation,
		"daypart":        orUnspecified(req.Daypart),
	})
	if err != nil {
		return nil, err
	}
	prompt, err = bindProfile(prompt, req.ConsumerProfile)
	if err != nil {
		return nil, err
	}
	raw, err := c.call(ctx, "evaluate_recommendation", recommendationSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return parseRecommendationAnswers(raw)
}

func (c *client) EvaluateIntentStore(ctx context.Context, req *StoreRequest) (rubric.AnswerSet, error) {
	if err := validateStoreRequest(req); err != nil {
		return nil, err
	}
	prompt, err := bindAll(intentStoreUserPrompt, map[string]string{
		"query": req.Query,
	})
	if err != nil {
		return nil, err
	}
	prompt, err = bindStoreContext(prompt, req)
	if err != nil {
		return nil, err
	}
	raw, err := c.call(ctx, "evaluate_intent_store", storeSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return parseAnswerSet(raw, rubric.IntentCriteriaFor(req.IntentCategory))
}

func (c *client) EvaluateStructuredStore(ctx context.Context, req *StoreRequest) (rubric.AnswerSet, error) {
	if err := validateStoreRequest(req); err != nil {
		return nil, err
	}
	prompt, err := bindAll(structuredStoreUserPrompt, map[string]string{
		"query":            req.Query,
		"structured_query": orUnspecified(req.StructuredQuery),
	})
	if err != nil {
		return nil, err
	}
	prompt, err = bindStoreContext(prompt, req)
	if err != nil {
		return nil, err
	}
	raw, err := c.call(ctx, "evaluate_structured_store", storeSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return parseAnswerSet(raw, rubric.StoreCriteria)
}

func validateStoreRequest(req *StoreRequest) error {
	if req == nil || req.Query == "" {
		return errors.New("store request needs a query")
	}
	if req.Store == nil {
		return errors.New("store request needs a store")
	}
	return nil
}

// bindAll binds each value in order.
func bindAll(p *Prompt, values map[string]string) (*Prompt, error) {
	var err error
	for name, value := range values {
		p, err = p.Bind(name, value)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// bindStoreContext binds the store payload and consumer profile.
func bindStoreContext(p *Prompt, req *StoreRequest) (*Prompt, error) {
	p, err := p.BindJSON("store", req.Store)
	if err != nil {
		return nil, err
	}
	return bindProfile(p, req.ConsumerProfile)
}

// bindProfile binds the consumer profile, substituting a marker when the
// profile is absent.
func bindProfile(p *Prompt, profile map[string]any) (*Prompt, error) {
	if len(profile) == 0 {
		return p.Bind("consumer_profile", "(no profile available)")
	}
	return p.BindJSON("consumer_profile", profile)
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(not specified)"
	}
	return s
}
