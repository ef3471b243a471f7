/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import "errors"

// Option configures a judge client.
type Option func(*options)

type options struct {
	model       string
	apiKey      string
	maxTokens   int64
	temperature float64
	retry       RetryConfig
}

func defaultOptions(model string) *options {
	return &options{
		model:       model,
		maxTokens:   8192,
		temperature: 0.0,
		retry:       DefaultRetryConfig(),
	}
}

func (o *options) validate() error {
	if o.model == "" {
		return errors.New("model cannot be empty")
	}
	if o.maxTokens <= 0 {
		return errors.New("max tokens must be positive")
	}
	if o.temperature < 0 || o.temperature > 1 {
		return errors.New("temperature must be between 0 and 1")
	}
	return o.retry.Validate()
}

// WithModel overrides the judge model.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithAPIKey sets an explicit API key instead of reading the backend's
// environment variable.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithMaxTokens sets the response token limit.
func WithMaxTokens(n int64) Option {
	return func(o *options) { o.maxTokens = n }
}

// WithTemperature sets the sampling temperature. Grading runs want 0 for
// reproducibility.
func WithTemperature(t float64) Option {
	return func(o *options) { o.temperature = t }
}

// WithRetryConfig overrides the retry behavior for transient API errors.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(o *options) { o.retry = cfg }
}
