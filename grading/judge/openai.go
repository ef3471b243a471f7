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

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is the OpenAI model used when no override is given.
const DefaultOpenAIModel = "gpt-4o"

// NewOpenAI creates a judge backed by the OpenAI API. The API key comes
// from OPENAI_API_KEY unless WithAPIKey overrides it.
func NewOpenAI(opts ...Option) (Interface, error) {
	o := defaultOptions(DefaultOpenAIModel)
	for _, opt := range opts {
		opt(o)
	}
	if err := o.validate(); err != nil {
		return nil, fmt.Errorf("invalid judge options: %w", err)
	}

	var clientOpts []option.RequestOption
	if o.apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(o.apiKey))
	}
	api := openai.NewClient(clientOpts...)

	return &client{
		model: o.model,
		retry: o.retry,
		complete: func(ctx context.Context, system, user string) (string, error) {
			completion, err := api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
				Model:               openai.ChatModel(o.model),
				MaxCompletionTokens: openai.Int(o.maxTokens),
				Temperature:         openai.Float(o.temperature),
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.SystemMessage(system),
					openai.UserMessage(user),
				},
			})
			if err != nil {
				return "", err
			}
			if len(completion.Choices) == 0 {
				return "", errors.New("empty completion response")
			}
			return completion.Choices[0].Message.Content, nil
		},
	}, nil
}

// New picks a backend from the model name: names starting with "claude"
// use the Anthropic API, everything else uses OpenAI.
func New(model string, opts ...Option) (Interface, error) {
	merged := append([]Option{WithModel(model)}, opts...)
	if strings.HasPrefix(model, "claude") {
		return NewClaude(merged...)
	}
	return NewOpenAI(merged...)
}
