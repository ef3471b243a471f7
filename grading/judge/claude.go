/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultClaudeModel is the Claude model used when no override is given.
const DefaultClaudeModel = "claude-sonnet-4-5"

// NewClaude creates a judge backed by the Anthropic API. The API key comes
// from ANTHROPIC_API_KEY unless WithAPIKey overrides it.
func NewClaude(opts ...Option) (Interface, error) {
	o := defaultOptions(DefaultClaudeModel)
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
	api := anthropic.NewClient(clientOpts...)

	return &client{
		model: o.model,
		retry: o.retry,
		complete: func(ctx context.Context, system, user string) (string, error) {
			message, err := api.Messages.New(ctx, anthropic.MessageNewParams{
				Model:       anthropic.Model(o.model),
				MaxTokens:   o.maxTokens,
				Temperature: anthropic.Float(o.temperature),
				System:      []anthropic.TextBlockParam{{Text: system}},
				Messages: []anthropic.MessageParam{{
					Role: anthropic.MessageParamRoleUser,
					Content: []anthropic.ContentBlockParamUnion{
						anthropic.NewTextBlock(user),
					},
				}},
			})
			if err != nil {
				return "", err
			}
			var text strings.Builder
			for _, block := range message.Content {
				if block.Type == "text" {
					text.WriteString(block.Text)
				}
			}
			return text.String(), nil
		},
	}, nil
}
