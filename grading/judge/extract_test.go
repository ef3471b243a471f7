/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge_test

import (
	"testing"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/judge"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		want     string
	}{{
		name:     "bare json",
		response: `{"score": 7}`,
		want:     `{"score": 7}`,
	}, {
		name:     "fenced json block",
		response: "Here is my evaluation:\n```json\n{\"score\": 7}\n```\nDone.",
		want:     `{"score": 7}`,
	}, {
		name:     "fenced block wins over surrounding text",
		response: "{\"wrong\": true}\n```json\n{\"score\": 7}\n```",
		want:     `{"score": 7}`,
	}, {
		name:     "plain fences stripped",
		response: "```\n{\"score\": 7}\n```",
		want:     "{\"score\": 7}",
	}, {
		name:     "whitespace trimmed",
		response: "  \n{\"score\": 7}\n  ",
		want:     `{"score": 7}`,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := judge.ExtractJSON(tc.response); got != tc.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractTyped(t *testing.T) {
	t.Parallel()

	type payload struct {
		IntentCategory string `json:"intent_category"`
	}

	got, err := judge.Extract[payload]("```json\n{\"intent_category\": \"Flavor-Based (Taste / Texture)\"}\n```")
	if err != nil {
		t.Fatalf("Extract() = %v", err)
	}
	if got.IntentCategory != "Flavor-Based (Taste / Texture)" {
		t.Errorf("IntentCategory = %q", got.IntentCategory)
	}

	if _, err := judge.Extract[payload]("not json at all"); err == nil {
		t.Error("Extract() on non-JSON should fail")
	}
}
