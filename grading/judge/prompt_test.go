/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge_test

import (
	"strings"
	"testing"

	"github.com/Big-OO7/VOX-Trace-GUI/grading/judge"
)

func TestPromptBindAndBuild(t *testing.T) {
	t.Parallel()

	p, err := judge.NewPrompt("Query: {{query}}\nStore: {{store}}")
	if err != nil {
		t.Fatalf("NewPrompt() = %v", err)
	}

	bound, err := p.Bind("query", "spicy ramen")
	if err != nil {
		t.Fatalf("Bind(query) = %v", err)
	}
	bound, err = bound.Bind("store", "Noodle House")
	if err != nil {
		t.Fatalf("Bind(store) = %v", err)
	}

	got, err := bound.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	want := "Query: spicy ramen\nStore: Noodle House"
	if got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestPromptBuildUnbound(t *testing.T) {
	t.Parallel()

	p, err := judge.NewPrompt("Query: {{query}}")
	if err != nil {
		t.Fatalf("NewPrompt() = %v", err)
	}
	if _, err := p.Build(); err == nil {
		t.Error("Build() with unbound placeholder should fail")
	}
}

func TestPromptBindUnknown(t *testing.T) {
	t.Parallel()

	p, err := judge.NewPrompt("Query: {{query}}")
	if err != nil {
		t.Fatalf("NewPrompt() = %v", err)
	}
	if _, err := p.Bind("missing", "x"); err == nil {
		t.Error("Bind() with unknown name should fail")
	}
}

func TestPromptBindDoesNotMutate(t *testing.T) {
	t.Parallel()

	p, err := judge.NewPrompt("{{a}}")
	if err != nil {
		t.Fatalf("NewPrompt() = %v", err)
	}
	if _, err := p.Bind("a", "first"); err != nil {
		t.Fatalf("Bind() = %v", err)
	}
	// The original prompt must still be unbound.
	if _, err := p.Build(); err == nil {
		t.Error("original prompt should remain unbound after Bind")
	}
}

func TestPromptBindJSON(t *testing.T) {
	t.Parallel()

	p, err := judge.NewPrompt("Profile:\n{{profile}}")
	if err != nil {
		t.Fatalf("NewPrompt() = %v", err)
	}
	bound, err := p.BindJSON("profile", map[string]any{"diet": "vegan"})
	if err != nil {
		t.Fatalf("BindJSON() = %v", err)
	}
	got, err := bound.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if !strings.Contains(got, `"diet": "vegan"`) {
		t.Errorf("Build() = %q, want indented JSON body", got)
	}
}

func TestNewPromptInvalidTemplates(t *testing.T) {
	t.Parallel()

	for _, template := range []string{
		"{{unclosed",
		"{{9starts_with_digit}}",
		"{{has space}}",
		"{{}}",
	} {
		if _, err := judge.NewPrompt(template); err == nil {
			t.Errorf("NewPrompt(%q) should fail", template)
		}
	}
}
