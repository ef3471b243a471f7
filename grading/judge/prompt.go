/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Prompt is a template with {{name}} placeholders bound at call time.
// Binding returns a new Prompt; templates parsed at init are shared across
// goroutines safely.
type Prompt struct {
	template string
	bindings map[string]string
}

// NewPrompt parses a template and records its placeholder names.
func NewPrompt(template string) (*Prompt, error) {
	p := &Prompt{template: template, bindings: make(map[string]string)}
	_, err := walkTemplate(template, func(name string) (string, error) {
		p.bindings[name] = ""
		return "", nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MustNewPrompt is NewPrompt for package-level template variables.
func MustNewPrompt(template string) *Prompt {
	p, err := NewPrompt(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Bind binds a string value to a placeholder, returning a new Prompt.
func (p *Prompt) Bind(name, value string) (*Prompt, error) {
	if _, ok := p.bindings[name]; !ok {
		return nil, fmt.Errorf("unknown binding %q", name)
	}
	clone := &Prompt{template: p.template, bindings: make(map[string]string, len(p.bindings))}
	for k, v := range p.bindings {
		clone.bindings[k] = v
	}
	clone.bindings[name] = value
	return clone, nil
}

// BindJSON marshals data with indentation and binds it to a placeholder.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding binding %q: %w", name, err)
	}
	return p.Bind(name, string(encoded))
}

// Build renders the template. Every placeholder must have been bound.
func (p *Prompt) Build() (string, error) {
	return walkTemplate(p.template, func(name string) (string, error) {
		value := p.bindings[name]
		if value == "" {
			return "", fmt.Errorf("binding %q is unbound", name)
		}
		return value, nil
	})
}

// walkTemplate tokenizes the template and calls resolve for each
// placeholder name.
func walkTemplate(template string, resolve func(name string) (string, error)) (string, error) {
	var result strings.Builder
	for len(template) > 0 {
		start := strings.Index(template, "{{")
		if start == -1 {
			result.WriteString(template)
			break
		}
		result.WriteString(template[:start])

		end := strings.Index(template[start:], "}}")
		if end == -1 {
			return "", errors.New("unclosed binding: missing '}}'")
		}
		end += start + 2

		name := strings.TrimSpace(template[start+2 : end-2])
		if !isValidIdentifier(name) {
			return "", fmt.Errorf("invalid binding identifier %q", name)
		}
		replacement, err := resolve(name)
		if err != nil {
			return "", err
		}
		result.WriteString(replacement)
		template = template[end:]
	}
	return result.String(), nil
}

// isValidIdentifier accepts names starting with a letter and continuing
// with letters, digits, or underscores.
func isValidIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	runes := []rune(s)
	if !unicode.IsLetter(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
