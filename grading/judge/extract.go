/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls JSON content out of a model response that may wrap it
// in markdown code fences. Content between ```json and ``` wins; otherwise
// the trimmed response is returned with any stray fences removed.
func ExtractJSON(responseText string) string {
	lines := strings.Split(responseText, "\n")
	var buf strings.Builder
	inBlock := false
	found := false

	for _, line := range lines {
		if !inBlock && strings.TrimSpace(line) == "```json" {
			inBlock = true
			found = true
			continue
		}
		if inBlock && strings.TrimSpace(line) == "```" {
			break
		}
		if inBlock {
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(line)
		}
	}
	if found {
		return strings.TrimSpace(buf.String())
	}

	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	return strings.TrimSpace(responseText)
}

// Extract pulls the JSON payload out of a model response and unmarshals
// it into T.
func Extract[T any](responseText string) (T, error) {
	var result T
	if err := json.Unmarshal([]byte(ExtractJSON(responseText)), &result); err != nil {
		return result, err
	}
	return result, nil
}
