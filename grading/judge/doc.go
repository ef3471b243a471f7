/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package judge sends grading tasks to an LLM and turns its structured
// responses into rubric answer sets. The scoring core treats the judge as
// opaque: every response is schema-validated against the expected
// criterion set before any arithmetic happens, and a malformed response is
// an error status for the task rather than a crash.
//
// Two backends are provided, Anthropic and OpenAI, behind a shared
// completion interface with retry on transient API errors.
package judge
