/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package reconcile compares human-entered manual grades against
// AI-generated grading records. Manual grades are stored independently
// and matched by case-insensitive (query, recommendation) key; neither
// side is ever merged into the other.
package reconcile
