/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package aggregate rolls per-store scores up into trace and conversation
// level metrics: arithmetic means over non-error stores, irrelevance
// rates, and position-weighted NDCG over the served store order.
package aggregate
