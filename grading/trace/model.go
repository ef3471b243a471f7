/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trace

import "encoding/json"

// Conversation is one exported conversation: a consumer profile plus the
// traces recorded for it.
type Conversation struct {
	ConversationID  string         `json:"conversation_id"`
	ConsumerID      string         `json:"consumer_id,omitempty"`
	ConsumerProfile map[string]any `json:"consumer_profile,omitempty"`
	Traces          []Trace        `json:"traces"`
}

// Trace is one query turn: the original query, its rewrites, and the store
// carousels served in response.
type Trace struct {
	TraceID              string     `json:"trace_id"`
	OriginalQuery        string     `json:"original_query"`
	RewrittenQueries     []string   `json:"rewritten_queries,omitempty"`
	StoreRecommendations []Carousel `json:"store_recommendations"`
}

// Carousel is one ranked shelf of stores. Order within Stores is the
// served order and drives NDCG.
type Carousel struct {
	Title  string  `json:"title,omitempty"`
	Stores []Store `json:"stores"`
}

// UnmarshalJSON resolves raw store rows through the active alias table,
// so exports with variant field spellings decode into the canonical
// shape. Rows without a store identity are dropped, preserving the order
// of the rest.
func (c *Carousel) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title  string           `json:"title"`
		Stores []map[string]any `json:"stores"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Title = raw.Title
	c.Stores = nil

	table := currentAliasTable()
	for _, row := range raw.Stores {
		store, err := table.CanonicalStore(row)
		if err != nil {
			continue
		}
		c.Stores = append(c.Stores, *store)
	}
	return nil
}

// Store is the canonical store shape after alias resolution.
type Store struct {
	StoreID        string     `json:"store_id"`
	Name           string     `json:"name"`
	Address        string     `json:"address,omitempty"`
	Cuisine        string     `json:"cuisine,omitempty"`
	DietaryOptions string     `json:"dietary_options,omitempty"`
	DistanceMiles  float64    `json:"distance_miles,omitempty"`
	ETAMinutes     float64    `json:"eta_minutes,omitempty"`
	Rating         float64    `json:"rating,omitempty"`
	PriceLevel     string     `json:"price_level,omitempty"`
	IsOpen         *bool      `json:"is_open,omitempty"`
	MenuItems      []MenuItem `json:"menu_items,omitempty"`
}

// MenuItem is one menu entry with its tag metadata.
type MenuItem struct {
	ItemID string              `json:"item_id,omitempty"`
	Name   string              `json:"name"`
	Tags   map[string][]string `json:"tags,omitempty"`
}

// TopItemNames returns up to n menu item names for fuzzy comparison,
// skipping unnamed items.
func (s *Store) TopItemNames(n int) []string {
	names := make([]string, 0, min(n, len(s.MenuItems)))
	for _, item := range s.MenuItems {
		if item.Name == "" {
			continue
		}
		names = append(names, item.Name)
		if len(names) == n {
			break
		}
	}
	return names
}
