/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trace

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// AliasTable maps canonical store field names to the raw spellings seen in
// exports. The first alias present in a raw row wins. The table is data,
// not code: deployments with new export shapes extend it from a YAML file
// instead of patching the canonicalizer.
type AliasTable map[string][]string

// DefaultAliasTable covers the spellings observed across the known export
// pipelines.
func DefaultAliasTable() AliasTable {
	return AliasTable{
		"store_id":        {"store_id", "business_id", "id"},
		"name":            {"name", "store_name", "business_name"},
		"address":         {"address", "store_address"},
		"cuisine":         {"cuisine", "cuisine_type"},
		"dietary_options": {"dietary_options", "dietary"},
		"distance_miles":  {"distance_miles", "distance", "distance_mi"},
		"eta_minutes":     {"eta_minutes", "eta", "delivery_eta_minutes"},
		"rating":          {"rating", "star_rating", "stars"},
		"price_level":     {"price_level", "price", "price_range"},
		"is_open":         {"is_open", "open", "is_store_open"},
		"menu_items":      {"menu_items", "items", "most_relevant_items"},
	}
}

// decodeTable is the alias table applied while decoding store rows.
var decodeTable atomic.Value

// UseAliasTable sets the table applied to store rows during decoding.
// Callers with custom export shapes set it once at startup, before any
// conversations are loaded.
func UseAliasTable(t AliasTable) {
	decodeTable.Store(t)
}

func currentAliasTable() AliasTable {
	if t, ok := decodeTable.Load().(AliasTable); ok {
		return t
	}
	return DefaultAliasTable()
}

// Merge overlays another table onto this one; overlaid canonical fields
// replace their alias lists entirely.
func (t AliasTable) Merge(other AliasTable) AliasTable {
	merged := make(AliasTable, len(t))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// LoadAliasOverrides reads an AliasTable from YAML.
func LoadAliasOverrides(r io.Reader) (AliasTable, error) {
	var t AliasTable
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding alias table: %w", err)
	}
	return t, nil
}

// lookup returns the first alias of the canonical field present in raw.
func (t AliasTable) lookup(raw map[string]any, canonical string) (any, bool) {
	for _, alias := range t[canonical] {
		if v, ok := raw[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// CanonicalStore resolves a raw store row into the canonical Store shape
// using the alias table. Missing fields stay zero; only an absent store
// identity is an error.
func (t AliasTable) CanonicalStore(raw map[string]any) (*Store, error) {
	s := &Store{}

	if v, ok := t.lookup(raw, "store_id"); ok {
		s.StoreID = toString(v)
	}
	if v, ok := t.lookup(raw, "name"); ok {
		s.Name = toString(v)
	}
	if s.StoreID == "" && s.Name == "" {
		return nil, fmt.Errorf("store row has no identity under aliases %v or %v", t["store_id"], t["name"])
	}
	if s.Name == "" {
		s.Name = s.StoreID
	}

	if v, ok := t.lookup(raw, "address"); ok {
		s.Address = toString(v)
	}
	if v, ok := t.lookup(raw, "cuisine"); ok {
		s.Cuisine = toString(v)
	}
	if v, ok := t.lookup(raw, "dietary_options"); ok {
		s.DietaryOptions = toString(v)
	}
	if v, ok := t.lookup(raw, "distance_miles"); ok {
		s.DistanceMiles = toFloat(v)
	}
	if v, ok := t.lookup(raw, "eta_minutes"); ok {
		s.ETAMinutes = toFloat(v)
	}
	if v, ok := t.lookup(raw, "rating"); ok {
		s.Rating = toFloat(v)
	}
	if v, ok := t.lookup(raw, "price_level"); ok {
		s.PriceLevel = toString(v)
	}
	if v, ok := t.lookup(raw, "is_open"); ok {
		if b, found := toBool(v); found {
			s.IsOpen = &b
		}
	}
	if v, ok := t.lookup(raw, "menu_items"); ok {
		s.MenuItems = canonicalMenuItems(v)
	}
	return s, nil
}

// canonicalMenuItems extracts menu items from the raw list-of-maps shape.
func canonicalMenuItems(v any) []MenuItem {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	items := make([]MenuItem, 0, len(list))
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		item := MenuItem{}
		if id, ok := m["item_id"]; ok {
			item.ItemID = toString(id)
		}
		if name, ok := m["name"]; ok {
			item.Name = toString(name)
		} else if name, ok := m["item_name"]; ok {
			item.Name = toString(name)
		}
		if item.ItemID == "" && item.Name == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "open", "1":
			return true, true
		case "false", "no", "closed", "0":
			return false, true
		}
	case float64:
		return x != 0, true
	}
	return false, false
}
