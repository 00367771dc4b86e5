// Package stylist builds outfit recommendations from a user's clean items,
// delegating composition to a pluggable suggester and validating its answer.
package stylist

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Outfit types.
const (
	OutfitNormal = "normal"
	OutfitDress  = "dress"
)

// InventoryItem is one candidate item as shown to a suggester.
type InventoryItem struct {
	ID       uint   `json:"id"`
	Color    string `json:"color"`
	Category string `json:"category"`
	Detail   string `json:"detail"`
	Season   string `json:"season"`
	Style    string `json:"style"`
}

// Request is what a suggester is asked to dress.
type Request struct {
	Season     string
	Style      string
	Occasion   string
	OutfitType string
	Inventory  []InventoryItem
}

// Suggestion is a suggester answer. Any id may be nil.
type Suggestion struct {
	TopID       *uint
	BottomID    *uint
	ShoeID      *uint
	AccessoryID *uint
	Message     string
}

// Suggester composes an outfit from an inventory.
type Suggester interface {
	Name() string
	Suggest(ctx context.Context, req *Request) (*Suggestion, error)
}

// InventoryText renders the inventory one item per line.
func InventoryText(items []InventoryItem) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "- ID:%d | Color:%s | Type:%s (%s) | Season:%s\n",
			it.ID, it.Color, it.Category, it.Detail, it.Season)
	}
	return b.String()
}

var idFields = map[string]func(*Suggestion) **uint{
	"top_id":       func(s *Suggestion) **uint { return &s.TopID },
	"bottom_id":    func(s *Suggestion) **uint { return &s.BottomID },
	"shoe_id":      func(s *Suggestion) **uint { return &s.ShoeID },
	"accessory_id": func(s *Suggestion) **uint { return &s.AccessoryID },
}

// ParseSuggestion decodes a suggester JSON object. Id fields may be a
// non-negative integer, a string holding one, or null; anything else is an
// error. Zero ids count as absent. Unknown fields are ignored.
func ParseSuggestion(data []byte) (*Suggestion, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("suggestion is not a JSON object: %w", err)
	}

	s := &Suggestion{}
	for field, target := range idFields {
		value, ok := raw[field]
		if !ok {
			continue
		}
		id, err := parseID(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", field, err)
		}
		*target(s) = id
	}

	if msg, ok := raw["message"]; ok {
		if err := json.Unmarshal(msg, &s.Message); err != nil {
			return nil, fmt.Errorf("invalid message: %w", err)
		}
	}
	return s, nil
}

func parseID(value json.RawMessage) (*uint, error) {
	text := strings.TrimSpace(string(value))
	if text == "null" {
		return nil, nil
	}

	var str string
	if err := json.Unmarshal(value, &str); err == nil {
		text = strings.TrimSpace(str)
		if text == "" {
			return nil, nil
		}
	}

	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s is not an item id", text)
	}
	if n == 0 {
		return nil, nil
	}
	id := uint(n)
	return &id, nil
}
