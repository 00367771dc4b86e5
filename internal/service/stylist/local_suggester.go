package stylist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/service/color"
)

// ErrNoCombination is returned when the inventory lacks a required part.
var ErrNoCombination = errors.New("no outfit can be built from the inventory")

// tagBonus is added per matching season or style tag.
const tagBonus = 5

// LocalSuggester composes outfits in process by color harmony. Ties go to
// the earliest item in the inventory.
type LocalSuggester struct{}

// NewLocalSuggester creates a harmony based suggester.
func NewLocalSuggester() *LocalSuggester {
	return &LocalSuggester{}
}

// Name implements Suggester.
func (s *LocalSuggester) Name() string {
	return "local"
}

// Suggest implements Suggester.
func (s *LocalSuggester) Suggest(_ context.Context, req *Request) (*Suggestion, error) {
	byCategory := make(map[string][]InventoryItem)
	for _, it := range req.Inventory {
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}

	topCategory := models.CategoryTop
	if req.OutfitType == OutfitDress {
		topCategory = models.CategoryDress
	}
	tops := byCategory[topCategory]
	if len(tops) == 0 {
		return nil, fmt.Errorf("%w: no %s", ErrNoCombination, topCategory)
	}

	bottoms := byCategory[models.CategoryBottom]
	if req.OutfitType != OutfitDress && len(bottoms) == 0 {
		return nil, fmt.Errorf("%w: no bottom", ErrNoCombination)
	}
	if req.OutfitType == OutfitDress {
		bottoms = nil
	}
	shoes := byCategory[models.CategoryShoe]

	best := -1
	var top, bottom, shoe *InventoryItem
	for i := range tops {
		t := &tops[i]
		for _, b := range optional(bottoms) {
			for _, sh := range optional(shoes) {
				score := s.fit(req, t) + pairScore(t, b) + pairScore(t, sh) + pairScore(b, sh)
				if b != nil {
					score += s.fit(req, b)
				}
				if sh != nil {
					score += s.fit(req, sh)
				}
				if score > best {
					best, top, bottom, shoe = score, t, b, sh
				}
			}
		}
	}

	out := &Suggestion{TopID: &top.ID}
	if bottom != nil {
		out.BottomID = &bottom.ID
	}
	if shoe != nil {
		out.ShoeID = &shoe.ID
	}

	var accessory *InventoryItem
	bestAcc := 0
	for i := range byCategory[models.CategoryAccessory] {
		a := &byCategory[models.CategoryAccessory][i]
		if score := pairScore(top, a); score > bestAcc {
			bestAcc, accessory = score, a
		}
	}
	if accessory != nil {
		out.AccessoryID = &accessory.ID
	}

	out.Message = fmt.Sprintf("%s %s goes well with the rest of the look.", strings.ToLower(top.Color), top.Category)
	return out, nil
}

// optional returns pointers to items, or a single nil when there are none.
func optional(items []InventoryItem) []*InventoryItem {
	if len(items) == 0 {
		return []*InventoryItem{nil}
	}
	out := make([]*InventoryItem, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}

func pairScore(a, b *InventoryItem) int {
	if a == nil || b == nil {
		return 0
	}
	return color.Compatibility(a.Color, b.Color)
}

func (s *LocalSuggester) fit(req *Request, it *InventoryItem) int {
	score := 0
	if req.Season != "" && (strings.EqualFold(it.Season, req.Season) || it.Season == models.SeasonAllYear) {
		score += tagBonus
	}
	if req.Style != "" && strings.EqualFold(it.Style, req.Style) {
		score += tagBonus
	}
	return score
}
