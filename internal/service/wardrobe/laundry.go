package wardrobe

import (
	"fmt"

	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
)

// Showcase kinds.
const (
	ShowcaseNew   = "new"
	ShowcaseDusty = "dusty"
)

const showcaseSize = 20

// List returns owner's items, newest first. An empty category lists all.
func (s *Service) List(owner, category string) ([]models.ClothingItem, error) {
	filter := repository.ItemFilter{}
	if category != "" {
		c, ok := models.ParseCategory(category)
		if !ok {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidCategory, category)
		}
		filter.Category = c
	}
	return s.items.ListByOwner(owner, filter)
}

// ListClean returns the items available for new outfits.
func (s *Service) ListClean(owner string) ([]models.ClothingItem, error) {
	clean := true
	return s.items.ListByOwner(owner, repository.ItemFilter{Clean: &clean})
}

// ListDirty returns the laundry basket.
func (s *Service) ListDirty(owner string) ([]models.ClothingItem, error) {
	clean := false
	return s.items.ListByOwner(owner, repository.ItemFilter{Clean: &clean})
}

// MarkDirty moves owner's items among ids to the laundry basket. Ids owned
// by someone else are ignored.
func (s *Service) MarkDirty(owner string, ids []uint) (int64, error) {
	n, err := s.items.SetClean(owner, ids, false)
	if err != nil {
		return 0, err
	}
	s.log.ForOwner(owner).Debug().Int64("items", n).Msg("Items marked dirty")
	return n, nil
}

// Wash marks owner's items among ids clean. No ids washes the whole basket.
func (s *Service) Wash(owner string, ids []uint) (int64, error) {
	var (
		n   int64
		err error
	)
	if len(ids) == 0 {
		n, err = s.items.WashAll(owner)
	} else {
		n, err = s.items.SetClean(owner, ids, true)
	}
	if err != nil {
		return 0, err
	}
	s.log.ForOwner(owner).Debug().Int64("items", n).Msg("Items washed")
	return n, nil
}

// Showcase returns the newest items or the least worn ones.
func (s *Service) Showcase(owner, kind string) ([]models.ClothingItem, error) {
	switch kind {
	case ShowcaseNew:
		return s.items.Newest(owner, showcaseSize)
	case ShowcaseDusty:
		return s.items.LeastWorn(owner, showcaseSize)
	default:
		return nil, fmt.Errorf("%w: unknown showcase %q", models.ErrInvalidInput, kind)
	}
}

// Stats summarises a wardrobe.
type Stats struct {
	Items        int              `json:"clothes"`
	Clean        int              `json:"clean"`
	Dirty        int              `json:"dirty"`
	SavedOutfits int              `json:"outfits"`
	Categories   map[string]int64 `json:"categories"`
	Styles       map[string]int   `json:"styles"`
	Seasons      map[string]int   `json:"seasons"`
}

// Stats counts owner's items by category, style and season. Every category
// is present in the result, zero or not.
func (s *Service) Stats(owner string) (*Stats, error) {
	items, err := s.items.ListByOwner(owner, repository.ItemFilter{})
	if err != nil {
		return nil, err
	}
	counts, err := s.items.CountByCategory(owner)
	if err != nil {
		return nil, err
	}
	outfits, err := s.outfits.ListSaved(owner)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Items:        len(items),
		SavedOutfits: len(outfits),
		Categories:   make(map[string]int64, len(models.Categories)),
		Styles:       make(map[string]int),
		Seasons:      make(map[string]int),
	}
	for _, c := range models.Categories {
		stats.Categories[c] = 0
	}
	for _, c := range counts {
		stats.Categories[c.Category] = c.Count
	}
	for _, item := range items {
		if item.IsClean {
			stats.Clean++
		} else {
			stats.Dirty++
		}
		if item.Style != "" {
			stats.Styles[item.Style]++
		}
		if item.Season != "" {
			stats.Seasons[item.Season]++
		}
	}
	return stats, nil
}
