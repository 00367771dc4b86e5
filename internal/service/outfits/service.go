// Package outfits keeps saved favourite outfits and the outfit calendar.
package outfits

import (
	"errors"
	"fmt"
	"time"

	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
	"github.com/aimd54/wardrobe-stylist/internal/service/ledger"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

// Rewarder grants XP for saved outfits.
type Rewarder interface {
	Reward(username, action string, limit, points int) bool
}

// Service manages saved and planned outfits.
type Service struct {
	items   *repository.ClothingRepository
	outfits *repository.OutfitRepository
	ledger  Rewarder
	log     *logger.Logger
}

// NewService creates a new outfit service.
func NewService(db *repository.DB, rewarder Rewarder, log *logger.Logger) *Service {
	return &Service{
		items:   repository.NewClothingRepository(db),
		outfits: repository.NewOutfitRepository(db),
		ledger:  rewarder,
		log:     log,
	}
}

// Outfit names the parts of an outfit. Zero or nil bottom and shoe ids mean
// the part is absent.
type Outfit struct {
	TopID    uint  `json:"top_id"`
	BottomID *uint `json:"bottom_id"`
	ShoeID   *uint `json:"shoe_id"`
}

// SaveResult is the outcome of saving an outfit.
type SaveResult struct {
	Outfit    *models.SavedOutfit `json:"outfit,omitempty"`
	XPAwarded int                 `json:"xp_awarded"`
	Declined  *models.Decline     `json:"declined,omitempty"`
}

// SaveOutfit stores a favourite combination of owner's items.
func (s *Service) SaveOutfit(owner string, o Outfit) (*SaveResult, error) {
	o = normalize(o)
	declined, err := s.checkOwned(owner, o)
	if err != nil {
		return nil, err
	}
	if declined != nil {
		return &SaveResult{Declined: declined}, nil
	}

	saved := &models.SavedOutfit{Username: owner, TopID: o.TopID, BottomID: o.BottomID, ShoeID: o.ShoeID}
	if err := s.outfits.CreateSaved(saved); err != nil {
		return nil, err
	}

	result := &SaveResult{Outfit: saved}
	if s.ledger.Reward(owner, models.ActionSaveOutfit, ledger.NoLimit, models.XPSaveOutfit) {
		result.XPAwarded = models.XPSaveOutfit
	}
	s.log.ForOwner(owner).Debug().Uint("outfit_id", saved.ID).Msg("Outfit saved")
	return result, nil
}

// ListSavedOutfits returns owner's saved outfits, newest first, with their
// items resolved.
func (s *Service) ListSavedOutfits(owner string) ([]models.OutfitView, error) {
	saved, err := s.outfits.ListSaved(owner)
	if err != nil {
		return nil, err
	}

	views := make([]models.OutfitView, 0, len(saved))
	for _, o := range saved {
		view, err := s.items.ResolveOutfit(owner, o.TopID, o.BottomID, o.ShoeID)
		if err != nil {
			return nil, err
		}
		view.ID = o.ID
		views = append(views, *view)
	}
	return views, nil
}

// DeleteSavedOutfit removes one of owner's saved outfits.
func (s *Service) DeleteSavedOutfit(owner string, id uint) error {
	return s.outfits.DeleteSaved(owner, id)
}

// PlanResult is the outcome of planning an outfit.
type PlanResult struct {
	Plan     *models.OutfitView `json:"plan,omitempty"`
	Declined *models.Decline    `json:"declined,omitempty"`
}

// PlanOutfit sets the outfit for day (YYYY-MM-DD), replacing any earlier
// plan for the same day.
func (s *Service) PlanOutfit(owner, day string, o Outfit) (*PlanResult, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}
	o = normalize(o)
	declined, err := s.checkOwned(owner, o)
	if err != nil {
		return nil, err
	}
	if declined != nil {
		return &PlanResult{Declined: declined}, nil
	}

	plan := &models.PlannedOutfit{Username: owner, PlanDate: day, TopID: o.TopID, BottomID: o.BottomID, ShoeID: o.ShoeID}
	if err := s.outfits.UpsertPlan(plan); err != nil {
		return nil, err
	}

	s.log.ForOwner(owner).Debug().Str("date", day).Msg("Outfit planned")
	return s.PlanFor(owner, day)
}

// PlanFor returns the plan for day. Plan is nil when nothing is planned.
func (s *Service) PlanFor(owner, day string) (*PlanResult, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}

	plan, err := s.outfits.GetPlan(owner, day)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &PlanResult{}, nil
		}
		return nil, err
	}

	view, err := s.items.ResolveOutfit(owner, plan.TopID, plan.BottomID, plan.ShoeID)
	if err != nil {
		return nil, err
	}
	view.ID = plan.ID
	view.Date = plan.PlanDate
	return &PlanResult{Plan: view}, nil
}

// Upcoming returns owner's plans from day on, in date order.
func (s *Service) Upcoming(owner, day string) ([]models.PlannedOutfit, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}
	return s.outfits.ListPlansFrom(owner, day)
}

func (s *Service) checkOwned(owner string, o Outfit) (*models.Decline, error) {
	ids := []uint{o.TopID}
	if o.BottomID != nil {
		ids = append(ids, *o.BottomID)
	}
	if o.ShoeID != nil {
		ids = append(ids, *o.ShoeID)
	}

	found, err := s.items.GetByIDs(owner, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if found[id] == nil {
			return models.NewDecline(models.ReasonUnknownItem, "One of these items is not in your wardrobe."), nil
		}
	}
	return nil, nil
}

func normalize(o Outfit) Outfit {
	if o.BottomID != nil && *o.BottomID == 0 {
		o.BottomID = nil
	}
	if o.ShoeID != nil && *o.ShoeID == 0 {
		o.ShoeID = nil
	}
	return o
}

func validDay(day string) error {
	if _, err := time.Parse(models.DayFormat, day); err != nil {
		return fmt.Errorf("%w: date %q must be YYYY-MM-DD", models.ErrInvalidInput, day)
	}
	return nil
}
