// Package wear tracks worn outfits: confirming a wear bumps the items' wear
// counts and opens a review that, from the next day on, asks which of the
// worn items went to the laundry.
package wear

import (
	"errors"

	"github.com/aimd54/wardrobe-stylist/internal/metrics"
	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

// Clock supplies the current calendar day.
type Clock interface {
	Today() string
}

// Service runs the wear cycle.
type Service struct {
	db    *repository.DB
	items *repository.ClothingRepository
	wears *repository.WearRepository
	clock Clock
	log   *logger.Logger
}

// NewService creates a new wear service.
func NewService(db *repository.DB, clock Clock, log *logger.Logger) *Service {
	return &Service{
		db:    db,
		items: repository.NewClothingRepository(db),
		wears: repository.NewWearRepository(db),
		clock: clock,
		log:   log,
	}
}

// ConfirmRequest names the outfit worn. Bottom may be omitted for a dress.
type ConfirmRequest struct {
	TopID    uint  `json:"top_id"`
	BottomID *uint `json:"bottom_id"`
	ShoeID   *uint `json:"shoe_id"`
}

// ConfirmResult carries the pending log opened by a wear confirmation.
type ConfirmResult struct {
	Log      *models.WearLog `json:"log,omitempty"`
	Declined *models.Decline `json:"declined,omitempty"`
}

// ConfirmWear records that owner wore the outfit today. Every named item
// must belong to owner.
func (s *Service) ConfirmWear(owner string, req ConfirmRequest) (*ConfirmResult, error) {
	req = normalize(req)
	log := &models.WearLog{
		Username: owner,
		TopID:    req.TopID,
		BottomID: req.BottomID,
		ShoeID:   req.ShoeID,
		WearDate: s.clock.Today(),
	}
	ids := log.ItemIDs()
	if !distinct(ids) {
		return &ConfirmResult{
			Declined: models.NewDecline(models.ReasonUnknownItem, "Each outfit slot needs a different item."),
		}, nil
	}

	var declined *models.Decline
	err := s.db.Transaction(func(tx *repository.DB) error {
		items := s.items.WithTx(tx)

		found, err := items.GetByIDs(owner, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if found[id] == nil {
				declined = models.NewDecline(models.ReasonUnknownItem, "One of these items is not in your wardrobe.")
				return nil
			}
		}
		if req.BottomID == nil && found[req.TopID].Category != models.CategoryDress {
			declined = models.NewDecline(models.ReasonUnknownItem, "Pick a bottom to go with this top.")
			return nil
		}

		if err := items.IncrementWear(owner, ids); err != nil {
			return err
		}
		return s.wears.WithTx(tx).Create(log)
	})
	if err != nil {
		return nil, err
	}
	if declined != nil {
		return &ConfirmResult{Declined: declined}, nil
	}

	s.log.ForOwner(owner).Info().Uint("log_id", log.ID).Uints("items", ids).Msg("Outfit worn")
	metrics.RecordWearConfirmed()
	return &ConfirmResult{Log: log}, nil
}

// normalize treats zero ids as absent.
func normalize(req ConfirmRequest) ConfirmRequest {
	if req.BottomID != nil && *req.BottomID == 0 {
		req.BottomID = nil
	}
	if req.ShoeID != nil && *req.ShoeID == 0 {
		req.ShoeID = nil
	}
	return req
}

func distinct(ids []uint) bool {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}

// PendingResult is the review waiting for the user, if any.
type PendingResult struct {
	Review   *models.OutfitView `json:"review,omitempty"`
	Declined *models.Decline    `json:"declined,omitempty"`
}

// PendingReview returns the most recent unreviewed wear from before today.
// Items deleted since come back as nil parts.
func (s *Service) PendingReview(owner string) (*PendingResult, error) {
	log, err := s.wears.LatestPending(owner, s.clock.Today())
	if errors.Is(err, models.ErrNotFound) {
		return &PendingResult{Declined: noPending()}, nil
	}
	if err != nil {
		return nil, err
	}

	view, err := s.items.ResolveOutfit(owner, log.TopID, log.BottomID, log.ShoeID)
	if err != nil {
		return nil, err
	}
	view.ID = log.ID
	view.Date = log.WearDate
	return &PendingResult{Review: view}, nil
}

// ReviewResult reports how many items went to the laundry.
type ReviewResult struct {
	Dirtied  int64           `json:"dirtied"`
	Declined *models.Decline `json:"declined,omitempty"`
}

// SubmitReview closes a pending wear log. Exactly the named items that were
// part of the worn outfit become dirty; the rest stay clean.
func (s *Service) SubmitReview(owner string, logID uint, dirtyIDs []uint) (*ReviewResult, error) {
	result := &ReviewResult{}

	err := s.db.Transaction(func(tx *repository.DB) error {
		wears := s.wears.WithTx(tx)

		log, err := wears.GetOwned(owner, logID)
		if errors.Is(err, models.ErrNotFound) {
			result.Declined = noPending()
			return nil
		}
		if err != nil {
			return err
		}

		ok, err := wears.MarkReviewed(owner, log.ID)
		if err != nil {
			return err
		}
		if !ok {
			result.Declined = noPending()
			return nil
		}

		dirty := intersect(log.ItemIDs(), dirtyIDs)
		result.Dirtied, err = s.items.WithTx(tx).SetClean(owner, dirty, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	if result.Declined != nil {
		return result, nil
	}

	s.log.ForOwner(owner).Info().Uint("log_id", logID).Int64("dirtied", result.Dirtied).Msg("Wear reviewed")
	metrics.RecordReviewSubmitted(int(result.Dirtied))
	return result, nil
}

// History returns owner's most recent wear logs.
func (s *Service) History(owner string, limit int) ([]models.WearLog, error) {
	return s.wears.ListByUser(owner, limit)
}

func noPending() *models.Decline {
	return models.NewDecline(models.ReasonNoPendingReview, "There is no outfit waiting for review.")
}

func intersect(worn, named []uint) []uint {
	set := make(map[uint]bool, len(worn))
	for _, id := range worn {
		set[id] = true
	}
	var out []uint
	for _, id := range named {
		if set[id] {
			out = append(out, id)
			delete(set, id)
		}
	}
	return out
}
