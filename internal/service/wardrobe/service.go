// Package wardrobe manages a user's garments: uploads and imports, laundry
// state, deletion and the showcase and statistics views.
package wardrobe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aimd54/wardrobe-stylist/internal/cache"
	"github.com/aimd54/wardrobe-stylist/internal/config"
	"github.com/aimd54/wardrobe-stylist/internal/imaging"
	"github.com/aimd54/wardrobe-stylist/internal/metrics"
	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
	"github.com/aimd54/wardrobe-stylist/internal/service/color"
	"github.com/aimd54/wardrobe-stylist/internal/service/dedup"
	"github.com/aimd54/wardrobe-stylist/internal/service/ledger"
	"github.com/aimd54/wardrobe-stylist/internal/storage"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

// Upload sources, used as the metrics label.
const (
	SourceUpload = "upload"
	SourceImport = "import"
)

// Service manages wardrobe items.
type Service struct {
	db       *repository.DB
	items    *repository.ClothingRepository
	outfits  *repository.OutfitRepository
	ledger   *ledger.Service
	detector *dedup.Detector
	pipeline *imaging.Pipeline
	store    storage.ImageStore
	locker   cache.Locker
	quota    config.QuotaConfig
	log      *logger.Logger
}

// NewService creates a new wardrobe service.
func NewService(
	db *repository.DB,
	ledgerSvc *ledger.Service,
	pipeline *imaging.Pipeline,
	store storage.ImageStore,
	locker cache.Locker,
	quota config.QuotaConfig,
	log *logger.Logger,
) *Service {
	items := repository.NewClothingRepository(db)
	return &Service{
		db:       db,
		items:    items,
		outfits:  repository.NewOutfitRepository(db),
		ledger:   ledgerSvc,
		detector: dedup.NewDetector(items, log),
		pipeline: pipeline,
		store:    store,
		locker:   locker,
		quota:    quota,
		log:      log,
	}
}

// UploadRequest is a photographed garment with the tags the user chose.
type UploadRequest struct {
	Data        []byte
	Category    string
	SubCategory string
	Season      string
	Style       string
}

// UploadResult is the outcome of an upload or import. Item is nil when the
// request was declined.
type UploadResult struct {
	Item      *models.ClothingItem `json:"item,omitempty"`
	XPAwarded int                  `json:"xp_awarded"`
	Degraded  bool                 `json:"degraded,omitempty"`
	Declined  *models.Decline      `json:"declined,omitempty"`
}

type draft struct {
	category    string
	subCategory *string
	season      string
	style       string
}

// Upload stores a new garment photo for owner. Invalid tags and unreadable
// images are errors; a full wardrobe or a near-duplicate photo is Declined.
func (s *Service) Upload(ctx context.Context, owner string, req UploadRequest) (*UploadResult, error) {
	category, ok := models.ParseCategory(req.Category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidCategory, req.Category)
	}
	season := strings.TrimSpace(req.Season)
	style := strings.TrimSpace(req.Style)
	if season == "" || style == "" {
		return nil, fmt.Errorf("%w: season and style are required", models.ErrInvalidInput)
	}

	d := draft{category: category, season: season, style: style}
	if sub := strings.TrimSpace(req.SubCategory); sub != "" {
		d.subCategory = &sub
	}

	result, err := s.ingest(ctx, owner, req.Data, d, SourceUpload)
	if err != nil || result.Declined != nil {
		return result, err
	}

	if s.ledger.Reward(owner, models.ActionUpload, s.quota.UploadXPDailyCap, models.XPUpload) {
		result.XPAwarded = models.XPUpload
	}
	return result, nil
}

// ingest runs the shared upload path under the owner's lock: wardrobe cap,
// duplicate check, image pipeline, storage and insert.
func (s *Service) ingest(ctx context.Context, owner string, data []byte, d draft, source string) (*UploadResult, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", models.ErrInvalidInput)
	}
	log := s.log.ForOwner(owner)

	img, err := imaging.Decode(data)
	if err != nil {
		metrics.RecordUpload(source, metrics.StatusFailed)
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	unlock, err := s.locker.Lock(ctx, "items:"+owner)
	if err != nil {
		return nil, fmt.Errorf("failed to lock wardrobe of %s: %w", owner, err)
	}
	defer unlock()

	full, err := s.wardrobeFull(owner)
	if err != nil {
		return nil, err
	}
	if full {
		metrics.RecordUpload(source, metrics.StatusDeclined)
		return &UploadResult{Declined: models.NewDecline(models.ReasonWardrobeFull,
			fmt.Sprintf("Your wardrobe holds %d items on the free plan. Go premium for unlimited space.",
				s.quota.FreeWardrobeLimit))}, nil
	}

	check, err := s.detector.Check(owner, img)
	if err != nil {
		return nil, err
	}
	if check.Duplicate {
		log.Info().Str("source", source).Msg("Duplicate upload rejected")
		metrics.RecordUpload(source, metrics.StatusDuplicate)
		return &UploadResult{Declined: models.NewDecline(models.ReasonDuplicateImage,
			"This item is already in your wardrobe.")}, nil
	}

	start := time.Now()
	processed, err := s.pipeline.Process(ctx, img, data)
	metrics.ObservePipelineDuration(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordUpload(source, metrics.StatusFailed)
		return nil, err
	}

	url, err := s.store.Put(ctx, processed.PNG, "image/png")
	if err != nil {
		metrics.RecordUpload(source, metrics.StatusFailed)
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	item := &models.ClothingItem{
		Owner:       owner,
		ImageURL:    url,
		Category:    d.category,
		SubCategory: d.subCategory,
		Season:      d.season,
		Style:       d.style,
		Color:       string(processed.Color),
		IsClean:     true,
		ImageHash:   check.Fingerprint,
	}
	if err := s.items.Create(item); err != nil {
		if derr := s.store.Delete(ctx, url); derr != nil {
			log.Warn().Err(derr).Str("url", url).Msg("Failed to remove orphaned image")
		}
		metrics.RecordUpload(source, metrics.StatusFailed)
		return nil, err
	}

	log.Info().
		Uint("item_id", item.ID).
		Str("category", item.Category).
		Str("color", item.Color).
		Bool("degraded", processed.Degraded).
		Str("source", source).
		Msg("Item added to wardrobe")
	metrics.RecordUpload(source, metrics.StatusStored)

	return &UploadResult{Item: item, Degraded: processed.Degraded}, nil
}

func (s *Service) wardrobeFull(owner string) (bool, error) {
	if s.quota.FreeWardrobeLimit <= 0 {
		return false, nil
	}
	premium, err := s.ledger.IsPremium(owner)
	if err != nil {
		return false, err
	}
	if premium {
		return false, nil
	}
	count, err := s.items.CountByOwner(owner)
	if err != nil {
		return false, err
	}
	return count >= int64(s.quota.FreeWardrobeLimit), nil
}

// UpdateRequest changes the tags of an item. Nil fields are left as they are.
type UpdateRequest struct {
	Category    *string `json:"category"`
	SubCategory *string `json:"sub_category"`
	Season      *string `json:"season"`
	Style       *string `json:"style"`
	Color       *string `json:"color_name"`
}

// Update retags one of owner's items and returns it.
func (s *Service) Update(owner string, id uint, req UpdateRequest) (*models.ClothingItem, error) {
	updates := make(map[string]interface{})

	if req.Category != nil {
		category, ok := models.ParseCategory(*req.Category)
		if !ok {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidCategory, *req.Category)
		}
		updates["category"] = category
	}
	if req.SubCategory != nil {
		if sub := strings.TrimSpace(*req.SubCategory); sub != "" {
			updates["sub_category"] = sub
		} else {
			updates["sub_category"] = nil
		}
	}
	for column, value := range map[string]*string{"season": req.Season, "style": req.Style} {
		if value == nil {
			continue
		}
		v := strings.TrimSpace(*value)
		if v == "" {
			return nil, fmt.Errorf("%w: %s must not be empty", models.ErrInvalidInput, column)
		}
		updates[column] = v
	}
	if req.Color != nil {
		updates["color_name"] = string(color.Parse(*req.Color))
	}

	if len(updates) > 0 {
		if err := s.items.UpdateTags(owner, id, updates); err != nil {
			return nil, err
		}
	}
	return s.items.GetOwned(owner, id)
}

// Delete removes one of owner's items together with the saved outfits that
// use it. Wear logs and plans keep their now dangling ids. The image is
// removed from storage on a best-effort basis.
func (s *Service) Delete(ctx context.Context, owner string, id uint) error {
	var imageURL string
	var outfits int64

	err := s.db.Transaction(func(tx *repository.DB) error {
		items := s.items.WithTx(tx)
		item, err := items.GetOwned(owner, id)
		if err != nil {
			return err
		}
		imageURL = item.ImageURL

		if err := items.Delete(owner, id); err != nil {
			return err
		}
		outfits, err = s.outfits.WithTx(tx).DeleteSavedReferencing(id)
		return err
	})
	if err != nil {
		return err
	}

	log := s.log.ForOwner(owner)
	log.Info().Uint("item_id", id).Int64("saved_outfits_removed", outfits).Msg("Item deleted")

	if imageURL != "" {
		if err := s.store.Delete(ctx, imageURL); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Str("url", imageURL).Msg("Failed to delete item image")
		}
	}
	return nil
}
