package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aimd54/wardrobe-stylist/internal/models"
)

// OutfitRepository handles saved and planned outfits.
type OutfitRepository struct {
	db *DB
}

// NewOutfitRepository creates a new outfit repository.
func NewOutfitRepository(db *DB) *OutfitRepository {
	return &OutfitRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *OutfitRepository) WithTx(tx *DB) *OutfitRepository {
	return &OutfitRepository{db: tx}
}

// CreateSaved stores a favourite outfit.
func (r *OutfitRepository) CreateSaved(outfit *models.SavedOutfit) error {
	if err := r.db.Create(outfit).Error; err != nil {
		return fmt.Errorf("failed to save outfit: %w", err)
	}
	return nil
}

// ListSaved returns the user's saved outfits, newest first.
func (r *OutfitRepository) ListSaved(username string) ([]models.SavedOutfit, error) {
	var outfits []models.SavedOutfit
	err := r.db.Where("username = ?", username).Order("created_at DESC, id DESC").Find(&outfits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list saved outfits: %w", err)
	}
	return outfits, nil
}

// DeleteSaved removes one of the user's saved outfits.
func (r *OutfitRepository) DeleteSaved(username string, id uint) error {
	result := r.db.Where("id = ? AND username = ?", id, username).Delete(&models.SavedOutfit{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete saved outfit %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteSavedReferencing removes every saved outfit that uses itemID.
func (r *OutfitRepository) DeleteSavedReferencing(itemID uint) (int64, error) {
	result := r.db.
		Where("top_id = ? OR bottom_id = ? OR shoe_id = ?", itemID, itemID, itemID).
		Delete(&models.SavedOutfit{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete outfits using item %d: %w", itemID, result.Error)
	}
	return result.RowsAffected, nil
}

// UpsertPlan stores the plan for its day, replacing any existing plan.
func (r *OutfitRepository) UpsertPlan(plan *models.PlannedOutfit) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}, {Name: "plan_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"top_id", "bottom_id", "shoe_id"}),
	}).Create(plan).Error
	if err != nil {
		return fmt.Errorf("failed to plan outfit for %s: %w", plan.PlanDate, err)
	}
	return nil
}

// GetPlan returns the user's plan for day.
func (r *OutfitRepository) GetPlan(username, day string) (*models.PlannedOutfit, error) {
	var plan models.PlannedOutfit
	err := r.db.Where("username = ? AND plan_date = ?", username, day).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan for %s: %w", day, err)
	}
	return &plan, nil
}

// ListPlansFrom returns the user's plans dated on or after day, in date order.
func (r *OutfitRepository) ListPlansFrom(username, day string) ([]models.PlannedOutfit, error) {
	var plans []models.PlannedOutfit
	err := r.db.Where("username = ? AND plan_date >= ?", username, day).Order("plan_date").Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}
