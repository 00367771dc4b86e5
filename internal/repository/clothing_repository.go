package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/aimd54/wardrobe-stylist/internal/models"
)

// ClothingRepository handles wardrobe item database operations.
type ClothingRepository struct {
	db *DB
}

// NewClothingRepository creates a new clothing repository.
func NewClothingRepository(db *DB) *ClothingRepository {
	return &ClothingRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ClothingRepository) WithTx(tx *DB) *ClothingRepository {
	return &ClothingRepository{db: tx}
}

// ItemFilter narrows ListByOwner. Empty fields match everything.
type ItemFilter struct {
	Category string
	Clean    *bool
}

// Create creates a new clothing item.
func (r *ClothingRepository) Create(item *models.ClothingItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create clothing item: %w", err)
	}
	return nil
}

// GetOwned retrieves an item by id, scoped to its owner.
func (r *ClothingRepository) GetOwned(owner string, id uint) (*models.ClothingItem, error) {
	var item models.ClothingItem
	err := r.db.Where("id = ? AND owner = ?", id, owner).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clothing item %d: %w", id, err)
	}
	return &item, nil
}

// GetByIDs retrieves the owner's items among ids, keyed by id. Missing ids are absent.
func (r *ClothingRepository) GetByIDs(owner string, ids []uint) (map[uint]*models.ClothingItem, error) {
	result := make(map[uint]*models.ClothingItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var items []models.ClothingItem
	if err := r.db.Where("owner = ? AND id IN ?", owner, ids).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get clothing items: %w", err)
	}
	for i := range items {
		result[items[i].ID] = &items[i]
	}
	return result, nil
}

// ListByOwner retrieves the owner's items, newest first.
func (r *ClothingRepository) ListByOwner(owner string, filter ItemFilter) ([]models.ClothingItem, error) {
	query := r.db.Where("owner = ?", owner)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Clean != nil {
		query = query.Where("is_clean = ?", *filter.Clean)
	}

	var items []models.ClothingItem
	if err := query.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list clothing items: %w", err)
	}
	return items, nil
}

// CountByOwner returns the number of items in the owner's wardrobe.
func (r *ClothingRepository) CountByOwner(owner string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.ClothingItem{}).Where("owner = ?", owner).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count clothing items: %w", err)
	}
	return count, nil
}

// HashesByOwner returns the stored perceptual hashes of the owner's items.
func (r *ClothingRepository) HashesByOwner(owner string) ([]string, error) {
	var hashes []string
	err := r.db.Model(&models.ClothingItem{}).
		Where("owner = ? AND image_hash IS NOT NULL AND image_hash <> ''", owner).
		Pluck("image_hash", &hashes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load image hashes: %w", err)
	}
	return hashes, nil
}

// UpdateTags updates the descriptive fields of an owned item.
func (r *ClothingRepository) UpdateTags(owner string, id uint, updates map[string]interface{}) error {
	result := r.db.Model(&models.ClothingItem{}).
		Where("id = ? AND owner = ?", id, owner).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update clothing item %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes an owned item.
func (r *ClothingRepository) Delete(owner string, id uint) error {
	result := r.db.Where("id = ? AND owner = ?", id, owner).Delete(&models.ClothingItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete clothing item %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// IncrementWear adds one to the wear count of each owned item in ids.
func (r *ClothingRepository) IncrementWear(owner string, ids []uint) error {
	err := r.db.Model(&models.ClothingItem{}).
		Where("owner = ? AND id IN ?", owner, ids).
		UpdateColumn("wear_count", gorm.Expr("wear_count + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("failed to increment wear count: %w", err)
	}
	return nil
}

// SetClean sets the laundry state of the owned items in ids and returns how
// many rows matched.
func (r *ClothingRepository) SetClean(owner string, ids []uint, clean bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.ClothingItem{}).
		Where("owner = ? AND id IN ?", owner, ids).
		UpdateColumn("is_clean", clean)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update laundry state: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// WashAll marks every dirty item of the owner clean.
func (r *ClothingRepository) WashAll(owner string) (int64, error) {
	result := r.db.Model(&models.ClothingItem{}).
		Where("owner = ? AND is_clean = ?", owner, false).
		UpdateColumn("is_clean", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to wash items: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Newest returns the owner's most recently added items.
func (r *ClothingRepository) Newest(owner string, limit int) ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	err := r.db.Where("owner = ?", owner).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list newest items: %w", err)
	}
	return items, nil
}

// LeastWorn returns the owner's least worn items, oldest first on ties.
func (r *ClothingRepository) LeastWorn(owner string, limit int) ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	err := r.db.Where("owner = ?", owner).
		Order("wear_count ASC, created_at ASC, id ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list least worn items: %w", err)
	}
	return items, nil
}

// CategoryCount is the number of items in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// CountByCategory groups the owner's items by category.
func (r *ClothingRepository) CountByCategory(owner string) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := r.db.Model(&models.ClothingItem{}).
		Select("category, COUNT(*) AS count").
		Where("owner = ?", owner).
		Group("category").
		Order("category").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count items by category: %w", err)
	}
	return counts, nil
}

// ResolveOutfit loads the parts of an outfit. Parts that are unset, deleted
// or owned by someone else stay nil.
func (r *ClothingRepository) ResolveOutfit(owner string, top uint, bottom, shoe *uint) (*models.OutfitView, error) {
	ids := []uint{top}
	if bottom != nil {
		ids = append(ids, *bottom)
	}
	if shoe != nil {
		ids = append(ids, *shoe)
	}

	found, err := r.GetByIDs(owner, ids)
	if err != nil {
		return nil, err
	}

	view := &models.OutfitView{Top: found[top]}
	if bottom != nil {
		view.Bottom = found[*bottom]
	}
	if shoe != nil {
		view.Shoe = found[*shoe]
	}
	return view, nil
}
