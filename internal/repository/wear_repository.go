package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/aimd54/wardrobe-stylist/internal/models"
)

// WearRepository handles wear log database operations.
type WearRepository struct {
	db *DB
}

// NewWearRepository creates a new wear repository.
func NewWearRepository(db *DB) *WearRepository {
	return &WearRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *WearRepository) WithTx(tx *DB) *WearRepository {
	return &WearRepository{db: tx}
}

// Create creates a new wear log.
func (r *WearRepository) Create(log *models.WearLog) error {
	if err := r.db.Create(log).Error; err != nil {
		return fmt.Errorf("failed to create wear log: %w", err)
	}
	return nil
}

// GetOwned retrieves a wear log by id, scoped to its user.
func (r *WearRepository) GetOwned(username string, id uint) (*models.WearLog, error) {
	var log models.WearLog
	err := r.db.Where("id = ? AND username = ?", id, username).First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wear log %d: %w", id, err)
	}
	return &log, nil
}

// LatestPending returns the most recent unreviewed log dated strictly before day.
func (r *WearRepository) LatestPending(username, day string) (*models.WearLog, error) {
	var log models.WearLog
	err := r.db.
		Where("username = ? AND is_reviewed = ? AND wear_date < ?", username, false, day).
		Order("wear_date DESC, id DESC").
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending wear log: %w", err)
	}
	return &log, nil
}

// MarkReviewed flips a pending log to reviewed. It returns false when the log
// was already reviewed or does not belong to username.
func (r *WearRepository) MarkReviewed(username string, id uint) (bool, error) {
	result := r.db.Model(&models.WearLog{}).
		Where("id = ? AND username = ? AND is_reviewed = ?", id, username, false).
		UpdateColumn("is_reviewed", true)
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark wear log %d reviewed: %w", id, result.Error)
	}
	return result.RowsAffected == 1, nil
}

// ListByUser returns the user's wear history, newest first.
func (r *WearRepository) ListByUser(username string, limit int) ([]models.WearLog, error) {
	var logs []models.WearLog
	query := r.db.Where("username = ?", username).Order("wear_date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list wear logs: %w", err)
	}
	return logs, nil
}
