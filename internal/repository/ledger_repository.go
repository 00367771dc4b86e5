package repository

import (
	"fmt"

	"github.com/aimd54/wardrobe-stylist/internal/models"
)

// LedgerRepository handles the daily action log.
type LedgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new ledger repository.
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *LedgerRepository) WithTx(tx *DB) *LedgerRepository {
	return &LedgerRepository{db: tx}
}

// CountActions returns how many times username performed action on day.
func (r *LedgerRepository) CountActions(username, action, day string) (int64, error) {
	var count int64
	err := r.db.Model(&models.DailyActionLog{}).
		Where("username = ? AND action_type = ? AND log_date = ?", username, action, day).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count %s actions: %w", action, err)
	}
	return count, nil
}

// MaxSeq returns the highest sequence number used for the triple, 0 if none.
func (r *LedgerRepository) MaxSeq(username, action, day string) (int, error) {
	var seq int
	err := r.db.Model(&models.DailyActionLog{}).
		Select("COALESCE(MAX(seq), 0)").
		Where("username = ? AND action_type = ? AND log_date = ?", username, action, day).
		Scan(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read %s sequence: %w", action, err)
	}
	return seq, nil
}

// Insert records one action. Returns gorm.ErrDuplicatedKey when the slot is taken.
func (r *LedgerRepository) Insert(entry *models.DailyActionLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to log %s action: %w", entry.ActionType, err)
	}
	return nil
}

// ListByUser returns the user's log entries for day.
func (r *LedgerRepository) ListByUser(username, day string) ([]models.DailyActionLog, error) {
	var entries []models.DailyActionLog
	err := r.db.Where("username = ? AND log_date = ?", username, day).
		Order("id").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	return entries, nil
}

// DeleteBefore removes entries older than day and returns how many were removed.
func (r *LedgerRepository) DeleteBefore(day string) (int64, error) {
	result := r.db.Where("log_date < ?", day).Delete(&models.DailyActionLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune action log: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// XPTotal is the XP a user earned over a range of days.
type XPTotal struct {
	Username string `json:"username"`
	XP       int    `json:"xp"`
}

// SumXPSince totals logged XP per user from day on, highest first. Users who
// earned nothing are left out.
func (r *LedgerRepository) SumXPSince(day string) ([]XPTotal, error) {
	var totals []XPTotal
	err := r.db.Model(&models.DailyActionLog{}).
		Select("username, SUM(xp_amount) AS xp").
		Where("log_date >= ?", day).
		Group("username").
		Having("SUM(xp_amount) > 0").
		Order("xp DESC, username ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum xp since %s: %w", day, err)
	}
	return totals, nil
}
