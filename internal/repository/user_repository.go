package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aimd54/wardrobe-stylist/internal/models"
)

// UserRepository handles user-related database operations.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *UserRepository) WithTx(tx *DB) *UserRepository {
	return &UserRepository{db: tx}
}

// Create creates a new user.
func (r *UserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetOrCreate returns the user named username, creating an empty account on
// first sight.
func (r *UserRepository) GetOrCreate(username string) (*models.User, error) {
	user := &models.User{Username: username}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", username, err)
	}
	return r.GetByUsername(username)
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// AddXP adds amount to the user's XP. Unknown users are ignored.
func (r *UserRepository) AddXP(username string, amount int) error {
	if amount == 0 {
		return nil
	}
	err := r.db.Model(&models.User{}).
		Where("username = ?", username).
		UpdateColumn("xp", gorm.Expr("xp + ?", amount)).Error
	if err != nil {
		return fmt.Errorf("failed to add xp for %s: %w", username, err)
	}
	return nil
}

// SetPremium marks the user premium until expiry. A nil expiry never lapses.
func (r *UserRepository) SetPremium(username string, expiry *time.Time) error {
	result := r.db.Model(&models.User{}).
		Where("username = ?", username).
		Updates(map[string]interface{}{"is_premium": true, "premium_expiry": expiry})
	if result.Error != nil {
		return fmt.Errorf("failed to set premium for %s: %w", username, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// TopByXP returns the users with the most XP. A limit of 0 returns everyone.
func (r *UserRepository) TopByXP(limit int) ([]models.User, error) {
	var users []models.User
	query := r.db.Order("xp DESC, username ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by xp: %w", err)
	}
	return users, nil
}

// List retrieves all users.
func (r *UserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
