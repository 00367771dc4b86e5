// Package testdb opens migrated in-memory SQLite databases for service tests.
package testdb

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
)

// New returns a fresh migrated database that is closed when t ends.
func New(t *testing.T) *repository.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Every connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	wrapped := &repository.DB{DB: db}
	if err := wrapped.AutoMigrate(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { _ = wrapped.Close() })
	return wrapped
}

// CreateUser inserts a user.
func CreateUser(t *testing.T, db *repository.DB, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, FullName: username}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateItem inserts a clean item.
func CreateItem(t *testing.T, db *repository.DB, owner, category, color string) *models.ClothingItem {
	t.Helper()

	item := &models.ClothingItem{
		Owner:    owner,
		ImageURL: "/uploads/" + owner + "-" + category + ".png",
		Category: category,
		Season:   "summer",
		Style:    "casual",
		Color:    color,
		IsClean:  true,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to create test item: %v", err)
	}
	return item
}
