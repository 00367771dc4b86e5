package mocks

import (
	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
)

// MockUserRepository is a simple mock for user repository
type MockUserRepository struct {
	GetByUsernameFunc func(username string) (*models.User, error)
	TopByXPFunc       func(limit int) ([]models.User, error)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(username)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) TopByXP(limit int) ([]models.User, error) {
	if m.TopByXPFunc != nil {
		return m.TopByXPFunc(limit)
	}
	return []models.User{}, nil
}

// MockLedgerRepository is a simple mock for ledger repository
type MockLedgerRepository struct {
	SumXPSinceFunc func(day string) ([]repository.XPTotal, error)
	LastSince      string
}

func (m *MockLedgerRepository) SumXPSince(day string) ([]repository.XPTotal, error) {
	m.LastSince = day
	if m.SumXPSinceFunc != nil {
		return m.SumXPSinceFunc(day)
	}
	return []repository.XPTotal{}, nil
}

// MockFeedRepository is a simple mock for feed repository
type MockFeedRepository struct {
	TopByDuelWinsFunc func(limit int) ([]models.FeedPost, error)
}

func (m *MockFeedRepository) TopByDuelWins(limit int) ([]models.FeedPost, error) {
	if m.TopByDuelWinsFunc != nil {
		return m.TopByDuelWinsFunc(limit)
	}
	return []models.FeedPost{}, nil
}
