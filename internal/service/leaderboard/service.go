// Package leaderboard provides leaderboard and ranking services.
package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
	"github.com/aimd54/wardrobe-stylist/internal/service/ledger"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

// UserRepository interface for user operations.
type UserRepository interface {
	GetByUsername(username string) (*models.User, error)
	TopByXP(limit int) ([]models.User, error)
}

// LedgerRepository interface for XP history.
type LedgerRepository interface {
	SumXPSince(day string) ([]repository.XPTotal, error)
}

// FeedRepository interface for duel results.
type FeedRepository interface {
	TopByDuelWins(limit int) ([]models.FeedPost, error)
}

// Periods accepted by the XP leaderboard.
const (
	PeriodDay     = "day"
	PeriodWeek    = "week"
	PeriodMonth   = "month"
	PeriodAllTime = "all_time"
)

// Entry represents a single entry in the XP leaderboard.
type Entry struct {
	Username string        `json:"username"`
	FullName string        `json:"full_name"`
	XP       int           `json:"xp"` // earned within the period
	TotalXP  int           `json:"total_xp"`
	League   ledger.League `json:"league"`
	Rank     int           `json:"rank"`
}

// DuelEntry is a post on the duel leaderboard.
type DuelEntry struct {
	models.FeedPost
	Rank int `json:"rank"`
}

// Service handles leaderboard generation and user standings.
type Service struct {
	userRepo   UserRepository
	ledgerRepo LedgerRepository
	feedRepo   FeedRepository
	loc        *time.Location
	now        func() time.Time
	log        *logger.Logger
}

// NewService creates a new leaderboard service with concrete repository types.
func NewService(
	userRepo *repository.UserRepository,
	ledgerRepo *repository.LedgerRepository,
	feedRepo *repository.FeedRepository,
	loc *time.Location,
	log *logger.Logger,
) *Service {
	return NewServiceWithInterfaces(userRepo, ledgerRepo, feedRepo, loc, log)
}

// NewServiceWithInterfaces creates a new leaderboard service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	userRepo UserRepository,
	ledgerRepo LedgerRepository,
	feedRepo FeedRepository,
	loc *time.Location,
	log *logger.Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		feedRepo:   feedRepo,
		loc:        loc,
		now:        time.Now,
		log:        log,
	}
}

// SetClock replaces the time source. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// XPLeaderboard ranks users by XP earned in period. All-time rankings use
// the users' XP totals; shorter periods sum the daily action log.
//
//nolint:revive // ctx reserved for context-aware repositories
func (s *Service) XPLeaderboard(ctx context.Context, period string, limit int) ([]Entry, error) {
	if period == "" || period == PeriodAllTime {
		return s.allTime(limit)
	}

	since, err := s.periodStart(period)
	if err != nil {
		return nil, err
	}

	totals, err := s.ledgerRepo.SumXPSince(since)
	if err != nil {
		return nil, fmt.Errorf("failed to get xp totals: %w", err)
	}

	entries := make([]Entry, 0, len(totals))
	for _, t := range totals {
		entry := Entry{Username: t.Username, XP: t.XP}

		user, err := s.userRepo.GetByUsername(t.Username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", t.Username).Msg("Failed to get user")
			continue
		}
		entry.FullName = user.FullName
		entry.TotalXP = user.XP
		entry.League = ledger.LeagueFor(user.XP)

		entries = append(entries, entry)
	}

	// Totals arrive sorted by period XP.
	for i := range entries {
		entries[i].Rank = i + 1
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Service) allTime(limit int) ([]Entry, error) {
	users, err := s.userRepo.TopByXP(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	entries := make([]Entry, 0, len(users))
	for i, u := range users {
		entries = append(entries, Entry{
			Username: u.Username,
			FullName: u.FullName,
			XP:       u.XP,
			TotalXP:  u.XP,
			League:   ledger.LeagueFor(u.XP),
			Rank:     i + 1,
		})
	}
	return entries, nil
}

// DuelLeaderboard returns the posts with the most duel wins.
func (s *Service) DuelLeaderboard(limit int) ([]DuelEntry, error) {
	posts, err := s.feedRepo.TopByDuelWins(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get duel leaders: %w", err)
	}

	entries := make([]DuelEntry, 0, len(posts))
	for i, p := range posts {
		entries = append(entries, DuelEntry{FeedPost: p, Rank: i + 1})
	}
	return entries, nil
}

// periodStart returns the first day key included in period.
func (s *Service) periodStart(period string) (string, error) {
	today := s.now().In(s.loc)
	var start time.Time

	switch period {
	case PeriodDay:
		start = today
	case PeriodWeek:
		start = today.AddDate(0, 0, -6)
	case PeriodMonth:
		start = today.AddDate(0, 0, -29)
	default:
		return "", fmt.Errorf("%w: unknown period %q", models.ErrInvalidInput, period)
	}
	return start.Format(models.DayFormat), nil
}
