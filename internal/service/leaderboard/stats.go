package leaderboard

import (
	"context"
	"fmt"

	"github.com/aimd54/wardrobe-stylist/internal/service/ledger"
)

// UserStanding is a user's position on the XP leaderboard.
type UserStanding struct {
	Username string        `json:"username"`
	Period   string        `json:"period"`
	TotalXP  int           `json:"total_xp"`
	PeriodXP int           `json:"period_xp"`
	League   ledger.League `json:"league"`
	Rank     int           `json:"rank"` // 0 when unranked in the period
}

// GetUserStanding returns where username stands for period.
func (s *Service) GetUserStanding(ctx context.Context, username, period string) (*UserStanding, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if period == "" {
		period = PeriodAllTime
	}
	standing := &UserStanding{
		Username: user.Username,
		Period:   period,
		TotalXP:  user.XP,
		League:   ledger.LeagueFor(user.XP),
	}

	board, err := s.XPLeaderboard(ctx, period, 0)
	if err != nil {
		return nil, err
	}
	for _, entry := range board {
		if entry.Username == username {
			standing.Rank = entry.Rank
			standing.PeriodXP = entry.XP
			break
		}
	}
	return standing, nil
}
