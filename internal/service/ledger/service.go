// Package ledger keeps the daily action log that gates quotas and XP, and
// derives leagues and premium status.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aimd54/wardrobe-stylist/internal/metrics"
	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

// NoLimit disables the daily cap of an action.
const NoLimit = -1

// maxSlotRetries bounds how often a log insert is retried after losing a
// race for the same slot.
const maxSlotRetries = 5

// Service manages the daily action log and XP.
type Service struct {
	db     *repository.DB
	ledger *repository.LedgerRepository
	users  *repository.UserRepository
	loc    *time.Location
	now    func() time.Time
	log    *logger.Logger
}

// NewService creates a new ledger service. Calendar days are cut in loc.
func NewService(db *repository.DB, loc *time.Location, log *logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		db:     db,
		ledger: repository.NewLedgerRepository(db),
		users:  repository.NewUserRepository(db),
		loc:    loc,
		now:    time.Now,
		log:    log,
	}
}

// SetClock replaces the time source. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Now returns the current time in the ledger's timezone.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Today returns the current calendar day key.
func (s *Service) Today() string {
	return s.Now().Format(models.DayFormat)
}

// Location returns the timezone calendar days are cut in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// CanAward reports whether username performed action fewer than limit
// times today.
func (s *Service) CanAward(username, action string, limit int) (bool, error) {
	if limit < 0 {
		return true, nil
	}
	count, err := s.ledger.CountActions(username, action, s.Today())
	if err != nil {
		return false, err
	}
	return count < int64(limit), nil
}

// LogAction appends an action to today's log and adds points to the user's
// XP in one transaction.
func (s *Service) LogAction(username, action string, points int) error {
	_, err := s.TryLogAction(username, action, NoLimit, points)
	return err
}

// TryLogAction logs the action and awards points only while today's count
// is below limit. The count check, the insert and the XP update share one
// transaction, and the (user, action, day, seq) unique index turns a
// concurrent writer for the same slot into a retry, so the cap holds under
// concurrency. It returns false when the cap was already reached.
func (s *Service) TryLogAction(username, action string, limit, points int) (bool, error) {
	day := s.Today()

	for attempt := 0; attempt < maxSlotRetries; attempt++ {
		logged := false
		err := s.db.Transaction(func(tx *repository.DB) error {
			ledger := s.ledger.WithTx(tx)

			count, err := ledger.CountActions(username, action, day)
			if err != nil {
				return err
			}
			if limit >= 0 && count >= int64(limit) {
				return nil
			}
			seq, err := ledger.MaxSeq(username, action, day)
			if err != nil {
				return err
			}

			entry := &models.DailyActionLog{
				Username:   username,
				ActionType: action,
				LogDate:    day,
				Seq:        seq + 1,
				XPAmount:   points,
			}
			if err := ledger.Insert(entry); err != nil {
				return err
			}
			if err := s.users.WithTx(tx).AddXP(username, points); err != nil {
				return err
			}
			logged = true
			return nil
		})

		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Debug().Str("owner", username).Str("action", action).Int("attempt", attempt+1).
				Msg("Action log slot taken, retrying")
			continue
		}
		if err != nil {
			return false, fmt.Errorf("failed to log %s for %s: %w", action, username, err)
		}
		if logged {
			metrics.RecordXPAwarded(action, points)
		}
		return logged, nil
	}

	return false, fmt.Errorf("failed to log %s for %s: too much contention", action, username)
}

// AwardXP adds points to a user's XP without touching the action log.
func (s *Service) AwardXP(username string, points int) error {
	return s.users.AddXP(username, points)
}

// Reward is the fire-and-forget form of TryLogAction used for XP side
// effects: failures are logged and counted, never returned. It reports
// whether the points were granted.
func (s *Service) Reward(username, action string, limit, points int) bool {
	ok, err := s.TryLogAction(username, action, limit, points)
	if err != nil {
		s.log.Warn().Err(err).Str("owner", username).Str("action", action).Msg("XP write failed, skipping")
		metrics.RecordXPWriteFailure(action)
		return false
	}
	return ok
}

// IsPremium reports whether username currently has an active premium plan.
// Unknown users are not premium.
func (s *Service) IsPremium(username string) (bool, error) {
	user, err := s.users.GetByUsername(username)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.PremiumAt(s.now()), nil
}

// UpgradePremium grants premium for duration from now. A zero duration
// never expires.
func (s *Service) UpgradePremium(username string, duration time.Duration) (*models.User, error) {
	var expiry *time.Time
	if duration > 0 {
		t := s.now().Add(duration)
		expiry = &t
	}
	if err := s.users.SetPremium(username, expiry); err != nil {
		return nil, err
	}
	s.log.Info().Str("owner", username).Dur("duration", duration).Msg("Premium activated")
	return s.users.GetByUsername(username)
}

// EnsureUser returns username's account, creating it on first sight.
func (s *Service) EnsureUser(username string) (*models.User, error) {
	return s.users.GetOrCreate(username)
}

// Profile is a user's gamification state.
type Profile struct {
	Username  string         `json:"username"`
	FullName  string         `json:"full_name"`
	XP        int            `json:"xp"`
	League    League         `json:"league"`
	IsPremium bool           `json:"is_premium"`
	Today     map[string]int `json:"today"`
}

// Profile returns XP, league, premium state and today's action counts.
func (s *Service) Profile(username string) (*Profile, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledger.ListByUser(username, s.Today())
	if err != nil {
		return nil, err
	}
	today := make(map[string]int)
	for _, e := range entries {
		today[e.ActionType]++
	}

	return &Profile{
		Username:  user.Username,
		FullName:  user.FullName,
		XP:        user.XP,
		League:    LeagueFor(user.XP),
		IsPremium: user.PremiumAt(s.now()),
		Today:     today,
	}, nil
}
