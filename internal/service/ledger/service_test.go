package ledger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
	"github.com/aimd54/wardrobe-stylist/test/testdb"
)

func newTestService(t *testing.T) (*Service, *repository.DB, *time.Time) {
	t.Helper()

	db := testdb.New(t)
	testdb.CreateUser(t, db, "ayse")

	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	now := time.Date(2025, 1, 10, 12, 0, 0, 0, loc)
	s := NewService(db, loc, logger.NewNop())
	s.SetClock(func() time.Time { return now })
	return s, db, &now
}

func xpOf(t *testing.T, db *repository.DB, username string) int {
	t.Helper()
	user, err := repository.NewUserRepository(db).GetByUsername(username)
	require.NoError(t, err)
	return user.XP
}

func TestLeagueFor_Boundaries(t *testing.T) {
	tests := []struct {
		xp       int
		class    string
		progress int
		toNext   *int
	}{
		{0, "bronze", 0, intPtr(150)},
		{75, "bronze", 50, intPtr(75)},
		{149, "bronze", 99, intPtr(1)},
		{150, "silver", 0, intPtr(350)},
		{499, "silver", 99, intPtr(1)},
		{500, "gold", 0, intPtr(1000)},
		{1499, "gold", 99, intPtr(1)},
		{1500, "diamond", 100, nil},
		{99999, "diamond", 100, nil},
	}

	for _, tt := range tests {
		got := LeagueFor(tt.xp)
		assert.Equal(t, tt.class, got.Class, "xp=%d", tt.xp)
		assert.Equal(t, tt.progress, got.Progress, "xp=%d", tt.xp)
		assert.Equal(t, tt.toNext, got.XPToNext, "xp=%d", tt.xp)
	}
}

func TestLeagueFor_Monotonic(t *testing.T) {
	prev := LeagueFor(0).Rank()
	for xp := 1; xp <= 2000; xp++ {
		rank := LeagueFor(xp).Rank()
		require.GreaterOrEqual(t, rank, prev, "xp=%d", xp)
		prev = rank
	}
}

func intPtr(v int) *int { return &v }

func TestCanAward_ResetsNextDay(t *testing.T) {
	s, _, now := newTestService(t)

	for i := 0; i < 3; i++ {
		ok, err := s.CanAward("ayse", models.ActionUpload, 3)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, s.LogAction("ayse", models.ActionUpload, models.XPUpload))
	}

	ok, err := s.CanAward("ayse", models.ActionUpload, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	*now = now.Add(12 * time.Hour) // past midnight in Istanbul
	ok, err = s.CanAward("ayse", models.ActionUpload, 3)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTryLogAction_CapsAwards(t *testing.T) {
	s, db, _ := newTestService(t)

	granted := 0
	for i := 0; i < 7; i++ {
		ok, err := s.TryLogAction("ayse", models.ActionUpload, 5, models.XPUpload)
		require.NoError(t, err)
		if ok {
			granted++
		}
	}

	assert.Equal(t, 5, granted)
	assert.Equal(t, 25, xpOf(t, db, "ayse"))

	count, err := repository.NewLedgerRepository(db).CountActions("ayse", models.ActionUpload, s.Today())
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestTryLogAction_SlotFollowsHighestSeq(t *testing.T) {
	s, db, _ := newTestService(t)
	ledgerRepo := repository.NewLedgerRepository(db)

	// A gap left by an earlier writer: only slot 2 is taken.
	require.NoError(t, ledgerRepo.Insert(&models.DailyActionLog{
		Username:   "ayse",
		ActionType: models.ActionUpload,
		LogDate:    s.Today(),
		Seq:        2,
		XPAmount:   models.XPUpload,
	}))

	ok, err := s.TryLogAction("ayse", models.ActionUpload, 5, models.XPUpload)
	require.NoError(t, err)
	assert.True(t, ok)

	seq, err := ledgerRepo.MaxSeq("ayse", models.ActionUpload, s.Today())
	require.NoError(t, err)
	assert.Equal(t, 3, seq)
}

func TestTryLogAction_ConcurrentCallersRespectCap(t *testing.T) {
	s, db, _ := newTestService(t)

	var wg sync.WaitGroup
	results := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.TryLogAction("ayse", models.ActionAIGen, 1, 0)
			assert.NoError(t, err)
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	granted := 0
	for ok := range results {
		if ok {
			granted++
		}
	}
	assert.Equal(t, 1, granted)

	count, err := repository.NewLedgerRepository(db).CountActions("ayse", models.ActionAIGen, s.Today())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestReward_UncappedAndZeroXP(t *testing.T) {
	s, db, _ := newTestService(t)

	for i := 0; i < 10; i++ {
		assert.True(t, s.Reward("ayse", models.ActionSaveOutfit, NoLimit, models.XPSaveOutfit))
	}
	assert.True(t, s.Reward("ayse", models.ActionAIGen, 1, models.XPAIGen))

	assert.Equal(t, 20, xpOf(t, db, "ayse"))
}

func TestPremium(t *testing.T) {
	s, _, now := newTestService(t)

	premium, err := s.IsPremium("ayse")
	require.NoError(t, err)
	assert.False(t, premium)

	premium, err = s.IsPremium("ghost")
	require.NoError(t, err)
	assert.False(t, premium)

	_, err = s.UpgradePremium("ayse", 30*24*time.Hour)
	require.NoError(t, err)
	premium, _ = s.IsPremium("ayse")
	assert.True(t, premium)

	*now = now.Add(31 * 24 * time.Hour)
	premium, _ = s.IsPremium("ayse")
	assert.False(t, premium)
}

func TestProfile(t *testing.T) {
	s, _, _ := newTestService(t)

	require.NoError(t, s.LogAction("ayse", models.ActionImport, 150))
	require.NoError(t, s.LogAction("ayse", models.ActionComment, models.XPComment))

	p, err := s.Profile("ayse")
	require.NoError(t, err)
	assert.Equal(t, 151, p.XP)
	assert.Equal(t, "silver", p.League.Class)
	assert.Equal(t, 1, p.Today[models.ActionImport])

	_, err = s.Profile("ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEnsureUser(t *testing.T) {
	s, db, _ := newTestService(t)

	user, err := s.EnsureUser("newcomer")
	require.NoError(t, err)
	assert.Equal(t, 0, user.XP)

	s.Reward("newcomer", models.ActionComment, NoLimit, models.XPComment)
	again, err := s.EnsureUser("newcomer")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, models.XPComment, xpOf(t, db, "newcomer"))
}
