package stylist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
	"github.com/aimd54/wardrobe-stylist/internal/service/ledger"
	"github.com/aimd54/wardrobe-stylist/internal/service/stylist"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
	"github.com/aimd54/wardrobe-stylist/test/mocks"
	"github.com/aimd54/wardrobe-stylist/test/testdb"
)

type fixture struct {
	db        *repository.DB
	ledger    *ledger.Service
	suggester *mocks.MockSuggester
	svc       *stylist.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.New(t)
	testdb.CreateUser(t, db, "ayse")
	testdb.CreateUser(t, db, "mehmet")

	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	led := ledger.NewService(db, time.UTC, logger.NewNop())
	led.SetClock(func() time.Time { return now })

	sg := mocks.NewMockSuggester()
	svc := stylist.NewService(repository.NewClothingRepository(db), led, sg, 1, logger.NewNop())
	svc.SetShuffle(func([]models.ClothingItem) {})

	return &fixture{db: db, ledger: led, suggester: sg, svc: svc}
}

func TestRecommend_FreeTierOncePerDay(t *testing.T) {
	f := newFixture(t)
	top := testdb.CreateItem(t, f.db, "ayse", models.CategoryTop, "red")
	bottom := testdb.CreateItem(t, f.db, "ayse", models.CategoryBottom, "black")
	f.suggester.Next = &stylist.Suggestion{TopID: &top.ID, BottomID: &bottom.ID, Message: "classic"}

	first, err := f.svc.Recommend(context.Background(), "ayse", stylist.RecommendRequest{Season: "summer", Style: "casual"})
	require.NoError(t, err)
	require.Nil(t, first.Declined)
	assert.Equal(t, top.ID, first.Top.ID)
	assert.Equal(t, bottom.ID, first.Bottom.ID)
	assert.Equal(t, "classic", first.Message)

	count, err := repository.NewLedgerRepository(f.db).CountActions("ayse", models.ActionAIGen, f.ledger.Today())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Even with an empty wardrobe the quota answers first.
	_, err = repository.NewClothingRepository(f.db).SetClean("ayse", []uint{top.ID, bottom.ID}, false)
	require.NoError(t, err)

	second, err := f.svc.Recommend(context.Background(), "ayse", stylist.RecommendRequest{})
	require.NoError(t, err)
	require.NotNil(t, second.Declined)
	assert.Equal(t, models.ReasonQuotaExceeded, second.Declined.Reason)
	assert.Equal(t, 1, f.suggester.Calls)

	user, _ := repository.NewUserRepository(f.db).GetByUsername("ayse")
	assert.Equal(t, 0, user.XP)
}

func TestRecommend_PremiumBypassesCap(t *testing.T) {
	f := newFixture(t)
	top := testdb.CreateItem(t, f.db, "ayse", models.CategoryTop, "red")
	f.suggester.Next = &stylist.Suggestion{TopID: &top.ID}
	_, err := f.ledger.UpgradePremium("ayse", 0)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		rec, err := f.svc.Recommend(context.Background(), "ayse", stylist.RecommendRequest{})
		require.NoError(t, err)
		assert.Nil(t, rec.Declined)
	}
}

func TestRecommend_EmptyWardrobe(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.Recommend(context.Background(), "ayse", stylist.RecommendRequest{})
	require.NoError(t, err)
	require.NotNil(t, rec.Declined)
	assert.Equal(t, models.ReasonEmptyWardrobe, rec.Declined.Reason)
	assert.Zero(t, f.suggester.Calls)
}

func TestRecommend_SuggesterFailureIsBusyAndKeepsQuota(t *testing.T) {
	f := newFixture(t)
	top := testdb.CreateItem(t, f.db, "ayse", models.CategoryTop, "red")
	f.suggester.Err = errors.New("deadline exceeded")

	rec, err := f.svc.Recommend(context.Background(), "ayse", stylist.RecommendRequest{})
	require.NoError(t, err)
	require.NotNil(t, rec.Declined)
	assert.Equal(t, models.ReasonStylistBusy, rec.Declined.Reason)

	f.suggester.Err = nil
	f.suggester.Next = &stylist.Suggestion{TopID: &top.ID}
	rec, err = f.svc.Recommend(context.Background(), "ayse", stylist.RecommendRequest{})
	require.NoError(t, err)
	assert.Nil(t, rec.Declined)
}

func TestRecommend_RejectsForeignAndDirtyIDs(t *testing.T) {
	f := newFixture(t)
	top := testdb.CreateItem(t, f.db, "ayse", models.CategoryTop, "red")
	dirty := testdb.CreateItem(t, f.db, "ayse", models.CategoryShoe, "white")
	foreign := testdb.CreateItem(t, f.db, "mehmet", models.CategoryBottom, "black")
	_, err := repository.NewClothingRepository(f.db).SetClean("ayse", []uint{dirty.ID}, false)
	require.NoError(t, err)

	missing := uint(9999)
	f.suggester.Next = &stylist.Suggestion{TopID: &top.ID, BottomID: &foreign.ID, ShoeID: &dirty.ID, AccessoryID: &missing}

	rec, err := f.svc.Recommend(context.Background(), "ayse", stylist.RecommendRequest{})
	require.NoError(t, err)
	require.Nil(t, rec.Declined)

	assert.Equal(t, top.ID, rec.Top.ID)
	assert.Nil(t, rec.Bottom)
	assert.Nil(t, rec.Shoe)
	assert.Nil(t, rec.Accessory)
	assert.ElementsMatch(t, []string{"bottom", "shoe", "accessory"}, rec.Unresolved)

	// Only clean items were offered.
	require.NotNil(t, f.suggester.LastRequest)
	for _, it := range f.suggester.LastRequest.Inventory {
		assert.NotEqual(t, dirty.ID, it.ID)
		assert.NotEqual(t, foreign.ID, it.ID)
	}
}

func TestRecommend_DressMode(t *testing.T) {
	f := newFixture(t)
	dress := testdb.CreateItem(t, f.db, "ayse", models.CategoryDress, "navy")
	f.suggester.Next = &stylist.Suggestion{TopID: &dress.ID}

	rec, err := f.svc.Recommend(context.Background(), "ayse", stylist.RecommendRequest{OutfitType: stylist.OutfitDress})
	require.NoError(t, err)
	require.NotNil(t, rec.Dress)
	assert.Equal(t, dress.ID, rec.Dress.ID)
	assert.Nil(t, rec.Top)
	assert.Equal(t, stylist.OutfitDress, f.suggester.LastRequest.OutfitType)
}
