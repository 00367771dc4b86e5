package wear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
	"github.com/aimd54/wardrobe-stylist/test/testdb"
)

type fixedClock struct {
	day string
}

func (c *fixedClock) Today() string { return c.day }

func newTestService(t *testing.T) (*Service, *repository.DB, *fixedClock) {
	t.Helper()
	db := testdb.New(t)
	testdb.CreateUser(t, db, "ayse")
	clock := &fixedClock{day: "2025-05-01"}
	return NewService(db, clock, logger.NewNop()), db, clock
}

func item(t *testing.T, db *repository.DB, owner, category string) *models.ClothingItem {
	t.Helper()
	return testdb.CreateItem(t, db, owner, category, "black")
}

func reload(t *testing.T, db *repository.DB, it *models.ClothingItem) *models.ClothingItem {
	t.Helper()
	got, err := repository.NewClothingRepository(db).GetOwned(it.Owner, it.ID)
	require.NoError(t, err)
	return got
}

func TestWearCycle_ConfirmThenReviewNextDay(t *testing.T) {
	svc, db, clock := newTestService(t)
	top := item(t, db, "ayse", models.CategoryTop)
	bottom := item(t, db, "ayse", models.CategoryBottom)
	shoe := item(t, db, "ayse", models.CategoryShoe)

	res, err := svc.ConfirmWear("ayse", ConfirmRequest{TopID: top.ID, BottomID: &bottom.ID, ShoeID: &shoe.ID})
	require.NoError(t, err)
	require.Nil(t, res.Declined)
	assert.Equal(t, "2025-05-01", res.Log.WearDate)
	assert.Equal(t, models.WearStatePending, res.Log.State())

	for _, it := range []*models.ClothingItem{top, bottom, shoe} {
		assert.Equal(t, 1, reload(t, db, it).WearCount)
	}

	// Same-day wears are not offered for review.
	pending, err := svc.PendingReview("ayse")
	require.NoError(t, err)
	require.NotNil(t, pending.Declined)
	assert.Equal(t, models.ReasonNoPendingReview, pending.Declined.Reason)

	clock.day = "2025-05-02"
	pending, err = svc.PendingReview("ayse")
	require.NoError(t, err)
	require.NotNil(t, pending.Review)
	assert.Equal(t, res.Log.ID, pending.Review.ID)
	assert.Equal(t, bottom.ID, pending.Review.Bottom.ID)

	review, err := svc.SubmitReview("ayse", res.Log.ID, []uint{bottom.ID})
	require.NoError(t, err)
	require.Nil(t, review.Declined)
	assert.Equal(t, int64(1), review.Dirtied)

	assert.True(t, reload(t, db, top).IsClean)
	assert.False(t, reload(t, db, bottom).IsClean)
	assert.True(t, reload(t, db, shoe).IsClean)

	pending, err = svc.PendingReview("ayse")
	require.NoError(t, err)
	assert.NotNil(t, pending.Declined)

	again, err := svc.SubmitReview("ayse", res.Log.ID, []uint{top.ID})
	require.NoError(t, err)
	require.NotNil(t, again.Declined)
	assert.True(t, reload(t, db, top).IsClean)
}

func TestConfirmWear_RejectsForeignItems(t *testing.T) {
	svc, db, _ := newTestService(t)
	top := item(t, db, "ayse", models.CategoryTop)
	foreign := item(t, db, "mehmet", models.CategoryBottom)

	res, err := svc.ConfirmWear("ayse", ConfirmRequest{TopID: top.ID, BottomID: &foreign.ID})
	require.NoError(t, err)
	require.NotNil(t, res.Declined)
	assert.Equal(t, models.ReasonUnknownItem, res.Declined.Reason)

	assert.Equal(t, 0, reload(t, db, top).WearCount)
	assert.Equal(t, 0, reload(t, db, foreign).WearCount)

	history, err := svc.History("ayse", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestConfirmWear_RejectsRepeatedItem(t *testing.T) {
	svc, db, _ := newTestService(t)
	top := item(t, db, "ayse", models.CategoryTop)
	bottom := item(t, db, "ayse", models.CategoryBottom)

	for _, req := range []ConfirmRequest{
		{TopID: top.ID, BottomID: &top.ID},
		{TopID: top.ID, BottomID: &bottom.ID, ShoeID: &top.ID},
	} {
		res, err := svc.ConfirmWear("ayse", req)
		require.NoError(t, err)
		require.NotNil(t, res.Declined)
		assert.Equal(t, models.ReasonUnknownItem, res.Declined.Reason)
	}

	assert.Equal(t, 0, reload(t, db, top).WearCount)
	assert.Equal(t, 0, reload(t, db, bottom).WearCount)

	history, err := svc.History("ayse", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestConfirmWear_DressNeedsNoBottom(t *testing.T) {
	svc, db, _ := newTestService(t)
	dress := item(t, db, "ayse", models.CategoryDress)
	top := item(t, db, "ayse", models.CategoryTop)
	zero := uint(0)

	res, err := svc.ConfirmWear("ayse", ConfirmRequest{TopID: dress.ID, BottomID: &zero})
	require.NoError(t, err)
	require.Nil(t, res.Declined)
	assert.Equal(t, []uint{dress.ID}, res.Log.ItemIDs())

	res, err = svc.ConfirmWear("ayse", ConfirmRequest{TopID: top.ID})
	require.NoError(t, err)
	assert.NotNil(t, res.Declined)
}

func TestPendingReview_LatestFirstAndToleratesDeletedItems(t *testing.T) {
	svc, db, clock := newTestService(t)
	top := item(t, db, "ayse", models.CategoryTop)
	bottom := item(t, db, "ayse", models.CategoryBottom)

	clock.day = "2025-04-28"
	older, err := svc.ConfirmWear("ayse", ConfirmRequest{TopID: top.ID, BottomID: &bottom.ID})
	require.NoError(t, err)
	clock.day = "2025-04-30"
	newer, err := svc.ConfirmWear("ayse", ConfirmRequest{TopID: top.ID, BottomID: &bottom.ID})
	require.NoError(t, err)

	require.NoError(t, repository.NewClothingRepository(db).Delete("ayse", bottom.ID))

	clock.day = "2025-05-01"
	pending, err := svc.PendingReview("ayse")
	require.NoError(t, err)
	require.NotNil(t, pending.Review)
	assert.Equal(t, newer.Log.ID, pending.Review.ID)
	assert.Equal(t, "2025-04-30", pending.Review.Date)
	assert.NotNil(t, pending.Review.Top)
	assert.Nil(t, pending.Review.Bottom)

	// Dirty ids outside the worn outfit are ignored.
	stranger := item(t, db, "ayse", models.CategoryShoe)
	review, err := svc.SubmitReview("ayse", older.Log.ID, []uint{stranger.ID, bottom.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), review.Dirtied)
	assert.True(t, reload(t, db, stranger).IsClean)
}

func TestSubmitReview_UnknownLog(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.SubmitReview("ayse", 42, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Declined)
	assert.Equal(t, models.ReasonNoPendingReview, res.Declined.Reason)
}

func TestIntersect(t *testing.T) {
	assert.Equal(t, []uint{3, 1}, intersect([]uint{1, 2, 3}, []uint{3, 9, 1, 3}))
	assert.Empty(t, intersect([]uint{1}, nil))
}
