package repository

import (
	"errors"
	"testing"

	"github.com/aimd54/wardrobe-stylist/internal/models"
)

func TestClothingRepository_GetOwnedScopesByOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClothingRepository(db)
	item := createTestItem(t, db, "ayse", models.CategoryTop, "red")

	got, err := repo.GetOwned("ayse", item.ID)
	if err != nil {
		t.Fatalf("GetOwned() error = %v", err)
	}
	if got.Color != "red" || !got.IsClean || got.WearCount != 0 {
		t.Errorf("GetOwned() = %+v, want clean red item never worn", got)
	}

	if _, err := repo.GetOwned("mehmet", item.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetOwned() for another owner error = %v, want ErrNotFound", err)
	}
}

func TestClothingRepository_ListByOwnerFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClothingRepository(db)

	top := createTestItem(t, db, "ayse", models.CategoryTop, "red")
	createTestItem(t, db, "ayse", models.CategoryBottom, "navy")
	createTestItem(t, db, "mehmet", models.CategoryTop, "black")

	if _, err := repo.SetClean("ayse", []uint{top.ID}, false); err != nil {
		t.Fatalf("SetClean() error = %v", err)
	}

	all, err := repo.ListByOwner("ayse", ItemFilter{})
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListByOwner() returned %d items, want 2", len(all))
	}

	clean := true
	cleanItems, err := repo.ListByOwner("ayse", ItemFilter{Clean: &clean})
	if err != nil {
		t.Fatalf("ListByOwner(clean) error = %v", err)
	}
	if len(cleanItems) != 1 || cleanItems[0].Category != models.CategoryBottom {
		t.Errorf("ListByOwner(clean) = %+v, want only the bottom", cleanItems)
	}

	tops, err := repo.ListByOwner("ayse", ItemFilter{Category: models.CategoryTop})
	if err != nil {
		t.Fatalf("ListByOwner(top) error = %v", err)
	}
	if len(tops) != 1 || tops[0].ID != top.ID {
		t.Errorf("ListByOwner(top) = %+v, want item %d", tops, top.ID)
	}
}

func TestClothingRepository_IncrementWearOnlyOwned(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClothingRepository(db)

	mine := createTestItem(t, db, "ayse", models.CategoryTop, "red")
	theirs := createTestItem(t, db, "mehmet", models.CategoryTop, "red")

	if err := repo.IncrementWear("ayse", []uint{mine.ID, theirs.ID}); err != nil {
		t.Fatalf("IncrementWear() error = %v", err)
	}
	if err := repo.IncrementWear("ayse", []uint{mine.ID}); err != nil {
		t.Fatalf("IncrementWear() error = %v", err)
	}

	got, _ := repo.GetOwned("ayse", mine.ID)
	if got.WearCount != 2 {
		t.Errorf("WearCount = %d, want 2", got.WearCount)
	}
	other, _ := repo.GetOwned("mehmet", theirs.ID)
	if other.WearCount != 0 {
		t.Errorf("other owner's WearCount = %d, want 0", other.WearCount)
	}
}

func TestClothingRepository_HashesSkipLegacyRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClothingRepository(db)

	createTestItem(t, db, "ayse", models.CategoryTop, "red")
	hash := "8f373714acfcf4d0"
	hashed := &models.ClothingItem{Owner: "ayse", Category: models.CategoryShoe, ImageHash: &hash, IsClean: true}
	if err := repo.Create(hashed); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	hashes, err := repo.HashesByOwner("ayse")
	if err != nil {
		t.Fatalf("HashesByOwner() error = %v", err)
	}
	if len(hashes) != 1 || hashes[0] != hash {
		t.Errorf("HashesByOwner() = %v, want [%s]", hashes, hash)
	}
}

func TestClothingRepository_DeleteAndUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClothingRepository(db)
	item := createTestItem(t, db, "ayse", models.CategoryTop, "red")

	if err := repo.UpdateTags("mehmet", item.ID, map[string]interface{}{"season": "winter"}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateTags() by another owner error = %v, want ErrNotFound", err)
	}
	if err := repo.UpdateTags("ayse", item.ID, map[string]interface{}{"season": "winter"}); err != nil {
		t.Fatalf("UpdateTags() error = %v", err)
	}
	got, _ := repo.GetOwned("ayse", item.ID)
	if got.Season != "winter" {
		t.Errorf("Season = %q, want winter", got.Season)
	}

	if err := repo.Delete("ayse", item.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete("ayse", item.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestClothingRepository_CountByCategory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClothingRepository(db)

	createTestItem(t, db, "ayse", models.CategoryTop, "red")
	createTestItem(t, db, "ayse", models.CategoryTop, "blue")
	createTestItem(t, db, "ayse", models.CategoryShoe, "white")

	counts, err := repo.CountByCategory("ayse")
	if err != nil {
		t.Fatalf("CountByCategory() error = %v", err)
	}
	want := map[string]int64{models.CategoryShoe: 1, models.CategoryTop: 2}
	if len(counts) != len(want) {
		t.Fatalf("CountByCategory() = %+v, want %v", counts, want)
	}
	for _, c := range counts {
		if want[c.Category] != c.Count {
			t.Errorf("count for %s = %d, want %d", c.Category, c.Count, want[c.Category])
		}
	}
}

func TestClothingRepository_ResolveOutfitToleratesMissingParts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClothingRepository(db)
	top := createTestItem(t, db, "ayse", models.CategoryTop, "red")
	shoe := createTestItem(t, db, "ayse", models.CategoryShoe, "white")
	gone := uint(9999)

	view, err := repo.ResolveOutfit("ayse", top.ID, &gone, &shoe.ID)
	if err != nil {
		t.Fatalf("ResolveOutfit() error = %v", err)
	}
	if view.Top == nil || view.Top.ID != top.ID {
		t.Errorf("Top = %+v, want item %d", view.Top, top.ID)
	}
	if view.Bottom != nil {
		t.Errorf("Bottom = %+v, want nil for deleted item", view.Bottom)
	}
	if view.Shoe == nil || view.Shoe.ID != shoe.ID {
		t.Errorf("Shoe = %+v, want item %d", view.Shoe, shoe.ID)
	}
}
