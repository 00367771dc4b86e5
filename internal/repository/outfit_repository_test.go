package repository

import (
	"errors"
	"testing"

	"github.com/aimd54/wardrobe-stylist/internal/models"
)

func uintPtr(v uint) *uint { return &v }

func TestOutfitRepository_UpsertPlanReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOutfitRepository(db)

	if err := repo.UpsertPlan(&models.PlannedOutfit{Username: "ayse", PlanDate: "2025-02-01", TopID: 1, BottomID: uintPtr(2)}); err != nil {
		t.Fatalf("UpsertPlan() error = %v", err)
	}
	if err := repo.UpsertPlan(&models.PlannedOutfit{Username: "ayse", PlanDate: "2025-02-01", TopID: 7}); err != nil {
		t.Fatalf("second UpsertPlan() error = %v", err)
	}

	plan, err := repo.GetPlan("ayse", "2025-02-01")
	if err != nil {
		t.Fatalf("GetPlan() error = %v", err)
	}
	if plan.TopID != 7 || plan.BottomID != nil {
		t.Errorf("GetPlan() = %+v, want top 7 and no bottom", plan)
	}

	plans, _ := repo.ListPlansFrom("ayse", "2025-01-01")
	if len(plans) != 1 {
		t.Errorf("ListPlansFrom() returned %d plans, want 1", len(plans))
	}
}

func TestOutfitRepository_DeleteSavedReferencing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOutfitRepository(db)

	outfits := []*models.SavedOutfit{
		{Username: "ayse", TopID: 1, BottomID: uintPtr(2), ShoeID: uintPtr(3)},
		{Username: "ayse", TopID: 4, BottomID: uintPtr(2)},
		{Username: "ayse", TopID: 4, ShoeID: uintPtr(5)},
	}
	for _, o := range outfits {
		if err := repo.CreateSaved(o); err != nil {
			t.Fatalf("CreateSaved() error = %v", err)
		}
	}

	removed, err := repo.DeleteSavedReferencing(2)
	if err != nil {
		t.Fatalf("DeleteSavedReferencing() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("DeleteSavedReferencing() removed %d, want 2", removed)
	}

	if err := repo.DeleteSaved("mehmet", outfits[2].ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("DeleteSaved() by another user error = %v, want ErrNotFound", err)
	}
}
