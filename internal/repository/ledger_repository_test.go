package repository

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/aimd54/wardrobe-stylist/internal/models"
)

func TestLedgerRepository_InsertRejectsTakenSlot(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLedgerRepository(db)

	first := &models.DailyActionLog{Username: "ayse", ActionType: models.ActionUpload, LogDate: "2025-01-10", Seq: 1, XPAmount: 5}
	if err := repo.Insert(first); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	dup := &models.DailyActionLog{Username: "ayse", ActionType: models.ActionUpload, LogDate: "2025-01-10", Seq: 1, XPAmount: 5}
	if err := repo.Insert(dup); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("Insert() of taken slot error = %v, want ErrDuplicatedKey", err)
	}

	seq, err := repo.MaxSeq("ayse", models.ActionUpload, "2025-01-10")
	if err != nil {
		t.Fatalf("MaxSeq() error = %v", err)
	}
	if seq != 1 {
		t.Errorf("MaxSeq() = %d, want 1", seq)
	}
}

func TestLedgerRepository_CountActionsPerDay(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLedgerRepository(db)

	for i, day := range []string{"2025-01-10", "2025-01-10", "2025-01-11"} {
		entry := &models.DailyActionLog{Username: "ayse", ActionType: models.ActionAIGen, LogDate: day, Seq: i + 1}
		if err := repo.Insert(entry); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	count, err := repo.CountActions("ayse", models.ActionAIGen, "2025-01-10")
	if err != nil {
		t.Fatalf("CountActions() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountActions() = %d, want 2", count)
	}

	if seq, _ := repo.MaxSeq("mehmet", models.ActionAIGen, "2025-01-10"); seq != 0 {
		t.Errorf("MaxSeq() for empty slot = %d, want 0", seq)
	}
}

func TestLedgerRepository_DeleteBefore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLedgerRepository(db)

	for _, day := range []string{"2024-09-01", "2024-12-31", "2025-01-10"} {
		entry := &models.DailyActionLog{Username: "ayse", ActionType: models.ActionUpload, LogDate: day, Seq: 1}
		if err := repo.Insert(entry); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	removed, err := repo.DeleteBefore("2025-01-01")
	if err != nil {
		t.Fatalf("DeleteBefore() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("DeleteBefore() removed %d, want 2", removed)
	}
}

func TestLedgerRepository_SumXPSince(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLedgerRepository(db)

	entries := []models.DailyActionLog{
		{Username: "ayse", ActionType: models.ActionUpload, LogDate: "2025-01-01", Seq: 1, XPAmount: 5},
		{Username: "ayse", ActionType: models.ActionUpload, LogDate: "2025-01-10", Seq: 1, XPAmount: 5},
		{Username: "ayse", ActionType: models.ActionComment, LogDate: "2025-01-10", Seq: 1, XPAmount: 1},
		{Username: "mehmet", ActionType: models.ActionImport, LogDate: "2025-01-09", Seq: 1, XPAmount: 15},
		{Username: "zeynep", ActionType: models.ActionAIGen, LogDate: "2025-01-10", Seq: 1, XPAmount: 0},
	}
	for i := range entries {
		if err := repo.Insert(&entries[i]); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	totals, err := repo.SumXPSince("2025-01-05")
	if err != nil {
		t.Fatalf("SumXPSince() error = %v", err)
	}
	want := []XPTotal{{Username: "mehmet", XP: 15}, {Username: "ayse", XP: 6}}
	if len(totals) != len(want) {
		t.Fatalf("SumXPSince() = %+v, want %+v", totals, want)
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Errorf("SumXPSince()[%d] = %+v, want %+v", i, totals[i], want[i])
		}
	}
}
