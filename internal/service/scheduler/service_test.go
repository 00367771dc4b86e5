package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aimd54/wardrobe-stylist/internal/config"
	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
	"github.com/aimd54/wardrobe-stylist/test/testdb"
)

type fakePruner struct {
	cutoffs []string
	deleted int64
	err     error
}

func (f *fakePruner) DeleteBefore(day string) (int64, error) {
	f.cutoffs = append(f.cutoffs, day)
	return f.deleted, f.err
}

func TestBuildCronExpression(t *testing.T) {
	tests := []struct {
		name    string
		time    string
		want    string
		wantErr bool
	}{
		{
			name:    "daily at 3:30",
			time:    "03:30",
			want:    "30 3 * * *",
			wantErr: false,
		},
		{
			name:    "daily at midnight",
			time:    "00:00",
			want:    "0 0 * * *",
			wantErr: false,
		},
		{
			name:    "invalid format no colon",
			time:    "0330",
			want:    "",
			wantErr: true,
		},
		{
			name:    "invalid hour",
			time:    "25:00",
			want:    "",
			wantErr: true,
		},
		{
			name:    "invalid minute",
			time:    "03:60",
			want:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Service{config: &config.SchedulerConfig{RetentionTime: tt.time}}

			got, err := s.buildCronExpression()

			if (err != nil) != tt.wantErr {
				t.Errorf("buildCronExpression() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("buildCronExpression() = %v, want %v", got, tt.want)
			}
		})
	}
}

func newTestService(cfg *config.SchedulerConfig, pruner ActionLogPruner, now time.Time) *Service {
	s := NewService(cfg, pruner, logger.NewNop())
	s.now = func() time.Time { return now }
	return s
}

func TestCutoff(t *testing.T) {
	now := time.Date(2025, 3, 31, 2, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days int
		want string
	}{
		{"ninety days", 90, "2024-12-31"},
		{"one day", 1, "2025-03-30"},
		{"zero keeps yesterday", 0, "2025-03-30"},
		{"negative keeps yesterday", -5, "2025-03-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(&config.SchedulerConfig{RetentionDays: tt.days}, nil, now)
			if got := s.cutoff(); got != tt.want {
				t.Errorf("cutoff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCutoffUsesSchedulerTimezone(t *testing.T) {
	istanbul, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		t.Fatalf("LoadLocation() error = %v", err)
	}

	// 22:30 UTC is already the next day in Istanbul.
	s := newTestService(&config.SchedulerConfig{RetentionDays: 1}, nil, time.Date(2025, 3, 30, 22, 30, 0, 0, time.UTC))
	s.location = istanbul

	if got := s.cutoff(); got != "2025-03-30" {
		t.Errorf("cutoff() = %v, want 2025-03-30", got)
	}
}

func TestRunRetention(t *testing.T) {
	pruner := &fakePruner{deleted: 12}
	s := newTestService(&config.SchedulerConfig{RetentionDays: 7}, pruner, time.Date(2025, 3, 10, 3, 30, 0, 0, time.UTC))

	s.runRetention(context.Background())

	if len(pruner.cutoffs) != 1 || pruner.cutoffs[0] != "2025-03-03" {
		t.Errorf("DeleteBefore() called with %v, want [2025-03-03]", pruner.cutoffs)
	}

	pruner.err = errors.New("db down")
	s.runRetention(context.Background())
	if len(pruner.cutoffs) != 2 {
		t.Errorf("DeleteBefore() called %d times, want 2", len(pruner.cutoffs))
	}
}

func TestRunRetentionKeepsToday(t *testing.T) {
	db := testdb.New(t)
	repo := repository.NewLedgerRepository(db)

	for _, day := range []string{"2025-01-01", "2025-03-09", "2025-03-10"} {
		entry := &models.DailyActionLog{Username: "ayse", ActionType: models.ActionUpload, LogDate: day, Seq: 1, XPAmount: 5}
		if err := repo.Insert(entry); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	s := newTestService(&config.SchedulerConfig{RetentionDays: 1}, repo, time.Date(2025, 3, 10, 3, 30, 0, 0, time.UTC))
	s.runRetention(context.Background())

	for day, want := range map[string]int64{"2025-01-01": 0, "2025-03-09": 1, "2025-03-10": 1} {
		got, err := repo.CountActions("ayse", models.ActionUpload, day)
		if err != nil {
			t.Fatalf("CountActions() error = %v", err)
		}
		if got != want {
			t.Errorf("CountActions(%s) = %d, want %d", day, got, want)
		}
	}
}

func TestStartDisabled(t *testing.T) {
	s := NewService(&config.SchedulerConfig{Enabled: false}, &fakePruner{}, logger.NewNop())
	if err := s.Start(); err != nil {
		t.Errorf("Start() error = %v", err)
	}
	if s.cron != nil {
		t.Error("Start() created a cron scheduler while disabled")
	}
	s.Stop()
}

func TestStartRejectsBadTime(t *testing.T) {
	s := NewService(&config.SchedulerConfig{Enabled: true, Timezone: "UTC", RetentionTime: "3am"}, &fakePruner{}, logger.NewNop())
	if err := s.Start(); err == nil {
		t.Error("Start() error = nil, want invalid time error")
	}
}
