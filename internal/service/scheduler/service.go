// Package scheduler runs the daily action log retention job.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aimd54/wardrobe-stylist/internal/config"
	prommetrics "github.com/aimd54/wardrobe-stylist/internal/metrics"
	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

// ActionLogPruner deletes action log rows dated before a day.
type ActionLogPruner interface {
	DeleteBefore(day string) (int64, error)
}

// Service handles scheduled maintenance.
type Service struct {
	config   *config.SchedulerConfig
	pruner   ActionLogPruner
	location *time.Location
	now      func() time.Time
	log      *logger.Logger
	cron     *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(cfg *config.SchedulerConfig, pruner ActionLogPruner, log *logger.Logger) *Service {
	return &Service{
		config:   cfg,
		pruner:   pruner,
		location: time.UTC,
		now:      time.Now,
		log:      log,
	}
}

// Start initializes and starts the cron scheduler.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := s.config.GetLocation()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Timezone, err)
	}
	s.location = location

	s.cron = cron.New(cron.WithLocation(location))

	cronExpr, err := s.buildCronExpression()
	if err != nil {
		return fmt.Errorf("failed to build cron expression: %w", err)
	}

	_, err = s.cron.AddFunc(cronExpr, func() {
		s.runRetention(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to register retention job: %w", err)
	}

	s.cron.Start()

	entries := s.cron.Entries()
	nextRun := ""
	if len(entries) > 0 {
		nextRun = entries[0].Next.Format(time.RFC3339)
	}

	s.log.Info().
		Str("schedule", cronExpr).
		Str("timezone", s.config.Timezone).
		Int("retention_days", s.retentionDays()).
		Str("next_run", nextRun).
		Msg("Scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info().Msg("Scheduler stopped")
	}
}

// buildCronExpression generates a daily cron expression from the "HH:MM"
// retention time.
func (s *Service) buildCronExpression() (string, error) {
	parts := strings.Split(s.config.RetentionTime, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time format %q, expected HH:MM", s.config.RetentionTime)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour %q", parts[0])
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute %q", parts[1])
	}

	// Format: "minute hour day month weekday"
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// retentionDays is at least one so today's counts are never touched.
func (s *Service) retentionDays() int {
	if s.config.RetentionDays < 1 {
		return 1
	}
	return s.config.RetentionDays
}

// cutoff returns the oldest day kept by the retention job.
func (s *Service) cutoff() string {
	return s.now().In(s.location).AddDate(0, 0, -s.retentionDays()).Format(models.DayFormat)
}

// runRetention deletes action log rows older than the retention window.
func (s *Service) runRetention(_ context.Context) {
	start := time.Now()
	defer prommetrics.SetSchedulerLastRun()

	cutoff := s.cutoff()
	s.log.Info().Str("cutoff", cutoff).Msg("Running action log retention job")

	deleted, err := s.pruner.DeleteBefore(cutoff)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("cutoff", cutoff).
			Dur("duration", time.Since(start)).
			Msg("Action log retention failed")
		prommetrics.RecordSchedulerJobRun("error")
		return
	}

	prommetrics.RecordSchedulerJobRun("success")
	prommetrics.RecordRetentionDeleted("xp_logs", deleted)

	s.log.Info().
		Int64("deleted", deleted).
		Str("cutoff", cutoff).
		Dur("duration", time.Since(start)).
		Msg("Action log retention completed")
}
