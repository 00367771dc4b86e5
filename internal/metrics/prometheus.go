// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the wardrobe stylist.
var (
	// Counters.
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wardrobe_uploads_total",
			Help: "Total number of item uploads by outcome",
		},
		[]string{"source", "status"},
	)

	PipelineDegradedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wardrobe_pipeline_degraded_total",
			Help: "Total number of uploads stored without background removal",
		},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wardrobe_recommendations_total",
			Help: "Total number of outfit recommendations by outcome",
		},
		[]string{"provider", "status"},
	)

	XPAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wardrobe_xp_awarded_total",
			Help: "Total XP points awarded by action",
		},
		[]string{"action"},
	)

	XPWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wardrobe_xp_write_failures_total",
			Help: "Total number of XP writes that failed and were skipped",
		},
		[]string{"action"},
	)

	WearConfirmationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wardrobe_wear_confirmations_total",
			Help: "Total number of outfits confirmed as worn",
		},
	)

	ReviewsSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wardrobe_reviews_submitted_total",
			Help: "Total number of wear reviews submitted",
		},
	)

	ItemsMarkedDirtyTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wardrobe_items_marked_dirty_total",
			Help: "Total number of items flipped to dirty",
		},
	)

	DuelVotesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wardrobe_duel_votes_total",
			Help: "Total number of duel votes cast",
		},
	)

	SchedulerJobsRunTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wardrobe_scheduler_jobs_run_total",
			Help: "Total number of retention job runs by status",
		},
		[]string{"status"},
	)

	RetentionRowsDeletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wardrobe_retention_rows_deleted_total",
			Help: "Total number of rows removed by the retention job",
		},
		[]string{"table"},
	)

	// Histograms.
	SuggesterDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wardrobe_suggester_duration_seconds",
			Help:    "Duration of outfit suggester calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"provider"},
	)

	PipelineDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wardrobe_pipeline_duration_seconds",
			Help:    "Duration of image processing per upload in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	// Gauges.
	SchedulerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wardrobe_scheduler_last_run_timestamp",
			Help: "Unix timestamp of the last retention job run",
		},
	)
)

// Upload statuses.
const (
	StatusStored    = "stored"
	StatusDuplicate = "duplicate"
	StatusDeclined  = "declined"
	StatusFailed    = "failed"
	StatusSuccess   = "success"
)

// RecordUpload records the outcome of an upload or import.
func RecordUpload(source, status string) {
	UploadsTotal.WithLabelValues(source, status).Inc()
}

// RecordPipelineDegraded records an upload stored without background removal.
func RecordPipelineDegraded() {
	PipelineDegradedTotal.Inc()
}

// ObservePipelineDuration observes image processing time.
func ObservePipelineDuration(seconds float64) {
	PipelineDurationSeconds.Observe(seconds)
}

// RecordRecommendation records the outcome of a recommendation.
func RecordRecommendation(provider, status string) {
	RecommendationsTotal.WithLabelValues(provider, status).Inc()
}

// ObserveSuggesterDuration observes suggester latency.
func ObserveSuggesterDuration(provider string, seconds float64) {
	SuggesterDurationSeconds.WithLabelValues(provider).Observe(seconds)
}

// RecordXPAwarded records XP granted for an action.
func RecordXPAwarded(action string, points int) {
	if points <= 0 {
		return
	}
	XPAwardedTotal.WithLabelValues(action).Add(float64(points))
}

// RecordXPWriteFailure records a skipped XP write.
func RecordXPWriteFailure(action string) {
	XPWriteFailuresTotal.WithLabelValues(action).Inc()
}

// RecordWearConfirmed records a worn outfit.
func RecordWearConfirmed() {
	WearConfirmationsTotal.Inc()
}

// RecordReviewSubmitted records a wear review and the items it dirtied.
func RecordReviewSubmitted(dirtied int) {
	ReviewsSubmittedTotal.Inc()
	ItemsMarkedDirtyTotal.Add(float64(dirtied))
}

// RecordDuelVote records a duel vote.
func RecordDuelVote() {
	DuelVotesTotal.Inc()
}

// RecordSchedulerJobRun records a scheduler job execution.
func RecordSchedulerJobRun(status string) {
	SchedulerJobsRunTotal.WithLabelValues(status).Inc()
}

// RecordRetentionDeleted records rows removed from table.
func RecordRetentionDeleted(table string, rows int64) {
	RetentionRowsDeletedTotal.WithLabelValues(table).Add(float64(rows))
}

// SetSchedulerLastRun sets the timestamp of the last scheduler run.
func SetSchedulerLastRun() {
	SchedulerLastRunTimestamp.SetToCurrentTime()
}
