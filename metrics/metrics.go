package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReportsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urbaneye_reports_submitted_total",
		Help: "Reports accepted by the submission endpoint.",
	})

	Likes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urbaneye_likes_total",
		Help: "Per-user like attempts by outcome.",
	}, []string{"outcome"})

	LegacyLikes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urbaneye_legacy_likes_total",
		Help: "Unattributed likes applied through the legacy endpoint.",
	})

	StatusUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urbaneye_status_updates_total",
		Help: "Report status changes by target status.",
	}, []string{"status"})

	DetectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "urbaneye_detection_duration_seconds",
		Help:    "Classifier round-trip latency.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	DetectionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urbaneye_detection_failures_total",
		Help: "Classifier calls that failed or timed out.",
	})

	BackupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urbaneye_backup_failures_total",
		Help: "Submission backup records that could not be written.",
	}, []string{"sink"})
)
