// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the flashcard study server.
var (
	// Counters.
	ReviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flashcard_reviews_total",
			Help: "Total number of flashcard reviews by outcome",
		},
		[]string{"outcome"}, // "correct" or "incorrect"
	)

	CardsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flashcards_created_total",
			Help: "Total number of flashcards created",
		},
	)

	DecksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "decks_created_total",
			Help: "Total number of decks created",
		},
	)

	UsersRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of registered users",
		},
	)

	AchievementsUnlockedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Total number of achievements unlocked",
		},
		[]string{"achievement"},
	)

	// Gauges.
	BoxPopulation = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flashcard_box_population",
			Help: "Number of cards per Leitner box",
		},
		[]string{"box"},
	)

	DueCardsCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flashcards_due_count",
			Help: "Number of currently due flashcards across all users",
		},
	)

	// Histograms.
	ReviewPipelineDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "review_pipeline_duration_seconds",
			Help:    "Time taken to run the review pipeline (schedule + aggregate + persist)",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)

	AchievementCheckDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "achievement_check_duration_seconds",
			Help:    "Time taken to evaluate all achievements for one user",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	// Scheduler metrics.
	SchedulerJobsRunTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_jobs_run_total",
			Help: "Total scheduler job executions",
		},
		[]string{"status"},
	)

	SchedulerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scheduler_last_run_timestamp",
			Help: "Unix timestamp of last scheduler run",
		},
	)

	SchedulerJobDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scheduler_job_duration_seconds",
			Help:    "Time taken to execute the daily maintenance job",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8), // 1s to ~128s
		},
	)
)

// RecordReview records one flashcard review with its outcome.
func RecordReview(correct bool) {
	outcome := "incorrect"
	if correct {
		outcome = "correct"
	}
	ReviewsTotal.WithLabelValues(outcome).Inc()
}

// RecordCardCreated records a flashcard creation.
func RecordCardCreated() {
	CardsCreatedTotal.Inc()
}

// RecordDeckCreated records a deck creation.
func RecordDeckCreated() {
	DecksCreatedTotal.Inc()
}

// RecordUserRegistered records a user registration.
func RecordUserRegistered() {
	UsersRegisteredTotal.Inc()
}

// RecordAchievementUnlocked records an achievement unlock event.
func RecordAchievementUnlocked(name string) {
	AchievementsUnlockedTotal.WithLabelValues(name).Inc()
}

// SetBoxPopulation sets the card count for one Leitner box.
func SetBoxPopulation(box string, count int) {
	BoxPopulation.WithLabelValues(box).Set(float64(count))
}

// SetDueCards sets the global count of currently due cards.
func SetDueCards(count int) {
	DueCardsCount.Set(float64(count))
}

// ObserveReviewPipelineDuration observes one review pipeline execution.
func ObserveReviewPipelineDuration(seconds float64) {
	ReviewPipelineDurationSeconds.Observe(seconds)
}

// ObserveAchievementCheckDuration observes one achievement check.
func ObserveAchievementCheckDuration(seconds float64) {
	AchievementCheckDurationSeconds.Observe(seconds)
}

// RecordSchedulerJobRun records a scheduler job execution.
func RecordSchedulerJobRun(status string) {
	SchedulerJobsRunTotal.WithLabelValues(status).Inc()
}

// SetSchedulerLastRun sets the timestamp of the last scheduler run.
func SetSchedulerLastRun() {
	SchedulerLastRunTimestamp.SetToCurrentTime()
}

// ObserveSchedulerJobDuration observes the duration of a scheduler job.
func ObserveSchedulerJobDuration(seconds float64) {
	SchedulerJobDurationSeconds.Observe(seconds)
}
