// Package scheduler provides the daily maintenance job: a nightly
// achievement sweep and a refresh of the study gauges.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/flashmind/flashmind-server/internal/config"
	prommetrics "github.com/flashmind/flashmind-server/internal/metrics"
	"github.com/flashmind/flashmind-server/internal/repository"
	"github.com/flashmind/flashmind-server/internal/service/achievements"
	"github.com/flashmind/flashmind-server/pkg/logger"
)

// Service handles scheduled maintenance jobs.
type Service struct {
	config             *config.Config
	cardRepo           *repository.FlashcardRepository
	achievementService *achievements.Service
	log                *logger.Logger
	cron               *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(
	cfg *config.Config,
	cardRepo *repository.FlashcardRepository,
	achievementService *achievements.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		config:             cfg,
		cardRepo:           cardRepo,
		achievementService: achievementService,
		log:                log,
	}
}

// Start initializes and starts the cron scheduler.
func (s *Service) Start() error {
	if !s.config.Scheduler.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := time.LoadLocation(s.config.Scheduler.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Scheduler.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))

	cronExpr, err := s.buildCronExpression()
	if err != nil {
		return fmt.Errorf("failed to build cron expression: %w", err)
	}

	_, err = s.cron.AddFunc(cronExpr, func() {
		s.runMaintenance(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to register maintenance job: %w", err)
	}

	s.cron.Start()

	entries := s.cron.Entries()
	nextRun := ""
	if len(entries) > 0 {
		nextRun = entries[0].Next.Format(time.RFC3339)
	}

	s.log.Info().
		Str("schedule", cronExpr).
		Str("timezone", s.config.Scheduler.Timezone).
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

// buildCronExpression generates a cron expression from the HH:MM config.
func (s *Service) buildCronExpression() (string, error) {
	parts := strings.Split(s.config.Scheduler.Time, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time format %q, expected HH:MM", s.config.Scheduler.Time)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour %q", parts[0])
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute %q", parts[1])
	}

	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// runMaintenance executes the nightly maintenance job.
func (s *Service) runMaintenance(ctx context.Context) {
	start := time.Now()

	defer func() {
		prommetrics.ObserveSchedulerJobDuration(time.Since(start).Seconds())
		prommetrics.SetSchedulerLastRun()
	}()

	s.log.Info().Msg("Running nightly maintenance job")

	// Sweep achievements for every user. Accuracy- and streak-based
	// achievements can become satisfiable without an explicit client
	// check; the sweep catches those.
	unlocked, err := s.achievementService.EvaluateAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Achievement sweep failed")
		prommetrics.RecordSchedulerJobRun("error")
		return
	}

	s.refreshGauges()

	prommetrics.RecordSchedulerJobRun("success")

	s.log.Info().
		Int("achievements_unlocked", unlocked).
		Dur("duration", time.Since(start)).
		Msg("Nightly maintenance job completed")
}

// refreshGauges updates the due-card and box-population gauges.
func (s *Service) refreshGauges() {
	due, err := s.cardRepo.CountDueAll(time.Now())
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to count due cards")
	} else {
		prommetrics.SetDueCards(int(due))
	}

	boxes, err := s.cardRepo.CountByBox()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to count cards by box")
		return
	}
	for box, count := range boxes {
		prommetrics.SetBoxPopulation(strconv.Itoa(box), int(count))
	}
}
