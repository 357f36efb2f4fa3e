package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/forexai/internal/interfaces"
)

// DefaultSchedule fires at the three generation anchors, inside each
// generation window.
const DefaultSchedule = "0 7,12,17 * * *"

// Service pre-generates the daily recap at the slot anchors so the
// first consumer request of a window hits a warm cache instead of
// waiting on the AI gateway.
type Service struct {
	reports interfaces.ReportService
	cron    *cron.Cron
	logger  arbor.ILogger

	mu           sync.Mutex // protects isProcessing
	isProcessing bool
	running      bool
}

// NewService creates a new scheduler service. All schedules run in
// UTC regardless of host timezone.
func NewService(reports interfaces.ReportService, logger arbor.ILogger) *Service {
	return &Service{
		reports: reports,
		cron:    cron.New(cron.WithLocation(time.UTC)),
		logger:  logger,
	}
}

// Start begins the scheduler with the given cron expression
func (s *Service) Start(cronExpr string) error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if cronExpr == "" {
		cronExpr = DefaultSchedule
	}

	if _, err := s.cron.AddFunc(cronExpr, s.runScheduledGeneration); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("cron_expr", cronExpr).
		Msg("Scheduler started")

	return nil
}

// Stop halts the scheduler
func (s *Service) Stop() error {
	if !s.running {
		return nil
	}

	s.cron.Stop()
	s.running = false

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// IsRunning returns true if scheduler is active
func (s *Service) IsRunning() bool {
	return s.running
}

// TriggerNow manually runs the generation cycle in the background.
func (s *Service) TriggerNow() {
	s.logger.Info().Msg("Manual generation trigger requested")
	go s.runScheduledGeneration()
}

// runScheduledGeneration invokes the report service, which applies
// the scheduling decision table itself: outside a window this is a
// no-op beyond a cache read.
func (s *Service) runScheduledGeneration() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("PANIC RECOVERED in scheduled generation")
		}
	}()

	s.mu.Lock()
	if s.isProcessing {
		s.logger.Debug().Msg("Generation already in progress, skipping this cycle")
		s.mu.Unlock()
		return
	}
	s.isProcessing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isProcessing = false
		s.mu.Unlock()
	}()

	start := time.Now()
	s.logger.Info().Msg("Starting scheduled recap generation cycle")

	artifact := s.reports.GetDailyRecap(context.Background())

	s.logger.Info().
		Str("source", string(artifact.Source)).
		Str("session", artifact.Session).
		Dur("duration", time.Since(start)).
		Msg("Scheduled recap generation cycle completed")
}
