// Package jobs holds the background maintenance tasks that run alongside the
// HTTP server.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/eventdesk/backoffice/internal/models"
)

// Sweeper periodically moves events whose whole series lies in the past from
// scheduled/confirmed to completed.
type Sweeper struct {
	eventsRepo models.EventsRepo
	logger     *slog.Logger
	schedule   string
	cron       *cron.Cron
}

func NewSweeper(eventsRepo models.EventsRepo, logger *slog.Logger, schedule string) *Sweeper {
	return &Sweeper{
		eventsRepo: eventsRepo,
		logger:     logger,
		schedule:   schedule,
	}
}

func (s *Sweeper) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Completion sweeper started", "schedule", s.schedule)
	return nil
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	modified, err := s.eventsRepo.CompletePastEvents(ctx, time.Now())
	if err != nil {
		s.logger.Error("Completion sweep failed", "error", err)
		return
	}
	if modified > 0 {
		s.logger.Info("Completion sweep finished", "completed_events", modified)
	}
}
