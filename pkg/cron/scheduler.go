// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// CacheRefresher reloads cached category data. The suggestion service
// implements it.
type CacheRefresher interface {
	RefreshCache(ctx context.Context) error
}

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron      *cron.Cron
	refresher CacheRefresher
	schedule  string
	logger    *slog.Logger
}

// NewScheduler creates a new job scheduler. The schedule is a standard
// 5-field cron expression.
func NewScheduler(refresher CacheRefresher, schedule string, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:      c,
		refresher: refresher,
		schedule:  schedule,
		logger:    logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.refreshSuggestionCache)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.String("schedule", s.schedule),
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the cache refresh (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.refreshSuggestionCache()
}

// refreshSuggestionCache drops the keyword engine cache so category edits made
// outside the learning path become visible.
func (s *Scheduler) refreshSuggestionCache() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.refresher.RefreshCache(ctx); err != nil {
		s.logger.Error("suggestion cache refresh failed", slog.Any("error", err))
		return
	}
	s.logger.Info("suggestion cache refreshed")
}
