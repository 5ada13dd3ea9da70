package usecase

import (
	"context"
	"log/slog"
	"time"

	"ShoppingAssistant/internal/ports"
)

// Refresher reloads a catalog; *catalog.Snapshot implements it.
type Refresher interface {
	Refresh(ctx context.Context) error
	Size() int
}

// CatalogObserver records refresh outcomes; *metrics.Recorder implements it.
type CatalogObserver interface {
	ObserveCatalog(size int, err error)
}

// Scheduler wires the ticker-like driver with the catalog refresh job.
type Scheduler struct {
	driver   ports.Scheduler
	target   Refresher
	observer CatalogObserver
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring refreshes.
func NewScheduler(driver ports.Scheduler, target Refresher, observer CatalogObserver, logger *slog.Logger) *Scheduler {
	if logger != nil {
		logger = logger.With("component", "refresher")
	}
	return &Scheduler{driver: driver, target: target, observer: observer, logger: logger}
}

// Start registers the refresh job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.target == nil {
		return nil
	}

	job := func(trigger time.Time) {
		s.RefreshNow(ctx, trigger)
	}

	return s.driver.Start(ctx, job)
}

// RefreshNow runs one refresh and records its outcome. Failures only log:
// the previous catalog keeps serving.
func (s *Scheduler) RefreshNow(ctx context.Context, trigger time.Time) {
	err := s.target.Refresh(ctx)
	if s.observer != nil {
		s.observer.ObserveCatalog(s.target.Size(), err)
	}
	if s.logger == nil {
		return
	}
	if err != nil {
		s.logger.Warn("catalog refresh failed", "trigger", trigger.Format(time.RFC3339), "error", err)
		return
	}
	s.logger.Debug("catalog refresh done", "trigger", trigger.Format(time.RFC3339), "products", s.target.Size())
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
