package routing

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/deptdesk/pkg/clock"
)

type AutoRouter interface {
	AutoRoute(ctx context.Context) (*AutoRouteReport, error)
}

// Scheduler runs AutoRoute on a fixed interval. A failed pass is logged and
// retried on the next tick.
type Scheduler struct {
	router   AutoRouter
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(router AutoRouter, clk clock.Clock, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		router:   router,
		clock:    clk,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("auto-route scheduler started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("auto-route scheduler stopped")
			return nil
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *Scheduler) RunOnce(ctx context.Context) {
	report, err := s.router.AutoRoute(ctx)
	if err != nil {
		s.logger.Error("scheduled auto-route failed", "error", err)
		return
	}
	if report.RoutedCount > 0 || report.SkippedCount > 0 {
		s.logger.Info("scheduled auto-route pass",
			"routed", report.RoutedCount,
			"skipped", report.SkippedCount)
	}
}
