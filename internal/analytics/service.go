package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/deptdesk/internal"
	"github.com/frahmantamala/deptdesk/internal/core/events"
)

const summaryKey = "analytics:summary"

type Repository interface {
	Counts(ctx context.Context) (*Counts, error)
}

// Cache is satisfied by *cache.Client, including a nil one.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) bool
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Service struct {
	repo   Repository
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewService(repo Repository, cache Cache, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Summary returns the cached aggregate when present, otherwise computes
// and caches it.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var cached Summary
	if s.cache != nil && s.cache.GetJSON(ctx, summaryKey, &cached) {
		return &cached, nil
	}

	counts, err := s.repo.Counts(ctx)
	if err != nil {
		s.logger.Error("failed to compute analytics summary", "error", err)
		return nil, internal.NewInternalError("failed to compute summary", err)
	}
	summary := NewSummary(counts)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, summaryKey, summary, s.ttl); err != nil {
			s.logger.Warn("failed to cache analytics summary", "error", err)
		}
	}
	return summary, nil
}

func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, summaryKey)
}

// Subscribe drops the cached summary whenever a domain event changes the
// underlying data.
func (s *Service) Subscribe(bus *events.EventBus) {
	bus.SubscribeMany(events.All, func(ctx context.Context, e events.Event) error {
		s.logger.Debug("analytics summary invalidated", "event_type", e.EventType())
		s.Invalidate(ctx)
		return nil
	})
}
