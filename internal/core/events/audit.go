package events

import (
	"context"
	"log/slog"
)

// RegisterAuditLog writes every published domain event to logger.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	bus.SubscribeMany(All, func(ctx context.Context, event Event) error {
		logger.Info("domain event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"data", event.Payload())
		return nil
	})
}
