package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/events"
)

// notifyChanged emits a change event for userID. Handler failures are logged
// and not returned: cached simulations also carry an input hash, so a missed
// invalidation cannot serve a stale curve.
func notifyChanged(
	ctx context.Context,
	emitter events.EventEmitter,
	log *slog.Logger,
	eventType string,
	userID uuid.UUID,
) {
	if emitter == nil {
		return
	}
	if err := emitter.EmitEvent(ctx, events.NewDataChangedEvent(eventType, userID)); err != nil {
		log.Warn("change event handler failed",
			"error", err,
			"event_type", eventType,
			"user_id", userID)
	}
}
