package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted when a user's simulation inputs change.
const (
	TypeDosesChanged   = "doses.changed"
	TypeLabsChanged    = "labs.changed"
	TypeProfileChanged = "profile.changed"
	TypeDataImported   = "data.imported"
)

// DataChangedEvent announces that some of a user's stored inputs changed.
type DataChangedEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDataChangedEvent creates an event of the given type for userID.
func NewDataChangedEvent(eventType string, userID uuid.UUID) *DataChangedEvent {
	return &DataChangedEvent{
		ID:        uuid.New(),
		Type:      eventType,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *DataChangedEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *DataChangedEvent) error
}

// EventHandlerFunc adapts a plain function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *DataChangedEvent) error

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *DataChangedEvent) error {
	return f(ctx, event)
}

// Invalidator drops cached results for a user.
type Invalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// CacheInvalidationHandler evicts a user's cached simulation on every
// data change.
type CacheInvalidationHandler struct {
	cache Invalidator
}

// NewCacheInvalidationHandler creates a handler over cache.
func NewCacheInvalidationHandler(cache Invalidator) *CacheInvalidationHandler {
	return &CacheInvalidationHandler{cache: cache}
}

// HandleEvent implements EventHandler.
func (h *CacheInvalidationHandler) HandleEvent(ctx context.Context, event *DataChangedEvent) error {
	return h.cache.Invalidate(ctx, event.UserID)
}
