package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
)

// DoseStore defines the interface for dose event persistence. Lookups by id
// are not scoped to a user; ownership checks belong to the service layer.
type DoseStore interface {
	// Create saves a new dose event. Returns ErrDoseExists on id collision.
	Create(ctx context.Context, event *domain.DoseEvent) error

	// GetByID returns ErrDoseNotFound if the event does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DoseEvent, error)

	// ListByUser returns all events for the user ordered by time.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DoseEvent, error)

	// Update replaces the mutable fields of an event.
	// Returns ErrDoseNotFound if the event does not exist.
	Update(ctx context.Context, event *domain.DoseEvent) error

	// Delete returns ErrDoseNotFound if nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAllByUser clears the user's history. Used by import.
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) error

	// CreateBatch inserts events in order. Callers wrap it in a transaction.
	CreateBatch(ctx context.Context, events []domain.DoseEvent) error

	WithTx(tx *sql.Tx) DoseStore
}
