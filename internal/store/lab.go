package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
)

// LabStore defines the interface for lab result persistence.
type LabStore interface {
	Create(ctx context.Context, lab *domain.LabResult) error

	// ListByUser returns all lab results for the user ordered by time.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.LabResult, error)

	// Delete returns ErrLabNotFound if nothing was deleted.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	DeleteAllByUser(ctx context.Context, userID uuid.UUID) error

	// CreateBatch inserts lab results in order. Callers wrap it in a transaction.
	CreateBatch(ctx context.Context, labs []domain.LabResult) error

	WithTx(tx *sql.Tx) LabStore
}
