package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
)

// BackupStore defines the interface for stored export envelopes.
type BackupStore interface {
	Create(ctx context.Context, backup *domain.Backup) error

	// List returns backup metadata, newest first, without envelopes.
	List(ctx context.Context, userID uuid.UUID) ([]domain.Backup, error)

	// Latest returns the newest backup including its envelope.
	// Returns ErrBackupNotFound when the user has none.
	Latest(ctx context.Context, userID uuid.UUID) (*domain.Backup, error)

	// Get returns a single backup including its envelope.
	Get(ctx context.Context, userID, id uuid.UUID) (*domain.Backup, error)

	Delete(ctx context.Context, userID, id uuid.UUID) error

	// Prune keeps the newest keep backups for the user and deletes the rest.
	// It returns the number of deleted rows.
	Prune(ctx context.Context, userID uuid.UUID, keep int) (int64, error)

	WithTx(tx *sql.Tx) BackupStore
}
