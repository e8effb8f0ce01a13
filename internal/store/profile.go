package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
)

// ProfileStore defines the interface for per-user simulation settings.
type ProfileStore interface {
	// Get returns ErrProfileNotFound when the user never saved a profile.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// Upsert creates or replaces the user's profile.
	Upsert(ctx context.Context, profile *domain.Profile) error

	WithTx(tx *sql.Tx) ProfileStore
}
