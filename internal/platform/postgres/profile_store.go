package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/platform/logger"
	"github.com/hrtrack/hrtrack-api/internal/store"
)

// PostgresProfileStore implements store.ProfileStore.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a profile store over a connection or transaction.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// Get implements store.ProfileStore.Get.
func (s *PostgresProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p := domain.Profile{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		`SELECT weight_kg, updated_at FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.WeightKG, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProfileNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get profile",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &p, nil
}

// Upsert implements store.ProfileStore.Upsert.
func (s *PostgresProfileStore) Upsert(ctx context.Context, profile *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		return err
	}
	profile.UpdatedAt = now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, weight_kg, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET weight_kg = EXCLUDED.weight_kg, updated_at = EXCLUDED.updated_at
	`, profile.UserID, profile.WeightKG, profile.UpdatedAt)
	if err != nil {
		log.Error("failed to upsert profile", slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Debug("profile saved", slog.Float64("weight_kg", profile.WeightKG))
	return nil
}

// WithTx implements store.ProfileStore.WithTx.
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &PostgresProfileStore{db: tx, logger: s.logger}
}
