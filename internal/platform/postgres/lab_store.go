package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/platform/logger"
	"github.com/hrtrack/hrtrack-api/internal/store"
)

const labEntity = "lab_result"

// PostgresLabStore implements store.LabStore.
type PostgresLabStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLabStore creates a lab result store over a connection or transaction.
func NewPostgresLabStore(db store.DBTX, logger *slog.Logger) *PostgresLabStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLabStore{
		db:     db,
		logger: logger.With(slog.String("component", "lab_store")),
	}
}

var _ store.LabStore = (*PostgresLabStore)(nil)

// Create implements store.LabStore.Create.
func (s *PostgresLabStore) Create(ctx context.Context, lab *domain.LabResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := lab.Validate(); err != nil {
		log.Warn("lab validation failed during create", slog.String("error", err.Error()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lab_results (id, user_id, time_h, conc_value, unit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, lab.ID, lab.UserID, lab.TimeH, lab.ConcValue, string(lab.Unit), lab.CreatedAt)
	if err != nil {
		log.Error("failed to create lab result",
			slog.String("error", err.Error()),
			slog.String("lab_id", lab.ID.String()))
		return wrapError(labEntity, "create", err)
	}
	return nil
}

// CreateBatch implements store.LabStore.CreateBatch.
func (s *PostgresLabStore) CreateBatch(ctx context.Context, labs []domain.LabResult) error {
	for i := range labs {
		if err := s.Create(ctx, &labs[i]); err != nil {
			return fmt.Errorf("lab %d: %w", i, err)
		}
	}
	return nil
}

// ListByUser implements store.LabStore.ListByUser.
func (s *PostgresLabStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.LabResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, time_h, conc_value, unit, created_at
		FROM lab_results
		WHERE user_id = $1
		ORDER BY time_h ASC
	`, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list lab results",
			slog.String("error", err.Error()))
		return nil, wrapError(labEntity, "list", err)
	}
	defer func() { _ = rows.Close() }()

	labs := []domain.LabResult{}
	for rows.Next() {
		var (
			l    domain.LabResult
			unit string
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.TimeH, &l.ConcValue, &unit, &l.CreatedAt); err != nil {
			return nil, wrapError(labEntity, "list", err)
		}
		l.Unit = domain.LabUnit(unit)
		labs = append(labs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(labEntity, "list", err)
	}
	return labs, nil
}

// Delete implements store.LabStore.Delete.
func (s *PostgresLabStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM lab_results WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapError(labEntity, "delete", err)
	}
	return CheckRowsAffected(result, store.ErrLabNotFound)
}

// DeleteAllByUser implements store.LabStore.DeleteAllByUser.
func (s *PostgresLabStore) DeleteAllByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM lab_results WHERE user_id = $1`, userID)
	return wrapError(labEntity, "delete_all", err)
}

// WithTx implements store.LabStore.WithTx.
func (s *PostgresLabStore) WithTx(tx *sql.Tx) store.LabStore {
	return &PostgresLabStore{db: tx, logger: s.logger}
}
