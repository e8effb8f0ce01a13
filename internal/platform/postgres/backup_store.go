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

// PostgresBackupStore implements store.BackupStore. Envelopes are stored as
// jsonb and never inspected.
type PostgresBackupStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBackupStore creates a backup store over a connection or transaction.
func NewPostgresBackupStore(db store.DBTX, logger *slog.Logger) *PostgresBackupStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBackupStore{
		db:     db,
		logger: logger.With(slog.String("component", "backup_store")),
	}
}

var _ store.BackupStore = (*PostgresBackupStore)(nil)

// Create implements store.BackupStore.Create.
func (s *PostgresBackupStore) Create(ctx context.Context, backup *domain.Backup) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := backup.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO backups (id, user_id, envelope, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, backup.ID, backup.UserID, []byte(backup.Envelope), backup.SizeBytes, backup.CreatedAt)
	if err != nil {
		log.Error("failed to create backup", slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Info("backup stored",
		slog.String("backup_id", backup.ID.String()),
		slog.Int("size_bytes", backup.SizeBytes))
	return nil
}

// List implements store.BackupStore.List.
func (s *PostgresBackupStore) List(ctx context.Context, userID uuid.UUID) ([]domain.Backup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, size_bytes, created_at
		FROM backups
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	backups := []domain.Backup{}
	for rows.Next() {
		var b domain.Backup
		if err := rows.Scan(&b.ID, &b.UserID, &b.SizeBytes, &b.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		backups = append(backups, b)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return backups, nil
}

func (s *PostgresBackupStore) getOne(ctx context.Context, query string, args ...any) (*domain.Backup, error) {
	var (
		b        domain.Backup
		envelope []byte
	)
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&b.ID, &b.UserID, &envelope, &b.SizeBytes, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBackupNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get backup",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	b.Envelope = envelope
	return &b, nil
}

// Latest implements store.BackupStore.Latest.
func (s *PostgresBackupStore) Latest(ctx context.Context, userID uuid.UUID) (*domain.Backup, error) {
	return s.getOne(ctx, `
		SELECT id, user_id, envelope, size_bytes, created_at
		FROM backups
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID)
}

// Get implements store.BackupStore.Get.
func (s *PostgresBackupStore) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Backup, error) {
	return s.getOne(ctx, `
		SELECT id, user_id, envelope, size_bytes, created_at
		FROM backups
		WHERE id = $1 AND user_id = $2
	`, id, userID)
}

// Delete implements store.BackupStore.Delete.
func (s *PostgresBackupStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM backups WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrBackupNotFound)
}

// Prune implements store.BackupStore.Prune.
func (s *PostgresBackupStore) Prune(ctx context.Context, userID uuid.UUID, keep int) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM backups
		WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM backups
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		)
	`, userID, keep)
	if err != nil {
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.FromContextOrDefault(ctx, s.logger).Info("pruned old backups", slog.Int64("deleted", n))
	}
	return n, nil
}

// WithTx implements store.BackupStore.WithTx.
func (s *PostgresBackupStore) WithTx(tx *sql.Tx) store.BackupStore {
	return &PostgresBackupStore{db: tx, logger: s.logger}
}
