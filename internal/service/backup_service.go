package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/platform/logger"
	"github.com/hrtrack/hrtrack-api/internal/store"
	"github.com/hrtrack/hrtrack-api/internal/transfer"
)

// BackupService keeps client-encrypted export envelopes. The server stores
// envelopes verbatim and never holds the passphrase.
type BackupService interface {
	// Push stores envelope and prunes the oldest backups beyond the limit.
	// Returns ErrNotEncrypted for anything but an encrypted envelope.
	Push(ctx context.Context, userID uuid.UUID, envelope json.RawMessage) (*domain.Backup, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Backup, error)
	Latest(ctx context.Context, userID uuid.UUID) (*domain.Backup, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*domain.Backup, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type backupServiceImpl struct {
	backups    store.BackupStore
	maxBackups int
	logger     *slog.Logger
}

// NewBackupService creates a new BackupService. A maxBackups of zero keeps
// every backup.
func NewBackupService(backups store.BackupStore, maxBackups int, logger *slog.Logger) (BackupService, error) {
	if backups == nil {
		return nil, fmt.Errorf("backup store cannot be nil")
	}
	if maxBackups < 0 {
		return nil, fmt.Errorf("max backups cannot be negative")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &backupServiceImpl{
		backups:    backups,
		maxBackups: maxBackups,
		logger:     logger.With("component", "backup_service"),
	}, nil
}

func (s *backupServiceImpl) Push(
	ctx context.Context,
	userID uuid.UUID,
	envelope json.RawMessage,
) (*domain.Backup, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, ok := transfer.ParseEnvelope(envelope); !ok {
		return nil, NewServiceError("push_backup", "backup rejected", ErrNotEncrypted)
	}
	backup, err := domain.NewBackup(userID, envelope)
	if err != nil {
		return nil, NewServiceError("push_backup", "invalid backup", err)
	}
	if err := s.backups.Create(ctx, backup); err != nil {
		log.Error("failed to save backup",
			"error", err,
			"user_id", userID)
		return nil, NewServiceError("push_backup", "failed to save backup", err)
	}

	if s.maxBackups > 0 {
		pruned, err := s.backups.Prune(ctx, userID, s.maxBackups)
		if err != nil {
			log.Warn("failed to prune old backups", "error", err, "user_id", userID)
		} else if pruned > 0 {
			log.Debug("pruned old backups", "user_id", userID, "count", pruned)
		}
	}

	log.Info("backup stored",
		"user_id", userID,
		"backup_id", backup.ID,
		"size_bytes", backup.SizeBytes)
	return backup, nil
}

func (s *backupServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]domain.Backup, error) {
	list, err := s.backups.List(ctx, userID)
	if err != nil {
		return nil, NewServiceError("list_backups", "failed to load backups", err)
	}
	return list, nil
}

func (s *backupServiceImpl) Latest(ctx context.Context, userID uuid.UUID) (*domain.Backup, error) {
	b, err := s.backups.Latest(ctx, userID)
	if err != nil {
		return nil, NewServiceError("latest_backup", "failed to load backup", err)
	}
	return b, nil
}

func (s *backupServiceImpl) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Backup, error) {
	b, err := s.backups.Get(ctx, userID, id)
	if err != nil {
		return nil, NewServiceError("get_backup", "failed to load backup", err)
	}
	return b, nil
}

func (s *backupServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.backups.Delete(ctx, userID, id); err != nil {
		return NewServiceError("delete_backup", "failed to delete backup", err)
	}
	return nil
}
