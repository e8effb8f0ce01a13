package mocks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
)

// MockBackupService implements service.BackupService for testing
type MockBackupService struct {
	PushFn   func(ctx context.Context, userID uuid.UUID, envelope json.RawMessage) (*domain.Backup, error)
	ListFn   func(ctx context.Context, userID uuid.UUID) ([]domain.Backup, error)
	LatestFn func(ctx context.Context, userID uuid.UUID) (*domain.Backup, error)
	GetFn    func(ctx context.Context, userID, id uuid.UUID) (*domain.Backup, error)
	DeleteFn func(ctx context.Context, userID, id uuid.UUID) error

	Backup       *domain.Backup
	Backups      []domain.Backup
	DefaultError error
}

// Push implements the BackupService.Push method
func (m *MockBackupService) Push(
	ctx context.Context,
	userID uuid.UUID,
	envelope json.RawMessage,
) (*domain.Backup, error) {
	if m.PushFn != nil {
		return m.PushFn(ctx, userID, envelope)
	}
	return m.Backup, m.DefaultError
}

// List implements the BackupService.List method
func (m *MockBackupService) List(ctx context.Context, userID uuid.UUID) ([]domain.Backup, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID)
	}
	return m.Backups, m.DefaultError
}

// Latest implements the BackupService.Latest method
func (m *MockBackupService) Latest(ctx context.Context, userID uuid.UUID) (*domain.Backup, error) {
	if m.LatestFn != nil {
		return m.LatestFn(ctx, userID)
	}
	return m.Backup, m.DefaultError
}

// Get implements the BackupService.Get method
func (m *MockBackupService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Backup, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, id)
	}
	return m.Backup, m.DefaultError
}

// Delete implements the BackupService.Delete method
func (m *MockBackupService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return m.DefaultError
}
