package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
)

// MockLabService implements service.LabService for testing
type MockLabService struct {
	ListFn   func(ctx context.Context, userID uuid.UUID) ([]domain.LabResult, error)
	CreateFn func(ctx context.Context, userID uuid.UUID, timeH, value float64, unit domain.LabUnit) (*domain.LabResult, error)
	DeleteFn func(ctx context.Context, userID, id uuid.UUID) error

	Labs         []domain.LabResult
	Lab          *domain.LabResult
	DefaultError error
}

// List implements the LabService.List method
func (m *MockLabService) List(ctx context.Context, userID uuid.UUID) ([]domain.LabResult, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID)
	}
	return m.Labs, m.DefaultError
}

// Create implements the LabService.Create method
func (m *MockLabService) Create(
	ctx context.Context,
	userID uuid.UUID,
	timeH, value float64,
	unit domain.LabUnit,
) (*domain.LabResult, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, userID, timeH, value, unit)
	}
	return m.Lab, m.DefaultError
}

// Delete implements the LabService.Delete method
func (m *MockLabService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return m.DefaultError
}
