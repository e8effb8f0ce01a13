package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/service"
)

// MockDoseService implements service.DoseService for testing
type MockDoseService struct {
	ListFn   func(ctx context.Context, userID uuid.UUID) ([]domain.DoseEvent, error)
	CreateFn func(ctx context.Context, userID uuid.UUID, input service.DoseInput) (*domain.DoseEvent, error)
	UpdateFn func(ctx context.Context, userID, id uuid.UUID, input service.DoseInput) (*domain.DoseEvent, error)
	DeleteFn func(ctx context.Context, userID, id uuid.UUID) error

	// Default return values
	Events       []domain.DoseEvent
	Event        *domain.DoseEvent
	DefaultError error
}

// List implements the DoseService.List method
func (m *MockDoseService) List(ctx context.Context, userID uuid.UUID) ([]domain.DoseEvent, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID)
	}
	return m.Events, m.DefaultError
}

// Create implements the DoseService.Create method
func (m *MockDoseService) Create(
	ctx context.Context,
	userID uuid.UUID,
	input service.DoseInput,
) (*domain.DoseEvent, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, userID, input)
	}
	return m.Event, m.DefaultError
}

// Update implements the DoseService.Update method
func (m *MockDoseService) Update(
	ctx context.Context,
	userID, id uuid.UUID,
	input service.DoseInput,
) (*domain.DoseEvent, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, userID, id, input)
	}
	return m.Event, m.DefaultError
}

// Delete implements the DoseService.Delete method
func (m *MockDoseService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return m.DefaultError
}
