package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
)

// MockProfileService implements service.ProfileService for testing
type MockProfileService struct {
	GetFn          func(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	UpdateWeightFn func(ctx context.Context, userID uuid.UUID, weightKG float64) (*domain.Profile, error)

	Profile      *domain.Profile
	DefaultError error
}

// Get implements the ProfileService.Get method
func (m *MockProfileService) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID)
	}
	return m.Profile, m.DefaultError
}

// UpdateWeight implements the ProfileService.UpdateWeight method
func (m *MockProfileService) UpdateWeight(
	ctx context.Context,
	userID uuid.UUID,
	weightKG float64,
) (*domain.Profile, error) {
	if m.UpdateWeightFn != nil {
		return m.UpdateWeightFn(ctx, userID, weightKG)
	}
	return m.Profile, m.DefaultError
}
