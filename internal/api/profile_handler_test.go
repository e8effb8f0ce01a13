package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileHandler(t *testing.T) {
	userID := uuid.New()
	profiles := &mocks.MockProfileService{
		GetFn: func(_ context.Context, uid uuid.UUID) (*domain.Profile, error) {
			return &domain.Profile{UserID: uid, WeightKG: 70}, nil
		},
		UpdateWeightFn: func(_ context.Context, uid uuid.UUID, kg float64) (*domain.Profile, error) {
			if err := domain.ValidateWeight(kg); err != nil {
				return nil, err
			}
			return &domain.Profile{UserID: uid, WeightKG: kg, UpdatedAt: time.Now()}, nil
		},
	}
	h := NewProfileHandler(profiles, testLogger())

	rr := serve(t, http.MethodGet, "/api/profile", "/api/profile", h.GetProfile, userID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"weightKG":70`)

	rr = serve(t, http.MethodPut, "/api/profile", "/api/profile", h.UpdateProfile, userID, `{"weightKG":82.5}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"weightKG":82.5`)

	for _, body := range []string{`{"weightKG":0}`, `{"weightKG":-3}`, `{"weightKG":501}`, `{}`} {
		rr = serve(t, http.MethodPut, "/api/profile", "/api/profile", h.UpdateProfile, userID, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}
