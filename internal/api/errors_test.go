package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hrtrack/hrtrack-api/internal/api/shared"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
	"github.com/hrtrack/hrtrack-api/internal/render"
	"github.com/hrtrack/hrtrack-api/internal/service"
	"github.com/hrtrack/hrtrack-api/internal/service/auth"
	"github.com/hrtrack/hrtrack-api/internal/store"
	"github.com/hrtrack/hrtrack-api/internal/transfer"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized},
		{"expired refresh token", auth.ErrExpiredRefreshToken, http.StatusUnauthorized},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not owned", fmt.Errorf("update: %w", service.ErrNotOwned), http.StatusForbidden},
		{"dose not found", store.ErrDoseNotFound, http.StatusNotFound},
		{"backup not found", fmt.Errorf("wrapped: %w", store.ErrBackupNotFound), http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"invalid route", fmt.Errorf("%w: %q", domain.ErrInvalidRoute, "nasal"), http.StatusBadRequest},
		{"conflicting extras", domain.ErrConflictingExtras, http.StatusBadRequest},
		{"invalid weight", domain.ErrInvalidWeight, http.StatusBadRequest},
		{"invalid modifier", pk.ErrInvalidModifier, http.StatusBadRequest},
		{"malformed import", transfer.ErrMalformedPayload, http.StatusBadRequest},
		{"missing passphrase", transfer.ErrPassphraseRequired, http.StatusBadRequest},
		{"plain backup", service.ErrNotEncrypted, http.StatusBadRequest},
		{"bad hour", service.ErrInvalidHour, http.StatusBadRequest},
		{"bad parameter", ErrInvalidParameter, http.StatusBadRequest},
		{"wrong passphrase", transfer.ErrDecrypt, http.StatusUnprocessableEntity},
		{"unmodeled pairing", &pk.ModelError{Route: domain.RouteOral, Ester: domain.EsterEC}, http.StatusUnprocessableEntity},
		{"grid too large", pk.ErrGridTooLarge, http.StatusUnprocessableEntity},
		{"empty chart", service.NewServiceError("chart", "failed", render.ErrNotEnoughData), http.StatusUnprocessableEntity},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "An unexpected error occurred",
		GetSafeErrorMessage(errors.New("pq: password authentication failed for user hrt")))
	assert.Equal(t, "No kinetic model for EC oral",
		GetSafeErrorMessage(&pk.ModelError{Route: domain.RouteOral, Ester: domain.EsterEC}))
	assert.Equal(t, "Dose event not found", GetSafeErrorMessage(store.ErrDoseNotFound))
	assert.Equal(t, "Invalid request: invalid body weight", GetSafeErrorMessage(domain.ErrInvalidWeight))
	assert.Equal(t, "Invalid request: invalid route",
		GetSafeErrorMessage(fmt.Errorf("%w: %q", domain.ErrInvalidRoute, "nasal")))
}

func TestSanitizeValidationError(t *testing.T) {
	err := shared.ValidateRequest(RegisterRequest{Email: "not-an-email", Password: "long-enough-password"})
	assert.Equal(t, "Invalid Email: invalid email format", SanitizeValidationError(err))
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}

func TestHandleAPIError_HidesInternalDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/simulation", nil)
	rr := httptest.NewRecorder()

	HandleAPIError(rr, req, errors.New("dial tcp 10.0.0.5:5432: refused"), "Failed to simulate")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to simulate", decodeError(t, rr))
	assert.NotContains(t, rr.Body.String(), "10.0.0.5")
}

func TestHandleAPIError_ClientErrorsIgnoreFallbackMessage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	HandleAPIError(rr, req, store.ErrLabNotFound, "Failed to delete lab result")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Lab result not found", decodeError(t, rr))
}
