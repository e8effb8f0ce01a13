package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/config"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/mocks"
	"github.com/hrtrack/hrtrack-api/internal/service/auth"
	"github.com/hrtrack/hrtrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newAuthHandler(users *mocks.MockUserService, jwt *mocks.MockJWTService, verifier *mocks.MockPasswordVerifier) *AuthHandler {
	cfg := &config.AuthConfig{TokenLifetimeMinutes: 60, RefreshTokenLifetimeMinutes: 1440}
	return NewAuthHandler(users, jwt, verifier, cfg, testLogger()).
		WithTimeFunc(func() time.Time { return fixedNow })
}

func TestAuthHandler_Register(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "sam@example.com"}

	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
	}{
		{
			name:       "created",
			body:       `{"email":"sam@example.com","password":"correct-horse-battery"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "short password",
			body:       `{"email":"sam@example.com","password":"short"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad email",
			body:       `{"email":"sam","password":"correct-horse-battery"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "email taken",
			body:       `{"email":"sam@example.com","password":"correct-horse-battery"}`,
			createErr:  fmt.Errorf("failed to create user: %w", store.ErrEmailExists),
			wantStatus: http.StatusConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users := &mocks.MockUserService{User: user, DefaultError: tc.createErr}
			jwt := &mocks.MockJWTService{Token: "access", RefreshToken: "refresh"}
			h := newAuthHandler(users, jwt, &mocks.MockPasswordVerifier{})

			rr := serve(t, http.MethodPost, "/api/auth/register", "/api/auth/register", h.Register, uuid.Nil, tc.body)
			require.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())

			if tc.wantStatus == http.StatusCreated {
				var resp AuthResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, user.ID, resp.UserID)
				assert.Equal(t, "access", resp.AccessToken)
				assert.Equal(t, "refresh", resp.RefreshToken)
				assert.Equal(t, "2026-03-01T13:00:00Z", resp.ExpiresAt)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "sam@example.com", HashedPassword: "hash"}
	body := `{"email":"sam@example.com","password":"correct-horse-battery"}`

	t.Run("success", func(t *testing.T) {
		users := &mocks.MockUserService{User: user}
		verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
		h := newAuthHandler(users, &mocks.MockJWTService{Token: "a", RefreshToken: "r"}, verifier)

		rr := serve(t, http.MethodPost, "/login", "/login", h.Login, uuid.Nil, body)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, verifier.CompareCallCount)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		unknown := newAuthHandler(
			&mocks.MockUserService{DefaultError: fmt.Errorf("lookup: %w", store.ErrUserNotFound)},
			&mocks.MockJWTService{},
			&mocks.MockPasswordVerifier{ShouldSucceed: true},
		)
		wrong := newAuthHandler(
			&mocks.MockUserService{User: user},
			&mocks.MockJWTService{},
			&mocks.MockPasswordVerifier{ShouldSucceed: false},
		)

		rr1 := serve(t, http.MethodPost, "/login", "/login", unknown.Login, uuid.Nil, body)
		rr2 := serve(t, http.MethodPost, "/login", "/login", wrong.Login, uuid.Nil, body)

		assert.Equal(t, http.StatusUnauthorized, rr1.Code)
		assert.Equal(t, http.StatusUnauthorized, rr2.Code)
		assert.Equal(t, decodeError(t, rr1), decodeError(t, rr2))
	})

	t.Run("token failure", func(t *testing.T) {
		h := newAuthHandler(
			&mocks.MockUserService{User: user},
			&mocks.MockJWTService{Err: fmt.Errorf("signing key unavailable")},
			&mocks.MockPasswordVerifier{ShouldSucceed: true},
		)
		rr := serve(t, http.MethodPost, "/login", "/login", h.Login, uuid.Nil, body)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Failed to generate authentication token", decodeError(t, rr))
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	userID := uuid.New()

	t.Run("rotates both tokens", func(t *testing.T) {
		jwt := &mocks.MockJWTService{
			ValidateRefreshTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
				assert.Equal(t, "old-refresh", token)
				return &auth.Claims{UserID: userID, TokenType: auth.TokenTypeRefresh}, nil
			},
			Token:        "new-access",
			RefreshToken: "new-refresh",
		}
		h := newAuthHandler(&mocks.MockUserService{}, jwt, &mocks.MockPasswordVerifier{})

		rr := serve(t, http.MethodPost, "/refresh", "/refresh", h.RefreshToken, uuid.Nil,
			`{"refresh_token":"old-refresh"}`)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp RefreshTokenResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "new-access", resp.AccessToken)
		assert.Equal(t, "new-refresh", resp.RefreshToken)
	})

	t.Run("access token rejected", func(t *testing.T) {
		jwt := &mocks.MockJWTService{ValidateErr: auth.ErrWrongTokenType}
		h := newAuthHandler(&mocks.MockUserService{}, jwt, &mocks.MockPasswordVerifier{})

		rr := serve(t, http.MethodPost, "/refresh", "/refresh", h.RefreshToken, uuid.Nil,
			`{"refresh_token":"access-token"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Invalid refresh token", decodeError(t, rr))
	})

	t.Run("missing token", func(t *testing.T) {
		h := newAuthHandler(&mocks.MockUserService{}, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{})
		rr := serve(t, http.MethodPost, "/refresh", "/refresh", h.RefreshToken, uuid.Nil, `{}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
