package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/api/shared"
	"github.com/hrtrack/hrtrack-api/internal/config"
	"github.com/hrtrack/hrtrack-api/internal/service"
	"github.com/hrtrack/hrtrack-api/internal/service/auth"
	"github.com/hrtrack/hrtrack-api/internal/store"
)

// AuthHandler handles registration, login and token refresh.
type AuthHandler struct {
	users            service.UserService
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	authConfig       *config.AuthConfig
	timeFunc         func() time.Time
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users service.UserService,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	authConfig *config.AuthConfig,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:            users,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		authConfig:       authConfig,
		timeFunc:         time.Now,
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// WithTimeFunc overrides the clock used for expires_at.
func (h *AuthHandler) WithTimeFunc(now func() time.Time) *AuthHandler {
	h.timeFunc = now
	return h
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	resp, err := h.issueTokens(r, user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login. Unknown emails and wrong passwords
// produce the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			HandleAPIError(w, r, auth.ErrInvalidCredentials, "")
			return
		}
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		HandleAPIError(w, r, auth.ErrInvalidCredentials, "")
		return
	}

	resp, err := h.issueTokens(r, user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// RefreshToken handles POST /api/auth/refresh and rotates both tokens.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to validate refresh token")
		return
	}

	resp, err := h.issueTokens(r, claims.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	requestLogger(r, h.logger).Debug("refreshed tokens", "user_id", claims.UserID)
	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    resp.ExpiresAt,
	})
}

func (h *AuthHandler) issueTokens(r *http.Request, userID uuid.UUID) (*AuthResponse, error) {
	access, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	refresh, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	lifetime := time.Duration(h.authConfig.TokenLifetimeMinutes) * time.Minute
	return &AuthResponse{
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    h.timeFunc().Add(lifetime).UTC().Format(time.RFC3339),
	}, nil
}
