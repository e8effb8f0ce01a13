package api

import (
	"log/slog"
	"net/http"

	"github.com/hrtrack/hrtrack-api/internal/api/shared"
	"github.com/hrtrack/hrtrack-api/internal/service"
)

// ProfileHandler serves /api/profile.
type ProfileHandler struct {
	profiles service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles service.ProfileService, logger *slog.Logger) *ProfileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger.With(slog.String("component", "profile_handler")),
	}
}

// GetProfile handles GET /api/profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load profile")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/profile.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req ProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.profiles.UpdateWeight(r.Context(), userID, req.WeightKG)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update profile")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}
