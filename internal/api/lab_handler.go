package api

import (
	"log/slog"
	"net/http"

	"github.com/hrtrack/hrtrack-api/internal/api/shared"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/service"
)

// LabHandler serves /api/labs.
type LabHandler struct {
	labs   service.LabService
	logger *slog.Logger
}

// NewLabHandler creates a new LabHandler.
func NewLabHandler(labs service.LabService, logger *slog.Logger) *LabHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LabHandler")
	}
	return &LabHandler{
		labs:   labs,
		logger: logger.With(slog.String("component", "lab_handler")),
	}
}

// ListLabs handles GET /api/labs.
func (h *LabHandler) ListLabs(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	labs, err := h.labs.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list lab results")
		return
	}
	if labs == nil {
		labs = []domain.LabResult{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, labs)
}

// CreateLab handles POST /api/labs.
func (h *LabHandler) CreateLab(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req LabRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	unit := domain.LabUnit(req.Unit)
	if unit == "" {
		unit = domain.CanonicalLabUnit
	}

	lab, err := h.labs.Create(r.Context(), userID, *req.TimeH, *req.ConcValue, unit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create lab result")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, lab)
}

// DeleteLab handles DELETE /api/labs/{id}.
func (h *LabHandler) DeleteLab(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.labs.Delete(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete lab result")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
