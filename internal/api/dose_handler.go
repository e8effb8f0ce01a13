package api

import (
	"log/slog"
	"net/http"

	"github.com/hrtrack/hrtrack-api/internal/api/shared"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/service"
)

// DoseHandler serves /api/doses.
type DoseHandler struct {
	doses  service.DoseService
	logger *slog.Logger
}

// NewDoseHandler creates a new DoseHandler.
func NewDoseHandler(doses service.DoseService, logger *slog.Logger) *DoseHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DoseHandler")
	}
	return &DoseHandler{
		doses:  doses,
		logger: logger.With(slog.String("component", "dose_handler")),
	}
}

// ListDoses handles GET /api/doses.
func (h *DoseHandler) ListDoses(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	events, err := h.doses.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list dose events")
		return
	}
	if events == nil {
		events = []domain.DoseEvent{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, events)
}

// CreateDose handles POST /api/doses.
func (h *DoseHandler) CreateDose(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	input, ok := h.decodeDose(w, r)
	if !ok {
		return
	}

	event, err := h.doses.Create(r.Context(), userID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create dose event")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, event)
}

// UpdateDose handles PUT /api/doses/{id}.
func (h *DoseHandler) UpdateDose(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	input, ok := h.decodeDose(w, r)
	if !ok {
		return
	}

	event, err := h.doses.Update(r.Context(), userID, id, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update dose event")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, event)
}

// DeleteDose handles DELETE /api/doses/{id}.
func (h *DoseHandler) DeleteDose(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.doses.Delete(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete dose event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeDose turns the request body into a DoseInput. Route, compound and
// extras are checked here; the service checks the rest.
func (h *DoseHandler) decodeDose(w http.ResponseWriter, r *http.Request) (service.DoseInput, bool) {
	var req DoseRequest
	if !decodeAndValidate(w, r, &req) {
		return service.DoseInput{}, false
	}

	input, err := doseInputFromRequest(req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return service.DoseInput{}, false
	}
	return input, true
}

func doseInputFromRequest(req DoseRequest) (service.DoseInput, error) {
	route, err := domain.ParseRoute(req.Route)
	if err != nil {
		return service.DoseInput{}, err
	}
	ester, err := domain.ParseEster(req.Ester)
	if err != nil {
		return service.DoseInput{}, err
	}
	mods, err := domain.ModifiersFromExtras(route, req.Extras)
	if err != nil {
		return service.DoseInput{}, err
	}
	return service.DoseInput{
		Route:     route,
		Ester:     ester,
		TimeH:     *req.TimeH,
		DoseMG:    req.DoseMG,
		Modifiers: mods,
	}, nil
}
