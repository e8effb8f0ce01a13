package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hrtrack/hrtrack-api/internal/api/shared"
	"github.com/hrtrack/hrtrack-api/internal/render"
	"github.com/hrtrack/hrtrack-api/internal/service"
)

// MaxImageSide bounds the pixel size of rendered charts and badges.
const MaxImageSide = 4096

// SimulationHandler serves /api/simulation.
type SimulationHandler struct {
	simulation service.SimulationService
	logger     *slog.Logger
}

// NewSimulationHandler creates a new SimulationHandler.
func NewSimulationHandler(simulation service.SimulationService, logger *slog.Logger) *SimulationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SimulationHandler")
	}
	return &SimulationHandler{
		simulation: simulation,
		logger:     logger.With(slog.String("component", "simulation_handler")),
	}
}

// GetSimulation handles GET /api/simulation.
func (h *SimulationHandler) GetSimulation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	view, err := h.simulation.Simulate(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to simulate")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// GetPoint handles GET /api/simulation/at?hour=. Concentrations outside the
// simulated range are null.
func (h *SimulationHandler) GetPoint(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	hour, present, err := getQueryFloat(r, "hour")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !present {
		HandleAPIError(w, r, fmt.Errorf("%w: hour is required", ErrInvalidParameter), "")
		return
	}

	est, err := h.simulation.PointAt(r.Context(), userID, hour)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to estimate concentration")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, est)
}

// GetChart handles GET /api/simulation/chart.png?width=&height=.
func (h *SimulationHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	width, height, err := imageSize(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	// Rendered into a buffer so that a failure can still produce a JSON error.
	var buf bytes.Buffer
	opts := render.ChartOptions{Width: width, Height: height}
	if err := h.simulation.Chart(r.Context(), userID, &buf, opts); err != nil {
		HandleAPIError(w, r, err, "Failed to render chart")
		return
	}
	shared.RespondWithBytes(w, r, "image/png", "", buf.Bytes())
}

// GetBadge handles GET /api/simulation/badge.png?width=&height=&label=.
func (h *SimulationHandler) GetBadge(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	width, height, err := imageSize(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var buf bytes.Buffer
	opts := render.BadgeOptions{Width: width, Height: height, Label: r.URL.Query().Get("label")}
	if err := h.simulation.Badge(r.Context(), userID, &buf, opts); err != nil {
		HandleAPIError(w, r, err, "Failed to render badge")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	shared.RespondWithBytes(w, r, "image/png", "", buf.Bytes())
}

// imageSize reads optional width and height parameters. Zero selects the
// renderer's default.
func imageSize(r *http.Request) (int, int, error) {
	dims := [2]int{}
	for i, name := range []string{"width", "height"} {
		v, present, err := getQueryFloat(r, name)
		if err != nil {
			return 0, 0, err
		}
		if !present {
			continue
		}
		if v < 1 || v > MaxImageSide || v != float64(int(v)) {
			return 0, 0, fmt.Errorf("%w: %s must be an integer in [1, %d]", ErrInvalidParameter, name, MaxImageSide)
		}
		dims[i] = int(v)
	}
	return dims[0], dims[1], nil
}
