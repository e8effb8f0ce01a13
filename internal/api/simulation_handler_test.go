package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
	"github.com/hrtrack/hrtrack-api/internal/mocks"
	"github.com/hrtrack/hrtrack-api/internal/render"
	"github.com/hrtrack/hrtrack-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestSimulationHandler_GetSimulation(t *testing.T) {
	userID := uuid.New()
	view := &service.SimulationView{
		NowH:              10,
		WeightKG:          70,
		TimeH:             []float64{0, 1},
		E2:                []float64{0, 50},
		CPA:               []float64{0, 0},
		CalibratedE2:      []float64{0, 60},
		CalibrationPoints: []pk.CalibrationPoint{{TimeH: 1, Ratio: 1.2}},
	}
	h := NewSimulationHandler(&mocks.MockSimulationService{View: view}, testLogger())

	rr := serve(t, http.MethodGet, "/api/simulation", "/api/simulation", h.GetSimulation, userID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"calibratedE2":[0,60]`)

	failing := NewSimulationHandler(&mocks.MockSimulationService{DefaultError: pk.ErrGridTooLarge}, testLogger())
	rr = serve(t, http.MethodGet, "/api/simulation", "/api/simulation", failing.GetSimulation, userID, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestSimulationHandler_GetPoint(t *testing.T) {
	userID := uuid.New()
	e2 := 42.0
	sim := &mocks.MockSimulationService{
		PointAtFn: func(_ context.Context, _ uuid.UUID, hour float64) (*service.PointEstimate, error) {
			if hour > 100 {
				return &service.PointEstimate{Hour: hour, Multiplier: 1}, nil
			}
			return &service.PointEstimate{Hour: hour, E2: &e2, Multiplier: 1}, nil
		},
	}
	h := NewSimulationHandler(sim, testLogger())

	rr := serve(t, http.MethodGet, "/api/simulation/at", "/api/simulation/at?hour=5", h.GetPoint, userID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"e2":42`)

	rr = serve(t, http.MethodGet, "/api/simulation/at", "/api/simulation/at?hour=500", h.GetPoint, userID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"e2":null`)
	assert.Contains(t, rr.Body.String(), `"cpa":null`)

	for _, target := range []string{"/api/simulation/at", "/api/simulation/at?hour=abc", "/api/simulation/at?hour=NaN"} {
		rr = serve(t, http.MethodGet, "/api/simulation/at", target, h.GetPoint, userID, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
}

func TestSimulationHandler_Images(t *testing.T) {
	userID := uuid.New()

	t.Run("chart forwards size", func(t *testing.T) {
		sim := &mocks.MockSimulationService{
			ChartFn: func(_ context.Context, _ uuid.UUID, w io.Writer, opts render.ChartOptions) error {
				assert.Equal(t, 640, opts.Width)
				assert.Equal(t, 0, opts.Height)
				_, err := w.Write(pngMagic)
				return err
			},
		}
		h := NewSimulationHandler(sim, testLogger())

		rr := serve(t, http.MethodGet, "/chart.png", "/chart.png?width=640", h.GetChart, userID, "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
		assert.Equal(t, pngMagic, rr.Body.Bytes())
	})

	t.Run("chart without data", func(t *testing.T) {
		sim := &mocks.MockSimulationService{
			DefaultError: fmt.Errorf("chart: %w", render.ErrNotEnoughData),
		}
		h := NewSimulationHandler(sim, testLogger())

		rr := serve(t, http.MethodGet, "/chart.png", "/chart.png", h.GetChart, userID, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	})

	t.Run("oversized image", func(t *testing.T) {
		h := NewSimulationHandler(&mocks.MockSimulationService{ImageBytes: pngMagic}, testLogger())
		rr := serve(t, http.MethodGet, "/badge.png", "/badge.png?height=99999", h.GetBadge, userID, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("badge", func(t *testing.T) {
		sim := &mocks.MockSimulationService{
			BadgeFn: func(_ context.Context, _ uuid.UUID, w io.Writer, opts render.BadgeOptions) error {
				assert.Equal(t, "E2", opts.Label)
				_, err := w.Write(pngMagic)
				return err
			},
		}
		h := NewSimulationHandler(sim, testLogger())

		rr := serve(t, http.MethodGet, "/badge.png", "/badge.png?label=E2", h.GetBadge, userID, "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	})
}
