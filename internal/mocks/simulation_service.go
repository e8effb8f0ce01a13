package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/render"
	"github.com/hrtrack/hrtrack-api/internal/service"
)

// MockSimulationService implements service.SimulationService for testing.
// Chart and Badge write ImageBytes when no Fn is set.
type MockSimulationService struct {
	SnapshotFn func(ctx context.Context, userID uuid.UUID) (*service.Snapshot, error)
	SimulateFn func(ctx context.Context, userID uuid.UUID) (*service.SimulationView, error)
	PointAtFn  func(ctx context.Context, userID uuid.UUID, hour float64) (*service.PointEstimate, error)
	ChartFn    func(ctx context.Context, userID uuid.UUID, w io.Writer, opts render.ChartOptions) error
	BadgeFn    func(ctx context.Context, userID uuid.UUID, w io.Writer, opts render.BadgeOptions) error

	Snap         *service.Snapshot
	View         *service.SimulationView
	Point        *service.PointEstimate
	ImageBytes   []byte
	DefaultError error
}

// Snapshot implements the SimulationService.Snapshot method
func (m *MockSimulationService) Snapshot(ctx context.Context, userID uuid.UUID) (*service.Snapshot, error) {
	if m.SnapshotFn != nil {
		return m.SnapshotFn(ctx, userID)
	}
	return m.Snap, m.DefaultError
}

// Simulate implements the SimulationService.Simulate method
func (m *MockSimulationService) Simulate(ctx context.Context, userID uuid.UUID) (*service.SimulationView, error) {
	if m.SimulateFn != nil {
		return m.SimulateFn(ctx, userID)
	}
	return m.View, m.DefaultError
}

// PointAt implements the SimulationService.PointAt method
func (m *MockSimulationService) PointAt(
	ctx context.Context,
	userID uuid.UUID,
	hour float64,
) (*service.PointEstimate, error) {
	if m.PointAtFn != nil {
		return m.PointAtFn(ctx, userID, hour)
	}
	return m.Point, m.DefaultError
}

// Chart implements the SimulationService.Chart method
func (m *MockSimulationService) Chart(
	ctx context.Context,
	userID uuid.UUID,
	w io.Writer,
	opts render.ChartOptions,
) error {
	if m.ChartFn != nil {
		return m.ChartFn(ctx, userID, w, opts)
	}
	return m.writeImage(w)
}

// Badge implements the SimulationService.Badge method
func (m *MockSimulationService) Badge(
	ctx context.Context,
	userID uuid.UUID,
	w io.Writer,
	opts render.BadgeOptions,
) error {
	if m.BadgeFn != nil {
		return m.BadgeFn(ctx, userID, w, opts)
	}
	return m.writeImage(w)
}

func (m *MockSimulationService) writeImage(w io.Writer) error {
	if m.DefaultError != nil {
		return m.DefaultError
	}
	_, err := w.Write(m.ImageBytes)
	return err
}
