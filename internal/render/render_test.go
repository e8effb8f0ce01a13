package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSimulation(t *testing.T, events ...domain.DoseEvent) *pk.SimulationResult {
	t.Helper()
	sim, err := pk.NewParams(pk.ParamsConfig{HorizonHours: 96}).Simulate(events, 70, 0)
	require.NoError(t, err)
	return sim
}

func injection(ester domain.Ester, timeH, mg float64) domain.DoseEvent {
	return domain.DoseEvent{
		ID: uuid.New(), Route: domain.RouteInjection, Ester: ester,
		TimeH: timeH, DoseMG: mg, Modifiers: domain.NoModifiers{},
	}
}

func TestChart(t *testing.T) {
	t.Parallel()
	sim := testSimulation(t,
		injection(domain.EsterEV, 0, 5),
		domain.DoseEvent{ID: uuid.New(), Route: domain.RouteOral, Ester: domain.EsterCPA, TimeH: 0, DoseMG: 12.5, Modifiers: domain.NoModifiers{}},
	)
	labs := []domain.LabResult{{ID: uuid.New(), TimeH: 48, ConcValue: 250, Unit: domain.LabUnitPgPerML}}
	cal := pk.NewCalibration(sim, labs)

	var buf bytes.Buffer
	require.NoError(t, Chart(&buf, sim, cal, ChartOptions{Width: 640, Height: 320, Labs: labs}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 320, img.Bounds().Dy())
}

func TestChartFlatCurve(t *testing.T) {
	t.Parallel()
	sim := testSimulation(t, injection(domain.EsterEV, 0, 0))

	var buf bytes.Buffer
	require.NoError(t, Chart(&buf, sim, nil, ChartOptions{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestChartNotEnoughData(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	assert.ErrorIs(t, Chart(&buf, nil, nil, ChartOptions{}), ErrNotEnoughData)
	assert.ErrorIs(t, Chart(&buf, testSimulation(t), nil, ChartOptions{}), ErrNotEnoughData)
}

func TestBadge(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		value float64
		ok    bool
	}{{150, true}, {20, true}, {0, false}} {
		var buf bytes.Buffer
		require.NoError(t, Badge(&buf, tc.value, tc.ok, BadgeOptions{}))

		img, err := png.Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, 160, img.Bounds().Dx())
		assert.Equal(t, 64, img.Bounds().Dy())
	}
}

func TestBandColor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, bandColor(150, true), bandColor(250, true))
	assert.NotEqual(t, bandColor(150, true), bandColor(80, true))
	assert.NotEqual(t, bandColor(80, true), bandColor(20, true))
	assert.Equal(t, bandColor(20, true), bandColor(900, true))
	assert.NotEqual(t, bandColor(150, true), bandColor(150, false))
}
