package transfer

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	t.Parallel()
	events := []domain.DoseEvent{
		{ID: uuid.New(), Route: domain.RouteInjection, Ester: domain.EsterEV, TimeH: 0, DoseMG: 5, Modifiers: domain.NoModifiers{}},
		{ID: uuid.New(), Route: domain.RouteSublingual, Ester: domain.EsterE2, TimeH: 12, DoseMG: 2, Modifiers: domain.SublingualCustom{Theta: 0.25}},
	}
	labs := []domain.LabResult{{ID: uuid.New(), TimeH: 24, ConcValue: 150, Unit: domain.LabUnitPgPerML}}
	payload := NewPayload(70, events, labs)

	sim, err := pk.NewParams(pk.ParamsConfig{HorizonHours: 48}).Simulate(events, 70, 0)
	require.NoError(t, err)
	cal := pk.NewCalibration(sim, labs)

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, payload, sim, cal))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetDoses, SheetLabs, SheetCurve}, f.GetSheetList())

	doses, err := f.GetRows(SheetDoses)
	require.NoError(t, err)
	require.Len(t, doses, 3)
	assert.Equal(t, doseHeader, doses[0])
	assert.Equal(t, "injection", doses[1][3])
	assert.Equal(t, "sublingualTheta=0.25", doses[2][7])

	labRows, err := f.GetRows(SheetLabs)
	require.NoError(t, err)
	assert.Len(t, labRows, 2)

	curve, err := f.GetRows(SheetCurve)
	require.NoError(t, err)
	assert.Len(t, curve, sim.Len()+1)
}

func TestWriteWorkbookWithoutCurve(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, NewPayload(0, nil, nil), nil, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{SheetDoses, SheetLabs}, f.GetSheetList())
}

func TestFormatExtras(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", formatExtras(nil))
	assert.Equal(t, "releaseRateUGPerDay=100", formatExtras(map[string]float64{domain.ExtraReleaseRate: 100}))
}
