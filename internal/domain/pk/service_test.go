package pk

import (
	"testing"

	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	t.Parallel()

	svc := NewServiceWithParams(NewParams(ParamsConfig{HorizonHours: 24}))
	assert.Equal(t, 24.0, svc.Params().HorizonHours)
	assert.Equal(t, 1.0, svc.ToE2Factor(domain.EsterE2))

	sim, err := svc.Simulate([]domain.DoseEvent{
		dose(domain.RouteSublingual, domain.EsterE2, t0, 1, domain.SublingualTier{Index: 1}),
	}, 70, t0)
	require.NoError(t, err)
	assert.Equal(t, 25, sim.Len())

	c := svc.Calibrate(sim, nil)
	assert.Equal(t, 1.0, c.Multiplier(t0))

	f, err := svc.Bioavailability(domain.RouteInjection, domain.EsterEC, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, f)

	assert.NotNil(t, NewDefaultService().Params())
}
