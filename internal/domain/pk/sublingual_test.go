package pk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThetaFromHold(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		hold     float64
		expected float64
	}{
		{name: "first tier", hold: 2, expected: 0.01},
		{name: "standard tier", hold: 10, expected: 0.11},
		{name: "last tier", hold: 15, expected: 0.18},
		{name: "between tiers", hold: 7.5, expected: 0.075},
		{name: "extrapolated below", hold: 1, expected: 0},
		{name: "clamped at zero", hold: 0, expected: 0},
		{name: "extrapolated above", hold: 20, expected: 0.25},
		{name: "clamped at one", hold: 1000, expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, ThetaFromHold(tc.hold), 1e-12)
		})
	}
}

func TestHoldFromTheta(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 10, HoldFromTheta(0.11), 1e-9)
	assert.InDelta(t, 20, HoldFromTheta(0.25), 1e-9)
	assert.InDelta(t, MinHoldMinutes, HoldFromTheta(0), 1e-9)
	assert.Equal(t, MinHoldMinutes, HoldFromTheta(-1), "hold never drops below the minimum")
}

func TestHoldThetaInverse(t *testing.T) {
	t.Parallel()

	for h := 2.0; h <= 15.0; h += 0.25 {
		assert.InDelta(t, h, HoldFromTheta(ThetaFromHold(h)), 1e-9, "hold %v", h)
	}
}

func TestThetaExtrapolationIsMonotone(t *testing.T) {
	t.Parallel()

	tiers := SublingualTiers()
	first, last := tiers[0], tiers[len(tiers)-1]

	assert.Less(t, ThetaFromHold(first.HoldMinutes-0.5), ThetaFromHold(first.HoldMinutes))
	assert.Greater(t, ThetaFromHold(last.HoldMinutes+1), ThetaFromHold(last.HoldMinutes))
	assert.Greater(t, ThetaFromHold(last.HoldMinutes+2), ThetaFromHold(last.HoldMinutes+1))
}

func TestSublingualTiers_ReturnsCopy(t *testing.T) {
	t.Parallel()

	tiers := SublingualTiers()
	tiers[0].Theta = 0.9

	tier, ok := SublingualTier(0)
	assert.True(t, ok)
	assert.Equal(t, 0.01, tier.Theta)

	_, ok = SublingualTier(len(tiers))
	assert.False(t, ok)
}
