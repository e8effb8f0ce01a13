package pk

import (
	"math"

	"github.com/hrtrack/hrtrack-api/internal/interp"
)

// SublingualTierParams pairs a hold duration with the fraction absorbed
// through the oral mucosa.
type SublingualTierParams struct {
	Name        string
	HoldMinutes float64
	Theta       float64
}

// DefaultSublingualTier is used when a sublingual dose carries no modifier.
const DefaultSublingualTier = 2

// MinHoldMinutes is the shortest hold HoldFromTheta will report.
const MinHoldMinutes = 1.0

// sublingualTiers is ordered by ascending hold time and never mutated.
var sublingualTiers = [...]SublingualTierParams{
	{Name: "quick", HoldMinutes: 2, Theta: 0.01},
	{Name: "casual", HoldMinutes: 5, Theta: 0.04},
	{Name: "standard", HoldMinutes: 10, Theta: 0.11},
	{Name: "strict", HoldMinutes: 15, Theta: 0.18},
}

var (
	holdToTheta = buildTierTable(func(t SublingualTierParams) (float64, float64) {
		return t.HoldMinutes, t.Theta
	})
	thetaToHold = buildTierTable(func(t SublingualTierParams) (float64, float64) {
		return t.Theta, t.HoldMinutes
	})
)

func buildTierTable(pair func(SublingualTierParams) (float64, float64)) *interp.Table {
	xs := make([]float64, len(sublingualTiers))
	ys := make([]float64, len(sublingualTiers))
	for i, tier := range sublingualTiers {
		xs[i], ys[i] = pair(tier)
	}
	return interp.MustNew(xs, ys, interp.Linear)
}

// SublingualTiers returns a copy of the tier table.
func SublingualTiers() []SublingualTierParams {
	out := make([]SublingualTierParams, len(sublingualTiers))
	copy(out, sublingualTiers[:])
	return out
}

// SublingualTier returns the tier at index i.
func SublingualTier(i int) (SublingualTierParams, bool) {
	if i < 0 || i >= len(sublingualTiers) {
		return SublingualTierParams{}, false
	}
	return sublingualTiers[i], true
}

// ThetaFromHold maps a hold duration in minutes to theta, extrapolating past
// the table along the nearest segment and clamping to [0, 1].
func ThetaFromHold(minutes float64) float64 {
	return clamp(holdToTheta.At(minutes), 0, 1)
}

// HoldFromTheta is the inverse of ThetaFromHold. The result never drops
// below MinHoldMinutes.
func HoldFromTheta(theta float64) float64 {
	return math.Max(thetaToHold.At(theta), MinHoldMinutes)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
