package pk

import (
	"math"

	"github.com/hrtrack/hrtrack-api/internal/domain"
)

// Output scale from mg/L: estradiol is reported in pg/mL, cyproterone in ng/mL.
const (
	mgPerLToPgPerML = 1e6
	mgPerLToNgPerML = 1e3
)

// rateTolerance is how close ka and ke may get before the equal-rate limit of
// the Bateman function is used.
const rateTolerance = 1e-9

// SingleDoseConcentration returns one dose's contribution to blood
// concentration elapsedH hours after administration. adjustedDoseMG is the
// mass already scaled by bioavailability and, for estrogens, converted to
// estradiol equivalents. A patch application is treated as a dose-mode patch
// worn for the implicit wear duration. Patch removal contributes nothing.
func (p *Params) SingleDoseConcentration(
	route domain.Route,
	ester domain.Ester,
	adjustedDoseMG float64,
	elapsedH float64,
	weightKG float64,
) (float64, error) {
	if err := domain.ValidateWeight(weightKG); err != nil {
		return 0, err
	}
	if route == domain.RoutePatchRemove {
		return 0, nil
	}
	k, err := p.kinetics(route, ester)
	if err != nil {
		return 0, err
	}
	vd := p.distributionVolumeL(ester, weightKG)

	if route == domain.RoutePatchApply {
		rate := adjustedDoseMG / p.PatchWearHours
		return patchCurve(rate, p.PatchWearHours, k.Ke(), vd, elapsedH) * mgPerLToPgPerML, nil
	}

	return bateman(adjustedDoseMG, k.Ka(), k.Ke(), vd, elapsedH) * outputScale(ester), nil
}

// PatchConcentration returns a patch's contribution at elapsedH for a release
// rate in mg/h worn for wearH hours. wearH may be +Inf.
func (p *Params) PatchConcentration(
	ester domain.Ester,
	rateMGPerH, wearH, elapsedH, weightKG float64,
) (float64, error) {
	if err := domain.ValidateWeight(weightKG); err != nil {
		return 0, err
	}
	k, err := p.kinetics(domain.RoutePatchApply, ester)
	if err != nil {
		return 0, err
	}
	vd := p.distributionVolumeL(ester, weightKG)
	return patchCurve(rateMGPerH, wearH, k.Ke(), vd, elapsedH) * outputScale(ester), nil
}

// bateman is the one-compartment first-order absorption and elimination
// curve in mg/L. Zero before the dose.
func bateman(doseMG, ka, ke, vdL, t float64) float64 {
	if t < 0 || doseMG <= 0 {
		return 0
	}
	if math.Abs(ka-ke) < rateTolerance {
		return doseMG * ke * t * math.Exp(-ke*t) / vdL
	}
	return doseMG * ka / (vdL * (ka - ke)) * (math.Exp(-ke*t) - math.Exp(-ka*t))
}

// patchCurve is zero-order input at rate mg/h until wearH, then first-order
// decay, in mg/L.
func patchCurve(rateMGPerH, wearH, ke, vdL, t float64) float64 {
	if t < 0 || rateMGPerH <= 0 || wearH <= 0 {
		return 0
	}
	plateau := rateMGPerH / (ke * vdL)
	if t <= wearH {
		return plateau * -math.Expm1(-ke*t)
	}
	atRemoval := plateau * -math.Expm1(-ke*wearH)
	return atRemoval * math.Exp(-ke*(t-wearH))
}

func outputScale(ester domain.Ester) float64 {
	if ester.IsAntiAndrogen() {
		return mgPerLToNgPerML
	}
	return mgPerLToPgPerML
}
