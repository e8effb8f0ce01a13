package pk

import (
	"fmt"
	"math"
	"sort"

	"github.com/hrtrack/hrtrack-api/internal/domain"
)

// SimulationResult is a uniform time grid with the estimated estradiol series
// in pg/mL and the cyproterone acetate series in ng/mL. Results are never
// mutated after Simulate returns.
type SimulationResult struct {
	TimeH        []float64 `json:"timeH"`
	Estrogen     []float64 `json:"e2PgML"`
	AntiAndrogen []float64 `json:"cpaNgML"`
}

// Len returns the number of grid points.
func (r *SimulationResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.TimeH)
}

// EstrogenAt interpolates the estradiol series at hour. ok is false outside the grid.
func (r *SimulationResult) EstrogenAt(hour float64) (float64, bool) {
	if r == nil {
		return 0, false
	}
	return interpolateSeries(r.TimeH, r.Estrogen, hour)
}

// AntiAndrogenAt interpolates the cyproterone acetate series at hour. ok is
// false outside the grid.
func (r *SimulationResult) AntiAndrogenAt(hour float64) (float64, bool) {
	if r == nil {
		return 0, false
	}
	return interpolateSeries(r.TimeH, r.AntiAndrogen, hour)
}

// interpolateSeries never extrapolates.
func interpolateSeries(grid, values []float64, hour float64) (float64, bool) {
	n := len(grid)
	if n == 0 || math.IsNaN(hour) || hour < grid[0] || hour > grid[n-1] {
		return 0, false
	}
	i := sort.SearchFloat64s(grid, hour)
	if grid[i] == hour {
		return values[i], true
	}
	t0, t1 := grid[i-1], grid[i]
	v0, v1 := values[i-1], values[i]
	return v0 + (v1-v0)*(hour-t0)/(t1-t0), true
}

// activeDose is a dose event resolved to a concentration curve.
type activeDose struct {
	timeH        float64
	antiAndrogen bool
	curve        func(elapsedH float64) float64
}

// Simulate superposes every dose event onto a shared grid that runs from the
// earliest event to HorizonHours past the later of the last event and nowH.
// Events are expected to be sanitized; an unmodeled route/compound pairing
// fails the whole simulation.
func (p *Params) Simulate(events []domain.DoseEvent, weightKG, nowH float64) (*SimulationResult, error) {
	if len(events) == 0 {
		return &SimulationResult{TimeH: []float64{}, Estrogen: []float64{}, AntiAndrogen: []float64{}}, nil
	}
	if err := domain.ValidateWeight(weightKG); err != nil {
		return nil, err
	}

	sorted := sortEvents(events)

	doses, err := p.resolveDoses(sorted, weightKG)
	if err != nil {
		return nil, err
	}

	grid, err := p.buildGrid(sorted[0].TimeH, math.Max(sorted[len(sorted)-1].TimeH, nowH))
	if err != nil {
		return nil, err
	}

	result := &SimulationResult{
		TimeH:        grid,
		Estrogen:     make([]float64, len(grid)),
		AntiAndrogen: make([]float64, len(grid)),
	}

	start := grid[0]
	for _, d := range doses {
		series := result.Estrogen
		if d.antiAndrogen {
			series = result.AntiAndrogen
		}
		first := int(math.Floor((d.timeH - start) / p.StepHours))
		if first < 0 {
			first = 0
		}
		for i := first; i < len(grid); i++ {
			elapsed := grid[i] - d.timeH
			if elapsed < 0 {
				continue
			}
			series[i] += d.curve(elapsed)
		}
	}

	return result, nil
}

func (p *Params) buildGrid(startH, lastH float64) ([]float64, error) {
	if !(p.StepHours > 0) {
		return nil, fmt.Errorf("%w: step must be positive", ErrGridTooLarge)
	}
	endH := lastH + p.HorizonHours
	steps := math.Ceil((endH - startH) / p.StepHours)
	if steps+1 > float64(p.MaxGridPoints) {
		return nil, fmt.Errorf("%w: %.0f points exceeds %d", ErrGridTooLarge, steps+1, p.MaxGridPoints)
	}

	n := int(steps) + 1
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = startH + float64(i)*p.StepHours
	}
	return grid, nil
}

// resolveDoses pairs patch removals with applications and binds each event to
// its curve. sorted must be in time order.
func (p *Params) resolveDoses(sorted []domain.DoseEvent, weightKG float64) ([]activeDose, error) {
	wear := p.pairPatches(sorted)

	doses := make([]activeDose, 0, len(sorted))
	for i, e := range sorted {
		if e.Route == domain.RoutePatchRemove {
			continue
		}

		k, err := p.kinetics(e.Route, e.Ester)
		if err != nil {
			return nil, err
		}
		fraction, err := p.Bioavailability(e.Route, e.Ester, e.Modifiers)
		if err != nil {
			return nil, err
		}

		vd := p.distributionVolumeL(e.Ester, weightKG)
		scale := outputScale(e.Ester)
		ka, ke := k.Ka(), k.Ke()

		var curve func(float64) float64
		if e.Route == domain.RoutePatchApply {
			rate := p.patchRate(e) * fraction
			wearH := wear[i]
			curve = func(t float64) float64 {
				return patchCurve(rate, wearH, ke, vd, t) * scale
			}
		} else {
			dose := e.DoseMG * ToE2Factor(e.Ester) * fraction
			curve = func(t float64) float64 {
				return bateman(dose, ka, ke, vd, t) * scale
			}
		}

		doses = append(doses, activeDose{
			timeH:        e.TimeH,
			antiAndrogen: e.Ester.IsAntiAndrogen(),
			curve:        curve,
		})
	}
	return doses, nil
}

// patchRate returns the release rate in mg/h. An explicit rate is used as
// given; otherwise the logged total is spread over the implicit wear time.
func (p *Params) patchRate(e domain.DoseEvent) float64 {
	if r, ok := e.Modifiers.(domain.PatchRate); ok {
		return r.UGPerDay / 1000 / 24
	}
	return e.DoseMG * ToE2Factor(e.Ester) / p.PatchWearHours
}

// sortEvents returns a time-ordered copy of events. At equal times a patch
// removal sorts before an application so a same-hour swap closes the old patch.
func sortEvents(events []domain.DoseEvent) []domain.DoseEvent {
	sorted := make([]domain.DoseEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TimeH != sorted[j].TimeH {
			return sorted[i].TimeH < sorted[j].TimeH
		}
		return sorted[i].Route == domain.RoutePatchRemove && sorted[j].Route != domain.RoutePatchRemove
	})
	return sorted
}

// pairPatches returns the wear duration of every patch application, keyed by
// index into sorted. A removal closes the most recent application that is
// still releasing at that time. Rate-mode patches stay on until removed;
// dose-mode patches stop at PatchWearHours regardless.
func (p *Params) pairPatches(sorted []domain.DoseEvent) map[int]float64 {
	wear := make(map[int]float64)
	var open []int

	for i, e := range sorted {
		switch e.Route {
		case domain.RoutePatchApply:
			if _, ok := e.Modifiers.(domain.PatchRate); ok {
				wear[i] = math.Inf(1)
			} else {
				wear[i] = p.PatchWearHours
			}
			open = append(open, i)

		case domain.RoutePatchRemove:
			for j := len(open) - 1; j >= 0; j-- {
				idx := open[j]
				elapsed := e.TimeH - sorted[idx].TimeH
				if elapsed > wear[idx] {
					continue
				}
				wear[idx] = elapsed
				open = append(open[:j], open[j+1:]...)
				break
			}
		}
	}
	return wear
}
