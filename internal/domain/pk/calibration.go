package pk

import (
	"math"
	"sort"

	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/interp"
)

// CalibrationPoint is the measured/simulated ratio at a lab draw.
type CalibrationPoint struct {
	TimeH float64 `json:"timeH"`
	Ratio float64 `json:"ratio"`
}

// Calibration is a time-varying multiplier correcting the estradiol series
// toward lab measurements. The anti-androgen series is never calibrated.
type Calibration struct {
	sim    *SimulationResult
	points []CalibrationPoint
	table  *interp.Table
}

// NewCalibration derives the multiplier from a simulation and lab draws.
// Labs falling outside the grid, or where the simulated value is zero, are
// skipped. With no usable labs the multiplier is exactly 1 everywhere.
func NewCalibration(sim *SimulationResult, labs []domain.LabResult) *Calibration {
	c := &Calibration{sim: sim}

	byTime := make(map[float64][]float64)
	for _, lab := range labs {
		measured := ConvertToPgPerML(lab.ConcValue, lab.Unit)
		if math.IsNaN(measured) || math.IsInf(measured, 0) || math.IsNaN(lab.TimeH) {
			continue
		}
		simulated, ok := sim.EstrogenAt(lab.TimeH)
		if !ok || simulated == 0 || math.IsNaN(simulated) || math.IsInf(simulated, 0) {
			continue
		}
		byTime[lab.TimeH] = append(byTime[lab.TimeH], measured/simulated)
	}
	if len(byTime) == 0 {
		return c
	}

	c.points = make([]CalibrationPoint, 0, len(byTime))
	for t, ratios := range byTime {
		sum := 0.0
		for _, r := range ratios {
			sum += r
		}
		c.points = append(c.points, CalibrationPoint{TimeH: t, Ratio: sum / float64(len(ratios))})
	}
	sort.Slice(c.points, func(i, j int) bool { return c.points[i].TimeH < c.points[j].TimeH })

	xs := make([]float64, len(c.points))
	ys := make([]float64, len(c.points))
	for i, pt := range c.points {
		xs[i], ys[i] = pt.TimeH, pt.Ratio
	}
	c.table = interp.MustNew(xs, ys, interp.Flat)
	return c
}

// Multiplier returns the correction factor at hour.
func (c *Calibration) Multiplier(hour float64) float64 {
	if c == nil || c.table == nil {
		return 1
	}
	return c.table.At(hour)
}

// Func exposes the multiplier as a plain function of time.
func (c *Calibration) Func() func(hour float64) float64 {
	return c.Multiplier
}

// Points returns a copy of the usable calibration points in time order.
func (c *Calibration) Points() []CalibrationPoint {
	if c == nil {
		return nil
	}
	out := make([]CalibrationPoint, len(c.points))
	copy(out, c.points)
	return out
}

// CalibratedEstrogen returns a new estradiol series with the multiplier applied.
func (c *Calibration) CalibratedEstrogen() []float64 {
	if c == nil || c.sim == nil {
		return []float64{}
	}
	out := make([]float64, len(c.sim.Estrogen))
	for i, v := range c.sim.Estrogen {
		out[i] = v * c.Multiplier(c.sim.TimeH[i])
	}
	return out
}

// CalibratedEstrogenAt interpolates the estradiol series at hour and applies
// the multiplier.
func (c *Calibration) CalibratedEstrogenAt(hour float64) (float64, bool) {
	if c == nil {
		return 0, false
	}
	v, ok := c.sim.EstrogenAt(hour)
	if !ok {
		return 0, false
	}
	return v * c.Multiplier(hour), true
}
