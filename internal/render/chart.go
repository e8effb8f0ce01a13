package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNotEnoughData is returned when a curve has fewer than two points.
var ErrNotEnoughData = errors.New("not enough data to draw a chart")

var (
	colorEstrogen   = drawing.Color{R: 66, G: 133, B: 244, A: 255}
	colorCalibrated = drawing.Color{R: 219, G: 68, B: 55, A: 255}
	colorCPA        = drawing.Color{R: 15, G: 157, B: 88, A: 255}
	colorLab        = drawing.Color{R: 0, G: 0, B: 0, A: 255}
)

// ChartOptions controls the chart size. Zero values use the defaults.
type ChartOptions struct {
	Width  int
	Height int
	// Labs are drawn as dots in pg/mL.
	Labs []domain.LabResult
}

// Chart renders sim as a PNG. The calibrated estradiol curve is drawn when
// cal has at least one point, and the anti-androgen curve on a secondary
// axis when it is non-zero anywhere.
func Chart(w io.Writer, sim *pk.SimulationResult, cal *pk.Calibration, opts ChartOptions) error {
	if sim == nil || sim.Len() < 2 {
		return ErrNotEnoughData
	}
	if opts.Width <= 0 {
		opts.Width = 1024
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}

	origin := sim.TimeH[0]
	days := make([]float64, sim.Len())
	for i, h := range sim.TimeH {
		days[i] = (h - origin) / 24
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "E2 (pg/mL)",
			XValues: days,
			YValues: sim.Estrogen,
			Style:   chart.Style{StrokeColor: colorEstrogen, StrokeWidth: 2},
		},
	}
	e2Max := maxOf(sim.Estrogen)

	if len(cal.Points()) > 0 {
		calibrated := cal.CalibratedEstrogen()
		e2Max = math.Max(e2Max, maxOf(calibrated))
		series = append(series, chart.ContinuousSeries{
			Name:    "E2 calibrated (pg/mL)",
			XValues: days,
			YValues: calibrated,
			Style:   chart.Style{StrokeColor: colorCalibrated, StrokeWidth: 2},
		})
	}

	var labX, labY []float64
	for _, l := range opts.Labs {
		if l.TimeH < sim.TimeH[0] || l.TimeH > sim.TimeH[sim.Len()-1] {
			continue
		}
		v := pk.ConvertToPgPerML(l.ConcValue, l.Unit)
		labX = append(labX, (l.TimeH-origin)/24)
		labY = append(labY, v)
		e2Max = math.Max(e2Max, v)
	}
	if len(labX) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "Lab E2 (pg/mL)",
			XValues: labX,
			YValues: labY,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    colorLab,
			},
		})
	}

	graph := chart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Days",
			Style: chart.Style{FontSize: 10},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Name:  "E2 (pg/mL)",
			Style: chart.Style{FontSize: 10},
			Range: &chart.ContinuousRange{Min: 0, Max: niceMax(e2Max)},
		},
	}

	if cpaMax := maxOf(sim.AntiAndrogen); cpaMax > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "CPA (ng/mL)",
			YAxis:   chart.YAxisSecondary,
			XValues: days,
			YValues: sim.AntiAndrogen,
			Style:   chart.Style{StrokeColor: colorCPA, StrokeWidth: 2},
		})
		graph.YAxisSecondary = chart.YAxis{
			Name:  "CPA (ng/mL)",
			Style: chart.Style{FontSize: 10},
			Range: &chart.ContinuousRange{Min: 0, Max: niceMax(cpaMax)},
		}
	}

	graph.Series = series
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func maxOf(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		if !math.IsNaN(v) && v > m {
			m = v
		}
	}
	return m
}

// niceMax pads the axis maximum by 10% and keeps the range non-empty.
func niceMax(v float64) float64 {
	if !(v > 0) || math.IsInf(v, 0) {
		return 1
	}
	return v * 1.1
}
