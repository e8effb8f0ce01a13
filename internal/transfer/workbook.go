package transfer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/domain/pk"
	"github.com/xuri/excelize/v2"
)

// Sheet names used by WriteWorkbook.
const (
	SheetDoses = "Doses"
	SheetLabs  = "Labs"
	SheetCurve = "Curve"
)

var (
	doseHeader  = []string{"ID", "Time (UTC)", "Hours", "Route", "Compound", "Dose (mg)", "E2 equivalent (mg)", "Extras"}
	labHeader   = []string{"ID", "Time (UTC)", "Hours", "Value", "Unit", "Value (pg/mL)"}
	curveHeader = []string{"Hours", "Time (UTC)", "E2 (pg/mL)", "E2 calibrated (pg/mL)", "CPA (ng/mL)"}
)

// WriteWorkbook writes the payload, and the simulated curve when sim is
// non-nil, as an xlsx workbook.
func WriteWorkbook(w io.Writer, p *Payload, sim *pk.SimulationResult, cal *pk.Calibration) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	doseRows := make([][]interface{}, 0, len(p.Events))
	for _, e := range p.Events {
		doseRows = append(doseRows, []interface{}{
			e.ID.String(),
			e.Time().Format("2006-01-02 15:04"),
			e.TimeH,
			string(e.Route),
			string(e.Ester),
			e.DoseMG,
			e.DoseMG * pk.ToE2Factor(e.Ester),
			formatExtras(domain.ExtrasFromModifiers(e.Modifiers)),
		})
	}
	if err := writeSheet(f, SheetDoses, doseHeader, doseRows, headerStyle); err != nil {
		return err
	}

	labRows := make([][]interface{}, 0, len(p.LabResults))
	for _, l := range p.LabResults {
		labRows = append(labRows, []interface{}{
			l.ID.String(),
			domain.HoursToTime(l.TimeH).Format("2006-01-02 15:04"),
			l.TimeH,
			l.ConcValue,
			string(l.Unit),
			pk.ConvertToPgPerML(l.ConcValue, l.Unit),
		})
	}
	if err := writeSheet(f, SheetLabs, labHeader, labRows, headerStyle); err != nil {
		return err
	}

	if sim != nil {
		calibrated := cal.CalibratedEstrogen()
		curveRows := make([][]interface{}, 0, sim.Len())
		for i, h := range sim.TimeH {
			row := []interface{}{
				h,
				domain.HoursToTime(h).Format("2006-01-02 15:04"),
				sim.Estrogen[i],
				sim.Estrogen[i],
				sim.AntiAndrogen[i],
			}
			if i < len(calibrated) {
				row[3] = calibrated[i]
			}
			curveRows = append(curveRows, row)
		}
		if err := writeSheet(f, SheetCurve, curveHeader, curveRows, headerStyle); err != nil {
			return err
		}
	}

	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(SheetDoses); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, header []string, rows [][]interface{}, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", name, err)
	}
	if err := f.SetColWidth(name, "A", lastCol, 18); err != nil {
		return err
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", name, i+2, err)
		}
	}
	return nil
}

func formatExtras(extras map[string]float64) string {
	out := ""
	for _, key := range []string{
		domain.ExtraReleaseRate,
		domain.ExtraSublingualTier,
		domain.ExtraSublingualTheta,
		domain.ExtraGelSite,
	} {
		v, ok := extras[key]
		if !ok {
			continue
		}
		if out != "" {
			out += "; "
		}
		out += key + "=" + strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}
