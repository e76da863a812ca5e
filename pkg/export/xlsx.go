package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	dashboard "github.com/goliatone/go-stationboard/components/dashboard"
)

// WorkbookOptions controls sheet naming.
type WorkbookOptions struct {
	Locale string
}

// ExportMetrics lists the columns written for every time frame.
func ExportMetrics() []dashboard.MetricName {
	return append(dashboard.RequiredMetrics(), dashboard.MetricAvgProductionTime)
}

// WriteWorkbook writes one sheet per time frame, one row per station.
func WriteWorkbook(w io.Writer, ds *dashboard.Dataset, opts WorkbookOptions) error {
	if ds == nil {
		return ErrNoData
	}
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFE4F1"}},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	metrics := ExportMetrics()
	first := ""
	for _, tf := range dashboard.TimeFrames() {
		sheet := tf.LabelForLocale(opts.Locale)
		if first == "" {
			first = sheet
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("export: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("export: new sheet %s: %w", sheet, err)
		}

		row := []any{"workstation_id", "name"}
		for _, metric := range metrics {
			row = append(row, string(metric))
		}
		if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
			return fmt.Errorf("export: header %s: %w", sheet, err)
		}
		last, _ := excelize.CoordinatesToCellName(len(row), 1)
		if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
			return fmt.Errorf("export: header style %s: %w", sheet, err)
		}

		for i, rec := range ds.Records() {
			values := []any{rec.WorkstationID, rec.Name}
			for _, metric := range metrics {
				v, _ := rec.Metric(tf, metric)
				values = append(values, v)
			}
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("export: row %d of %s: %w", i, sheet, err)
			}
		}
		if err := f.SetColWidth(sheet, "A", "B", 18); err != nil {
			return fmt.Errorf("export: column width %s: %w", sheet, err)
		}
	}
	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}
