package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hallplan/hallplan/internal/model"
)

const (
	placementsSheet = "Placements"
	summarySheet    = "Summary"
)

// ExportSchedule writes an XLSX placement schedule: one row per table with
// its placed footprint, plus a summary sheet with layout statistics.
func ExportSchedule(path string, result model.OptimizeResult) error {
	if len(result.Tables) == 0 {
		return fmt.Errorf("no placed tables to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), placementsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{"Table", "ID", "X (mm)", "Y (mm)", "Width (mm)", "Height (mm)", "Rotation"}
	for col, h := range headers {
		setCell(f, placementsSheet, col+1, 1, h)
	}
	for i, tbl := range result.Tables {
		row := i + 2
		setCell(f, placementsSheet, 1, row, i+1)
		setCell(f, placementsSheet, 2, row, tbl.ID)
		setCell(f, placementsSheet, 3, row, tbl.X)
		setCell(f, placementsSheet, 4, row, tbl.Y)
		setCell(f, placementsSheet, 5, row, tbl.PlacedWidth())
		setCell(f, placementsSheet, 6, row, tbl.PlacedHeight())
		setCell(f, placementsSheet, 7, row, int(tbl.Rotation))
	}
	if err := f.SetColWidth(placementsSheet, "A", "G", 12); err != nil {
		return fmt.Errorf("failed to set column widths: %w", err)
	}

	if err := writeSummary(f, result); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, result model.OptimizeResult) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	rows := []struct {
		label string
		value interface{}
	}{
		{"Tables placed", result.Stats.Count},
		{"Strategy", string(result.Strategy)},
		{"Venue area (m²)", result.Stats.TotalArea},
		{"Table footprint (m²)", result.Stats.UsedArea},
		{"Space utilization (%)", result.Stats.SpaceUtilization},
		{"Average clearance (mm)", result.Stats.AverageClearance},
		{"Compute time", result.Elapsed.Round(time.Millisecond).String()},
	}
	for i, r := range rows {
		setCell(f, summarySheet, 1, i+1, r.label)
		setCell(f, summarySheet, 2, i+1, r.value)
	}
	for i, w := range result.Warnings {
		setCell(f, summarySheet, 1, len(rows)+i+1, "Warning")
		setCell(f, summarySheet, 2, len(rows)+i+1, w)
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 24); err != nil {
		return fmt.Errorf("failed to set column widths: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	f.SetCellValue(sheet, cell, value)
}
