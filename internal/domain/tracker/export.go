package tracker

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Tracker"

var exportHeader = []any{"Job", "Project", "Description", "Owner", "Month", "Spend type", "Spend", "Spend to date", "Ballpark"}

// Export writes the dashboard as an .xlsx workbook: the project table first,
// then the budget summary underneath.
func Export(w io.Writer, d Dashboard) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "I1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	row := 2
	for _, r := range d.Rows {
		month := r.Month
		if r.Grouped {
			month = d.Summary.Period
		}
		values := []any{r.JobNumber, r.ProjectName, r.Description, r.Owner, month, string(r.SpendType), r.Spend, r.SpendToDate, r.Ballpark}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
		row++
	}

	row++
	summary := [][]any{
		{"Client", d.Summary.ClientName},
		{"Period", d.Summary.Period},
		{"Budget", d.Summary.Budget},
		{"Spent", d.Summary.Spend},
		{"Remaining", d.Summary.Remaining},
		{"% used", d.Summary.PercentUsed},
	}
	if d.Summary.ShowRollover {
		summary = append(summary, []any{"Rollover credit", d.Summary.Rollover})
	}
	for _, values := range summary {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
		if err := f.SetCellStyle(exportSheet, cell, cell, bold); err != nil {
			return fmt.Errorf("styling summary: %w", err)
		}
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
