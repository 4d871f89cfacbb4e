// Package xlsxexport renders projected generation report rows as an XLSX
// workbook for download.
package xlsxexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"heliogen/internal/domain"
)

// SheetName is the single sheet holding the report rows.
const SheetName = "Generation Report"

// columns defines the header row (13 columns).
var columns = []string{
	"Plant",
	"Plant ID",
	"Year",
	"Month",
	"Current Generation (kWh)",
	"Cumulative Generation (kWh)",
	"Unit Value",
	"Total Value",
	"Tariff Difference",
	"Current Savings",
	"Cumulative Savings",
	"Current Environmental Savings",
	"Cumulative Environmental Savings",
}

// Write renders the rows as a workbook and writes it to w. Pending keys are
// emitted with their status marker in place of the numeric columns.
func Write(w io.Writer, rows []domain.ReportRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, col); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row cell: %w", err)
		}
		values := []interface{}{row.PlantName, row.PlantID, row.Year, row.Month}
		if row.Pending {
			values = append(values, row.Status)
		} else {
			values = append(values,
				row.CurrentGeneration,
				row.CumulativeGeneration,
				row.UnitValue,
				row.TotalValue,
				row.TariffDifference,
				row.CurrentSavings,
				row.CumulativeSavings,
				row.CurrentEnvironmentalSavings,
				row.CumulativeEnvironmentalSavings,
			)
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
