package core

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Sheet1"

// WriteCSV writes a search result as CSV with a header row.
// Null cells are written as empty fields.
func WriteCSV(w io.Writer, res *SearchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(res.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range res.Rows {
		if err := cw.Write(row.Values()); err != nil {
			return fmt.Errorf("write csv row %d: %w", row.Line, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a search result as an Excel workbook with a bold header
// row. Null cells are left blank.
func WriteXLSX(w io.Writer, res *SearchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(res.Columns))
	for i, col := range res.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(max(len(res.Columns), 1), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", last, bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, row := range res.Rows {
		values := make([]interface{}, len(row.Cells))
		for j, c := range row.Cells {
			if !c.Null {
				values[j] = c.Value
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", row.Line, err)
		}
	}

	return f.Write(w)
}
