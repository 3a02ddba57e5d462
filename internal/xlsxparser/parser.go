// =============================================================================
// Quarterly Sales Report - XLSX Parser
// =============================================================================
//
// This module reads sales exports saved as Excel workbooks. A sheet is
// expected to hold one header row followed by one sales order per row, with
// the same columns as the CSV export:
//
//   | date       | department | product_id        | quantity | unit_price | base_cost | volume_discount |
//   |------------|------------|-------------------|----------|------------|-----------|-----------------|
//   | 2023-02-15 | Footwear   | FOOT-142-M-BK-US1 | 10       | 50.00      | 40.00     | 1               |
//
// Rows come back in the same header -> value shape as the CSV parser so the
// loader treats both formats alike.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/quarterly-sales-report/internal/csvparser"
	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
)

// DefaultSheet is the sheet name WriteRecords uses when none is given.
const DefaultSheet = "Sales"

var (
	ErrNoSheets      = errors.New("workbook has no sheets")
	ErrSheetNotFound = errors.New("sheet not found")
	ErrEmptySheet    = errors.New("sheet is empty")
)

// =============================================================================
// SHEET DATA STRUCTURE
// =============================================================================

// SheetData represents a parsed worksheet.
type SheetData struct {
	// SourceFile is the path to the workbook.
	SourceFile string

	// SheetName is the sheet that was read.
	SheetName string

	// Headers are the cleaned values of the first row.
	Headers []string

	// Rows contains the non-empty data rows. Row numbers are 1-based sheet
	// row numbers.
	Rows []csvparser.Row

	// RowCount is the number of data rows.
	RowCount int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a sheet of an XLSX workbook.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//   - sheet: The sheet to read. Empty selects the first sheet.
//
// RETURNS:
//   - A pointer to the SheetData struct.
//   - An error if the workbook or sheet cannot be read.
func Parse(path, sheet string) (*SheetData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	data, err := parseFile(f, sheet)
	if err != nil {
		return nil, err
	}
	data.SourceFile = path

	return data, nil
}

func parseFile(f *excelize.File, sheet string) (*SheetData, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, ErrNoSheets
		}
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySheet, sheet)
	}

	headers := cleanHeaders(rows[0])
	data := &SheetData{
		SheetName: sheet,
		Headers:   headers,
		Rows:      make([]csvparser.Row, 0, len(rows)-1),
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]

		// GetRows trims trailing empty cells, so an empty row is a nil slice.
		if isRowEmpty(row) {
			continue
		}

		values := make(map[string]string, len(headers))
		for col, header := range headers {
			if col < len(row) {
				values[header] = strings.TrimSpace(row[col])
			} else {
				values[header] = ""
			}
		}
		data.Rows = append(data.Rows, csvparser.Row{Number: i + 1, Values: values})
	}
	data.RowCount = len(data.Rows)

	return data, nil
}

// cleanHeaders trims header values and names empty ones by column letter.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			name, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				name = fmt.Sprint(i + 1)
			}
			header = "Column_" + name
		}
		cleaned[i] = header
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// WRITER
// =============================================================================

// WriteRecords saves records as a new workbook at path, one record per row
// under a header row. Amounts are written as numbers and dates as text in
// types.DateLayout.
func WriteRecords(path, sheet string, records []types.SalesRecord) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(types.Columns))
	for i, c := range types.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address record %d: %w", i, err)
		}
		row := []interface{}{
			r.Date.Format(types.DateLayout),
			r.Department,
			r.ProductID,
			r.Quantity,
			r.UnitPrice.InexactFloat64(),
			r.BaseCost.InexactFloat64(),
			r.VolumeDiscount,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}
