// =============================================================================
// Quarterly Sales Report - CSV Parser Module
// =============================================================================
//
// This module reads sales exports in CSV form and writes generated records
// back out in the same form. It handles:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - Multi-line headers
//   - Custom data start rows
//   - Blank rows, which are skipped
//
// Each data row keeps its 1-based record number in the file so that the
// loader can point at the offending row when a value does not parse. Fully
// empty lines are not counted; encoding/csv drops them before we see them.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/quarterly-sales-report/internal/config"
	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
)

// ErrEmptyFile is returned when a file has no rows at all.
var ErrEmptyFile = errors.New("CSV file is empty")

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// Row is a single data row keyed by header.
type Row struct {
	// Number is the 1-based row number in the source file.
	Number int

	// Values maps header -> trimmed cell value.
	Values map[string]string
}

// CSVData represents a parsed CSV file.
type CSVData struct {
	// Headers contains the column headers from the CSV file.
	// For multi-line headers, these are the merged headers.
	Headers []string

	// Rows contains the non-empty data rows in file order.
	Rows []Row

	// SourceFile is the path to the source CSV file.
	SourceFile string

	// RowCount is the number of data rows (excluding headers and blanks).
	RowCount int

	// ColumnCount is the number of columns in the CSV.
	ColumnCount int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed data.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings from the configuration.
//
// RETURNS:
//   - A pointer to the CSVData struct containing the parsed data.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.CSVSettings) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := ParseReader(bufio.NewReader(file), settings)
	if err != nil {
		return nil, err
	}
	data.SourceFile = filePath

	return data, nil
}

// ParseReader parses CSV content from r.
//
// PARSING PROCESS:
//   1. Configure the CSV reader with the specified delimiter
//   2. Read and merge header rows (for multi-line headers)
//   3. Read data rows starting from the configured data start row
//   4. Convert each row to a map of header -> value
func ParseReader(r io.Reader, settings config.CSVSettings) (*CSVData, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, ErrEmptyFile
	}

	headers, err := extractHeaders(allRows, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to extract headers: %w", err)
	}

	dataRows := extractDataRows(allRows, headers, settings)

	return &CSVData{
		Headers:     headers,
		Rows:        dataRows,
		RowCount:    len(dataRows),
		ColumnCount: len(headers),
	}, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	reader.Comma = delimiter(settings.Delimiter)

	// Allow variable number of fields per row; missing cells read as "".
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// delimiter maps the configured delimiter to a rune, accepting the common
// names for tab, pipe and semicolon.
func delimiter(setting string) rune {
	switch setting {
	case "\\t", "\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon":
		return ';'
	default:
		if len(setting) > 0 {
			return rune(setting[0])
		}
		return ','
	}
}

// extractHeaders extracts and merges headers from the CSV.
//
// MULTI-LINE HEADER HANDLING:
//   Non-empty values of each column across the header rows are joined with
//   a space.
//
//   Example:
//   Row 1: "Unit", "", "Base"
//   Row 2: "Price", "Quantity", "Cost"
//   Result: "Unit Price", "Quantity", "Base Cost"
func extractHeaders(allRows [][]string, settings config.CSVSettings) ([]string, error) {
	if settings.HeaderRows <= 0 {
		return nil, fmt.Errorf("header_rows must be at least 1")
	}

	if len(allRows) < settings.HeaderRows {
		return nil, fmt.Errorf("file has fewer rows than header_rows setting")
	}

	if settings.HeaderRows == 1 {
		return cleanHeaders(allRows[0]), nil
	}

	maxCols := 0
	for i := 0; i < settings.HeaderRows; i++ {
		if len(allRows[i]) > maxCols {
			maxCols = len(allRows[i])
		}
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string

		for row := 0; row < settings.HeaderRows; row++ {
			if col < len(allRows[row]) {
				value := strings.TrimSpace(allRows[row][col])
				if value != "" {
					parts = append(parts, value)
				}
			}
		}

		headers[col] = strings.Join(parts, " ")
	}

	return cleanHeaders(headers), nil
}

// cleanHeaders trims header values and names empty ones by column position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// extractDataRows converts the data rows to maps, skipping blank rows.
func extractDataRows(allRows [][]string, headers []string, settings config.CSVSettings) []Row {
	// DataStartRow is 1-indexed.
	startIndex := settings.DataStartRow - 1
	if startIndex < settings.HeaderRows {
		startIndex = settings.HeaderRows
	}

	if startIndex >= len(allRows) {
		return []Row{}
	}

	dataRows := make([]Row, 0, len(allRows)-startIndex)

	for rowIndex := startIndex; rowIndex < len(allRows); rowIndex++ {
		row := allRows[rowIndex]

		if isRowEmpty(row) {
			continue
		}

		values := make(map[string]string, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				values[header] = strings.TrimSpace(row[colIndex])
			} else {
				values[header] = ""
			}
		}

		dataRows = append(dataRows, Row{Number: rowIndex + 1, Values: values})
	}

	return dataRows
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

// WriteRecords writes records as CSV with a single header row, in the column
// layout Parse and the loader read back.
//
// PARAMETERS:
//   - w: The destination.
//   - records: The records to write.
//   - settings: Only the delimiter is used.
func WriteRecords(w io.Writer, records []types.SalesRecord, settings config.CSVSettings) error {
	writer := csv.NewWriter(w)
	writer.Comma = delimiter(settings.Delimiter)

	if err := writer.Write(types.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, r := range records {
		row := []string{
			r.Date.Format(types.DateLayout),
			r.Department,
			r.ProductID,
			strconv.Itoa(r.Quantity),
			r.UnitPrice.StringFixed(2),
			r.BaseCost.StringFixed(2),
			strconv.Itoa(r.VolumeDiscount),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}
