package loader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidValue  = errors.New("invalid value")
)

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	types.DateLayout,
	"1/2/2006",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// RecordFromRow maps one header -> value row to a SalesRecord.
//
// Header names are matched case-insensitively, and spaces or dashes count as
// underscores, so "Unit Price" matches unit_price. The volume_discount column
// is optional and defaults to a tenth of the quantity, rounded down.
//
// PARAMETERS:
//   - values: The row, keyed by header.
//   - rowNumber: The 1-based row number, used in error messages.
func RecordFromRow(values map[string]string, rowNumber int) (types.SalesRecord, error) {
	cols := normalizeKeys(values)

	get := func(name string) (string, error) {
		v, ok := cols[name]
		if !ok {
			return "", fmt.Errorf("row %d: %w: %s", rowNumber, ErrMissingColumn, name)
		}
		return v, nil
	}
	invalid := func(name, value string, err error) error {
		return fmt.Errorf("row %d: %w: %s %q: %v", rowNumber, ErrInvalidValue, name, value, err)
	}

	var (
		record types.SalesRecord
		raw    string
		err    error
	)

	if raw, err = get(types.ColumnDate); err != nil {
		return record, err
	}
	if record.Date, err = parseDate(raw); err != nil {
		return record, invalid(types.ColumnDate, raw, err)
	}

	if record.Department, err = get(types.ColumnDepartment); err != nil {
		return record, err
	}
	if record.ProductID, err = get(types.ColumnProductID); err != nil {
		return record, err
	}

	if raw, err = get(types.ColumnQuantity); err != nil {
		return record, err
	}
	if record.Quantity, err = strconv.Atoi(raw); err != nil {
		return record, invalid(types.ColumnQuantity, raw, err)
	}

	if raw, err = get(types.ColumnUnitPrice); err != nil {
		return record, err
	}
	if record.UnitPrice, err = parseAmount(raw); err != nil {
		return record, invalid(types.ColumnUnitPrice, raw, err)
	}

	if raw, err = get(types.ColumnBaseCost); err != nil {
		return record, err
	}
	if record.BaseCost, err = parseAmount(raw); err != nil {
		return record, invalid(types.ColumnBaseCost, raw, err)
	}

	record.VolumeDiscount = record.Quantity / 10
	if raw = cols[types.ColumnVolumeDiscount]; raw != "" {
		if record.VolumeDiscount, err = strconv.Atoi(raw); err != nil {
			return record, invalid(types.ColumnVolumeDiscount, raw, err)
		}
	}

	return record, nil
}

func normalizeKeys(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	replacer := strings.NewReplacer(" ", "_", "-", "_")
	for k, v := range values {
		out[replacer.Replace(strings.ToLower(strings.TrimSpace(k)))] = strings.TrimSpace(v)
	}
	return out
}

func parseDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseAmount accepts plain decimals and a leading currency symbol or
// thousands separators, e.g. "$1,250.50".
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimLeft(strings.ReplaceAll(raw, ",", ""), "$€£¥")
	return decimal.NewFromString(cleaned)
}
