// =============================================================================
// Quarterly Sales Report - Record Validation
// =============================================================================
//
// This module validates the inputs of a single accumulation step. A record
// that fails a check is skipped by that accumulator only; the run continues.
//
// VALIDATION STRATEGY:
//   Each accumulator has its own rule set, mirroring what it needs:
//   1. Department rollup: quarter set, department present and known,
//      non-negative sales
//   2. Product profit: product id present, quantity >= 0, price > 0,
//      cost > 0, quarter set
//
// ERROR HANDLING:
//   - Failures are returned as values, never printed
//   - Each error carries the accumulator, field, offending value and rule
//   - Each error wraps a sentinel so callers can use errors.Is
//   - The pipeline collects them into its skip list
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/quarterly-sales-report/internal/quarter"
	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
)

// Accumulator names.
const (
	AccumulatorDepartmentRollup = "department_rollup"
	AccumulatorProductProfit    = "product_profit"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	ErrEmptyQuarter      = errors.New("quarter cannot be empty")
	ErrEmptyDepartment   = errors.New("department cannot be empty")
	ErrUnknownDepartment = errors.New("invalid department name")
	ErrNegativeSales     = errors.New("total sales cannot be negative")
	ErrNegativeQuantity  = errors.New("quantity sold must not be negative")
	ErrNonPositivePrice  = errors.New("unit price must be greater than zero")
	ErrNonPositiveCost   = errors.New("base cost must be greater than zero")
	ErrEmptyProductID    = errors.New("product id cannot be empty")
)

// =============================================================================
// VALIDATION ERROR TYPE
// =============================================================================

// ValidationError is a recoverable, per-record accumulation failure.
type ValidationError struct {
	// Accumulator is the accumulator that rejected the record.
	Accumulator string

	// Field is the name of the field that failed validation.
	Field string

	// Value is the offending value, formatted for display.
	Value string

	// Rule is a short machine-readable rule name, e.g. "non_negative".
	Rule string

	// RecordIndex is the 0-based position of the record in the input.
	// -1 until the pipeline assigns it.
	RecordIndex int

	// Err is the sentinel describing the failure.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.RecordIndex >= 0 {
		return fmt.Sprintf("[%s] record %d, field '%s': %s (value: '%s')",
			e.Accumulator, e.RecordIndex, e.Field, e.Err, e.Value)
	}
	return fmt.Sprintf("[%s] field '%s': %s (value: '%s')",
		e.Accumulator, e.Field, e.Err, e.Value)
}

// Unwrap returns the sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newError(accumulator, field, value, rule string, err error) *ValidationError {
	return &ValidationError{
		Accumulator: accumulator,
		Field:       field,
		Value:       value,
		Rule:        rule,
		RecordIndex: -1,
		Err:         err,
	}
}

// =============================================================================
// RULE SETS
// =============================================================================

// CheckRollupInput validates one department rollup step.
//
// PARAMETERS:
//   - q: The quarter the record resolved to.
//   - department: The record's department name.
//   - totalSales: quantity x unit price for the record.
//   - known: Reports whether a department name is part of the grid.
//
// RETURNS:
//   - nil if the step may proceed, otherwise the first failed check.
func CheckRollupInput(q quarter.Quarter, department string, totalSales decimal.Decimal, known func(string) bool) *ValidationError {
	const acc = AccumulatorDepartmentRollup

	if !q.Valid() {
		return newError(acc, "quarter", strconv.Itoa(int(q)), "required", ErrEmptyQuarter)
	}
	if strings.TrimSpace(department) == "" {
		return newError(acc, "department", department, "required", ErrEmptyDepartment)
	}
	if totalSales.IsNegative() {
		return newError(acc, "total_sales", totalSales.String(), "non_negative", ErrNegativeSales)
	}
	if known != nil && !known(department) {
		return newError(acc, "department", department, "known_department", ErrUnknownDepartment)
	}

	return nil
}

// CheckProductInput validates one product profit step.
//
// PARAMETERS:
//   - record: The sales record being accumulated.
//   - q: The quarter the record resolved to.
//
// RETURNS:
//   - nil if the step may proceed, otherwise the first failed check.
func CheckProductInput(record types.SalesRecord, q quarter.Quarter) *ValidationError {
	const acc = AccumulatorProductProfit

	if strings.TrimSpace(record.ProductID) == "" {
		return newError(acc, "product_id", record.ProductID, "required", ErrEmptyProductID)
	}
	if record.Quantity < 0 {
		return newError(acc, "quantity", strconv.Itoa(record.Quantity), "non_negative", ErrNegativeQuantity)
	}
	if !record.UnitPrice.IsPositive() {
		return newError(acc, "unit_price", record.UnitPrice.String(), "positive", ErrNonPositivePrice)
	}
	if !record.BaseCost.IsPositive() {
		return newError(acc, "base_cost", record.BaseCost.String(), "positive", ErrNonPositiveCost)
	}
	if !q.Valid() {
		return newError(acc, "quarter", strconv.Itoa(int(q)), "required", ErrEmptyQuarter)
	}

	return nil
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats a list of validation errors, one per line.
func FormatErrors(errs []*ValidationError) string {
	if len(errs) == 0 {
		return "No validation errors."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Validation Errors (%d):\n", len(errs)))
	for _, err := range errs {
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}
