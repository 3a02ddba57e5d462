// =============================================================================
// Quarterly Sales Report - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - aggregation
//   - validation
//   - generator
//   - loader / csvparser
//   - reportwriter
//
// =============================================================================

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SALES RECORD
// =============================================================================

// SalesRecord is a single sales transaction. It is immutable once produced.
type SalesRecord struct {
	// Date is the day the order was sold.
	Date time.Time

	// Department is the department display name, e.g. "Footwear".
	Department string

	// ProductID is the full product identifier, e.g. "FOOT-512-M-BK-US2".
	ProductID string

	// Quantity is the number of units sold. Expected >= 0.
	Quantity int

	// UnitPrice is the selling price per unit. Expected > 0.
	UnitPrice decimal.Decimal

	// BaseCost is the cost per unit. Expected > 0 and below UnitPrice,
	// but neither is enforced here.
	BaseCost decimal.Decimal

	// VolumeDiscount is the derived volume-discount count (10% of the
	// quantity, rounded down, for generated data).
	VolumeDiscount int
}

// Month returns the calendar month (1..12) of the sale.
func (r SalesRecord) Month() int {
	return int(r.Date.Month())
}

// TotalSales is Quantity x UnitPrice.
func (r SalesRecord) TotalSales() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
}

// TotalCost is Quantity x BaseCost.
func (r SalesRecord) TotalCost() decimal.Decimal {
	return r.BaseCost.Mul(decimal.NewFromInt(int64(r.Quantity)))
}

// Profit is TotalSales - TotalCost.
func (r SalesRecord) Profit() decimal.Decimal {
	return r.TotalSales().Sub(r.TotalCost())
}

// =============================================================================
// TABULAR COLUMNS
// =============================================================================

// Column names used when records are read from or written to CSV and XLSX
// files. Matching is case-insensitive on input.
const (
	ColumnDate           = "date"
	ColumnDepartment     = "department"
	ColumnProductID      = "product_id"
	ColumnQuantity       = "quantity"
	ColumnUnitPrice      = "unit_price"
	ColumnBaseCost       = "base_cost"
	ColumnVolumeDiscount = "volume_discount"
)

// DateLayout is the date format of tabular input and output.
const DateLayout = "2006-01-02"

// Columns lists the tabular columns in output order.
var Columns = []string{
	ColumnDate,
	ColumnDepartment,
	ColumnProductID,
	ColumnQuantity,
	ColumnUnitPrice,
	ColumnBaseCost,
	ColumnVolumeDiscount,
}
