// =============================================================================
// Quarterly Sales Report - Department Rollup
// =============================================================================
//
// DepartmentGrid is the dense quarter x department table of sales, profit and
// profit percentage. It has exactly 4 x departmentCount cells, laid out
// quarter-major:
//
//   cells[quarterIndex*departmentCount + departmentIndex]
//
// Every cell is stamped with its quarter and department by Initialize, so
// departments without sales still appear with zero totals.
//
// =============================================================================

package aggregation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/quarterly-sales-report/internal/quarter"
	"github.com/ginjaninja78/quarterly-sales-report/internal/validation"
)

// ErrGridNotInitialized is returned when accumulating into a grid before
// Initialize has run.
var ErrGridNotInitialized = errors.New("department grid not initialized")

// DepartmentSummary is one (quarter, department) cell.
type DepartmentSummary struct {
	Quarter          quarter.Quarter
	Department       string
	Sales            decimal.Decimal
	Profit           decimal.Decimal
	ProfitPercentage Percent
}

// QuarterTotals is the column total of a quarter's department rows.
type QuarterTotals struct {
	Quarter          quarter.Quarter
	Sales            decimal.Decimal
	Profit           decimal.Decimal
	ProfitPercentage Percent
}

// DepartmentGrid accumulates sales and profit per quarter and department.
type DepartmentGrid struct {
	departments []string
	index       map[string]int
	cells       []DepartmentSummary
	initialized bool
}

// NewDepartmentGrid creates a grid for the given departments, in order.
// Initialize must be called before the first Accumulate.
func NewDepartmentGrid(departments []string) *DepartmentGrid {
	index := make(map[string]int, len(departments))
	for i, d := range departments {
		index[d] = i
	}
	return &DepartmentGrid{
		departments: append([]string(nil), departments...),
		index:       index,
	}
}

// Initialize (re)creates every cell with zero totals.
func (g *DepartmentGrid) Initialize() {
	g.cells = make([]DepartmentSummary, 0, quarter.Count*len(g.departments))
	for _, q := range quarter.All() {
		for _, d := range g.departments {
			g.cells = append(g.cells, DepartmentSummary{
				Quarter:    q,
				Department: d,
				Sales:      decimal.Zero,
				Profit:     decimal.Zero,
			})
		}
	}
	g.initialized = true
}

// Len returns the number of cells.
func (g *DepartmentGrid) Len() int {
	return len(g.cells)
}

// Departments returns the department names in grid order.
func (g *DepartmentGrid) Departments() []string {
	return append([]string(nil), g.departments...)
}

// Known reports whether department is part of the grid.
func (g *DepartmentGrid) Known(department string) bool {
	_, ok := g.index[department]
	return ok
}

// position returns the cell index for (q, department).
func (g *DepartmentGrid) position(q quarter.Quarter, department string) (int, bool) {
	qi, err := q.Index()
	if err != nil {
		return 0, false
	}
	di, ok := g.index[department]
	if !ok {
		return 0, false
	}
	pos := qi*len(g.departments) + di
	if pos < 0 || pos >= len(g.cells) {
		return 0, false
	}
	return pos, true
}

// Accumulate adds one record's sales and profit to its cell and recomputes
// the cell's profit percentage.
//
// PARAMETERS:
//   - q: The quarter of the record.
//   - department: The department name.
//   - totalSales: quantity x unit price.
//   - profit: totalSales - quantity x base cost.
//
// RETURNS:
//   - nil on success.
//   - A *validation.ValidationError when the record is rejected; the grid
//     is unchanged.
//   - ErrGridNotInitialized if Initialize has not run.
func (g *DepartmentGrid) Accumulate(q quarter.Quarter, department string, totalSales, profit decimal.Decimal) error {
	if !g.initialized {
		return ErrGridNotInitialized
	}
	if verr := validation.CheckRollupInput(q, department, totalSales, g.Known); verr != nil {
		return verr
	}

	pos, ok := g.position(q, department)
	if !ok {
		return fmt.Errorf("no cell for %s / %q", q, department)
	}

	cell := &g.cells[pos]
	cell.Sales = cell.Sales.Add(totalSales)
	cell.Profit = cell.Profit.Add(profit)
	cell.ProfitPercentage = Ratio(cell.Profit, cell.Sales)

	return nil
}

// Cell returns the cell for (q, department).
func (g *DepartmentGrid) Cell(q quarter.Quarter, department string) (DepartmentSummary, bool) {
	pos, ok := g.position(q, department)
	if !ok {
		return DepartmentSummary{}, false
	}
	return g.cells[pos], true
}

// All returns a copy of every cell in grid order.
func (g *DepartmentGrid) All() []DepartmentSummary {
	return append([]DepartmentSummary(nil), g.cells...)
}

// Rows returns the quarter's cells ordered by department name.
func (g *DepartmentGrid) Rows(q quarter.Quarter) []DepartmentSummary {
	qi, err := q.Index()
	if err != nil || !g.initialized {
		return nil
	}

	n := len(g.departments)
	rows := append([]DepartmentSummary(nil), g.cells[qi*n:(qi+1)*n]...)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Department < rows[j].Department
	})
	return rows
}

// Totals sums the quarter's cells and recomputes the aggregate percentage.
func (g *DepartmentGrid) Totals(q quarter.Quarter) QuarterTotals {
	totals := QuarterTotals{Quarter: q, Sales: decimal.Zero, Profit: decimal.Zero}
	for _, row := range g.Rows(q) {
		totals.Sales = totals.Sales.Add(row.Sales)
		totals.Profit = totals.Profit.Add(row.Profit)
	}
	totals.ProfitPercentage = Ratio(totals.Profit, totals.Sales)
	return totals
}
