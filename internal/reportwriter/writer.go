// =============================================================================
// Quarterly Sales Report - Report Writer
// =============================================================================
//
// This module renders an aggregation result as a plain-text report. For each
// quarter present in the data it prints three tables:
//
//   Q1 Sales by Department:
//   ┌───────────────────────┬───────────────────┬───────────────────┬───────────────────┐
//   │ Department            │ Sales             │ Profit            │ Profit Percentage │
//   ├───────────────────────┼───────────────────┼───────────────────┼───────────────────┤
//   │ Accessories           │       $120,400.10 │        $18,211.00 │            15.13% │
//   ├───────────────────────┼───────────────────┼───────────────────┼───────────────────┤
//   │ Total                 │       $120,400.10 │        $18,211.00 │            15.13% │
//   └───────────────────────┴───────────────────┴───────────────────┴───────────────────┘
//
//   Q1 Top 3 Sales Orders:            (one row per order)
//   Q1 Top Profit for Product Numbers: (one row per product line)
//
// followed by a list of skipped records when any accumulator rejected one.
//
// FORMATTING:
//   - Amounts use the configured currency's symbol, grouping and decimals
//   - Percentages have two decimals; undefined ones print as "n/a"
//
// =============================================================================

package reportwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/quarterly-sales-report/internal/aggregation"
)

// =============================================================================
// WRITER OPTIONS
// =============================================================================

// Options contains options for report rendering.
type Options struct {
	// Currency is the ISO 4217 code used to format amounts.
	// Default: "USD"
	Currency string

	// RunID is printed in the report header when set.
	RunID string

	// Source describes where the records came from, e.g. a directory or
	// "generated (seed 42)". Printed in the header when set.
	Source string
}

// Writer renders reports to an io.Writer.
type Writer struct {
	out      io.Writer
	options  Options
	currency *money.Currency

	// err is the first write error; later writes are skipped.
	err error
}

// New creates a Writer.
//
// RETURNS:
//   - An error if the currency code is unknown.
func New(out io.Writer, options Options) (*Writer, error) {
	if options.Currency == "" {
		options.Currency = money.USD
	}
	cur := money.GetCurrency(strings.ToUpper(options.Currency))
	if cur == nil {
		return nil, fmt.Errorf("unknown currency code %q", options.Currency)
	}

	return &Writer{out: out, options: options, currency: cur}, nil
}

// =============================================================================
// REPORT
// =============================================================================

// WriteReport writes the full report for result.
func (w *Writer) WriteReport(result *aggregation.Result) error {
	w.writeHeader(result)

	quarters := result.Quarters()
	if len(quarters) == 0 {
		w.printf("No sales records.\n\n")
	}

	for _, q := range quarters {
		report := result.Quarter(q)
		w.WriteDepartments(report)
		w.WriteTopOrders(report, result.TopN())
		w.WriteTopProductLines(report)
	}

	if result.SkippedCount() > 0 {
		w.WriteSkipped(result)
	}

	return w.err
}

func (w *Writer) writeHeader(result *aggregation.Result) {
	w.printf("Quarterly Sales Report\n")
	if w.options.RunID != "" {
		w.printf("Run:       %s\n", w.options.RunID)
	}
	if w.options.Source != "" {
		w.printf("Source:    %s\n", w.options.Source)
	}
	w.printf("Records:   %d (%d skipped)\n", result.Processed, result.SkippedCount())
	w.printf("Currency:  %s\n\n", w.currency.Code)
}

// WriteDepartments writes the per-department table of one quarter, with a
// Total row.
func (w *Writer) WriteDepartments(report aggregation.QuarterReport) {
	rows := make([][]string, 0, len(report.Departments))
	for _, d := range report.Departments {
		rows = append(rows, []string{
			d.Department,
			w.Money(d.Sales),
			w.Money(d.Profit),
			Percent(d.ProfitPercentage),
		})
	}

	t := table{
		headers: []string{"Department", "Sales", "Profit", "Profit Percentage"},
		rows:    rows,
		footer: []string{
			"Total",
			w.Money(report.Totals.Sales),
			w.Money(report.Totals.Profit),
			Percent(report.Totals.ProfitPercentage),
		},
	}

	w.printf("%s Sales by Department:\n", report.Quarter)
	w.render(t)
}

// WriteTopOrders writes the most profitable orders of one quarter.
func (w *Writer) WriteTopOrders(report aggregation.QuarterReport, n int) {
	rows := make([][]string, 0, len(report.TopOrders))
	for _, o := range report.TopOrders {
		rows = append(rows, []string{
			o.Record.ProductID,
			strconv.Itoa(o.Record.Quantity),
			w.Money(o.Record.UnitPrice),
			w.Money(o.TotalSales),
			w.Money(o.Profit),
			Percent(o.ProfitPercentage),
		})
	}

	t := table{
		headers: []string{"Product ID", "Quantity Sold", "Unit Price", "Total Sales", "Profit", "Profit Percentage"},
		rows:    rows,
	}

	w.printf("%s Top %d Sales Orders:\n", report.Quarter, n)
	w.render(t)
}

// WriteTopProductLines writes the most profitable product lines of one
// quarter.
func (w *Writer) WriteTopProductLines(report aggregation.QuarterReport) {
	rows := make([][]string, 0, len(report.TopProductLines))
	for _, p := range report.TopProductLines {
		rows = append(rows, []string{
			p.Key,
			strconv.Itoa(p.UnitsSold),
			w.Money(p.TotalSales),
			w.Money(p.UnitCost),
			w.Money(p.TotalProfit),
			Percent(p.ProfitPercentage),
		})
	}

	t := table{
		headers: []string{"Product Serial No", "Units Sold", "Total Sales", "Unit Cost", "Total Profit", "Profit Percentage"},
		rows:    rows,
	}

	w.printf("%s Top Profit for Product Numbers:\n", report.Quarter)
	w.render(t)
}

// WriteSkipped lists every rejection, one row per accumulator failure.
func (w *Writer) WriteSkipped(result *aggregation.Result) {
	failures := result.Failures()
	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		rows = append(rows, []string{
			strconv.Itoa(f.RecordIndex),
			f.Accumulator,
			f.Field,
			f.Value,
			f.Err.Error(),
		})
	}

	t := table{
		headers:   []string{"Record", "Accumulator", "Field", "Value", "Reason"},
		rows:      rows,
		leftAlign: map[int]bool{1: true, 2: true, 3: true, 4: true},
	}

	w.printf("Skipped Records (%d):\n", result.SkippedCount())
	w.render(t)
}

// =============================================================================
// FORMATTING
// =============================================================================

// Money formats an amount in the writer's currency, rounded to the
// currency's minor unit.
func (w *Writer) Money(amount decimal.Decimal) string {
	minor := amount.Shift(int32(w.currency.Fraction)).Round(0).IntPart()
	return w.currency.Formatter().Format(minor)
}

// Percent formats a percentage with two decimals, or "n/a" when undefined.
func Percent(p aggregation.Percent) string {
	if !p.Defined() {
		return p.String()
	}
	return p.String() + "%"
}

func (w *Writer) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, args...)
}

// =============================================================================
// BOX TABLES
// =============================================================================

// Minimum column widths, matching the classic console layout.
const (
	minFirstColumnWidth = 22
	minColumnWidth      = 17
)

// table is a box-drawn table. The first column is left aligned, all others
// right aligned unless listed in leftAlign.
type table struct {
	headers   []string
	rows      [][]string
	footer    []string
	leftAlign map[int]bool
}

func (t table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = minColumnWidth
		if i == 0 {
			widths[i] = minFirstColumnWidth
		}
		widths[i] = max(widths[i], utf8.RuneCountInString(h))
	}

	all := append([][]string{}, t.rows...)
	if t.footer != nil {
		all = append(all, t.footer)
	}
	for _, row := range all {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}
	return widths
}

func (w *Writer) render(t table) {
	widths := t.widths()

	w.printf("%s\n", border(widths, "┌", "┬", "┐"))
	w.printf("%s\n", t.line(widths, t.headers, true))
	w.printf("%s\n", border(widths, "├", "┼", "┤"))
	for _, row := range t.rows {
		w.printf("%s\n", t.line(widths, row, false))
	}
	if t.footer != nil {
		w.printf("%s\n", border(widths, "├", "┼", "┤"))
		w.printf("%s\n", t.line(widths, t.footer, false))
	}
	w.printf("%s\n\n", border(widths, "└", "┴", "┘"))
}

func border(widths []int, left, mid, right string) string {
	var sb strings.Builder
	sb.WriteString(left)
	for i, width := range widths {
		if i > 0 {
			sb.WriteString(mid)
		}
		sb.WriteString(strings.Repeat("─", width+2))
	}
	sb.WriteString(right)
	return sb.String()
}

func (t table) line(widths []int, cells []string, header bool) string {
	var sb strings.Builder
	sb.WriteString("│")
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(cell))

		sb.WriteString(" ")
		if header || i == 0 || t.leftAlign[i] {
			sb.WriteString(cell + pad)
		} else {
			sb.WriteString(pad + cell)
		}
		sb.WriteString(" │")
	}
	return sb.String()
}
