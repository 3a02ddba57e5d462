package aggregation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/quarterly-sales-report/internal/productid"
	"github.com/ginjaninja78/quarterly-sales-report/internal/quarter"
	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
	"github.com/ginjaninja78/quarterly-sales-report/internal/validation"
)

// ProductLineSummary is the running total of one product line in a quarter.
type ProductLineSummary struct {
	// Key is the product-line key, e.g. "MENS-142-ss-cc-mmm".
	Key string

	UnitsSold  int
	TotalSales decimal.Decimal

	// UnitCost is the weighted average base cost over every accumulated
	// order: total cost / units sold.
	UnitCost decimal.Decimal

	// AverageUnitPrice is total sales / units sold.
	AverageUnitPrice decimal.Decimal

	TotalProfit      decimal.Decimal
	ProfitPercentage Percent
}

type lineSet struct {
	order []string
	rows  map[string]*ProductLineSummary
}

// ProductLines accumulates per-quarter product-line totals.
type ProductLines struct {
	codec     *productid.Codec
	byQuarter [quarter.Count]*lineSet
}

// NewProductLines creates an empty accumulator.
func NewProductLines(codec *productid.Codec) *ProductLines {
	return &ProductLines{codec: codec}
}

// Accumulate folds one record into its quarter's product line.
//
// A *validation.ValidationError means the record was skipped and nothing
// changed. productid.ErrMalformedIdentifier is returned unwrapped from the
// codec and is not recoverable.
func (p *ProductLines) Accumulate(record types.SalesRecord, q quarter.Quarter) error {
	if verr := validation.CheckProductInput(record, q); verr != nil {
		return verr
	}

	key, err := p.codec.ProfitLineKey(record.ProductID)
	if err != nil {
		return err
	}

	qi, err := q.Index()
	if err != nil {
		return err
	}
	set := p.byQuarter[qi]
	if set == nil {
		set = &lineSet{rows: make(map[string]*ProductLineSummary)}
		p.byQuarter[qi] = set
	}

	totalSales := record.TotalSales()
	profit := record.Profit()

	row, ok := set.rows[key]
	if !ok {
		set.rows[key] = &ProductLineSummary{
			Key:              key,
			UnitsSold:        record.Quantity,
			TotalSales:       totalSales,
			UnitCost:         record.BaseCost,
			AverageUnitPrice: record.UnitPrice,
			TotalProfit:      profit,
			ProfitPercentage: Ratio(profit, totalSales),
		}
		set.order = append(set.order, key)
		return nil
	}

	row.UnitsSold += record.Quantity
	row.TotalSales = row.TotalSales.Add(totalSales)
	row.TotalProfit = row.TotalProfit.Add(profit)
	if row.UnitsSold > 0 {
		units := decimal.NewFromInt(int64(row.UnitsSold))
		row.UnitCost = row.TotalSales.Sub(row.TotalProfit).Div(units)
		row.AverageUnitPrice = row.TotalSales.Div(units)
	}
	row.ProfitPercentage = Ratio(row.TotalProfit, row.TotalSales)

	return nil
}

// Lines returns the quarter's product lines in first-seen order.
func (p *ProductLines) Lines(q quarter.Quarter) []ProductLineSummary {
	qi, err := q.Index()
	if err != nil || p.byQuarter[qi] == nil {
		return []ProductLineSummary{}
	}

	set := p.byQuarter[qi]
	lines := make([]ProductLineSummary, 0, len(set.order))
	for _, key := range set.order {
		lines = append(lines, *set.rows[key])
	}
	return lines
}

// Line returns a single product line.
func (p *ProductLines) Line(q quarter.Quarter, key string) (ProductLineSummary, bool) {
	qi, err := q.Index()
	if err != nil || p.byQuarter[qi] == nil {
		return ProductLineSummary{}, false
	}
	row, ok := p.byQuarter[qi].rows[key]
	if !ok {
		return ProductLineSummary{}, false
	}
	return *row, true
}

// Top returns the n product lines with the greatest cumulative profit,
// highest first. Ties keep first-seen order.
func (p *ProductLines) Top(q quarter.Quarter, n int) []ProductLineSummary {
	lines := p.Lines(q)
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].TotalProfit.GreaterThan(lines[j].TotalProfit)
	})
	return limit(lines, n)
}

func limit[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n < len(items) {
		return items[:n]
	}
	return items
}
