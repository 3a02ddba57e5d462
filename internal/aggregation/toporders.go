package aggregation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/quarterly-sales-report/internal/quarter"
	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
)

// RankedOrder is a single record selected by TopOrders.
type RankedOrder struct {
	// Index is the record's position in the slice passed to TopOrders.
	Index int

	Record           types.SalesRecord
	TotalSales       decimal.Decimal
	Profit           decimal.Decimal
	ProfitPercentage Percent
}

// TopOrders returns the n records of quarter q with the highest profit,
// highest first. Records with equal profit keep their input order. Records
// without a date belong to no quarter.
func TopOrders(records []types.SalesRecord, q quarter.Quarter, n int) []RankedOrder {
	ranked := make([]RankedOrder, 0)
	for i, r := range records {
		if r.Date.IsZero() || quarter.OfDate(r.Date) != q {
			continue
		}
		sales := r.TotalSales()
		profit := r.Profit()
		ranked = append(ranked, RankedOrder{
			Index:            i,
			Record:           r,
			TotalSales:       sales,
			Profit:           profit,
			ProfitPercentage: Ratio(profit, sales),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Profit.GreaterThan(ranked[j].Profit)
	})
	return limit(ranked, n)
}
