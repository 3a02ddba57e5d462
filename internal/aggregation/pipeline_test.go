package aggregation

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ginjaninja78/quarterly-sales-report/internal/productid"
	"github.com/ginjaninja78/quarterly-sales-report/internal/quarter"
	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
	"github.com/ginjaninja78/quarterly-sales-report/internal/validation"
)

type countingObserver struct {
	processed int
	skipped   map[string]int
}

func (o *countingObserver) RecordProcessed() { o.processed++ }

func (o *countingObserver) RecordSkipped(accumulator, rule string) {
	if o.skipped == nil {
		o.skipped = make(map[string]int)
	}
	o.skipped[accumulator+"/"+rule]++
}

func TestPipeline_SingleRecordScenario(t *testing.T) {
	p := NewPipeline(testCodec())

	result, err := p.Run([]types.SalesRecord{
		record(2, "Footwear", "FOOT-142-M-BK-US1", 10, "50", "40"),
	})
	require.NoError(t, err)

	assert.Equal(t, []quarter.Quarter{quarter.Q1}, result.Quarters())
	assert.Equal(t, 1, result.Processed)
	assert.Zero(t, result.SkippedCount())

	report := result.Quarter(quarter.Q1)

	cell, ok := result.Departments.Cell(quarter.Q1, "Footwear")
	require.True(t, ok)
	assert.True(t, d("500").Equal(cell.Sales))
	assert.True(t, d("100").Equal(cell.Profit))
	assert.True(t, d("20").Equal(cell.ProfitPercentage.Decimal))

	require.Len(t, report.TopOrders, 1)
	assert.True(t, d("500").Equal(report.TopOrders[0].TotalSales))
	assert.True(t, d("100").Equal(report.TopOrders[0].Profit))
	assert.Equal(t, "20.00", report.TopOrders[0].ProfitPercentage.String())

	require.Len(t, report.TopProductLines, 1)
	assert.Equal(t, "FOOT-142-ss-cc-mmm", report.TopProductLines[0].Key)

	assert.True(t, d("500").Equal(report.Totals.Sales))
	assert.Len(t, report.Departments, 3)
}

func TestPipeline_NegativeQuantityIsSkipped(t *testing.T) {
	obs := &countingObserver{}
	p := NewPipeline(testCodec(), WithObserver(obs))

	good := record(2, "Footwear", "FOOT-142-M-BK-US1", 10, "50", "40")
	bad := record(2, "Footwear", "FOOT-142-M-BK-US1", -1, "50", "40")

	baseline, err := p.Run([]types.SalesRecord{good})
	require.NoError(t, err)

	result, err := p.Run([]types.SalesRecord{good, bad})
	require.NoError(t, err)

	assert.Equal(t, 1, result.SkippedCount())
	assert.Equal(t, 1, result.Skipped[0].Index)
	assert.Equal(t, 2, result.Processed)

	assert.Equal(t, baseline.Departments.All(), result.Departments.All(), "department rows unchanged")
	assert.Equal(t, baseline.ProductLines.Lines(quarter.Q1), result.ProductLines.Lines(quarter.Q1), "product lines unchanged")

	failures := result.Skipped[0].Failures
	require.Len(t, failures, 2)
	assert.ErrorIs(t, failures[0], validation.ErrNegativeSales)
	assert.ErrorIs(t, failures[1], validation.ErrNegativeQuantity)
	assert.Equal(t, 1, failures[0].RecordIndex)
	assert.Len(t, result.Failures(), 2)

	assert.Equal(t, 3, obs.processed)
	assert.Equal(t, 1, obs.skipped["department_rollup/non_negative"])
	assert.Equal(t, 1, obs.skipped["product_profit/non_negative"])

	top := result.Quarter(quarter.Q1).TopOrders
	require.Len(t, top, 1, "records both accumulators rejected are not ranked")
	assert.Equal(t, 0, top[0].Index)
}

func TestPipeline_UnknownDepartmentStillCountsProductLine(t *testing.T) {
	p := NewPipeline(testCodec())

	result, err := p.Run([]types.SalesRecord{
		record(6, "Garden", "FOOT-142-M-BK-US1", 2, "50", "40"),
	})
	require.NoError(t, err)

	require.Equal(t, 1, result.SkippedCount())
	require.Len(t, result.Skipped[0].Failures, 1)
	assert.ErrorIs(t, result.Skipped[0].Failures[0], validation.ErrUnknownDepartment)

	assert.True(t, result.Departments.Totals(quarter.Q2).Sales.IsZero())
	assert.Len(t, result.ProductLines.Lines(quarter.Q2), 1)
}

func TestPipeline_TopOrdersIncludeOneSidedRejections(t *testing.T) {
	p := NewPipeline(testCodec())

	result, err := p.Run([]types.SalesRecord{
		record(1, "Footwear", "FOOT-101-S-BK-US1", 1, "20", "10"),
		record(2, "Garden", "FOOT-102-S-BK-US1", 100, "50", "10"),
		record(3, "Accessories", "ACCS-201-M-RD-UK1", 10, "30", "0"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.SkippedCount())

	report := result.Quarter(quarter.Q1)
	require.NotEmpty(t, report.TopProductLines)
	assert.Equal(t, "FOOT-102-ss-cc-mmm", report.TopProductLines[0].Key)

	// The unknown department only fails the rollup and the zero cost only
	// fails the product lines; both orders were counted somewhere.
	require.Len(t, report.TopOrders, 3)
	assert.Equal(t, 1, report.TopOrders[0].Index)
	assert.True(t, d("4000").Equal(report.TopOrders[0].Profit))
	assert.Equal(t, 2, report.TopOrders[1].Index)
	assert.Equal(t, 0, report.TopOrders[2].Index)

	assert.True(t, d("320").Equal(report.Totals.Sales), "zero-cost order still counts in the grid")
}

func TestPipeline_ZeroDateIsSkipped(t *testing.T) {
	undated := record(1, "Footwear", "FOOT-101-S-BK-US1", 2, "20", "10")
	undated.Date = time.Time{}

	result, err := NewPipeline(testCodec()).Run([]types.SalesRecord{undated})
	require.NoError(t, err)

	assert.Empty(t, result.Quarters(), "an undated record belongs to no quarter")
	assert.Equal(t, 1, result.Processed)
	require.Equal(t, 1, result.SkippedCount())

	failures := result.Skipped[0].Failures
	require.Len(t, failures, 2)
	for _, f := range failures {
		assert.ErrorIs(t, f, validation.ErrEmptyQuarter)
	}
	assert.Empty(t, result.ProductLines.Lines(quarter.Q1))
	assert.True(t, result.Departments.Totals(quarter.Q1).Sales.IsZero())
	assert.Empty(t, TopOrders([]types.SalesRecord{undated}, quarter.Q1, 3))
}

func TestPipeline_FatalErrors(t *testing.T) {
	p := NewPipeline(testCodec())

	_, err := p.Run([]types.SalesRecord{
		record(1, "Footwear", "FOOT-142-M-BK-US1", 1, "50", "40"),
		record(1, "Footwear", "FOOT-142", 1, "50", "40"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, productid.ErrMalformedIdentifier)
	assert.Contains(t, err.Error(), "record 1")
}

func TestPipeline_TotalsReconcile(t *testing.T) {
	cat := testCatalog()
	codec := productid.NewCodec(cat)
	rng := rand.New(rand.NewSource(42))

	records := make([]types.SalesRecord, 0, 2000)
	for i := 0; i < 2000; i++ {
		dept := cat.Departments[rng.Intn(len(cat.Departments))]
		pid, err := codec.Encode(dept.Name, rng.Intn(5), cat.Sizes[rng.Intn(len(cat.Sizes))],
			cat.Colors[rng.Intn(len(cat.Colors))], cat.Sites[rng.Intn(len(cat.Sites))])
		require.NoError(t, err)

		price := fmt.Sprintf("%d.%02d", 25+rng.Intn(275), rng.Intn(100))
		cost := d(price).Mul(decimal.NewFromInt(int64(80 + rng.Intn(16)))).Div(decimal.NewFromInt(100)).Round(2)
		records = append(records, record(1+rng.Intn(12), dept.Name, pid, 1+rng.Intn(100), price, cost.String()))
	}

	result, err := NewPipeline(codec).Run(records)
	require.NoError(t, err)
	require.Zero(t, result.SkippedCount())
	require.Len(t, result.Quarters(), 4)

	for _, q := range quarter.All() {
		want := decimal.Zero
		wantProfit := decimal.Zero
		for _, r := range records {
			if quarter.OfDate(r.Date) == q {
				want = want.Add(r.TotalSales())
				wantProfit = wantProfit.Add(r.Profit())
			}
		}

		report := result.Quarter(q)
		got := decimal.Zero
		for _, row := range report.Departments {
			got = got.Add(row.Sales)

			require.True(t, row.ProfitPercentage.Defined())
			assert.True(t, Ratio(row.Profit, row.Sales).Decimal.Equal(row.ProfitPercentage.Decimal))
		}
		assert.True(t, want.Equal(got), "%s: want %s got %s", q, want, got)
		assert.True(t, want.Equal(report.Totals.Sales))
		assert.True(t, wantProfit.Equal(report.Totals.Profit))

		lineSales := decimal.Zero
		for _, line := range result.ProductLines.Lines(q) {
			lineSales = lineSales.Add(line.TotalSales)
		}
		assert.True(t, want.Equal(lineSales), "product lines reconcile for %s", q)

		assert.Len(t, report.TopOrders, DefaultTopN)
		assert.Len(t, report.TopProductLines, DefaultTopN)
		for i := 1; i < len(report.TopOrders); i++ {
			assert.True(t, report.TopOrders[i-1].Profit.GreaterThanOrEqual(report.TopOrders[i].Profit))
		}
	}
}

func TestPipeline_Deterministic(t *testing.T) {
	records := []types.SalesRecord{
		record(1, "Footwear", "FOOT-101-S-BK-US1", 3, "20", "10"),
		record(5, "Accessories", "ACCS-201-M-RD-UK1", 4, "25", "15"),
		record(9, "Outerwear", "OUTR-301-L-BK-US1", 5, "30", "21"),
		record(12, "Footwear", "FOOT-101-M-RD-UK1", 6, "20", "12"),
	}

	p := NewPipeline(testCodec(), WithTopN(2))
	a, err := p.Run(records)
	require.NoError(t, err)
	b, err := p.Run(records)
	require.NoError(t, err)

	for _, q := range quarter.All() {
		assert.Equal(t, a.Quarter(q), b.Quarter(q))
	}
	assert.Equal(t, []quarter.Quarter{quarter.Q1, quarter.Q2, quarter.Q3, quarter.Q4}, a.Quarters())
}

func TestPipeline_LogsSkippedRecords(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewPipeline(testCodec(), WithLogger(zap.New(core)))

	_, err := p.Run([]types.SalesRecord{
		record(3, "Footwear", "FOOT-101-S-BK-US1", 1, "0", "10"),
	})
	require.NoError(t, err)

	skipped := logs.FilterMessage("record skipped").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, "unit_price", skipped[0].ContextMap()["field"])
	assert.Equal(t, 1, logs.FilterMessage("aggregation complete").Len())
}

func TestPipeline_EmptyInput(t *testing.T) {
	result, err := NewPipeline(testCodec()).Run(nil)
	require.NoError(t, err)

	assert.Empty(t, result.Quarters())
	assert.Equal(t, quarter.Count*3, result.Departments.Len())

	report := result.Quarter(quarter.Q1)
	assert.Empty(t, report.TopOrders)
	assert.Empty(t, report.TopProductLines)
	assert.False(t, report.Totals.ProfitPercentage.Defined())
}
