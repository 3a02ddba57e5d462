package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/quarterly-sales-report/internal/aggregation"
	"github.com/ginjaninja78/quarterly-sales-report/internal/catalog"
	"github.com/ginjaninja78/quarterly-sales-report/internal/productid"
	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
)

func sale(month, qty int, price, cost string) types.SalesRecord {
	return types.SalesRecord{
		Date:       time.Date(2023, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
		Department: "Footwear",
		ProductID:  "FOOT-501-M-BK-US1",
		Quantity:   qty,
		UnitPrice:  decimal.RequireFromString(price),
		BaseCost:   decimal.RequireFromString(cost),
	}
}

func runPipeline(t *testing.T, c *Collector, records []types.SalesRecord) *aggregation.Result {
	t.Helper()
	codec := productid.NewCodec(catalog.Default())
	result, err := aggregation.NewPipeline(codec, aggregation.WithObserver(c)).Run(records)
	require.NoError(t, err)
	return result
}

func TestCollector_Counts(t *testing.T) {
	c := NewCollector()

	runPipeline(t, c, []types.SalesRecord{
		sale(1, 10, "50", "40"),
		sale(2, -1, "50", "40"),
		sale(5, 1, "0", "40"),
	})

	assert.Equal(t, float64(3), testutil.ToFloat64(c.recordsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.recordsSkipped.WithLabelValues("department_rollup", "non_negative")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.recordsSkipped.WithLabelValues("product_profit", "non_negative")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.recordsSkipped.WithLabelValues("product_profit", "positive")))
}

func TestCollector_ObserveResult(t *testing.T) {
	c := NewCollector()

	result := runPipeline(t, c, []types.SalesRecord{
		sale(2, 10, "50", "40"),
		sale(11, 2, "25.50", "20"),
	})
	c.ObserveResult(result)
	c.ObserveDuration(1500 * time.Millisecond)

	assert.Equal(t, 500.0, testutil.ToFloat64(c.quarterSales.WithLabelValues("Q1")))
	assert.Equal(t, 100.0, testutil.ToFloat64(c.quarterProfit.WithLabelValues("Q1")))
	assert.Equal(t, 51.0, testutil.ToFloat64(c.quarterSales.WithLabelValues("Q4")))
	assert.Equal(t, 1.5, testutil.ToFloat64(c.runDuration))

	families, err := c.Gather()
	require.NoError(t, err)

	sales := findMetricFamily(families, MetricQuarterSales)
	require.NotNil(t, sales)
	assert.Equal(t, dto.MetricType_GAUGE, sales.GetType())
	assert.Len(t, sales.GetMetric(), 2, "absent quarters are not exported")
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector()
	runPipeline(t, c, []types.SalesRecord{sale(3, 1, "10", "5")})

	path := filepath.Join(t.TempDir(), "salesreport.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# TYPE salesreport_records_total counter")
	assert.Contains(t, string(data), "salesreport_records_total 1")

	err = c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "salesreport.prom"))
	assert.Error(t, err)
}

func findMetricFamily(families []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}
