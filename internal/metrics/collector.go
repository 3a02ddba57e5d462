// Package metrics records run metrics for the sales report and writes them in
// the Prometheus text exposition format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/ginjaninja78/quarterly-sales-report/internal/aggregation"
)

// Prometheus metric names.
const (
	MetricRecordsTotal        = "salesreport_records_total"
	MetricRecordsSkippedTotal = "salesreport_records_skipped_total"
	MetricRunDurationSeconds  = "salesreport_run_duration_seconds"
	MetricQuarterSales        = "salesreport_quarter_sales"
	MetricQuarterProfit       = "salesreport_quarter_profit"
)

// Collector owns a private registry with the run metrics. It implements
// aggregation.Observer.
//
// Thread Safety: Safe for concurrent use; the underlying metrics are atomic.
type Collector struct {
	registry *prometheus.Registry

	recordsTotal   prometheus.Counter
	recordsSkipped *prometheus.CounterVec
	runDuration    prometheus.Gauge
	quarterSales   *prometheus.GaugeVec
	quarterProfit  *prometheus.GaugeVec
}

var _ aggregation.Observer = (*Collector)(nil)

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		// A private registry keeps the Go runtime collectors out of the textfile.
		registry: prometheus.NewRegistry(),
		recordsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRecordsTotal,
			Help: "Total number of sales records folded by the aggregation pipeline.",
		}),
		recordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRecordsSkippedTotal,
			Help: "Records rejected by an accumulator, by accumulator and rule.",
		}, []string{"accumulator", "rule"}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricRunDurationSeconds,
			Help: "Wall time of the last aggregation run.",
		}),
		quarterSales: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricQuarterSales,
			Help: "Total sales per quarter for the last run.",
		}, []string{"quarter"}),
		quarterProfit: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricQuarterProfit,
			Help: "Total profit per quarter for the last run.",
		}, []string{"quarter"}),
	}

	c.registry.MustRegister(
		c.recordsTotal,
		c.recordsSkipped,
		c.runDuration,
		c.quarterSales,
		c.quarterProfit,
	)

	return c
}

// RecordProcessed counts one folded record.
func (c *Collector) RecordProcessed() {
	c.recordsTotal.Inc()
}

// RecordSkipped counts one accumulator rejection.
func (c *Collector) RecordSkipped(accumulator, rule string) {
	c.recordsSkipped.WithLabelValues(accumulator, rule).Inc()
}

// ObserveDuration records how long a run took.
func (c *Collector) ObserveDuration(d time.Duration) {
	c.runDuration.Set(d.Seconds())
}

// ObserveResult sets the per-quarter totals of a finished run. Only quarters
// present in the input are exported.
func (c *Collector) ObserveResult(result *aggregation.Result) {
	c.quarterSales.Reset()
	c.quarterProfit.Reset()

	for _, q := range result.Quarters() {
		totals := result.Departments.Totals(q)
		c.quarterSales.WithLabelValues(q.String()).Set(totals.Sales.InexactFloat64())
		c.quarterProfit.WithLabelValues(q.String()).Set(totals.Profit.InexactFloat64())
	}
}

// Gather collects all metrics from the registry.
func (c *Collector) Gather() ([]*dto.MetricFamily, error) {
	return c.registry.Gather()
}

// WriteTextfile writes the registry to path in the format read by the node
// exporter's textfile collector. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
