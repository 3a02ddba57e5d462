// =============================================================================
// Quarterly Sales Report - Aggregation Pipeline
// =============================================================================
//
// The pipeline folds a batch of sales records into the three per-quarter
// summaries the report is built from.
//
// PROCESSING STEPS:
//   1. Initialize the department grid (4 x departmentCount zeroed cells)
//   2. For each record, in input order:
//      a. Resolve its quarter from the month sold (none for a zero date)
//      b. Accumulate into the department grid
//      c. Accumulate into the product lines
//      d. Collect any per-record validation failures
//   3. Rank the top orders of each quarter over every record at least one
//      accumulator counted
//
// ERROR HANDLING:
//   - Validation failures skip the record for that accumulator and are
//     collected in Result.Skipped
//   - Anything else (bad month, malformed product id) aborts the run
//
// =============================================================================

package aggregation

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ginjaninja78/quarterly-sales-report/internal/productid"
	"github.com/ginjaninja78/quarterly-sales-report/internal/quarter"
	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
	"github.com/ginjaninja78/quarterly-sales-report/internal/validation"
)

// DefaultTopN is the number of top orders and product lines per quarter.
const DefaultTopN = 3

// Observer is notified as records are folded.
type Observer interface {
	RecordProcessed()
	RecordSkipped(accumulator, rule string)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTopN sets how many orders and product lines are ranked per quarter.
func WithTopN(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.topN = n
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithObserver registers an observer, e.g. a metrics collector.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		p.observer = o
	}
}

// Pipeline runs the aggregation over a batch of records.
type Pipeline struct {
	codec       *productid.Codec
	departments []string
	topN        int
	logger      *zap.Logger
	observer    Observer
}

// NewPipeline creates a pipeline. Departments are taken from the codec's
// catalog, in catalog order.
func NewPipeline(codec *productid.Codec, opts ...Option) *Pipeline {
	p := &Pipeline{
		codec:       codec,
		departments: codec.Catalog().DepartmentNames(),
		topN:        DefaultTopN,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SkippedRecord is a record at least one accumulator rejected.
type SkippedRecord struct {
	Index    int
	Record   types.SalesRecord
	Failures []*validation.ValidationError
}

// QuarterReport is everything the report shows for one quarter.
type QuarterReport struct {
	Quarter         quarter.Quarter
	Departments     []DepartmentSummary
	Totals          QuarterTotals
	TopOrders       []RankedOrder
	TopProductLines []ProductLineSummary
}

// Result is the output of a run. It is read-only once Run returns.
type Result struct {
	Departments  *DepartmentGrid
	ProductLines *ProductLines

	// Skipped lists every record an accumulator rejected, in input order.
	Skipped []SkippedRecord

	// Processed is the number of records examined.
	Processed int

	topN      int
	present   [quarter.Count]bool
	topOrders [quarter.Count][]RankedOrder
}

// Run folds records into a Result.
func (p *Pipeline) Run(records []types.SalesRecord) (*Result, error) {
	grid := NewDepartmentGrid(p.departments)
	grid.Initialize()

	result := &Result{
		Departments:  grid,
		ProductLines: NewProductLines(p.codec),
		topN:         p.topN,
	}

	ranked := make([]int, 0, len(records))

	for i, rec := range records {
		// A record without a date has no quarter; both accumulators reject
		// it as recoverable.
		var q quarter.Quarter
		if !rec.Date.IsZero() {
			var err error
			if q, err = quarter.Of(rec.Month()); err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			qi, _ := q.Index()
			result.present[qi] = true
		}

		var failures []*validation.ValidationError

		err := grid.Accumulate(q, rec.Department, rec.TotalSales(), rec.Profit())
		if failures, err = collect(failures, err, i); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		err = result.ProductLines.Accumulate(rec, q)
		if failures, err = collect(failures, err, i); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		result.Processed++
		if p.observer != nil {
			p.observer.RecordProcessed()
		}

		if !rejectedByAll(failures) {
			ranked = append(ranked, i)
		}
		if len(failures) == 0 {
			continue
		}

		result.Skipped = append(result.Skipped, SkippedRecord{Index: i, Record: rec, Failures: failures})
		for _, f := range failures {
			p.logger.Debug("record skipped",
				zap.Int("index", i),
				zap.String("accumulator", f.Accumulator),
				zap.String("field", f.Field),
				zap.String("rule", f.Rule),
				zap.String("value", f.Value),
			)
			if p.observer != nil {
				p.observer.RecordSkipped(f.Accumulator, f.Rule)
			}
		}
	}

	p.rankOrders(result, records, ranked)

	p.logger.Info("aggregation complete",
		zap.Int("records", result.Processed),
		zap.Int("skipped", result.SkippedCount()),
		zap.Int("quarters", len(result.Quarters())),
	)

	return result, nil
}

// collect appends a validation failure to failures. Any other error is
// returned as fatal.
func collect(failures []*validation.ValidationError, err error, index int) ([]*validation.ValidationError, error) {
	if err == nil {
		return failures, nil
	}
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		verr.RecordIndex = index
		return append(failures, verr), nil
	}
	return failures, err
}

// rejectedByAll reports whether every accumulator rejected the record.
func rejectedByAll(failures []*validation.ValidationError) bool {
	var rollup, product bool
	for _, f := range failures {
		switch f.Accumulator {
		case validation.AccumulatorDepartmentRollup:
			rollup = true
		case validation.AccumulatorProductProfit:
			product = true
		}
	}
	return rollup && product
}

// rankOrders fills the top orders of every present quarter. Only records
// that at least one accumulator counted are ranked.
func (p *Pipeline) rankOrders(result *Result, records []types.SalesRecord, ranked []int) {
	valid := make([]types.SalesRecord, len(ranked))
	for i, idx := range ranked {
		valid[i] = records[idx]
	}

	for _, q := range quarter.All() {
		qi, _ := q.Index()
		if !result.present[qi] {
			continue
		}
		top := TopOrders(valid, q, p.topN)
		for i := range top {
			top[i].Index = ranked[top[i].Index]
		}
		result.topOrders[qi] = top
	}
}

// Quarters returns the quarters that have at least one record, ascending.
func (r *Result) Quarters() []quarter.Quarter {
	var qs []quarter.Quarter
	for _, q := range quarter.All() {
		qi, _ := q.Index()
		if r.present[qi] {
			qs = append(qs, q)
		}
	}
	return qs
}

// Quarter assembles the report data for q.
func (r *Result) Quarter(q quarter.Quarter) QuarterReport {
	report := QuarterReport{
		Quarter:         q,
		Departments:     r.Departments.Rows(q),
		Totals:          r.Departments.Totals(q),
		TopProductLines: r.ProductLines.Top(q, r.topN),
		TopOrders:       []RankedOrder{},
	}
	if qi, err := q.Index(); err == nil && r.topOrders[qi] != nil {
		report.TopOrders = append([]RankedOrder(nil), r.topOrders[qi]...)
	}
	return report
}

// TopN is the ranking depth the result was built with.
func (r *Result) TopN() int {
	return r.topN
}

// SkippedCount is the number of records at least one accumulator rejected.
func (r *Result) SkippedCount() int {
	return len(r.Skipped)
}

// Failures flattens the validation failures of every skipped record.
func (r *Result) Failures() []*validation.ValidationError {
	var all []*validation.ValidationError
	for _, s := range r.Skipped {
		all = append(all, s.Failures...)
	}
	return all
}
