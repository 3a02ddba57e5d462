// Package generator produces synthetic sales records for a calendar year.
package generator

import (
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/quarterly-sales-report/internal/productid"
	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
)

// ErrInvalidConfig is returned for unusable generator options.
var ErrInvalidConfig = errors.New("generator: invalid configuration")

// Value ranges of generated records.
const (
	minQuantity     = 1
	maxQuantity     = 100
	minPrice        = 25
	maxPrice        = 299
	minMarginPct    = 5
	maxMarginPct    = 20
	minSerialSeed   = 1
	maxSerialSeed   = 99
	maxDayOfMonth   = 28
	volumeDiscountN = 10 // one discount unit per 10 units sold
)

var hundred = decimal.NewFromInt(100)

// Options configures a Generator.
type Options struct {
	// Year is the calendar year of every generated sale.
	Year int

	// Seed makes the output reproducible. 0 seeds from a random source.
	Seed uint64
}

// Generator builds random records over a product catalog.
type Generator struct {
	codec *productid.Codec
	year  int
	faker *gofakeit.Faker
}

// New creates a generator drawing departments, sites, sizes and colors from
// the codec's catalog.
func New(codec *productid.Codec, opts Options) (*Generator, error) {
	if codec == nil {
		return nil, fmt.Errorf("%w: codec is nil", ErrInvalidConfig)
	}
	if opts.Year < 1 || opts.Year > 9999 {
		return nil, fmt.Errorf("%w: year %d out of range", ErrInvalidConfig, opts.Year)
	}
	if err := codec.Catalog().Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &Generator{
		codec: codec,
		year:  opts.Year,
		faker: gofakeit.New(opts.Seed),
	}, nil
}

// Generate returns n new records.
func (g *Generator) Generate(n int) ([]types.SalesRecord, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative record count %d", ErrInvalidConfig, n)
	}

	records := make([]types.SalesRecord, 0, n)
	for i := 0; i < n; i++ {
		r, err := g.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to generate record %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// Next returns a single new record.
func (g *Generator) Next() (types.SalesRecord, error) {
	f := g.faker
	cat := g.codec.Catalog()

	dept := cat.Departments[f.Number(0, len(cat.Departments)-1)]
	productID, err := g.codec.Encode(
		dept.Name,
		f.Number(minSerialSeed, maxSerialSeed),
		f.RandomString(cat.Sizes),
		f.RandomString(cat.Colors),
		f.RandomString(cat.Sites),
	)
	if err != nil {
		return types.SalesRecord{}, err
	}

	quantity := f.Number(minQuantity, maxQuantity)

	price := decimal.NewFromFloat(float64(f.Number(minPrice, maxPrice)) + f.Float64()).Round(2)
	margin := decimal.NewFromInt(int64(f.Number(minMarginPct, maxMarginPct)))
	cost := price.Mul(hundred.Sub(margin)).Div(hundred).Round(2)

	return types.SalesRecord{
		Date:           time.Date(g.year, time.Month(f.Number(1, 12)), f.Number(1, maxDayOfMonth), 0, 0, 0, 0, time.UTC),
		Department:     dept.Name,
		ProductID:      productID,
		Quantity:       quantity,
		UnitPrice:      price,
		BaseCost:       cost,
		VolumeDiscount: quantity / volumeDiscountN,
	}, nil
}
