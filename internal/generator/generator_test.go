package generator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/quarterly-sales-report/internal/catalog"
	"github.com/ginjaninja78/quarterly-sales-report/internal/productid"
)

func newGenerator(t *testing.T, seed uint64) *Generator {
	t.Helper()
	g, err := New(productid.NewCodec(catalog.Default()), Options{Year: 2023, Seed: seed})
	require.NoError(t, err)
	return g
}

func TestGenerate_Ranges(t *testing.T) {
	g := newGenerator(t, 7)
	cat := catalog.Default()

	records, err := g.Generate(2000)
	require.NoError(t, err)
	require.Len(t, records, 2000)

	for _, r := range records {
		assert.Equal(t, 2023, r.Date.Year())
		assert.LessOrEqual(t, r.Date.Day(), 28)

		_, known := cat.DepartmentIndex(r.Department)
		assert.True(t, known, r.Department)

		id, err := productid.Decode(r.ProductID)
		require.NoError(t, err)
		assert.Contains(t, cat.Sizes, id.SizeCode)
		assert.Contains(t, cat.Colors, id.ColorCode)
		assert.Contains(t, cat.Sites, id.ManufacturingSite)

		assert.GreaterOrEqual(t, r.Quantity, 1)
		assert.LessOrEqual(t, r.Quantity, 100)
		assert.Equal(t, r.Quantity/10, r.VolumeDiscount)

		assert.True(t, r.UnitPrice.GreaterThanOrEqual(decimal.NewFromInt(25)), r.UnitPrice.String())
		assert.True(t, r.UnitPrice.LessThanOrEqual(decimal.NewFromInt(300)), r.UnitPrice.String())
		assert.True(t, r.BaseCost.IsPositive())
		assert.True(t, r.BaseCost.LessThan(r.UnitPrice))
		assert.LessOrEqual(t, -r.UnitPrice.Exponent(), int32(2), "prices are whole cents")
	}
}

func TestGenerate_DepartmentMatchesIdentifier(t *testing.T) {
	g := newGenerator(t, 11)
	cat := catalog.Default()

	records, err := g.Generate(200)
	require.NoError(t, err)

	for _, r := range records {
		id, err := productid.Decode(r.ProductID)
		require.NoError(t, err)

		idx, _ := cat.DepartmentIndex(r.Department)
		assert.Equal(t, cat.Departments[idx].Abbreviation, id.DepartmentAbbreviation)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := newGenerator(t, 42).Generate(50)
	require.NoError(t, err)
	b, err := newGenerator(t, 42).Generate(50)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerate_Empty(t *testing.T) {
	records, err := newGenerator(t, 1).Generate(0)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = newGenerator(t, 1).Generate(-1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(nil, Options{Year: 2023})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(productid.NewCodec(catalog.Default()), Options{Year: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(productid.NewCodec(catalog.Catalog{}), Options{Year: 2023})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	noSites := catalog.Default()
	noSites.Sites = nil
	_, err = New(productid.NewCodec(noSites), Options{Year: 2023})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
