package aggregation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/quarterly-sales-report/internal/productid"
	"github.com/ginjaninja78/quarterly-sales-report/internal/quarter"
	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
	"github.com/ginjaninja78/quarterly-sales-report/internal/validation"
)

func TestProductLines_FirstOrder(t *testing.T) {
	lines := NewProductLines(testCodec())

	require.NoError(t, lines.Accumulate(record(2, "Footwear", "FOOT-142-M-BK-US1", 10, "50", "40"), quarter.Q1))

	row, ok := lines.Line(quarter.Q1, "FOOT-142-ss-cc-mmm")
	require.True(t, ok)
	assert.Equal(t, 10, row.UnitsSold)
	assert.True(t, d("500").Equal(row.TotalSales))
	assert.True(t, d("100").Equal(row.TotalProfit))
	assert.True(t, d("40").Equal(row.UnitCost), "first order keeps the base cost")
	assert.True(t, d("50").Equal(row.AverageUnitPrice))
	assert.True(t, d("20").Equal(row.ProfitPercentage.Decimal))
}

func TestProductLines_WeightedUnitCost(t *testing.T) {
	lines := NewProductLines(testCodec())

	// Same product line, different variants and sites.
	require.NoError(t, lines.Accumulate(record(1, "Footwear", "FOOT-142-M-BK-US1", 10, "50", "40"), quarter.Q1))
	require.NoError(t, lines.Accumulate(record(3, "Footwear", "FOOT-142-L-RD-UK1", 30, "30", "20"), quarter.Q1))

	all := lines.Lines(quarter.Q1)
	require.Len(t, all, 1)
	row := all[0]

	// (10*40 + 30*20) / (10+30) = 25
	assert.True(t, d("25").Equal(row.UnitCost), "got %s", row.UnitCost)
	assert.Equal(t, 40, row.UnitsSold)
	assert.True(t, d("1400").Equal(row.TotalSales))
	assert.True(t, d("400").Equal(row.TotalProfit))
	assert.True(t, d("35").Equal(row.AverageUnitPrice))
	assert.True(t, Ratio(d("400"), d("1400")).Decimal.Equal(row.ProfitPercentage.Decimal))
}

func TestProductLines_SeparateQuarters(t *testing.T) {
	lines := NewProductLines(testCodec())

	require.NoError(t, lines.Accumulate(record(1, "Footwear", "FOOT-142-M-BK-US1", 1, "50", "40"), quarter.Q1))
	require.NoError(t, lines.Accumulate(record(5, "Footwear", "FOOT-142-M-BK-US1", 1, "50", "40"), quarter.Q2))

	assert.Len(t, lines.Lines(quarter.Q1), 1)
	assert.Len(t, lines.Lines(quarter.Q2), 1)
	assert.Empty(t, lines.Lines(quarter.Q3))
}

func TestProductLines_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		rec     types.SalesRecord
		q       quarter.Quarter
		wantErr error
	}{
		{name: "negative quantity", rec: record(1, "Footwear", "FOOT-142-M-BK-US1", -1, "50", "40"), q: quarter.Q1, wantErr: validation.ErrNegativeQuantity},
		{name: "zero price", rec: record(1, "Footwear", "FOOT-142-M-BK-US1", 1, "0", "40"), q: quarter.Q1, wantErr: validation.ErrNonPositivePrice},
		{name: "zero cost", rec: record(1, "Footwear", "FOOT-142-M-BK-US1", 1, "50", "0"), q: quarter.Q1, wantErr: validation.ErrNonPositiveCost},
		{name: "empty product id", rec: record(1, "Footwear", "", 1, "50", "40"), q: quarter.Q1, wantErr: validation.ErrEmptyProductID},
		{name: "unset quarter", rec: record(1, "Footwear", "FOOT-142-M-BK-US1", 1, "50", "40"), q: 0, wantErr: validation.ErrEmptyQuarter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := NewProductLines(testCodec())

			err := lines.Accumulate(tt.rec, tt.q)

			var verr *validation.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, tt.wantErr)
			for _, q := range quarter.All() {
				assert.Empty(t, lines.Lines(q))
			}
		})
	}
}

func TestProductLines_MalformedIdentifier(t *testing.T) {
	lines := NewProductLines(testCodec())

	err := lines.Accumulate(record(1, "Footwear", "FOOT-142-M", 1, "50", "40"), quarter.Q1)

	assert.ErrorIs(t, err, productid.ErrMalformedIdentifier)
	var verr *validation.ValidationError
	assert.False(t, errors.As(err, &verr), "malformed ids are not recoverable")
}

func TestProductLines_Top(t *testing.T) {
	lines := NewProductLines(testCodec())

	// Profits: 101 -> 10, 102 -> 30, 103 -> 30, 104 -> 5
	for _, r := range []types.SalesRecord{
		record(1, "Footwear", "FOOT-101-S-BK-US1", 1, "20", "10"),
		record(1, "Footwear", "FOOT-102-S-BK-US1", 3, "20", "10"),
		record(1, "Footwear", "FOOT-103-S-BK-US1", 1, "40", "10"),
		record(1, "Footwear", "FOOT-104-S-BK-US1", 1, "15", "10"),
	} {
		require.NoError(t, lines.Accumulate(r, quarter.Q1))
	}

	top := lines.Top(quarter.Q1, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "FOOT-102-ss-cc-mmm", top[0].Key, "ties keep first-seen order")
	assert.Equal(t, "FOOT-103-ss-cc-mmm", top[1].Key)
	assert.Equal(t, "FOOT-101-ss-cc-mmm", top[2].Key)

	assert.Len(t, lines.Top(quarter.Q1, 10), 4)
	assert.Empty(t, lines.Top(quarter.Q1, 0))
	assert.Empty(t, lines.Top(quarter.Q4, 3))
}
