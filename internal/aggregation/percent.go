package aggregation

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percent is a profit percentage. When the sales figure it was derived
// from is zero the percentage is undefined and Valid is false.
type Percent struct {
	decimal.NullDecimal
}

// Ratio returns part / whole x 100, undefined when whole is zero.
func Ratio(part, whole decimal.Decimal) Percent {
	if whole.IsZero() {
		return Percent{}
	}
	return Percent{decimal.NullDecimal{Decimal: part.Div(whole).Mul(hundred), Valid: true}}
}

// Defined reports whether the percentage has a value.
func (p Percent) Defined() bool {
	return p.Valid
}

// String formats the percentage with two decimals, or "n/a".
func (p Percent) String() string {
	if !p.Valid {
		return "n/a"
	}
	return p.Decimal.StringFixed(2)
}
