// =============================================================================
// Quarterly Sales Report - Quarter Resolver
// =============================================================================
//
// Maps calendar months onto the four fixed reporting quarters and back to a
// zero-based index. Quarters are an enumerated type so that summary
// containers can use them as map keys or array indexes without any string
// identity.
//
//   Months  1-3  -> Q1
//   Months  4-6  -> Q2
//   Months  7-9  -> Q3
//   Months 10-12 -> Q4
//
// =============================================================================

package quarter

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Count is the number of quarters in a reporting year.
const Count = 4

// Quarter is one of the four 3-month calendar buckets.
// The zero value is "unset" and is not a valid quarter.
type Quarter uint8

const (
	Q1 Quarter = iota + 1
	Q2
	Q3
	Q4
)

var (
	// ErrInvalidMonth is returned when a month is outside 1..12.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrInvalidQuarter is returned for any label or value other than Q1..Q4.
	ErrInvalidQuarter = errors.New("invalid quarter")
)

// All returns the four quarters in calendar order.
func All() []Quarter {
	return []Quarter{Q1, Q2, Q3, Q4}
}

// Of resolves a calendar month (1..12) to its quarter.
func Of(month int) (Quarter, error) {
	switch {
	case month >= 1 && month <= 3:
		return Q1, nil
	case month >= 4 && month <= 6:
		return Q2, nil
	case month >= 7 && month <= 9:
		return Q3, nil
	case month >= 10 && month <= 12:
		return Q4, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
}

// OfDate resolves the quarter a date falls in.
func OfDate(t time.Time) Quarter {
	// time.Month is always 1..12.
	q, _ := Of(int(t.Month()))
	return q
}

// Parse converts a label such as "Q3" (case-insensitive) to a Quarter.
func Parse(label string) (Quarter, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "Q1":
		return Q1, nil
	case "Q2":
		return Q2, nil
	case "Q3":
		return Q3, nil
	case "Q4":
		return Q4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuarter, label)
	}
}

// Valid reports whether q is one of Q1..Q4.
func (q Quarter) Valid() bool {
	return q >= Q1 && q <= Q4
}

// Index returns the zero-based position of q (Q1 -> 0, Q4 -> 3).
func (q Quarter) Index() (int, error) {
	if !q.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidQuarter, uint8(q))
	}
	return int(q) - 1, nil
}

// String returns the canonical label, or "" for an unset quarter.
func (q Quarter) String() string {
	if !q.Valid() {
		return ""
	}
	return fmt.Sprintf("Q%d", uint8(q))
}
