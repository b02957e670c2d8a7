package money

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount held as an integral count of minor currency
// units (cents). Every balance in the system is stored and summed in this
// representation; binary floating point never touches the ledger path.
// Comparison against zero is exact equality.
type Money int64

// ErrInvalidAmount reports a malformed or out-of-range monetary input.
var ErrInvalidAmount = errors.New("invalid amount")

// FromMinorUnits builds a Money directly from a minor-unit count.
func FromMinorUnits(v int64) Money {
	return Money(v)
}

// Parse converts a decimal string such as "45.67" into minor units.
// Fractions finer than one minor unit are rounded half away from zero
// ("1.005" becomes 101 cents); the same rule applies everywhere an amount
// is rounded.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	cents := d.Shift(2).Round(0).BigInt()
	if !cents.IsInt64() {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, s)
	}
	return Money(cents.Int64()), nil
}

// ParsePositive is Parse restricted to strictly positive amounts.
func ParsePositive(s string) (Money, error) {
	m, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if !m.IsPositive() {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidAmount, s)
	}
	return m, nil
}

// MinorUnits returns the raw minor-unit count.
func (m Money) MinorUnits() int64 { return int64(m) }

// Add returns m + o.
func (m Money) Add(o Money) Money { return m + o }

// Sub returns m - o.
func (m Money) Sub(o Money) Money { return m - o }

// Neg returns -m.
func (m Money) Neg() Money { return -m }

// Abs returns the magnitude of m.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// Cmp compares m and o, returning -1, 0 or 1.
func (m Money) Cmp(o Money) int {
	switch {
	case m < o:
		return -1
	case m > o:
		return 1
	default:
		return 0
	}
}

func (m Money) IsZero() bool     { return m == 0 }
func (m Money) IsPositive() bool { return m > 0 }
func (m Money) IsNegative() bool { return m < 0 }

// String renders the amount as a plain decimal with two fraction digits,
// e.g. 3050 -> "30.50".
func (m Money) String() string {
	return decimal.New(int64(m), -2).StringFixed(2)
}

// MarshalJSON encodes the amount as its decimal string form so API clients
// never receive a binary float.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a decimal string, the inverse of MarshalJSON.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
