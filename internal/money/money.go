package money

import (
	"database/sql/driver"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Money is a fixed-precision amount, always rounded to two decimal places
// with halves rounding up. Every arithmetic helper rounds its result so
// repeated operations cannot drift.
type Money struct {
	amount decimal.Decimal
}

func Zero() Money {
	return Money{}
}

// FromFloat converts a float into Money. NaN and infinities collapse to
// zero so a missing numeric field never poisons a total.
func FromFloat(v float64) Money {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Money{}
	}
	return Money{amount: round(decimal.NewFromFloat(v))}
}

func FromInt(v int64) Money {
	return Money{amount: decimal.NewFromInt(v)}
}

func FromDecimal(d decimal.Decimal) Money {
	return Money{amount: round(d)}
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func (m Money) Add(o Money) Money {
	return Money{amount: round(m.amount.Add(o.amount))}
}

func (m Money) Sub(o Money) Money {
	return Money{amount: round(m.amount.Sub(o.amount))}
}

// MulScalar multiplies by a plain number, e.g. a quantity or a
// percentage fraction.
func (m Money) MulScalar(f float64) Money {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}
	}
	return Money{amount: round(m.amount.Mul(decimal.NewFromFloat(f)))}
}

func (m Money) MulInt(n int) Money {
	return Money{amount: round(m.amount.Mul(decimal.NewFromInt(int64(n))))}
}

// Cmp returns -1, 0 or 1 like decimal.Cmp.
func (m Money) Cmp(o Money) int {
	return m.amount.Cmp(o.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String always renders with two decimal places ("700.00").
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON emits a plain JSON number with two decimal places.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		m.amount = decimal.Decimal{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		m.amount = decimal.Decimal{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	m.amount = round(d)
	return nil
}

// Scan implements sql.Scanner so numeric columns scan directly into Money.
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	m.amount = round(d)
	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.amount.StringFixed(2), nil
}
