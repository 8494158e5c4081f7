// Package core holds the finance domain: users, expenses, incomes, budget
// envelopes and the pure budget-progress computation.
//
// This file contains the decimal money type. All monetary arithmetic goes
// through shopspring/decimal; floats never touch an amount.
package core

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal monetary amount. The zero value is "absent", which lets
// JSON decoding distinguish a missing amount from an explicit 0.
type Money struct {
	d     decimal.Decimal
	valid bool
}

// Zero is an explicit 0.00 amount.
var Zero = Money{d: decimal.Zero, valid: true}

// NewMoney wraps a decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{d: d, valid: true}
}

// Amount bounds, matching a NUMERIC(19,4) column.
const (
	MaxAmountIntegerDigits  = 15
	MaxAmountFractionDigits = 4
)

// ParseMoney parses a plain decimal string such as "12.50".
//
// A decimal comma is accepted as well ("12,50"). Exponent notation is
// rejected and the digit counts are bounded, so a short input can never
// expand into a huge amount. The sign is kept; callers validate the range.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	if err := checkAmountDigits(s); err != nil {
		return Money{}, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Money{d: d, valid: true}, nil
}

func checkAmountDigits(s string) error {
	digits := strings.TrimLeft(s, "+-")
	intPart, fracPart, _ := strings.Cut(digits, ".")
	for _, part := range []string{intPart, fracPart} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return fmt.Errorf("%w: %q", ErrInvalidAmount, s)
			}
		}
	}
	if intPart == "" && fracPart == "" {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if len(strings.TrimLeft(intPart, "0")) > MaxAmountIntegerDigits {
		return fmt.Errorf("%w: at most %d integer digits", ErrInvalidAmount, MaxAmountIntegerDigits)
	}
	if len(fracPart) > MaxAmountFractionDigits {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, MaxAmountFractionDigits)
	}
	return nil
}

// MustParseMoney is ParseMoney for literals known to be valid.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Valid reports whether the amount was set.
func (m Money) Valid() bool { return m.valid }

// Decimal returns the underlying value; an absent amount is zero.
func (m Money) Decimal() decimal.Decimal {
	if !m.valid {
		return decimal.Zero
	}
	return m.d
}

// maxAmount is the first value with too many integer digits.
var maxAmount = decimal.New(1, MaxAmountIntegerDigits)

// InRange reports whether the amount fits the stored precision.
func (m Money) InRange() bool {
	d := m.Decimal()
	return d.Abs().LessThan(maxAmount) && -d.Exponent() <= MaxAmountFractionDigits
}

func (m Money) Add(o Money) Money { return NewMoney(m.Decimal().Add(o.Decimal())) }

func (m Money) Sub(o Money) Money { return NewMoney(m.Decimal().Sub(o.Decimal())) }

func (m Money) Cmp(o Money) int { return m.Decimal().Cmp(o.Decimal()) }

func (m Money) Sign() int { return m.Decimal().Sign() }

func (m Money) Equal(o Money) bool { return m.Decimal().Equal(o.Decimal()) }

// String renders the amount with at least two fractional digits.
func (m Money) String() string {
	d := m.Decimal()
	if d.Exponent() >= -2 {
		return d.StringFixed(2)
	}
	return d.String()
}

// MarshalJSON emits a JSON number, or null when absent.
func (m Money) MarshalJSON() ([]byte, error) {
	if !m.valid {
		return []byte("null"), nil
	}
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both numbers and numeric strings.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*m = Money{}
		return nil
	}
	s = strings.Trim(s, `"`)
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scan implements sql.Scanner for TEXT (sqlite) and NUMERIC (postgres) columns.
func (m *Money) Scan(src any) error {
	if src == nil {
		*m = Money{}
		return nil
	}
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("scan money: %w", err)
	}
	*m = NewMoney(d)
	return nil
}

// Value implements driver.Valuer. Amounts are stored as exact decimal text.
func (m Money) Value() (driver.Value, error) {
	if !m.valid {
		return nil, nil
	}
	return m.d.String(), nil
}
