// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents. Parsing and rendering go through
// shopspring/decimal so that source values such as 1234.565 round the
// same way on every backend.
package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Zero is accepted because a
// month without maintenance is a valid record; negative values are not.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil
//	ParseDecimalToCents("12.344") -> 1234, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	// pt-BR thousands separators ("1.234,56") are folded before parsing.
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	if strings.ContainsAny(s, "eE") {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return centsFromDecimal(d)
}

// ParseSourceAmount reads an amount cell from a source table. Unlike
// ParseDecimalToCents it keeps a leading minus sign, so the normalizer
// rejects negative spend with a row-level error like every other source.
func ParseSourceAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		cents, err := ParseDecimalToCents(rest)
		if err != nil {
			return Money{}, err
		}
		return Money{Cents: -cents}, nil
	}
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

// MoneyFromFloat converts a floating source value (SQLite REAL, Sheets
// number cell) into cents. Negative values are preserved so that the
// normalizer can reject them with a row-level error; non-finite values and
// magnitudes above MaxCents are ErrInvalidAmount.
func MoneyFromFloat(v float64) (Money, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Money{}, fmt.Errorf("%w: %v", ErrInvalidAmount, v)
	}
	cents := decimal.NewFromFloat(v).Round(2).Shift(2)
	if cents.Abs().GreaterThan(decimal.NewFromInt(MaxCents)) {
		return Money{}, fmt.Errorf("%w: %v exceeds %s", ErrInvalidAmount, v, maxMoney)
	}
	return Money{Cents: cents.IntPart()}, nil
}

func centsFromDecimal(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	cents := d.Round(2).Shift(2)
	if cents.GreaterThan(decimal.NewFromInt(MaxCents)) {
		return 0, fmt.Errorf("%w: %s exceeds %s", ErrInvalidAmount, d.String(), maxMoney)
	}
	return cents.IntPart(), nil
}

// MaxCents bounds every amount (R$ 10 trillion). Together with
// maxTotalCents in Normalize it keeps the int64 sums of a record set from
// overflowing.
const MaxCents int64 = 1_000_000_000_000_000

var maxMoney = Money{Cents: MaxCents}

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Reais returns the amount as a float64 for ratios and display.
// Note: use cents for sums to avoid floating-point drift.
func (m Money) Reais() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the amount with two decimals and a dot separator.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}
