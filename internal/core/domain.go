package core

import (
	"errors"
	"fmt"
	"math"
)

type (
	Money struct {
		Cents int64
	}

	// RawRow is one row as it comes out of a source, before normalization.
	RawRow struct {
		Label    string  // Month label, abbreviated or full name
		Spent    Money   // Maintenance spend for the month
		Distance float64 // Kilometres driven in the month
	}

	// Efficiency is spend per kilometre. Defined is false when the
	// distance was zero; Value is meaningless in that case.
	Efficiency struct {
		Value   float64
		Defined bool
	}

	Record struct {
		Period     Period
		Spent      Money
		Distance   float64
		Efficiency Efficiency
	}
)

var (
	ErrData              = errors.New("data error")
	ErrUndefinedMetric   = errors.New("cost efficiency undefined for zero distance")
	ErrNotFound          = errors.New("period not found")
	ErrEmptySet          = errors.New("empty record set")
	ErrDivisionUndefined = errors.New("deviation undefined for zero baseline")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidThresholds = errors.New("invalid thresholds")
)

// DataError reports a raw input that cannot be normalized. Row is the
// zero-based input index, or -1 when the error concerns the whole input.
type DataError struct {
	Row    int
	Label  string
	Reason string
	Err    error // underlying cause, if any
}

func (e *DataError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("data error: %s", e.Reason)
	}
	return fmt.Sprintf("data error: row %d (%q): %s", e.Row, e.Label, e.Reason)
}

func (e *DataError) Is(target error) bool { return target == ErrData }

func (e *DataError) Unwrap() error { return e.Err }

// NotFoundError is returned when a classification target is absent.
type NotFoundError struct {
	Period Period
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("period %s not found in record set", e.Period)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (m Money) Validate() error {
	if m.Cents < 0 || m.Cents > MaxCents {
		return ErrInvalidAmount
	}
	return nil
}

// Float returns the efficiency value, or ErrUndefinedMetric when the
// source distance was zero.
func (e Efficiency) Float() (float64, error) {
	if !e.Defined {
		return 0, ErrUndefinedMetric
	}
	return e.Value, nil
}

func efficiencyOf(spent Money, distance float64) Efficiency {
	if distance == 0 {
		return Efficiency{}
	}
	return Efficiency{Value: spent.Reais() / distance, Defined: true}
}

func validDistance(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d >= 0
}
