package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tier is the severity of a month's deviation from the baseline.
type Tier string

const (
	TierWithinTarget Tier = "within_target"
	TierWarning      Tier = "warning"
	TierCritical     Tier = "critical"
)

// Thresholds are the deviation percentages above which a month is
// Warning and Critical. A deviation equal to a threshold stays in the
// lower tier, so exactly 10% is Warning under the defaults.
type Thresholds struct {
	Warning  float64
	Critical float64
}

// DefaultThresholds is the three-tier rule: >10% Critical, >0% Warning.
var DefaultThresholds = Thresholds{Warning: 0, Critical: 10}

// TwoTierThresholds collapses Warning into Critical: any month above the
// baseline is Critical.
var TwoTierThresholds = Thresholds{Warning: 0, Critical: 0}

func (t Thresholds) Validate() error {
	if t.Warning > t.Critical {
		return fmt.Errorf("%w: warning %.2f above critical %.2f", ErrInvalidThresholds, t.Warning, t.Critical)
	}
	return nil
}

// Tier classifies a deviation percentage.
func (t Thresholds) Tier(deviation float64) Tier {
	switch {
	case deviation > t.Critical:
		return TierCritical
	case deviation > t.Warning:
		return TierWarning
	default:
		return TierWithinTarget
	}
}

// Classification is the audit result for one month.
type Classification struct {
	Period           Period
	Spent            Money
	Baseline         decimal.Decimal // mean spend across the set, currency units
	DeviationPercent float64         // positive = over baseline
	Tier             Tier
}

// Classify audits target against the mean spend of set using
// DefaultThresholds.
func Classify(target Period, set RecordSet) (Classification, error) {
	return ClassifyWith(target, set, DefaultThresholds)
}

// ClassifyWith audits target against the mean spend of set.
func ClassifyWith(target Period, set RecordSet, th Thresholds) (Classification, error) {
	if err := th.Validate(); err != nil {
		return Classification{}, err
	}
	if set.Len() == 0 {
		return Classification{}, ErrEmptySet
	}

	var sum int64
	for _, r := range set.records {
		sum += r.Spent.Cents
	}
	n := int64(set.Len())

	rec, ok := set.Lookup(target)
	if !ok {
		return Classification{}, &NotFoundError{Period: target}
	}
	if sum == 0 {
		return Classification{}, ErrDivisionUndefined
	}

	// (spent - sum/n) / (sum/n) == (spent*n - sum) / sum, kept exact in
	// decimal so a month equal to the mean deviates by exactly zero.
	total := decimal.NewFromInt(sum)
	deviation, _ := decimal.NewFromInt(rec.Spent.Cents).
		Mul(decimal.NewFromInt(n)).
		Sub(total).
		Mul(decimal.NewFromInt(100)).
		Div(total).
		Float64()

	return Classification{
		Period:           target,
		Spent:            rec.Spent,
		Baseline:         total.Shift(-2).Div(decimal.NewFromInt(n)),
		DeviationPercent: deviation,
		Tier:             th.Tier(deviation),
	}, nil
}
