package core

import "github.com/shopspring/decimal"

// Filter holds the dashboard's selection predicates. Nil bounds and an
// empty Periods list do not restrict.
type Filter struct {
	Periods       []Period
	MinSpent      *Money
	MaxSpent      *Money
	MaxEfficiency *float64
}

func (f Filter) match(r Record) bool {
	if len(f.Periods) > 0 {
		found := false
		for _, p := range f.Periods {
			if p == r.Period {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MinSpent != nil && r.Spent.Cents < f.MinSpent.Cents {
		return false
	}
	if f.MaxSpent != nil && r.Spent.Cents > f.MaxSpent.Cents {
		return false
	}
	if f.MaxEfficiency != nil {
		// An undefined efficiency cannot satisfy a numeric bound.
		if !r.Efficiency.Defined || r.Efficiency.Value > *f.MaxEfficiency {
			return false
		}
	}
	return true
}

// Filter returns the records matching f, in calendar order.
func (s RecordSet) Filter(f Filter) []Record {
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if f.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Summary aggregates a slice of records for the dashboard headline.
type Summary struct {
	Count         int
	TotalSpent    Money
	TotalDistance float64
	MeanSpent     decimal.Decimal
	Efficiency    Efficiency // total spent / total distance
	MinSpent      Money
	MaxSpent      Money
	MaxEfficiency Efficiency // highest defined per-month efficiency
	Undefined     int        // records skipped for undefined efficiency
}

// Summarize aggregates records. An empty slice yields a zero Summary.
func Summarize(records []Record) Summary {
	var s Summary
	if len(records) == 0 {
		return s
	}
	s.Count = len(records)
	s.MinSpent = records[0].Spent
	s.MaxSpent = records[0].Spent
	for _, r := range records {
		s.TotalSpent.Cents += r.Spent.Cents
		s.TotalDistance += r.Distance
		if r.Spent.Cents < s.MinSpent.Cents {
			s.MinSpent = r.Spent
		}
		if r.Spent.Cents > s.MaxSpent.Cents {
			s.MaxSpent = r.Spent
		}
		if !r.Efficiency.Defined {
			s.Undefined++
			continue
		}
		if !s.MaxEfficiency.Defined || r.Efficiency.Value > s.MaxEfficiency.Value {
			s.MaxEfficiency = r.Efficiency
		}
	}
	s.MeanSpent = s.TotalSpent.Decimal().Div(decimal.NewFromInt(int64(s.Count)))
	s.Efficiency = efficiencyOf(s.TotalSpent, s.TotalDistance)
	return s
}
