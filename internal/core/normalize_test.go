package core

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func reais(v int64) Money { return Money{Cents: v * 100} }

func TestNormalizeOrdersByCalendar(t *testing.T) {
	rows := []RawRow{
		{Label: "Dez", Spent: reais(100), Distance: 50},
		{Label: "Jan", Spent: reais(200), Distance: 100},
	}
	set, err := Normalize(rows, LocalePT)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", set.Len())
	}
	recs := set.Records()
	if set.Label(recs[0].Period) != "Janeiro" || set.Label(recs[1].Period) != "Dezembro" {
		t.Fatalf("unexpected order: %v", set.Periods())
	}
}

func TestNormalizeMixedLabelsAndAlphabeticalInput(t *testing.T) {
	// Alphabetical order as a storage engine might return it, mixing spellings.
	rows := []RawRow{
		{Label: "Abril", Spent: reais(4), Distance: 4},
		{Label: "Ago", Spent: reais(8), Distance: 8},
		{Label: "Dezembro", Spent: reais(12), Distance: 12},
		{Label: "Fev", Spent: reais(2), Distance: 2},
		{Label: "Janeiro", Spent: reais(1), Distance: 1},
		{Label: "Jul", Spent: reais(7), Distance: 7},
		{Label: "Junho", Spent: reais(6), Distance: 6},
		{Label: "Mai", Spent: reais(5), Distance: 5},
		{Label: "Março", Spent: reais(3), Distance: 3},
		{Label: "Nov", Spent: reais(11), Distance: 11},
		{Label: "Outubro", Spent: reais(10), Distance: 10},
		{Label: "Set", Spent: reais(9), Distance: 9},
	}
	set, err := Normalize(rows, LocalePT)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if set.Len() != len(rows) {
		t.Fatalf("length changed: %d != %d", set.Len(), len(rows))
	}
	for i, r := range set.Records() {
		if r.Period != Period(i+1) {
			t.Fatalf("position %d holds %s", i, r.Period)
		}
		if r.Spent.Cents != int64(i+1)*100 {
			t.Fatalf("position %d carries wrong spend %d", i, r.Spent.Cents)
		}
	}
}

func TestNormalizeZeroDistanceIsUndefined(t *testing.T) {
	set, err := Normalize([]RawRow{
		{Label: "Mar", Spent: reais(300), Distance: 0},
		{Label: "Abr", Spent: reais(300), Distance: 150},
	}, LocalePT)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	mar, _ := set.Lookup(March)
	if mar.Efficiency.Defined {
		t.Fatalf("expected undefined efficiency, got %v", mar.Efficiency.Value)
	}
	if _, err := mar.Efficiency.Float(); !errors.Is(err, ErrUndefinedMetric) {
		t.Fatalf("expected ErrUndefinedMetric, got %v", err)
	}
	abr, _ := set.Lookup(April)
	v, err := abr.Efficiency.Float()
	if err != nil || v != 2 {
		t.Fatalf("expected efficiency 2, got %v (err=%v)", v, err)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	rows := []RawRow{
		{Label: "Out", Spent: Money{Cents: 123456}, Distance: 4321.5},
		{Label: "Fev", Spent: Money{Cents: 99}, Distance: 0},
		{Label: "Jun", Spent: Money{Cents: 500000}, Distance: 10000},
	}
	once, err := Normalize(rows, LocalePT)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	twice, err := Normalize(once.RawRows(), LocalePT)
	if err != nil {
		t.Fatalf("renormalize: %v", err)
	}
	if !reflect.DeepEqual(once.Records(), twice.Records()) {
		t.Fatalf("not idempotent:\n%v\n%v", once.Records(), twice.Records())
	}
}

func TestNormalizeErrors(t *testing.T) {
	cases := []struct {
		name string
		rows []RawRow
		row  int
	}{
		{"empty", nil, -1},
		{"unknown label", []RawRow{{Label: "Foo", Spent: reais(1), Distance: 1}}, 0},
		{"case sensitive", []RawRow{{Label: "jan", Spent: reais(1), Distance: 1}}, 0},
		{"other locale", []RawRow{{Label: "Jan", Spent: reais(1), Distance: 1}, {Label: "February", Spent: reais(1), Distance: 1}}, 1},
		{"negative spend", []RawRow{{Label: "Jan", Spent: Money{Cents: -1}, Distance: 1}}, 0},
		{"negative distance", []RawRow{{Label: "Jan", Spent: reais(1), Distance: -1}}, 0},
		{"nan distance", []RawRow{{Label: "Jan", Spent: reais(1), Distance: math.NaN()}}, 0},
		{"spend above max", []RawRow{{Label: "Jan", Spent: reais(1), Distance: 1}, {Label: "Fev", Spent: Money{Cents: MaxCents + 1}, Distance: 1}}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.rows, LocalePT)
			if !errors.Is(err, ErrData) {
				t.Fatalf("expected ErrData, got %v", err)
			}
			var de *DataError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DataError, got %T", err)
			}
			if de.Row != tc.row {
				t.Fatalf("expected row %d, got %d", tc.row, de.Row)
			}
		})
	}
}

func TestNormalizeTotalSpendBound(t *testing.T) {
	rows := make([]RawRow, 1001)
	for i := range rows {
		rows[i] = RawRow{Label: LocalePT.Abbrev[i%12], Spent: Money{Cents: MaxCents}, Distance: 1}
	}
	_, err := Normalize(rows, LocalePT)
	var de *DataError
	if !errors.As(err, &de) || de.Row != 1000 {
		t.Fatalf("expected DataError at row 1000, got %v", err)
	}
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount cause, got %v", err)
	}
}

// Amounts at the bound must classify and summarize without int64 overflow.
func TestNormalizeLargestAmountsStayExact(t *testing.T) {
	rows := make([]RawRow, 12)
	for i := range rows {
		rows[i] = RawRow{Label: LocalePT.Abbrev[i], Spent: Money{Cents: MaxCents}, Distance: 1}
	}
	rows[0].Spent = Money{Cents: MaxCents / 2}
	set, err := Normalize(rows, LocalePT)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	sum := Summarize(set.Records())
	if want := 11*MaxCents + MaxCents/2; sum.TotalSpent.Cents != want {
		t.Fatalf("total = %d, want %d", sum.TotalSpent.Cents, want)
	}

	c, err := Classify(January, set)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	// mean = 11.5/12 * max, so January deviates by (0.5*12/11.5 - 1) * 100.
	if want := (6.0/11.5 - 1) * 100; math.Abs(c.DeviationPercent-want) > 1e-9 {
		t.Fatalf("deviation = %v, want %v", c.DeviationPercent, want)
	}
	if c.Baseline.Sign() <= 0 || c.Tier != TierWithinTarget {
		t.Fatalf("unexpected classification %+v", c)
	}
}

func TestNormalizeEnglishLocale(t *testing.T) {
	set, err := Normalize([]RawRow{
		{Label: "December", Spent: reais(1), Distance: 1},
		{Label: "Feb", Spent: reais(1), Distance: 1},
	}, LocaleEN)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := set.Periods(); !reflect.DeepEqual(got, []Period{February, December}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestFingerprint(t *testing.T) {
	a := []RawRow{{Label: "Jan", Spent: reais(1), Distance: 1}}
	b := []RawRow{{Label: "Jan", Spent: reais(1), Distance: 2}}
	if Fingerprint(a) == Fingerprint(b) {
		t.Fatalf("different content produced the same fingerprint")
	}
	if Fingerprint(a) != Fingerprint([]RawRow{{Label: "Jan", Spent: reais(1), Distance: 1}}) {
		t.Fatalf("fingerprint is not deterministic")
	}
	set, _ := Normalize(a, LocalePT)
	if set.Fingerprint() != Fingerprint(a) {
		t.Fatalf("record set fingerprint mismatch")
	}
}

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		in   string
		want Period
		ok   bool
	}{
		{"Mar", March, true},
		{"Março", March, true},
		{" Dez ", December, true},
		{"7", July, true},
		{"13", 0, false},
		{"marco", 0, false},
	}
	for _, tc := range cases {
		got, err := ParsePeriod(tc.in, LocalePT)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrData) {
			t.Fatalf("%q: expected ErrData, got %v", tc.in, err)
		}
	}
}
