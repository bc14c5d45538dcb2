package core

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// RecordSet is the calendar-ordered, metric-enriched result of one
// normalization pass. It is immutable: accessors return copies, so a set
// can be shared between goroutines without locking.
type RecordSet struct {
	records     []Record
	locale      Locale
	fingerprint string
}

// maxTotalCents bounds the spend of a whole table so that sums over any
// subset fit in an int64.
const maxTotalCents = 1000 * MaxCents

// Normalize canonicalizes month labels, orders rows by calendar rank and
// computes cost efficiency. It fails with a *DataError on empty input, an
// unknown label, a negative or non-finite value, or an amount out of range.
func Normalize(rows []RawRow, loc Locale) (RecordSet, error) {
	if len(rows) == 0 {
		return RecordSet{}, &DataError{Row: -1, Reason: "no rows"}
	}

	records := make([]Record, 0, len(rows))
	var total int64
	for i, row := range rows {
		p, ok := loc.Canonical(row.Label)
		if !ok {
			return RecordSet{}, &DataError{Row: i, Label: row.Label, Reason: "unrecognized month label for locale " + loc.Name}
		}
		if row.Spent.Cents < 0 {
			return RecordSet{}, &DataError{Row: i, Label: row.Label, Reason: fmt.Sprintf("negative amount spent %s", row.Spent)}
		}
		if row.Spent.Cents > MaxCents {
			return RecordSet{}, &DataError{Row: i, Label: row.Label, Reason: fmt.Sprintf("amount spent %s exceeds %s", row.Spent, maxMoney), Err: ErrInvalidAmount}
		}
		if total += row.Spent.Cents; total > maxTotalCents {
			return RecordSet{}, &DataError{Row: i, Label: row.Label, Reason: "total amount spent exceeds " + Money{Cents: maxTotalCents}.String(), Err: ErrInvalidAmount}
		}
		if !validDistance(row.Distance) {
			return RecordSet{}, &DataError{Row: i, Label: row.Label, Reason: fmt.Sprintf("invalid distance %v", row.Distance)}
		}
		records = append(records, Record{
			Period:     p,
			Spent:      row.Spent,
			Distance:   row.Distance,
			Efficiency: efficiencyOf(row.Spent, row.Distance),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Period < records[j].Period
	})

	return RecordSet{
		records:     records,
		locale:      loc,
		fingerprint: Fingerprint(rows),
	}, nil
}

// Fingerprint identifies the content of a raw table: the row count plus an
// xxhash checksum over every row in input order. It is the cache key for
// normalized record sets.
func Fingerprint(rows []RawRow) string {
	d := xxhash.New()
	var buf [8]byte
	for _, row := range rows {
		_, _ = d.WriteString(row.Label)
		_, _ = d.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], uint64(row.Spent.Cents))
		_, _ = d.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(row.Distance))
		_, _ = d.Write(buf[:])
	}
	return fmt.Sprintf("%d-%016x", len(rows), d.Sum64())
}

func (s RecordSet) Len() int { return len(s.records) }

func (s RecordSet) Locale() Locale { return s.locale }

// Fingerprint returns the fingerprint of the raw rows this set was built from.
func (s RecordSet) Fingerprint() string { return s.fingerprint }

// Records returns a copy of the ordered records.
func (s RecordSet) Records() []Record {
	return append([]Record(nil), s.records...)
}

// Periods returns the periods present in the set, in calendar order.
func (s RecordSet) Periods() []Period {
	out := make([]Period, len(s.records))
	for i, r := range s.records {
		out[i] = r.Period
	}
	return out
}

// Lookup returns the first record for p.
func (s RecordSet) Lookup(p Period) (Record, bool) {
	for _, r := range s.records {
		if r.Period == p {
			return r, true
		}
	}
	return Record{}, false
}

// Label returns the full month name of p in the set's locale.
func (s RecordSet) Label(p Period) string {
	return s.locale.Label(p)
}

// RawRows projects the set back to raw rows with full-name labels.
// Normalizing the result yields an equal set.
func (s RecordSet) RawRows() []RawRow {
	out := make([]RawRow, len(s.records))
	for i, r := range s.records {
		out[i] = RawRow{Label: s.locale.Label(r.Period), Spent: r.Spent, Distance: r.Distance}
	}
	return out
}
