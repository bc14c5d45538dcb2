package google

import (
	"errors"
	"testing"

	"frota/internal/core"
)

// Matrix shaped like the Sheets API response for a fleet cost tab.
func TestParseTable_WithHeaderAndMixedCells(t *testing.T) {
	values := [][]interface{}{
		{"mes", "gasto_real", "km_rodado"},
		{"Dez", 24560.25, 40200.0},
		{},
		{"Jan", "18.450,00", "42.300,0"},
		{"Fev", 16980.5, 0.0},
	}
	rows, err := parseTable(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].Label != "Dez" || rows[0].Spent.Cents != 2456025 || rows[0].Distance != 40200 {
		t.Fatalf("unexpected Dez row: %+v", rows[0])
	}
	if rows[1].Spent.Cents != 1845000 || rows[1].Distance != 42300 {
		t.Fatalf("unexpected Jan row: %+v", rows[1])
	}
	if rows[2].Distance != 0 {
		t.Fatalf("unexpected Fev row: %+v", rows[2])
	}

	set, err := core.Normalize(rows, core.LocalePT)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := set.Periods(); got[0] != core.January || got[2] != core.December {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestParseTable_Errors(t *testing.T) {
	cases := map[string][][]interface{}{
		"bad amount after header": {{"mes", "gasto", "km"}, {"Jan", "abc", 1.0}},
		"missing distance":        {{"Jan", 10.0}},
		"bad distance":            {{"Jan", 10.0, "far"}},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := parseTable(values); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseTable_NoHeader(t *testing.T) {
	rows, err := parseTable([][]interface{}{{"Mar", 10.0, 5.0}})
	if err != nil || len(rows) != 1 || rows[0].Spent.Cents != 1000 {
		t.Fatalf("unexpected result: %+v err=%v", rows, err)
	}
}

func TestParseTable_AmountOutOfRange(t *testing.T) {
	cases := map[string][][]interface{}{
		"number cell":            {{"Jan", 1e20, 100.0}},
		"text cell after header": {{"mes", "gasto", "km"}, {"Jan", "40000000000000000", 100.0}},
		"text cell in first row": {{"Jan", "40000000000000000", 100.0}},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseTable(values)
			if !errors.Is(err, core.ErrData) {
				t.Fatalf("expected ErrData, got %v", err)
			}
			if !errors.Is(err, core.ErrInvalidAmount) {
				t.Fatalf("expected ErrInvalidAmount cause, got %v", err)
			}
		})
	}
}

func TestParseTable_NegativeTextAmountReachesNormalize(t *testing.T) {
	rows, err := parseTable([][]interface{}{{"Jan", "-10,00", 100.0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Spent.Cents != -1000 {
		t.Fatalf("expected -1000 cents, got %d", rows[0].Spent.Cents)
	}
	if _, err := core.Normalize(rows, core.LocalePT); !errors.Is(err, core.ErrData) {
		t.Fatalf("expected ErrData from Normalize, got %v", err)
	}
}
