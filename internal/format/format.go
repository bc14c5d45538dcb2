// Package format renders fleet figures for people: currency, distances,
// cost efficiency and deviation percentages, in Brazilian or English
// number style.
package format

import (
	"math"

	"frota/internal/core"

	"github.com/dustin/go-humanize"
)

// Formatter renders numbers for one locale.
type Formatter struct {
	currency  string
	money     string // humanize pattern, two decimals
	distance  string // humanize pattern, one decimal
	undefined string
}

var (
	// BR is "R$ 24.560,25" / "40.200,0 km".
	BR = Formatter{currency: "R$ ", money: "#.###,##", distance: "#.###,#", undefined: "indefinido"}
	// EN is "R$ 24,560.25" / "40,200.0 km".
	EN = Formatter{currency: "R$ ", money: "#,###.##", distance: "#,###.#", undefined: "undefined"}
)

// For returns the formatter matching a month-label locale.
func For(loc core.Locale) Formatter {
	if loc.Name == core.LocaleEN.Name {
		return EN
	}
	return BR
}

// Money renders an amount with the currency prefix.
func (f Formatter) Money(m core.Money) string {
	return f.currency + f.Amount(m)
}

// Amount renders an amount without the currency prefix.
func (f Formatter) Amount(m core.Money) string {
	return humanize.FormatFloat(f.money, float64(m.Cents)/100)
}

func (f Formatter) Distance(km float64) string {
	return humanize.FormatFloat(f.distance, km)
}

// Efficiency renders spend per kilometre, or the undefined marker.
func (f Formatter) Efficiency(e core.Efficiency) string {
	v, err := e.Float()
	if err != nil {
		return f.undefined
	}
	return f.currency + humanize.FormatFloat(f.money, v) + "/km"
}

// Number renders a bare efficiency value with two decimals, for CSV cells.
func (f Formatter) Number(e core.Efficiency) string {
	v, err := e.Float()
	if err != nil {
		return ""
	}
	return humanize.FormatFloat(f.money, v)
}

// Percent renders a signed deviation, e.g. "+20,42%".
func (f Formatter) Percent(p float64) string {
	s := humanize.FormatFloat(f.money, math.Abs(p))
	switch {
	case p > 0 && s != zero(f):
		return "+" + s + "%"
	case p < 0 && s != zero(f):
		return "-" + s + "%"
	default:
		return s + "%"
	}
}

func zero(f Formatter) string {
	return humanize.FormatFloat(f.money, 0)
}
