package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Period is a calendar month, January = 1 through December = 12.
// Its integer value is the calendar rank used for ordering.
type Period int

const (
	January Period = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

func (p Period) Valid() bool {
	return p >= January && p <= December
}

// String returns the English month name, for logs and error messages.
func (p Period) String() string {
	if !p.Valid() {
		return "Period(" + strconv.Itoa(int(p)) + ")"
	}
	return LocaleEN.Full[p-1]
}

// Locale is the fixed mapping between the twelve abbreviated and the
// twelve full month labels of one language. Matching is case-sensitive.
type Locale struct {
	Name   string
	Abbrev [12]string
	Full   [12]string
}

var (
	LocalePT = Locale{
		Name:   "pt",
		Abbrev: [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"},
		Full: [12]string{"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
			"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"},
	}

	LocaleEN = Locale{
		Name:   "en",
		Abbrev: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		Full: [12]string{"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December"},
	}
)

// LocaleByName returns the built-in locale with the given name.
func LocaleByName(name string) (Locale, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case LocalePT.Name:
		return LocalePT, true
	case LocaleEN.Name:
		return LocaleEN, true
	default:
		return Locale{}, false
	}
}

// Canonical maps an abbreviated or full label to its period.
func (l Locale) Canonical(label string) (Period, bool) {
	for i := range l.Abbrev {
		if l.Abbrev[i] == label || l.Full[i] == label {
			return Period(i + 1), true
		}
	}
	return 0, false
}

// Label returns the full month name of p in this locale.
func (l Locale) Label(p Period) string {
	if !p.Valid() {
		return p.String()
	}
	return l.Full[p-1]
}

// Short returns the abbreviated month name of p in this locale.
func (l Locale) Short(p Period) string {
	if !p.Valid() {
		return p.String()
	}
	return l.Abbrev[p-1]
}

// ParsePeriod resolves a caller-supplied period reference: an abbreviated
// or full label of the locale, or a month number 1-12.
func ParsePeriod(s string, l Locale) (Period, error) {
	s = strings.TrimSpace(s)
	if p, ok := l.Canonical(s); ok {
		return p, nil
	}
	if n, err := strconv.Atoi(s); err == nil && Period(n).Valid() {
		return Period(n), nil
	}
	return 0, fmt.Errorf("unknown period %q: %w", s, ErrData)
}
