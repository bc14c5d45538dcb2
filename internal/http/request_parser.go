package http

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"frota/internal/core"
)

// requestError is a malformed query or body. It maps to 400 and is kept
// apart from core.DataError, which describes the fleet table itself.
type requestError struct {
	Param string
	Err   error
}

func (e *requestError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %v", e.Param, e.Err)
}

func (e *requestError) Unwrap() error { return e.Err }

// DashboardParams are the parsed query parameters of /api/records and
// /api/export.csv.
type DashboardParams struct {
	Filter core.Filter
	Focus  *core.Period
}

// ParseDashboardParams reads periods, min_spent, max_spent, max_efficiency
// and focus. Periods may be repeated or comma separated; amounts accept
// both "1234.56" and "1.234,56".
func ParseDashboardParams(query url.Values, loc core.Locale) (DashboardParams, error) {
	var p DashboardParams

	for _, raw := range query["periods"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			period, err := core.ParsePeriod(part, loc)
			if err != nil {
				return DashboardParams{}, &requestError{Param: "periods", Err: err}
			}
			p.Filter.Periods = append(p.Filter.Periods, period)
		}
	}

	var err error
	if p.Filter.MinSpent, err = parseMoneyParam(query, "min_spent"); err != nil {
		return DashboardParams{}, err
	}
	if p.Filter.MaxSpent, err = parseMoneyParam(query, "max_spent"); err != nil {
		return DashboardParams{}, err
	}
	if p.Filter.MinSpent != nil && p.Filter.MaxSpent != nil && p.Filter.MinSpent.Cents > p.Filter.MaxSpent.Cents {
		return DashboardParams{}, &requestError{Param: "min_spent", Err: errors.New("greater than max_spent")}
	}

	if v := strings.TrimSpace(query.Get("max_efficiency")); v != "" {
		f, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return DashboardParams{}, &requestError{Param: "max_efficiency", Err: fmt.Errorf("%q is not a non-negative number", v)}
		}
		p.Filter.MaxEfficiency = &f
	}

	if v := strings.TrimSpace(query.Get("focus")); v != "" {
		period, err := core.ParsePeriod(v, loc)
		if err != nil {
			return DashboardParams{}, &requestError{Param: "focus", Err: err}
		}
		p.Focus = &period
	}

	return p, nil
}

// ParsePeriodParam reads a required month parameter.
func ParsePeriodParam(query url.Values, name string, loc core.Locale) (core.Period, error) {
	v := strings.TrimSpace(query.Get(name))
	if v == "" {
		return 0, &requestError{Param: name, Err: errors.New("required")}
	}
	p, err := core.ParsePeriod(v, loc)
	if err != nil {
		return 0, &requestError{Param: name, Err: err}
	}
	return p, nil
}

func parseMoneyParam(query url.Values, name string) (*core.Money, error) {
	v := strings.TrimSpace(query.Get(name))
	if v == "" {
		return nil, nil
	}
	cents, err := core.ParseDecimalToCents(v)
	if err != nil {
		return nil, &requestError{Param: name, Err: err}
	}
	return &core.Money{Cents: cents}, nil
}

// RequireMethod writes 405 with an Allow header unless r uses one of
// methods. It reports whether the handler may continue.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed", Code: "method_not_allowed"})
	return false
}
