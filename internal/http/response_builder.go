// Package http serves the fleet audit over a small JSON and CSV API.
//
// This file holds the response DTOs and a builder for JSON responses so
// every handler writes headers, status and error bodies the same way.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"frota/internal/core"
	"frota/internal/format"
	applog "frota/internal/log"
	"frota/internal/services"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	status  int
	headers map[string]string
	body    interface{}
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		status:  http.StatusOK,
		headers: make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.status = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v interface{}) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write encodes the response to w.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.status)
	if b.body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(b.body); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	NewJSONResponse().Status(status).Body(v).Write(w)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps service and core errors to a status and a stable code.
func statusFor(err error) (int, string) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, core.ErrEmptySet):
		return http.StatusUnprocessableEntity, "empty_set"
	case errors.Is(err, core.ErrDivisionUndefined):
		return http.StatusUnprocessableEntity, "division_undefined"
	case errors.Is(err, core.ErrUndefinedMetric):
		return http.StatusUnprocessableEntity, "undefined_metric"
	case errors.Is(err, core.ErrInvalidThresholds):
		return http.StatusUnprocessableEntity, "invalid_thresholds"
	case errors.Is(err, core.ErrData):
		return http.StatusUnprocessableEntity, "data_error"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "source_timeout"
	default:
		return http.StatusBadGateway, "source_unavailable"
	}
}

// writeError logs err and writes it as a JSON error body. Source failures
// are not echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	logger := applog.FromContext(r.Context())
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", applog.FieldError, err, applog.FieldPath, r.URL.Path, applog.FieldStatusCode, status)
		msg = http.StatusText(status)
	} else {
		logger.WarnContext(r.Context(), "Request rejected", applog.FieldError, err, applog.FieldPath, r.URL.Path, applog.FieldStatusCode, status)
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

type recordJSON struct {
	Period        int      `json:"period"`
	Label         string   `json:"label"`
	SpentCents    int64    `json:"spent_cents"`
	Spent         string   `json:"spent"`
	DistanceKm    float64  `json:"distance_km"`
	Distance      string   `json:"distance"`
	CostPerKm     *float64 `json:"cost_per_km"`
	CostPerKmText string   `json:"cost_per_km_text"`
}

type summaryJSON struct {
	Count           int      `json:"count"`
	TotalSpentCents int64    `json:"total_spent_cents"`
	TotalSpent      string   `json:"total_spent"`
	TotalDistanceKm float64  `json:"total_distance_km"`
	MeanSpent       string   `json:"mean_spent"`
	CostPerKm       *float64 `json:"cost_per_km"`
	MinSpentCents   int64    `json:"min_spent_cents"`
	MaxSpentCents   int64    `json:"max_spent_cents"`
	MaxCostPerKm    *float64 `json:"max_cost_per_km"`
	Undefined       int      `json:"undefined_count"`
}

type thresholdsJSON struct {
	Warning  float64 `json:"warning"`
	Critical float64 `json:"critical"`
}

type dashboardJSON struct {
	Locale     string         `json:"locale"`
	Records    []recordJSON   `json:"records"`
	Summary    summaryJSON    `json:"summary"`
	Bounds     summaryJSON    `json:"bounds"`
	Focus      *recordJSON    `json:"focus,omitempty"`
	Thresholds thresholdsJSON `json:"thresholds"`
}

type classificationJSON struct {
	Period           int     `json:"period"`
	Label            string  `json:"label"`
	SpentCents       int64   `json:"spent_cents"`
	Spent            string  `json:"spent"`
	Baseline         string  `json:"baseline"`
	DeviationPercent float64 `json:"deviation_percent"`
	Deviation        string  `json:"deviation"`
	Tier             string  `json:"tier"`
}

type refreshJSON struct {
	Fingerprint string `json:"fingerprint"`
	Records     int    `json:"records"`
}

func efficiencyPtr(e core.Efficiency) *float64 {
	v, err := e.Float()
	if err != nil {
		return nil
	}
	return &v
}

func newRecordJSON(r core.Record, loc core.Locale) recordJSON {
	f := format.For(loc)
	return recordJSON{
		Period:        int(r.Period),
		Label:         loc.Label(r.Period),
		SpentCents:    r.Spent.Cents,
		Spent:         f.Money(r.Spent),
		DistanceKm:    r.Distance,
		Distance:      f.Distance(r.Distance),
		CostPerKm:     efficiencyPtr(r.Efficiency),
		CostPerKmText: f.Efficiency(r.Efficiency),
	}
}

func newSummaryJSON(s core.Summary, loc core.Locale) summaryJSON {
	f := format.For(loc)
	return summaryJSON{
		Count:           s.Count,
		TotalSpentCents: s.TotalSpent.Cents,
		TotalSpent:      f.Money(s.TotalSpent),
		TotalDistanceKm: s.TotalDistance,
		MeanSpent:       s.MeanSpent.StringFixed(2),
		CostPerKm:       efficiencyPtr(s.Efficiency),
		MinSpentCents:   s.MinSpent.Cents,
		MaxSpentCents:   s.MaxSpent.Cents,
		MaxCostPerKm:    efficiencyPtr(s.MaxEfficiency),
		Undefined:       s.Undefined,
	}
}

func newDashboardJSON(d *services.Dashboard) dashboardJSON {
	out := dashboardJSON{
		Locale:     d.Locale.Name,
		Records:    make([]recordJSON, 0, len(d.Records)),
		Summary:    newSummaryJSON(d.Summary, d.Locale),
		Bounds:     newSummaryJSON(d.Bounds, d.Locale),
		Thresholds: thresholdsJSON{Warning: d.Thresholds.Warning, Critical: d.Thresholds.Critical},
	}
	for _, r := range d.Records {
		out.Records = append(out.Records, newRecordJSON(r, d.Locale))
	}
	if d.Focus != nil {
		focus := newRecordJSON(*d.Focus, d.Locale)
		out.Focus = &focus
	}
	return out
}

func newClassificationJSON(c core.Classification, loc core.Locale) classificationJSON {
	f := format.For(loc)
	return classificationJSON{
		Period:           int(c.Period),
		Label:            loc.Label(c.Period),
		SpentCents:       c.Spent.Cents,
		Spent:            f.Money(c.Spent),
		Baseline:         c.Baseline.StringFixed(2),
		DeviationPercent: c.DeviationPercent,
		Deviation:        f.Percent(c.DeviationPercent),
		Tier:             string(c.Tier),
	}
}
