package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"frota/internal/core"
	applog "frota/internal/log"
	"frota/internal/middleware/ratelimit"
	"frota/internal/middleware/security"
	"frota/internal/middleware/trace"
	"frota/internal/services"
)

// sourceTimeout bounds every call that may reach the fleet table source.
const sourceTimeout = 7 * time.Second

// Reports is the audit surface the server exposes.
type Reports interface {
	Dashboard(ctx context.Context, filter core.Filter, focus *core.Period) (*services.Dashboard, error)
	Diagnostic(ctx context.Context, period core.Period) (core.Classification, error)
	Refresh(ctx context.Context, reason string) (core.RecordSet, error)
	Ready(ctx context.Context) error
	Locale() core.Locale
}

type Server struct {
	http.Server
	reports  Reports
	logger   *applog.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// Options configures NewServer. A nil Logger uses the default logger with
// the http component.
type Options struct {
	Logger            *applog.Logger
	RequestsPerMinute int
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, reports Reports, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	detector := security.NewDetector()
	s := &Server{
		reports:  reports,
		logger:   logger,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RequestsPerMinute}),
		detector: detector,
		tracer:   trace.NewMiddleware(detector.ExtractClientIP, logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/records", s.handleRecords)
	mux.HandleFunc("/api/diagnostic", s.handleDiagnostic)
	mux.HandleFunc("/api/export.csv", s.handleExport)
	mux.HandleFunc("/api/refresh", s.handleRefresh)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded", Code: "rate_limited"})
	}, http.MethodPost)

	var handler http.Handler = mux
	handler = limit(handler)
	handler = s.flagSuspicious(handler)
	handler = headers.Middleware(handler)
	handler = applog.Middleware(logger, trace.RequestID)(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// flagSuspicious logs requests matching known probe patterns. They are
// still served.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			applog.FromContext(r.Context()).WithComponent(applog.ComponentSecurity).WarnContext(r.Context(),
				"Suspicious request detected",
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldClientIP, s.detector.ExtractClientIP(r),
				applog.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), sourceTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.reports.Ready(ctx); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	params, err := ParseDashboardParams(r.URL.Query(), s.reports.Locale())
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sourceTimeout)
	defer cancel()

	d, err := s.reports.Dashboard(ctx, params.Filter, params.Focus)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDashboardJSON(d))
}

func (s *Server) handleDiagnostic(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	loc := s.reports.Locale()
	period, err := ParsePeriodParam(r.URL.Query(), "period", loc)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sourceTimeout)
	defer cancel()

	c, err := s.reports.Diagnostic(ctx, period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	applog.NewStructuredLogger(applog.FromContext(ctx)).
		LogClassification(ctx, loc.Short(c.Period), string(c.Tier), c.DeviationPercent, c.Spent.Cents)
	writeJSON(w, http.StatusOK, newClassificationJSON(c, loc))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	params, err := ParseDashboardParams(r.URL.Query(), s.reports.Locale())
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sourceTimeout)
	defer cancel()

	d, err := s.reports.Dashboard(ctx, params.Filter, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename))
	if err := WriteCSV(w, d.Records, d.Locale); err != nil {
		applog.NewStructuredLogger(applog.FromContext(ctx)).
			LogError(ctx, "CSV export failed", err, applog.ErrorTypeInternal, applog.OpExport, nil)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sourceTimeout)
	defer cancel()

	set, err := s.reports.Refresh(ctx, "api")
	if err != nil {
		writeError(w, r, err)
		return
	}
	applog.FromContext(ctx).InfoContext(ctx, "Fleet table refreshed",
		applog.FieldOperation, applog.OpRefresh,
		applog.FieldFingerprint, set.Fingerprint(),
		applog.FieldRecords, set.Len())
	writeJSON(w, http.StatusOK, refreshJSON{Fingerprint: set.Fingerprint(), Records: set.Len()})
}
