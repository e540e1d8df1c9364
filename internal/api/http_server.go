package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"pictiv/internal/config"
	"pictiv/internal/database"
	"pictiv/internal/domain"
	"pictiv/internal/metrics"
	"pictiv/internal/service"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const (
	maxBodyBytes        = 1 << 20
	requestIDHeader     = "X-Request-ID"
	msgDatabaseNotReady = "Database not available"
)

// Dependencies are the services the HTTP API is served from.
type Dependencies struct {
	Catalog     *service.CatalogService
	Submissions *service.SubmissionService
	Diagnostics *service.DiagnosticsService
	Limiter     domain.SubmissionLimiter
}

// HTTPServer exposes the public studio API.
type HTTPServer struct {
	deps      Dependencies
	validator *service.Validator
	server    *http.Server
	log       zerolog.Logger
}

func NewHTTPServer(cfg config.HTTPConfig, deps Dependencies, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		deps:      deps,
		validator: service.NewValidator(),
		log:       zerolog.Nop(),
	}
	if logger != nil {
		srv.log = logger.With().Str("component", "http").Logger()
	}

	router := httprouter.New()
	router.GET("/", srv.route("root", srv.handleRoot))
	router.GET("/api/services", srv.route("services", srv.handleServices))
	router.GET("/api/announcements", srv.route("announcements", srv.handleAnnouncements))
	router.POST("/api/bookings", srv.route("bookings", srv.limited("booking", srv.handleCreateBooking)))
	router.POST("/api/inquiries", srv.route("inquiries", srv.limited("inquiry", srv.handleCreateInquiry)))
	router.GET("/test", srv.route("diagnostics", srv.handleDiagnostics))
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	corsHandler := cors.New(cors.Options{
		AllowOriginFunc:  func(string) bool { return true },
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.requestID(srv.accessLog(corsHandler.Handler(router))),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleRoot(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Pictiv.Studio API running"})
}

func (s *HTTPServer) handleServices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.deps.Catalog.ListServices(r.Context()))
}

func (s *HTTPServer) handleAnnouncements(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.deps.Catalog.ListAnnouncements(r.Context()))
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload bookingPayload
	if err := s.decode(w, r, &payload); err != nil {
		s.writeSubmissionError(w, r, "booking", err)
		return
	}

	receipt, err := s.deps.Submissions.CreateBooking(r.Context(), payload.toRequest())
	if err != nil {
		s.writeSubmissionError(w, r, "booking", err)
		return
	}

	metrics.IncSubmission("booking", "received")
	writeJSON(w, http.StatusOK, receipt)
}

func (s *HTTPServer) handleCreateInquiry(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload inquiryPayload
	if err := s.decode(w, r, &payload); err != nil {
		s.writeSubmissionError(w, r, "inquiry", err)
		return
	}

	receipt, err := s.deps.Submissions.CreateInquiry(r.Context(), payload.toRequest())
	if err != nil {
		s.writeSubmissionError(w, r, "inquiry", err)
		return
	}

	metrics.IncSubmission("inquiry", "received")
	writeJSON(w, http.StatusOK, receipt)
}

func (s *HTTPServer) handleDiagnostics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.deps.Diagnostics.Check(r.Context()))
}

// decode reads a JSON object into payload and validates it. Member names
// are matched case-sensitively. Every failure is a *service.ValidationError.
func (s *HTTPServer) decode(w http.ResponseWriter, r *http.Request, payload any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var object map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&object); err != nil {
		return decodeError(err)
	}
	if err := assignFields(object, payload); err != nil {
		return decodeError(err)
	}
	return s.validator.Struct(payload)
}

func decodeError(err error) error {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		maxBytesErr *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return service.NewValidationError(service.FieldError{Field: "body", Message: "field required"})
	case errors.As(err, &syntaxErr):
		return service.NewValidationError(service.FieldError{
			Field:   "body",
			Message: fmt.Sprintf("invalid JSON at offset %d", syntaxErr.Offset),
		})
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return service.NewValidationError(service.FieldError{
			Field:   field,
			Message: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
		})
	case errors.As(err, &maxBytesErr):
		return service.NewValidationError(service.FieldError{Field: "body", Message: "request body too large"})
	default:
		return service.NewValidationError(service.FieldError{Field: "body", Message: "invalid JSON"})
	}
}

func (s *HTTPServer) writeSubmissionError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		metrics.IncSubmission(kind, "invalid")
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  service.ErrValidation.Error(),
			"detail": verr.Fields,
		})
	case errors.Is(err, database.ErrUnavailable):
		metrics.IncSubmission(kind, "unavailable")
		writeError(w, http.StatusServiceUnavailable, msgDatabaseNotReady)
	default:
		metrics.IncSubmission(kind, "error")
		s.log.Error().Err(err).Str("kind", kind).Str("request_id", requestIDFrom(r)).Msg("submission failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// limited rejects submissions over the per-client limit before the body is read.
// Limiter errors let the request through.
func (s *HTTPServer) limited(kind string, next httprouter.Handle) httprouter.Handle {
	if s.deps.Limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		allowed, err := s.deps.Limiter.Allow(r.Context(), clientKey(r))
		if err != nil {
			s.log.Warn().Err(err).Msg("rate limiter unavailable")
			allowed = true
		}
		if !allowed {
			metrics.IncSubmission(kind, "limited")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r, ps)
	}
}

// route labels a handler for the request counter.
func (s *HTTPServer) route(name string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r, ps)
		metrics.IncHTTP(name, fmt.Sprintf("%dxx", recorder.status/100))
	}
}

func (s *HTTPServer) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.log.Info().
			Str("request_id", requestIDFrom(r)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func requestIDFrom(r *http.Request) string {
	return r.Header.Get(requestIDHeader)
}

// clientKey identifies the caller by the first X-Forwarded-For hop, falling
// back to the connection address.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
