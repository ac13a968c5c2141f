package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchstub/internal/domain"
	"github.com/kailas-cloud/searchstub/internal/domain/fixture"
	"github.com/kailas-cloud/searchstub/internal/domain/search/page"
	"github.com/kailas-cloud/searchstub/internal/logger"
	healthuc "github.com/kailas-cloud/searchstub/internal/usecase/health"
	"github.com/kailas-cloud/searchstub/internal/usecase/scenario"
	sessionuc "github.com/kailas-cloud/searchstub/internal/usecase/session"
	"github.com/kailas-cloud/searchstub/internal/version"
)

const maxPlanBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the session admin API and replays registered fixtures.
type Server struct {
	sessions      *sessionuc.Service
	health        *healthuc.Service
	baseURL       string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP server. baseURL is the origin of the mirrored API that
// replayed paths are resolved against.
func NewServer(
	sessions *sessionuc.Service,
	health *healthuc.Service,
	baseURL string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		sessions: sessions,
		health:   health,
		baseURL:  baseURL,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		invalidArgumentHandler,
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, ErrorCodeSessionNotFound),
		sentinelHandler(domain.ErrFixtureNotFound, http.StatusNotFound, ErrorCodeFixtureNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
	}
	return s
}

// Register mounts all routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(sessionScoped)
			r.Get("/", s.GetSession)
			r.Put("/", s.OpenSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/items", s.AddItems)
			r.Post("/reading", s.ReadItem)
			r.Post("/plan", s.ApplyPlan)
			r.Get("/fixtures", s.ListFixtures)
			r.Get("/results", s.Results)
		})
	})

	r.With(sessionScoped).HandleFunc("/replay/{id}/*", s.Replay)
}

// sessionScoped tags the request logger with the {id} route parameter.
func sessionScoped(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithSession(r.Context(), chi.URLParam(r, "id"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessions.Create(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateSessionResponse{ID: id})
}

// OpenSession handles PUT /sessions/{id}: creates the session under a caller-chosen id.
func (s *Server) OpenSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessions.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.writeSession(w, r, id)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, _ *http.Request) {
	infos := s.sessions.List()
	items := make([]SessionResponse, len(infos))
	for i, info := range infos {
		items[i] = sessionToResponse(info)
	}
	writeJSON(w, http.StatusOK, items)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w, r, chi.URLParam(r, "id"))
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, id string) {
	info, err := s.sessions.Get(id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(info))
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItems handles POST /sessions/{id}/items.
func (s *Server) AddItems(w http.ResponseWriter, r *http.Request) {
	var req AddItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	n, err := s.sessions.AddItems(r.Context(), chi.URLParam(r, "id"), req.Count, req.Keyword, req.Subject)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, StepResponse{Registered: n})
}

// ReadItem handles POST /sessions/{id}/reading.
func (s *Server) ReadItem(w http.ResponseWriter, r *http.Request) {
	var req ReadItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	n, err := s.sessions.ReadItem(r.Context(), chi.URLParam(r, "id"), req.Subjects)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, StepResponse{Registered: n})
}

// ApplyPlan handles POST /sessions/{id}/plan with a YAML plan body.
func (s *Server) ApplyPlan(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxPlanBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	plan, err := scenario.ParsePlan(data)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			s.handleDomainError(w, r, err)
			return
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	n, err := s.sessions.Apply(r.Context(), chi.URLParam(r, "id"), plan)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, StepResponse{Registered: n})
}

// ListFixtures handles GET /sessions/{id}/fixtures.
func (s *Server) ListFixtures(w http.ResponseWriter, r *http.Request) {
	fs, err := s.sessions.Fixtures(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	items := make([]FixtureDescriptor, len(fs))
	for i, f := range fs {
		items[i] = fixtureToDescriptor(f)
	}
	writeJSON(w, http.StatusOK, items)
}

// Results handles GET /sessions/{id}/results?for=K&subject=Name...: the full, unpaginated
// search response the session's fixtures encode.
func (s *Server) Results(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := s.sessions.Results(chi.URLParam(r, "id"), q.Get("for"), q["subject"]...)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	items := res.Items
	if q.Get("preview") == "true" {
		items = page.Preview(items)
	}
	writeJSON(w, http.StatusOK, fixture.NewSearchPayload(res.Total, items, res.Facets))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:   string(report.Status),
		Checks:   checks,
		Sessions: report.Sessions,
		Version:  version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSessionNotFound,
		domain.ErrFixtureNotFound,
		domain.ErrNotFound,
		domain.ErrInvalidArgument,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler creates an errorHandler for a simple sentinel → HTTP status mapping.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidArgumentHandler reports which argument was rejected and why.
func invalidArgumentHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInvalidArgument) {
		return false
	}
	var iae *domain.InvalidArgumentError
	if errors.As(err, &iae) {
		msg = iae.Error()
	}
	writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
