package chi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchstub/internal/domain"
	"github.com/kailas-cloud/searchstub/internal/domain/fixture"
	"github.com/kailas-cloud/searchstub/internal/logger"
)

// Replay handles {METHOD} /replay/{id}/{path}: it rebuilds the mirrored API request from the
// path, query and Accept header and writes the fixture registered for it verbatim.
func (s *Server) Replay(w http.ResponseWriter, r *http.Request) {
	s.replay(w, r, chi.URLParam(r, "id"), chi.URLParam(r, "*"))
}

// ReplayHandler replays the fixtures of session id with the request path taken as the
// mirrored API path, so the handler can stand in for the API origin itself.
func (s *Server) ReplayHandler(id string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.replay(w, r.WithContext(logger.WithSession(r.Context(), id)), id, r.URL.Path)
	})
}

func (s *Server) replay(w http.ResponseWriter, r *http.Request, id, path string) {
	req := fixture.Request{
		Method: r.Method,
		URL:    mirroredURL(s.baseURL, path, r.URL.RawQuery),
		Accept: r.Header.Values("Accept"),
	}

	f, err := s.sessions.Resolve(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, domain.ErrFixtureNotFound) {
			logger.FromContext(r.Context()).Info("fixture miss", zap.String("key", req.Key()))
			writeJSON(w, http.StatusNotFound, FixtureMissResponse{
				ErrorResponse: ErrorResponse{Code: ErrorCodeFixtureNotFound, Message: "no fixture registered for request"},
				Request:       FixtureDescriptor{Method: req.Method, URL: req.URL, Accept: fixture.NormalizeAccept(req.Accept)},
			})
			return
		}
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", f.Response.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Response.Body)))
	w.WriteHeader(f.Response.Status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(f.Response.Body)
	}
}

func mirroredURL(base, path, rawQuery string) string {
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}
