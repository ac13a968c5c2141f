package chi

import (
	"github.com/kailas-cloud/searchstub/internal/domain/fixture"
	sessionuc "github.com/kailas-cloud/searchstub/internal/usecase/session"
)

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeNotFound         ErrorCode = "not_found"
	ErrorCodeSessionNotFound  ErrorCode = "session_not_found"
	ErrorCodeFixtureNotFound  ErrorCode = "fixture_not_found"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// CreateSessionResponse is returned by POST /sessions.
type CreateSessionResponse struct {
	ID string `json:"id"`
}

// SessionResponse describes a session.
type SessionResponse struct {
	ID         string   `json:"id"`
	CreatedAt  string   `json:"created_at"`
	CorpusSize int      `json:"corpus_size"`
	Subjects   []string `json:"subjects"`
}

// AddItemsRequest is the body of POST /sessions/{id}/items.
type AddItemsRequest struct {
	Count   int    `json:"count"`
	Keyword string `json:"keyword"`
	Subject string `json:"subject,omitempty"`
}

// ReadItemRequest is the body of POST /sessions/{id}/reading.
type ReadItemRequest struct {
	Subjects []string `json:"subjects"`
}

// StepResponse reports how many fixtures a step registered.
type StepResponse struct {
	Registered int `json:"registered"`
}

// FixtureDescriptor is a registered request and the head of its response.
type FixtureDescriptor struct {
	Method      string   `json:"method"`
	URL         string   `json:"url"`
	Accept      []string `json:"accept"`
	Status      int      `json:"status"`
	ContentType string   `json:"content_type"`
}

// FixtureMissResponse is returned by the replay endpoint when nothing matches.
type FixtureMissResponse struct {
	ErrorResponse
	Request FixtureDescriptor `json:"request"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Sessions int               `json:"sessions"`
	Version  string            `json:"version"`
}

func sessionToResponse(info sessionuc.Info) SessionResponse {
	return SessionResponse{
		ID:         info.ID,
		CreatedAt:  info.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		CorpusSize: info.CorpusSize,
		Subjects:   info.Subjects,
	}
}

func fixtureToDescriptor(f fixture.Fixture) FixtureDescriptor {
	return FixtureDescriptor{
		Method:      f.Request.Method,
		URL:         f.Request.URL,
		Accept:      f.Request.Accept,
		Status:      f.Response.Status,
		ContentType: f.Response.ContentType,
	}
}
