package searchstub

import "github.com/kailas-cloud/searchstub/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidArgument = domain.ErrInvalidArgument
	ErrNotFound        = domain.ErrNotFound
	ErrSessionNotFound = domain.ErrSessionNotFound
	ErrFixtureNotFound = domain.ErrFixtureNotFound
)
