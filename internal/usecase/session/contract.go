package session

import (
	"context"

	"github.com/kailas-cloud/searchstub/internal/domain/fixture"
)

// FixtureStore persists fixtures per namespace. Each session owns the namespace named by its id.
type FixtureStore interface {
	Register(ctx context.Context, ns string, f fixture.Fixture) error
	Resolve(ctx context.Context, ns string, req fixture.Request) (fixture.Fixture, error)
	List(ctx context.Context, ns string) ([]fixture.Fixture, error)
	Clear(ctx context.Context, ns string) error
}
