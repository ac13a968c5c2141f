package scenario

import (
	"context"

	"github.com/kailas-cloud/searchstub/internal/domain/fixture"
)

// Registrar accepts fixtures in the order they are issued.
type Registrar interface {
	Register(ctx context.Context, f fixture.Fixture) error
}
