package searchstub

import (
	"context"

	"github.com/kailas-cloud/searchstub/internal/domain/fixture"
	"github.com/kailas-cloud/searchstub/internal/usecase/scenario"
	"github.com/kailas-cloud/searchstub/internal/usecase/search"
)

// --- sessionUseCase mock ---

type mockSessions struct {
	createFn   func(ctx context.Context) (string, error)
	openFn     func(ctx context.Context, id string) (string, error)
	deleteFn   func(ctx context.Context, id string) error
	addItemsFn func(ctx context.Context, id string, count int, keyword, subject string) (int, error)
	readItemFn func(ctx context.Context, id string, subjects []string) (int, error)
	applyFn    func(ctx context.Context, id string, plan scenario.Plan) (int, error)
	resultsFn  func(id, keyword string, subjects ...string) (search.Result, error)
	fixturesFn func(ctx context.Context, id string) ([]fixture.Fixture, error)
	resolveFn  func(ctx context.Context, id string, req fixture.Request) (fixture.Fixture, error)
}

func (m *mockSessions) Create(ctx context.Context) (string, error) { return m.createFn(ctx) }

func (m *mockSessions) Open(ctx context.Context, id string) (string, error) { return m.openFn(ctx, id) }

func (m *mockSessions) Delete(ctx context.Context, id string) error { return m.deleteFn(ctx, id) }

func (m *mockSessions) AddItems(ctx context.Context, id string, count int, keyword, subject string) (int, error) {
	return m.addItemsFn(ctx, id, count, keyword, subject)
}

func (m *mockSessions) ReadItem(ctx context.Context, id string, subjects []string) (int, error) {
	return m.readItemFn(ctx, id, subjects)
}

func (m *mockSessions) Apply(ctx context.Context, id string, plan scenario.Plan) (int, error) {
	return m.applyFn(ctx, id, plan)
}

func (m *mockSessions) Results(id, keyword string, subjects ...string) (search.Result, error) {
	return m.resultsFn(id, keyword, subjects...)
}

func (m *mockSessions) Fixtures(ctx context.Context, id string) ([]fixture.Fixture, error) {
	return m.fixturesFn(ctx, id)
}

func (m *mockSessions) Resolve(ctx context.Context, id string, req fixture.Request) (fixture.Fixture, error) {
	return m.resolveFn(ctx, id, req)
}
