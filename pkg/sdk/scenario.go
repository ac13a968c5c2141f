package searchstub

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kailas-cloud/searchstub/internal/usecase/scenario"
)

// Scenario is one isolated corpus and the fixtures registered for it.
// It is safe for concurrent use; steps are serialized.
type Scenario struct {
	id       string
	sessions sessionUseCase
	replay   func(id string) http.Handler
	obs      *observer
}

// ID returns the scenario id. It is also the path segment of /replay/{id}/ on Client.Handler.
func (s *Scenario) ID() string { return s.id }

// AddItems runs "count items about keyword", tagged with subject when it is not empty.
// It returns the number of fixtures registered.
func (s *Scenario) AddItems(ctx context.Context, count int, keyword, subject string) (n int, err error) {
	start := time.Now()
	defer func() {
		s.obs.observe("scenario.add_items", start, err)
		s.obs.registered(n)
	}()

	n, err = s.sessions.AddItems(ctx, s.id, count, keyword, subject)
	if err != nil {
		return n, fmt.Errorf("add items: %w", err)
	}
	return n, nil
}

// ReadItem runs "reading an item with subjects": it registers the preview item and its
// version history.
func (s *Scenario) ReadItem(ctx context.Context, subjects ...string) (n int, err error) {
	start := time.Now()
	defer func() {
		s.obs.observe("scenario.read_item", start, err)
		s.obs.registered(n)
	}()

	n, err = s.sessions.ReadItem(ctx, s.id, subjects)
	if err != nil {
		return n, fmt.Errorf("read item: %w", err)
	}
	return n, nil
}

// ApplyPlan runs every step of a YAML plan:
//
//	steps:
//	  - items: {count: 3, keyword: cell, subject: Biophysics}
//	  - reading: {subjects: [Biophysics]}
func (s *Scenario) ApplyPlan(ctx context.Context, planYAML []byte) (n int, err error) {
	start := time.Now()
	defer func() {
		s.obs.observe("scenario.apply_plan", start, err)
		s.obs.registered(n)
	}()

	plan, err := scenario.ParsePlan(planYAML)
	if err != nil {
		return 0, err
	}
	n, err = s.sessions.Apply(ctx, s.id, plan)
	if err != nil {
		return n, fmt.Errorf("apply plan: %w", err)
	}
	return n, nil
}

// Results returns the full search result the fixtures encode for keyword narrowed to any
// of subjects. Use it to assert what the system under test renders.
func (s *Scenario) Results(keyword string, subjects ...string) (SearchResult, error) {
	res, err := s.sessions.Results(s.id, keyword, subjects...)
	if err != nil {
		return SearchResult{}, fmt.Errorf("results: %w", err)
	}
	return resultFromDomain(res), nil
}

// Fixtures lists the registered fixtures in registration order.
func (s *Scenario) Fixtures(ctx context.Context) (_ []Fixture, err error) {
	start := time.Now()
	defer func() { s.obs.observe("scenario.fixtures", start, err) }()

	fs, err := s.sessions.Fixtures(ctx, s.id)
	if err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}
	out := make([]Fixture, len(fs))
	for i, f := range fs {
		out[i] = fixtureFromDomain(f)
	}
	return out, nil
}

// Resolve finds the fixture registered for req. It fails with ErrFixtureNotFound when
// nothing matches.
func (s *Scenario) Resolve(ctx context.Context, req Request) (_ Fixture, err error) {
	start := time.Now()
	defer func() { s.obs.observe("scenario.resolve", start, err) }()

	f, err := s.sessions.Resolve(ctx, s.id, requestToDomain(req))
	if err != nil {
		return Fixture{}, fmt.Errorf("resolve %s %s: %w", req.Method, req.URL, err)
	}
	return fixtureFromDomain(f), nil
}

// Handler replays this scenario's fixtures with the request path mapped onto the mirrored
// API base URL. Serve it from httptest.NewServer and hand the server URL to the system
// under test as its API origin.
func (s *Scenario) Handler() http.Handler {
	return s.replay(s.id)
}

// Close discards the scenario and its fixtures.
func (s *Scenario) Close(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("scenario.close", start, err) }()

	if err = s.sessions.Delete(ctx, s.id); err != nil {
		return fmt.Errorf("close scenario: %w", err)
	}
	return nil
}
