// Package session manages isolated scenario sessions, each backed by its own fixture namespace.
package session

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchstub/internal/domain"
	"github.com/kailas-cloud/searchstub/internal/domain/fixture"
	"github.com/kailas-cloud/searchstub/internal/domain/subject"
	"github.com/kailas-cloud/searchstub/internal/metrics"
	"github.com/kailas-cloud/searchstub/internal/usecase/scenario"
	"github.com/kailas-cloud/searchstub/internal/usecase/search"
)

// MaxIDLength bounds caller-chosen session ids.
const MaxIDLength = 128

// Session ids double as fixture namespaces, so they exclude key separators and glob characters.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateID reports whether id can name a session.
func ValidateID(id string) error {
	switch {
	case id == "":
		return domain.NewInvalidArgument("id", "must not be empty")
	case len(id) > MaxIDLength:
		return domain.NewInvalidArgument("id", fmt.Sprintf("must be at most %d characters", MaxIDLength))
	case !idPattern.MatchString(id):
		return domain.NewInvalidArgument("id", "must contain only letters, digits, '-' and '_'")
	}
	return nil
}

// Info describes an open session.
type Info struct {
	ID         string
	CreatedAt  time.Time
	CorpusSize int
	Subjects   []string
}

type entry struct {
	// mu serializes steps: a scenario session is single-threaded.
	mu        sync.Mutex
	scenario  *scenario.Session
	createdAt time.Time
}

// Service owns the open sessions. Safe for concurrent use.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	store  FixtureStore
	opts   scenario.Options
	logger *zap.Logger
	newID  func() string
	now    func() time.Time
}

// New creates a session service. logger may be nil.
func New(store FixtureStore, opts scenario.Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sessions: make(map[string]*entry),
		store:    store,
		opts:     opts,
		logger:   logger,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Create opens a session with a fresh id.
func (s *Service) Create(ctx context.Context) (string, error) {
	id := s.newID()
	if _, err := s.Open(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// Open returns the session id, creating the session when absent. Opening a new session
// clears any fixtures left in its namespace.
func (s *Service) Open(ctx context.Context, id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; ok {
		return id, nil
	}
	if err := s.store.Clear(ctx, id); err != nil {
		return "", fmt.Errorf("clear session %s: %w", id, err)
	}

	s.sessions[id] = &entry{
		scenario:  scenario.NewSession(registrar{store: s.store, ns: id}, s.opts, s.logger.With(zap.String("session", id))),
		createdAt: s.now(),
	}
	metrics.SessionsActive.Inc()
	s.logger.Info("Session opened", zap.String("session", id))
	return id, nil
}

// Delete closes a session and removes its fixtures.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	metrics.SessionsActive.Dec()

	if err := s.store.Clear(ctx, id); err != nil {
		return fmt.Errorf("clear session %s: %w", id, err)
	}
	s.logger.Info("Session deleted", zap.String("session", id))
	return nil
}

// Get describes an open session.
func (s *Service) Get(id string) (Info, error) {
	e, err := s.entry(id)
	if err != nil {
		return Info{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return s.info(id, e), nil
}

// List describes all open sessions, oldest first.
func (s *Service) List() []Info {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	entries := make(map[string]*entry, len(s.sessions))
	for id, e := range s.sessions {
		ids = append(ids, id)
		entries[id] = e
	}
	s.mu.RUnlock()

	out := make([]Info, 0, len(ids))
	for _, id := range ids {
		e := entries[id]
		e.mu.Lock()
		out = append(out, s.info(id, e))
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Count returns the number of open sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// AddItems runs an items step in session id and returns the number of fixtures registered.
func (s *Service) AddItems(ctx context.Context, id string, count int, keyword, subject string) (int, error) {
	var n int
	err := s.step(id, "items", func(sc *scenario.Session) error {
		fs, err := sc.AddItems(ctx, count, keyword, subject)
		n = len(fs)
		return err
	})
	return n, err
}

// ReadItem runs a reading step in session id and returns the number of fixtures registered.
func (s *Service) ReadItem(ctx context.Context, id string, subjects []string) (int, error) {
	var n int
	err := s.step(id, "reading", func(sc *scenario.Session) error {
		fs, err := sc.ReadItem(ctx, subjects)
		n = len(fs)
		return err
	})
	return n, err
}

// Apply runs every step of a plan in session id.
func (s *Service) Apply(ctx context.Context, id string, plan scenario.Plan) (int, error) {
	var n int
	err := s.step(id, "plan", func(sc *scenario.Session) error {
		var err error
		n, err = sc.Apply(ctx, plan)
		return err
	})
	return n, err
}

// Results returns the search result the session's fixtures encode for keyword and subjects.
func (s *Service) Results(id, keyword string, subjects ...string) (search.Result, error) {
	var res search.Result
	err := s.with(id, func(sc *scenario.Session) error {
		var err error
		res, err = sc.Results(keyword, subjects...)
		return err
	})
	return res, err
}

// Fixtures lists the fixtures registered in session id.
func (s *Service) Fixtures(ctx context.Context, id string) ([]fixture.Fixture, error) {
	if _, err := s.entry(id); err != nil {
		return nil, err
	}
	fs, err := s.store.List(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	return fs, nil
}

// Resolve finds the fixture registered in namespace id for req. It does not require the
// session to be open on this instance, so replicas sharing a store can all replay it.
func (s *Service) Resolve(ctx context.Context, id string, req fixture.Request) (fixture.Fixture, error) {
	f, err := s.store.Resolve(ctx, id, req)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("resolve: %w", err)
	}
	return f, nil
}

func (s *Service) step(id, kind string, fn func(*scenario.Session) error) error {
	start := s.now()
	err := s.with(id, fn)
	metrics.ScenarioStepDuration.WithLabelValues(kind).Observe(s.now().Sub(start).Seconds())
	if err != nil {
		return fmt.Errorf("%s step: %w", kind, err)
	}
	return nil
}

func (s *Service) with(id string, fn func(*scenario.Session) error) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.scenario)
}

func (s *Service) entry(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	return e, nil
}

func (s *Service) info(id string, e *entry) Info {
	st := e.scenario.State()
	return Info{
		ID:         id,
		CreatedAt:  e.createdAt,
		CorpusSize: st.Corpus().Len(),
		Subjects:   subject.Names(st.History()),
	}
}

// registrar scopes the fixture store to one session's namespace.
type registrar struct {
	store FixtureStore
	ns    string
}

func (r registrar) Register(ctx context.Context, f fixture.Fixture) error {
	return r.store.Register(ctx, r.ns, f)
}
