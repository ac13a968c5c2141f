package searchstub

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchstub/internal/db"
	"github.com/kailas-cloud/searchstub/internal/db/memory"
	dbRedis "github.com/kailas-cloud/searchstub/internal/db/redis"
	"github.com/kailas-cloud/searchstub/internal/domain/fixture"
	fixturerepo "github.com/kailas-cloud/searchstub/internal/repository/fixture"
	chiTransport "github.com/kailas-cloud/searchstub/internal/transport/chi"
	healthuc "github.com/kailas-cloud/searchstub/internal/usecase/health"
	"github.com/kailas-cloud/searchstub/internal/usecase/scenario"
	"github.com/kailas-cloud/searchstub/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/searchstub/internal/usecase/session"
)

const (
	driverMemory = "memory"
	driverRedis  = "redis"
	driverValkey = "valkey"

	defaultReadinessTimeout = 10 * time.Second
)

// sessionUseCase is the internal interface the scenario handles drive; replaced in tests.
type sessionUseCase interface {
	Create(ctx context.Context) (string, error)
	Open(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
	AddItems(ctx context.Context, id string, count int, keyword, subject string) (int, error)
	ReadItem(ctx context.Context, id string, subjects []string) (int, error)
	Apply(ctx context.Context, id string, plan scenario.Plan) (int, error)
	Results(id, keyword string, subjects ...string) (search.Result, error)
	Fixtures(ctx context.Context, id string) ([]fixture.Fixture, error)
	Resolve(ctx context.Context, id string, req fixture.Request) (fixture.Fixture, error)
}

// Client is the searchstub SDK entry point.
type Client struct {
	store     db.Store
	sessions  sessionUseCase
	healthSvc healthUseCase
	handler   http.Handler
	replay    func(id string) http.Handler
	obs       *observer
}

// New creates a Client. Without a storage option fixtures are kept in memory.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: driverMemory}
	for _, o := range opts {
		o.apply(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("searchstub: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverMemory:
		return memory.NewStore(), nil
	case driverValkey, driverRedis:
		if len(cfg.addrs) == 0 {
			return nil, fmt.Errorf("searchstub: %s address required", cfg.driver)
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("searchstub: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("searchstub: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	opts := scenario.DefaultOptions()
	if cfg.baseURL != "" {
		opts.BaseURL = cfg.baseURL
	}
	if !cfg.published.IsZero() {
		opts.Published = cfg.published.UTC()
	}
	if cfg.listingSize > 0 {
		opts.ListingSize = cfg.listingSize
	}

	repo := fixturerepo.New(store, fixturerepo.Options{
		KeyPrefix: cfg.keyPrefix,
		TTL:       cfg.ttl,
		CacheSize: 1024,
	}, nil)
	sessions := sessionuc.New(repo, opts, nil)
	healthSvc := healthuc.New(store, sessions)

	srv := chiTransport.NewServer(sessions, healthSvc, opts.BaseURL, zap.NewNop())
	r := chi.NewRouter()
	srv.Register(r)

	return &Client{
		store:     store,
		sessions:  sessions,
		healthSvc: healthSvc,
		handler:   r,
		replay:    srv.ReplayHandler,
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks fixture store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// NewScenario starts an empty scenario under a fresh id.
func (c *Client) NewScenario(ctx context.Context) (_ *Scenario, err error) {
	start := time.Now()
	defer func() { c.obs.observe("scenario.create", start, err) }()

	id, err := c.sessions.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("create scenario: %w", err)
	}
	return c.scenario(id), nil
}

// OpenScenario starts an empty scenario under a caller-chosen id, discarding fixtures a
// previous run left in the store under that id. Opening an id twice returns the same scenario.
func (c *Client) OpenScenario(ctx context.Context, id string) (_ *Scenario, err error) {
	start := time.Now()
	defer func() { c.obs.observe("scenario.open", start, err) }()

	id, err = c.sessions.Open(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	return c.scenario(id), nil
}

// Handler serves the full HTTP API: session admin routes and /replay/{id}/... for every
// scenario of this client.
func (c *Client) Handler() http.Handler {
	return c.handler
}

func (c *Client) scenario(id string) *Scenario {
	return &Scenario{id: id, sessions: c.sessions, replay: c.replay, obs: c.obs}
}
