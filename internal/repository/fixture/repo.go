// Package fixture persists registered fixtures per namespace over a key-value store.
package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchstub/internal/db"
	"github.com/kailas-cloud/searchstub/internal/domain"
	domfx "github.com/kailas-cloud/searchstub/internal/domain/fixture"
)

// DefaultKeyPrefix namespaces every key the registry writes.
const DefaultKeyPrefix = "searchstub:"

// store is the consumer interface for the fixture registry (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Options configure a Repo.
type Options struct {
	// KeyPrefix defaults to DefaultKeyPrefix.
	KeyPrefix string
	// TTL expires stored fixtures; zero keeps them until cleared.
	TTL time.Duration
	// CacheSize bounds the resolve cache; zero disables it.
	CacheSize int
	// RegisteredTotal counts writes by "status" label. Optional.
	RegisteredTotal *prometheus.CounterVec
	// ResolveTotal counts lookups by "result" label. Optional.
	ResolveTotal *prometheus.CounterVec
	// CacheTotal counts resolve cache lookups by "result" label. Optional.
	CacheTotal *prometheus.CounterVec
}

// Repo stores fixtures under namespaced keys:
//
//	{prefix}{ns}:fx:{hash(request key)}  fixture record
//	{prefix}{ns}:seq                     registration counter
//
// The counter is bumped after every write and every Clear. Cached
// resolutions carry the counter value they were read under and are
// discarded once it moves, so replicas sharing a store never serve a
// fixture another replica replaced or cleared.
type Repo struct {
	store  store
	opts   Options
	cache  *expirable.LRU[string, cachedFixture]
	logger *zap.Logger
}

type cachedFixture struct {
	fixture domfx.Fixture
	gen     int64
}

// New creates a fixture repository. logger may be nil.
// A positive TTL below one second is raised to one second.
func New(s store, opts Options, logger *zap.Logger) *Repo {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if opts.TTL > 0 && opts.TTL < time.Second {
		opts.TTL = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Repo{store: s, opts: opts, logger: logger}
	if opts.CacheSize > 0 {
		r.cache = expirable.NewLRU[string, cachedFixture](opts.CacheSize, nil, opts.TTL)
	}
	return r
}

// Register stores f in namespace ns. A fixture with the same request key is replaced.
func (r *Repo) Register(ctx context.Context, ns string, f domfx.Fixture) error {
	if err := checkNamespace(ns); err != nil {
		inc(r.opts.RegisteredTotal, "error")
		return err
	}
	if err := r.register(ctx, ns, f); err != nil {
		inc(r.opts.RegisteredTotal, "error")
		return err
	}
	inc(r.opts.RegisteredTotal, "ok")
	return nil
}

func (r *Repo) register(ctx context.Context, ns string, f domfx.Fixture) error {
	seqKey := r.seqKey(ns)
	seq, err := r.store.IncrBy(ctx, seqKey, 1)
	if err != nil {
		return fmt.Errorf("incr %s: %w", seqKey, err)
	}

	data, err := json.Marshal(toDTO(seq, f))
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}

	reqKey := f.Request.Key()
	key := r.fixtureKey(ns, reqKey)
	if r.opts.TTL > 0 {
		err = r.store.SetWithTTL(ctx, key, data, r.opts.TTL)
	} else {
		err = r.store.Set(ctx, key, data)
	}
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	if err := r.bump(ctx, ns); err != nil {
		return err
	}
	if r.cache != nil {
		r.cache.Remove(cacheKey(ns, reqKey))
	}
	return nil
}

// bump advances the namespace counter so cached resolutions read before it go stale.
func (r *Repo) bump(ctx context.Context, ns string) error {
	seqKey := r.seqKey(ns)
	if _, err := r.store.IncrBy(ctx, seqKey, 1); err != nil {
		return fmt.Errorf("incr %s: %w", seqKey, err)
	}
	if r.opts.TTL > 0 {
		if err := r.store.Expire(ctx, seqKey, r.opts.TTL); err != nil {
			return fmt.Errorf("expire %s: %w", seqKey, err)
		}
	}
	return nil
}

// generation reads the namespace counter; a missing counter reads as zero.
func (r *Repo) generation(ctx context.Context, ns string) (int64, error) {
	seqKey := r.seqKey(ns)
	data, err := r.store.Get(ctx, seqKey)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get %s: %w", seqKey, err)
	}
	gen, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", seqKey, err)
	}
	return gen, nil
}

// Resolve returns the fixture registered in ns for req.
// Returns domain.ErrFixtureNotFound when none matches.
func (r *Repo) Resolve(ctx context.Context, ns string, req domfx.Request) (domfx.Fixture, error) {
	if err := checkNamespace(ns); err != nil {
		return domfx.Fixture{}, err
	}
	reqKey := req.Key()

	var gen int64
	if r.cache != nil {
		var err error
		if gen, err = r.generation(ctx, ns); err != nil {
			return domfx.Fixture{}, err
		}
		if c, ok := r.cache.Get(cacheKey(ns, reqKey)); ok && c.gen == gen {
			inc(r.opts.CacheTotal, "hit")
			inc(r.opts.ResolveTotal, "hit")
			return c.fixture, nil
		}
		inc(r.opts.CacheTotal, "miss")
	}

	key := r.fixtureKey(ns, reqKey)
	dto, err := r.load(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			inc(r.opts.ResolveTotal, "miss")
			return domfx.Fixture{}, fmt.Errorf("%s: %w", reqKey, domain.ErrFixtureNotFound)
		}
		return domfx.Fixture{}, err
	}
	if dto.Key != reqKey {
		r.logger.Warn("Fixture key hash collision", zap.String("key", key),
			zap.String("stored", dto.Key), zap.String("requested", reqKey))
		inc(r.opts.ResolveTotal, "miss")
		return domfx.Fixture{}, fmt.Errorf("%s: %w", reqKey, domain.ErrFixtureNotFound)
	}

	f := dto.toDomain()
	if r.cache != nil && gen > 0 {
		r.cache.Add(cacheKey(ns, reqKey), cachedFixture{fixture: f, gen: gen})
	}
	inc(r.opts.ResolveTotal, "hit")
	return f, nil
}

// List returns the fixtures of ns in registration order.
func (r *Repo) List(ctx context.Context, ns string) ([]domfx.Fixture, error) {
	if err := checkNamespace(ns); err != nil {
		return nil, err
	}
	pattern := r.nsPrefix(ns) + "fx:*"
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", pattern, err)
	}

	dtos := make([]fixtureDTO, 0, len(keys))
	for _, key := range keys {
		dto, err := r.load(ctx, key)
		if err != nil {
			// expired between SCAN and GET
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, err
		}
		dtos = append(dtos, dto)
	}
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].Seq < dtos[j].Seq })

	out := make([]domfx.Fixture, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out, nil
}

// Clear removes every fixture of ns. The registration counter is kept and bumped.
func (r *Repo) Clear(ctx context.Context, ns string) error {
	if err := checkNamespace(ns); err != nil {
		return err
	}
	pattern := r.nsPrefix(ns) + "fx:*"
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return fmt.Errorf("scan %s: %w", pattern, err)
	}
	if len(keys) > 0 {
		if err := r.store.Del(ctx, keys...); err != nil {
			return fmt.Errorf("del %s: %w", pattern, err)
		}
	}
	if err := r.bump(ctx, ns); err != nil {
		return err
	}

	if r.cache != nil {
		prefix := ns + "\x00"
		for _, k := range r.cache.Keys() {
			if strings.HasPrefix(k, prefix) {
				r.cache.Remove(k)
			}
		}
	}
	r.logger.Debug("Fixture namespace cleared", zap.String("namespace", ns), zap.Int("keys", len(keys)))
	return nil
}

func (r *Repo) load(ctx context.Context, key string) (fixtureDTO, error) {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return fixtureDTO{}, err
		}
		return fixtureDTO{}, fmt.Errorf("get %s: %w", key, err)
	}
	var dto fixtureDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return fixtureDTO{}, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return dto, nil
}

// checkNamespace rejects names that would escape their key prefix under SCAN.
func checkNamespace(ns string) error {
	if ns == "" {
		return domain.NewInvalidArgument("namespace", "must not be empty")
	}
	if strings.ContainsAny(ns, `*?[]\:^`) {
		return domain.NewInvalidArgument("namespace", "must not contain glob characters or ':'")
	}
	return nil
}

func (r *Repo) nsPrefix(ns string) string {
	return r.opts.KeyPrefix + ns + ":"
}

func (r *Repo) seqKey(ns string) string {
	return r.nsPrefix(ns) + "seq"
}

func (r *Repo) fixtureKey(ns, reqKey string) string {
	return r.nsPrefix(ns) + "fx:" + strconv.FormatUint(xxhash.Sum64String(reqKey), 16)
}

func cacheKey(ns, reqKey string) string {
	return ns + "\x00" + reqKey
}

func inc(c *prometheus.CounterVec, label string) {
	if c != nil {
		c.WithLabelValues(label).Inc()
	}
}
