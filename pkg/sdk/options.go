package searchstub

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "memory", "valkey" or "redis"
	addrs    []string
	password string

	baseURL     string
	published   time.Time
	listingSize int
	keyPrefix   string
	ttl         time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMemory keeps fixtures in process memory. This is the default.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
		c.addrs = nil
		c.password = ""
	})
}

// WithValkey stores fixtures in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis stores fixtures in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithBaseURL sets the origin of the mirrored API that fixture URLs are rendered against.
// Default: http://api.elifesciences.org.
func WithBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = u
	})
}

// WithPublished sets the publication date stamped on every synthetic item.
func WithPublished(t time.Time) Option {
	return optionFunc(func(c *clientConfig) {
		c.published = t
	})
}

// WithListingSize sets the page size of full listings. Default: 6.
func WithListingSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.listingSize = n
	})
}

// WithKeyPrefix namespaces fixture keys in a shared Redis or Valkey.
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithFixtureTTL expires stored fixtures after ttl. Zero keeps them until the scenario closes.
func WithFixtureTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.ttl = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
