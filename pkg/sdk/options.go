package strdex

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

const (
	driverMemory   = "memory"
	driverRedis    = "redis"
	driverValkey   = "valkey"
	driverPostgres = "postgres"
)

type clientConfig struct {
	driver   string
	addrs    []string
	password string
	dsn      string

	keyPrefix     string
	maxValueBytes int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithMemory keeps all strings in process memory. Nothing survives Close.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
	})
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithPostgres stores strings in a PostgreSQL table, created on first connect.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverPostgres
		c.dsn = dsn
	})
}

// WithKeyPrefix namespaces stored keys. Defaults to "strdex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithMaxValueBytes lowers the accepted value size. Values above 160KB are
// always rejected.
func WithMaxValueBytes(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxValueBytes = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
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
