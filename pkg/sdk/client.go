package strdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/strdex/internal/db"
	dbMemory "github.com/kailas-cloud/strdex/internal/db/memory"
	dbPostgres "github.com/kailas-cloud/strdex/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/strdex/internal/db/redis"
	"github.com/kailas-cloud/strdex/internal/domain/filter"
	"github.com/kailas-cloud/strdex/internal/domain/query"
	domrec "github.com/kailas-cloud/strdex/internal/domain/record"
	recordrepo "github.com/kailas-cloud/strdex/internal/repository/record"
	healthuc "github.com/kailas-cloud/strdex/internal/usecase/health"
	recorduc "github.com/kailas-cloud/strdex/internal/usecase/record"
)

const defaultReadinessTimeout = 10 * time.Second

// stringUseCase is the subset of the record service the SDK calls; tests substitute it.
type stringUseCase interface {
	Create(ctx context.Context, value string) (domrec.Record, error)
	Get(ctx context.Context, value string) (domrec.Record, error)
	Delete(ctx context.Context, value string) error
	List(ctx context.Context, spec filter.Spec) ([]domrec.Record, error)
	Search(ctx context.Context, text string) ([]domrec.Record, filter.Spec, error)
}

// Client is the strdex SDK entry point.
type Client struct {
	store     db.Store
	strings   stringUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the configured backend.
// The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("strdex: backend required (use WithMemory, WithValkey, WithRedis or WithPostgres)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("strdex: database not ready: %w", err)
	}

	if pg, ok := store.(*dbPostgres.Store); ok {
		if err := pg.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("strdex: %w", err)
		}
	}

	return wireClient(store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverMemory:
		return dbMemory.NewStore(), nil
	case driverValkey, driverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("strdex: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	case driverPostgres:
		s, err := dbPostgres.NewStore(cfg.dsn)
		if err != nil {
			return nil, fmt.Errorf("strdex: create postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("strdex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	svc := recorduc.New(recordrepo.New(store, cfg.keyPrefix), query.New())
	if cfg.maxValueBytes > 0 {
		svc = svc.WithMaxValueBytes(cfg.maxValueBytes)
	}

	return &Client{
		store:     store,
		strings:   svc,
		healthSvc: healthuc.New(store),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Strings returns the string service.
func (c *Client) Strings() *StringService {
	return &StringService{svc: c.strings, obs: c.obs}
}
