// Package app arma el contenedor de dependencias del servicio a partir de
// la configuración: store, services, controllers, router, métricas y rate limit.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	rdb "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dropDatabas3/hellojane/internal/config"
	"github.com/dropDatabas3/hellojane/internal/domain/repository"
	"github.com/dropDatabas3/hellojane/internal/http/controllers"
	"github.com/dropDatabas3/hellojane/internal/http/router"
	"github.com/dropDatabas3/hellojane/internal/http/services"
	"github.com/dropDatabas3/hellojane/internal/http/services/health"
	"github.com/dropDatabas3/hellojane/internal/http/services/users"
	"github.com/dropDatabas3/hellojane/internal/metrics"
	"github.com/dropDatabas3/hellojane/internal/observability/logger"
	"github.com/dropDatabas3/hellojane/internal/rate"
	"github.com/dropDatabas3/hellojane/internal/store"

	_ "github.com/dropDatabas3/hellojane/internal/store/adapters/all"
)

type Container struct {
	Config  *config.Config
	Store   store.AdapterConnection
	Metrics *metrics.Metrics
	Limiter rate.Limiter

	registry *prometheus.Registry
	redis    *rdb.Client
	handler  http.Handler
}

// New abre el store y arma el handler HTTP.
// Un store inalcanzable no es fatal: el proceso sigue sirviendo y las
// operaciones devuelven error hasta que el store vuelva.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logger.Named("app")
	c := &Container{Config: cfg}

	// 1. Métricas
	var observer store.OpObserver
	if cfg.Metrics.Enabled {
		c.registry = prometheus.NewRegistry()
		m, err := metrics.New(c.registry)
		if err != nil {
			return nil, fmt.Errorf("app: metrics: %w", err)
		}
		c.Metrics = m
		observer = m
	}

	// 2. Store
	conn, err := store.Open(ctx, store.AdapterConfig{
		Name:         cfg.Storage.Driver,
		DSN:          cfg.StorageDSN(),
		Database:     cfg.Storage.Mongo.Database,
		Collection:   cfg.Storage.Mongo.Collection,
		MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
	}, store.OpenOptions{
		OpTimeout: opTimeout(cfg.Storage.OpTimeout),
		Observer:  observer,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}
	c.Store = conn

	// 3. Rate limit (Redis con fallback en memoria, o solo memoria)
	if cfg.Rate.Enabled {
		c.Limiter = c.buildLimiter(log)
	}

	// 4. Services → controllers → router
	svcs := services.New(services.Deps{
		Users: users.Deps{
			Repo:   conn.Users(),
			Policy: repository.NewFieldPolicy(cfg.Users.MutableFields),
		},
		Health: health.Deps{
			DBCheck: conn.Ping,
			Driver:  conn.Name(),
			Version: cfg.App.Version,
		},
	})

	deps := router.RouterDeps{
		Controllers: controllers.New(svcs),
		Metrics:     c.Metrics,
		RateLimiter: c.Limiter,
		RateMax:     cfg.Rate.MaxRequests,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
	}
	if c.registry != nil {
		deps.MetricsPath = metrics.Handler(c.registry)
	}
	c.handler = router.New(deps)

	log.Info("app ready",
		logger.Driver(conn.Name()),
		zap.Bool("rate_limit", c.Limiter != nil),
		zap.Bool("metrics", c.Metrics != nil),
	)
	return c, nil
}

// storage.op_timeout = 0 desactiva el timeout; en OpenOptions 0 es el default.
func opTimeout(d time.Duration) time.Duration {
	if d == 0 {
		return -1
	}
	return d
}

func (c *Container) buildLimiter(log *zap.Logger) rate.Limiter {
	cfg := c.Config
	mem := rate.NewMemoryLimiter(cfg.Redis.Prefix, cfg.Rate.MaxRequests, cfg.Rate.Window)
	if cfg.Redis.Addr == "" {
		return mem
	}

	c.redis = rdb.NewClient(&rdb.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	return &rate.FallbackLimiter{
		Primary:   rate.NewRedisLimiter(c.redis, cfg.Redis.Prefix, cfg.Rate.MaxRequests, cfg.Rate.Window),
		Secondary: mem,
		Log:       log,
	}
}

// Router devuelve el handler HTTP del servicio.
func (c *Container) Router() http.Handler { return c.handler }

// Close libera store y Redis. Si ctx vence antes, retorna ctx.Err() y el
// cierre sigue en background.
func (c *Container) Close(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- c.close() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("app: close: %w", ctx.Err())
	}
}

func (c *Container) close() error {
	var firstErr error
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			firstErr = err
		}
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
