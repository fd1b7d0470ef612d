package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
	"github.com/dropDatabas3/hellojane/internal/observability/logger"
)

// reconnectTimeout acota el intento compartido de reconexión.
const reconnectTimeout = 10 * time.Second

// lazyConn es una conexión cuyo Connect inicial falló.
// Cada operación reintenta conectar una vez; llamadas concurrentes
// comparten el mismo intento (singleflight).
type lazyConn struct {
	adapter Adapter
	cfg     AdapterConfig
	log     *zap.Logger

	sf      singleflight.Group
	mu      sync.RWMutex
	conn    AdapterConnection
	lastErr error
}

func newLazyConn(a Adapter, cfg AdapterConfig, cause error, log *zap.Logger) *lazyConn {
	return &lazyConn{adapter: a, cfg: cfg, lastErr: cause, log: log}
}

func (c *lazyConn) Name() string { return c.adapter.Name() }

func (c *lazyConn) current() AdapterConnection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

// get retorna la conexión real, intentando conectar si todavía no existe.
func (c *lazyConn) get(ctx context.Context) (AdapterConnection, error) {
	if conn := c.current(); conn != nil {
		return conn, nil
	}

	v, err, _ := c.sf.Do("connect", func() (any, error) {
		if conn := c.current(); conn != nil {
			return conn, nil
		}
		// el intento es compartido: no depende de la cancelación del primer caller
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reconnectTimeout)
		defer cancel()
		conn, err := c.adapter.Connect(cctx, c.cfg)
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.lastErr = err
			return nil, err
		}
		c.conn = conn
		c.lastErr = nil
		c.log.Info("store reconnected")
		return conn, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrNoDatabase, err)
	}
	return v.(AdapterConnection), nil
}

func (c *lazyConn) Ping(ctx context.Context) error {
	conn, err := c.get(ctx)
	if err != nil {
		return err
	}
	return conn.Ping(ctx)
}

func (c *lazyConn) Close() error {
	if conn := c.current(); conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *lazyConn) Users() repository.UserRepository { return lazyUsers{c: c} }

// lazyUsers resuelve la conexión en cada llamada.
type lazyUsers struct {
	c *lazyConn
}

func (u lazyUsers) repo(ctx context.Context, op string) (repository.UserRepository, error) {
	conn, err := u.c.get(ctx)
	if err != nil {
		u.c.log.Debug("store still unavailable", logger.Op(op), logger.Err(err))
		return nil, &repository.StoreError{Op: op, Driver: u.c.adapter.Name(), Err: err}
	}
	return conn.Users(), nil
}

func (u lazyUsers) List(ctx context.Context) ([]repository.User, error) {
	r, err := u.repo(ctx, "list")
	if err != nil {
		return nil, err
	}
	return r.List(ctx)
}

func (u lazyUsers) Create(ctx context.Context, fields repository.UserFields) (*repository.User, error) {
	r, err := u.repo(ctx, "create")
	if err != nil {
		return nil, err
	}
	return r.Create(ctx, fields)
}

func (u lazyUsers) UpdateByID(ctx context.Context, id string, patch repository.UserPatch) (*repository.User, error) {
	r, err := u.repo(ctx, "update")
	if err != nil {
		return nil, err
	}
	return r.UpdateByID(ctx, id, patch)
}

func (u lazyUsers) DeleteByID(ctx context.Context, id string) (*repository.User, error) {
	r, err := u.repo(ctx, "delete")
	if err != nil {
		return nil, err
	}
	return r.DeleteByID(ctx, id)
}
