package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
	"github.com/dropDatabas3/hellojane/internal/observability/logger"
)

// DefaultOpTimeout es el timeout por operación si no se configura otro.
const DefaultOpTimeout = 5 * time.Second

// OpenOptions ajusta los decoradores que Open aplica al repositorio.
type OpenOptions struct {
	// OpTimeout por operación del puerto. 0 = DefaultOpTimeout, <0 = sin timeout.
	OpTimeout time.Duration

	// PingTimeout para el ping de arranque. Default 5s.
	PingTimeout time.Duration

	// Observer recibe métricas por operación (opcional).
	Observer OpObserver

	// Logger (opcional). Default logger.Named("store").
	Logger *zap.Logger
}

// Open abre la conexión con el adapter configurado.
//
//   - Adapter desconocido: error (configuración inválida, fatal en main).
//   - Connect falla: se loguea y se retorna una conexión "no disponible" que
//     reintenta conectar en cada operación. El proceso sigue sirviendo.
//   - Ping falla: warning; la conexión se conserva (los drivers reconectan).
func Open(ctx context.Context, cfg AdapterConfig, opts OpenOptions) (AdapterConnection, error) {
	a, ok := GetAdapter(cfg.Name)
	if !ok {
		return nil, fmt.Errorf("adapter: %q not registered (available: %v)", cfg.Name, ListAdapters())
	}

	log := opts.Logger
	if log == nil {
		log = logger.Named("store")
	}
	log = log.With(logger.Driver(a.Name()))

	var conn AdapterConnection
	c, err := a.Connect(ctx, cfg)
	if err != nil {
		log.Error("store connect failed, serving with unavailable store", logger.Err(err))
		conn = newLazyConn(a, cfg, err, log)
	} else {
		conn = c
		pingTimeout := opts.PingTimeout
		if pingTimeout <= 0 {
			pingTimeout = 5 * time.Second
		}
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		if perr := c.Ping(pctx); perr != nil {
			log.Warn("store ping failed", logger.Err(perr))
		} else {
			log.Info("store connected")
		}
		cancel()
	}

	timeout := opts.OpTimeout
	if timeout == 0 {
		timeout = DefaultOpTimeout
	}

	users := WithTimeout(conn.Users(), a.Name(), timeout)
	if opts.Observer != nil {
		users = Instrument(users, a.Name(), opts.Observer)
	}
	return &decoratedConn{AdapterConnection: conn, users: users}, nil
}

// decoratedConn expone el repositorio envuelto con timeout y métricas.
type decoratedConn struct {
	AdapterConnection
	users repository.UserRepository
}

func (c *decoratedConn) Users() repository.UserRepository { return c.users }
