// Package noop implementa el adapter sin base de datos.
// Conecta siempre, pero toda operación falla con ErrNoDatabase (500).
// Sirve para levantar la superficie HTTP sin store (storage.driver: noop).
package noop

import (
	"context"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
	"github.com/dropDatabas3/hellojane/internal/store"
)

const driverName = "noop"

func init() {
	store.RegisterAdapter(&noopAdapter{})
}

type noopAdapter struct{}

// New retorna el adapter noop.
func New() store.Adapter {
	return &noopAdapter{}
}

func (a *noopAdapter) Name() string { return driverName }

func (a *noopAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	return &noopConnection{}, nil
}

type noopConnection struct{}

func (c *noopConnection) Name() string                     { return driverName }
func (c *noopConnection) Ping(ctx context.Context) error   { return repository.ErrNoDatabase }
func (c *noopConnection) Close() error                     { return nil }
func (c *noopConnection) Users() repository.UserRepository { return noopUserRepo{} }

// noopUserRepo: todas las operaciones retornan ErrNoDatabase como *StoreError.
type noopUserRepo struct{}

func fail(op string) error {
	return &repository.StoreError{Op: op, Driver: driverName, Err: repository.ErrNoDatabase}
}

func (noopUserRepo) List(ctx context.Context) ([]repository.User, error) {
	return nil, fail("list")
}

func (noopUserRepo) Create(ctx context.Context, fields repository.UserFields) (*repository.User, error) {
	return nil, fail("create")
}

func (noopUserRepo) UpdateByID(ctx context.Context, id string, patch repository.UserPatch) (*repository.User, error) {
	return nil, fail("update")
}

func (noopUserRepo) DeleteByID(ctx context.Context, id string) (*repository.User, error) {
	return nil, fail("delete")
}
