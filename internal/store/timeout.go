package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
)

// WithTimeout envuelve el repositorio para que cada operación corra con
// context.WithTimeout(ctx, d). Un deadline vencido sale como *StoreError.
// d <= 0 retorna el repositorio sin envolver.
func WithTimeout(repo repository.UserRepository, driver string, d time.Duration) repository.UserRepository {
	if d <= 0 {
		return repo
	}
	return &timeoutRepo{next: repo, driver: driver, d: d}
}

type timeoutRepo struct {
	next   repository.UserRepository
	driver string
	d      time.Duration
}

func (t *timeoutRepo) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && !repository.IsStoreError(err) {
		return &repository.StoreError{Op: op, Driver: t.driver, Err: fmt.Errorf("operation timed out after %s: %w", t.d, err)}
	}
	return repository.WrapStoreError(t.driver, op, err)
}

func (t *timeoutRepo) List(ctx context.Context) ([]repository.User, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	users, err := t.next.List(ctx)
	return users, t.wrap("list", err)
}

func (t *timeoutRepo) Create(ctx context.Context, fields repository.UserFields) (*repository.User, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	u, err := t.next.Create(ctx, fields)
	return u, t.wrap("create", err)
}

func (t *timeoutRepo) UpdateByID(ctx context.Context, id string, patch repository.UserPatch) (*repository.User, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	u, err := t.next.UpdateByID(ctx, id, patch)
	return u, t.wrap("update", err)
}

func (t *timeoutRepo) DeleteByID(ctx context.Context, id string) (*repository.User, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	u, err := t.next.DeleteByID(ctx, id)
	return u, t.wrap("delete", err)
}
