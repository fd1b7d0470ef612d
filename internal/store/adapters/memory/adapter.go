// Package memory implementa un adapter en memoria para dev y tests.
// Cada Connect crea un store vacío e independiente.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
	"github.com/dropDatabas3/hellojane/internal/store"
)

const driverName = "memory"

func init() {
	store.RegisterAdapter(&memoryAdapter{})
}

type memoryAdapter struct{}

func (a *memoryAdapter) Name() string { return driverName }

func (a *memoryAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	return &memoryConnection{users: NewUserRepo()}, nil
}

type memoryConnection struct {
	users *UserRepo
}

func (c *memoryConnection) Name() string                     { return driverName }
func (c *memoryConnection) Ping(ctx context.Context) error   { return ctx.Err() }
func (c *memoryConnection) Close() error                     { return nil }
func (c *memoryConnection) Users() repository.UserRepository { return c.users }

// UserRepo guarda los usuarios en un map protegido por RWMutex.
// Los valores se copian vía JSON: nadie comparte mapas con el store.
type UserRepo struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]map[string]any
}

// NewUserRepo crea un repositorio vacío.
func NewUserRepo() *UserRepo {
	return &UserRepo{docs: make(map[string]map[string]any)}
}

func (r *UserRepo) List(ctx context.Context) ([]repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, repository.WrapStoreError(driverName, "list", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]repository.User, 0, len(r.order))
	for _, id := range r.order {
		fields, err := clone(r.docs[id])
		if err != nil {
			return nil, repository.WrapStoreError(driverName, "list", err)
		}
		out = append(out, repository.User{ID: id, Fields: fields})
	}
	return out, nil
}

func (r *UserRepo) Create(ctx context.Context, fields repository.UserFields) (*repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, repository.WrapStoreError(driverName, "create", err)
	}
	doc, err := clone(fields)
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "create", err)
	}

	id := uuid.NewString()
	r.mu.Lock()
	r.docs[id] = doc
	r.order = append(r.order, id)
	r.mu.Unlock()

	out, _ := clone(doc)
	return &repository.User{ID: id, Fields: out}, nil
}

func (r *UserRepo) UpdateByID(ctx context.Context, id string, patch repository.UserPatch) (*repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, repository.WrapStoreError(driverName, "update", err)
	}
	p, err := clone(patch)
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "update", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	merged := repository.Merge(doc, p)
	r.docs[id] = merged

	out, _ := clone(merged)
	return &repository.User{ID: id, Fields: out}, nil
}

func (r *UserRepo) DeleteByID(ctx context.Context, id string) (*repository.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, repository.WrapStoreError(driverName, "delete", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.docs, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return &repository.User{ID: id, Fields: doc}, nil
}

// clone copia un documento vía JSON. nil = mapa vacío.
func clone[M ~map[string]any](m M) (map[string]any, error) {
	out := map[string]any{}
	if len(m) == 0 {
		return out, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}
