package store

import (
	"context"
	"time"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
)

// OpObserver recibe el resultado de cada operación del puerto.
// Lo implementa metrics.Metrics.
type OpObserver interface {
	ObserveStoreOp(driver, op string, outcome repository.Outcome, elapsed time.Duration)
}

// Instrument envuelve el repositorio y reporta cada operación al observer.
func Instrument(repo repository.UserRepository, driver string, obs OpObserver) repository.UserRepository {
	if obs == nil {
		return repo
	}
	return &instrumentedRepo{next: repo, driver: driver, obs: obs}
}

type instrumentedRepo struct {
	next   repository.UserRepository
	driver string
	obs    OpObserver
}

func (r *instrumentedRepo) observe(op string, start time.Time, err error) {
	r.obs.ObserveStoreOp(r.driver, op, repository.Classify(err), time.Since(start))
}

func (r *instrumentedRepo) List(ctx context.Context) ([]repository.User, error) {
	start := time.Now()
	users, err := r.next.List(ctx)
	r.observe("list", start, err)
	return users, err
}

func (r *instrumentedRepo) Create(ctx context.Context, fields repository.UserFields) (*repository.User, error) {
	start := time.Now()
	u, err := r.next.Create(ctx, fields)
	r.observe("create", start, err)
	return u, err
}

func (r *instrumentedRepo) UpdateByID(ctx context.Context, id string, patch repository.UserPatch) (*repository.User, error) {
	start := time.Now()
	u, err := r.next.UpdateByID(ctx, id, patch)
	r.observe("update", start, err)
	return u, err
}

func (r *instrumentedRepo) DeleteByID(ctx context.Context, id string) (*repository.User, error) {
	start := time.Now()
	u, err := r.next.DeleteByID(ctx, id)
	r.observe("delete", start, err)
	return u, err
}
