package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
	"github.com/dropDatabas3/hellojane/internal/store"
	"github.com/dropDatabas3/hellojane/internal/store/adapters/memory"
)

// ─── fakes ───

type flakyAdapter struct {
	name     string
	fail     atomic.Bool
	connects atomic.Int32
	pingErr  error
	delay    time.Duration
}

func (a *flakyAdapter) Name() string { return a.name }

func (a *flakyAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	a.connects.Add(1)
	time.Sleep(a.delay)
	if a.fail.Load() {
		return nil, errors.New("connection refused")
	}
	return &fakeConn{name: a.name, pingErr: a.pingErr, users: memory.NewUserRepo()}, nil
}

// slowAdapter respeta ctx durante Connect.
type slowAdapter struct {
	fail  atomic.Bool
	delay time.Duration
}

func (a *slowAdapter) Name() string { return "slow-test" }

func (a *slowAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	if a.fail.Load() {
		return nil, errors.New("connection refused")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(a.delay):
	}
	return &fakeConn{name: a.Name(), users: memory.NewUserRepo()}, nil
}

type fakeConn struct {
	name    string
	pingErr error
	users   repository.UserRepository
}

func (c *fakeConn) Name() string                     { return c.name }
func (c *fakeConn) Ping(ctx context.Context) error   { return c.pingErr }
func (c *fakeConn) Close() error                     { return nil }
func (c *fakeConn) Users() repository.UserRepository { return c.users }

type blockingRepo struct{}

func (blockingRepo) List(ctx context.Context) ([]repository.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
func (blockingRepo) Create(ctx context.Context, f repository.UserFields) (*repository.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
func (blockingRepo) UpdateByID(ctx context.Context, id string, p repository.UserPatch) (*repository.User, error) {
	return nil, repository.ErrNotFound
}
func (blockingRepo) DeleteByID(ctx context.Context, id string) (*repository.User, error) {
	return nil, errors.New("driver exploded")
}

type opRecord struct {
	driver, op string
	outcome    repository.Outcome
}

type recorder struct {
	mu  sync.Mutex
	ops []opRecord
}

func (r *recorder) ObserveStoreOp(driver, op string, outcome repository.Outcome, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, opRecord{driver, op, outcome})
}

var (
	registerOnce sync.Once
	flaky        = &flakyAdapter{name: "flaky-test"}
	pingless     = &flakyAdapter{name: "pingless-test", pingErr: errors.New("no reachable servers")}
	slow         = &slowAdapter{}
)

func registerFakes() {
	registerOnce.Do(func() {
		store.RegisterAdapter(flaky)
		store.RegisterAdapter(pingless)
		store.RegisterAdapter(slow)
	})
}

// ─── registry ───

func TestRegisterAdapter_DuplicatePanics(t *testing.T) {
	registerFakes()
	require.Panics(t, func() { store.RegisterAdapter(&flakyAdapter{name: "flaky-test"}) })
}

func TestOpenAdapter_Unknown(t *testing.T) {
	_, err := store.OpenAdapter(context.Background(), store.AdapterConfig{Name: "nope"})
	require.Error(t, err)
}

func TestListAdapters_Sorted(t *testing.T) {
	registerFakes()
	names := store.ListAdapters()
	require.Contains(t, names, "memory")
	require.Contains(t, names, "flaky-test")
	require.IsIncreasing(t, names)
}

// ─── Open ───

func TestOpen_UnknownAdapterIsFatal(t *testing.T) {
	_, err := store.Open(context.Background(), store.AdapterConfig{Name: "nope"}, store.OpenOptions{})
	require.Error(t, err)
}

func TestOpen_PingFailureKeepsConnection(t *testing.T) {
	registerFakes()
	conn, err := store.Open(context.Background(), store.AdapterConfig{Name: "pingless-test"}, store.OpenOptions{Logger: zap.NewNop()})
	require.NoError(t, err)

	u, err := conn.Users().Create(context.Background(), repository.UserFields{"name": "Jane"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
}

func TestOpen_ConnectFailureServesUnavailable(t *testing.T) {
	registerFakes()
	flaky.fail.Store(true)
	flaky.connects.Store(0)
	t.Cleanup(func() { flaky.fail.Store(false) })

	ctx := context.Background()
	conn, err := store.Open(ctx, store.AdapterConfig{Name: "flaky-test"}, store.OpenOptions{Logger: zap.NewNop()})
	require.NoError(t, err, "el proceso debe seguir vivo")
	require.Equal(t, "flaky-test", conn.Name())

	_, err = conn.Users().List(ctx)
	var se *repository.StoreError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "list", se.Op)
	require.ErrorIs(t, err, repository.ErrNoDatabase)
	require.Error(t, conn.Ping(ctx))

	// el store vuelve: la siguiente operación reconecta
	flaky.fail.Store(false)
	users, err := conn.Users().List(ctx)
	require.NoError(t, err)
	require.Empty(t, users)
	require.NoError(t, conn.Close())
}

func TestOpen_ReconnectCollapsesConcurrentCalls(t *testing.T) {
	registerFakes()
	flaky.fail.Store(true)
	t.Cleanup(func() {
		flaky.fail.Store(false)
		flaky.delay = 0
	})

	ctx := context.Background()
	conn, err := store.Open(ctx, store.AdapterConfig{Name: "flaky-test"}, store.OpenOptions{Logger: zap.NewNop()})
	require.NoError(t, err)

	flaky.delay = 50 * time.Millisecond
	flaky.fail.Store(false)
	flaky.connects.Store(0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := conn.Users().List(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	require.LessOrEqual(t, flaky.connects.Load(), int32(2))
}

func TestOpen_ReconnectSurvivesFirstCallerCancel(t *testing.T) {
	registerFakes()
	slow.fail.Store(true)
	conn, err := store.Open(context.Background(), store.AdapterConfig{Name: "slow-test"}, store.OpenOptions{Logger: zap.NewNop()})
	require.NoError(t, err)

	slow.delay = 100 * time.Millisecond
	slow.fail.Store(false)

	first, cancel := context.WithCancel(context.Background())
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _ = conn.Users().List(first)
	}()

	time.Sleep(10 * time.Millisecond)
	time.AfterFunc(20*time.Millisecond, cancel)

	// este caller se suma al intento en curso; la cancelación del primero no lo afecta
	users, err := conn.Users().List(context.Background())
	require.NoError(t, err)
	require.Empty(t, users)
	<-firstDone
}

func TestOpen_InstrumentsOperations(t *testing.T) {
	rec := &recorder{}
	conn, err := store.Open(context.Background(), store.AdapterConfig{Name: "memory"},
		store.OpenOptions{Observer: rec, Logger: zap.NewNop()})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = conn.Users().List(ctx)
	require.NoError(t, err)
	_, err = conn.Users().DeleteByID(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.Equal(t, []opRecord{
		{"memory", "list", repository.OutcomeOK},
		{"memory", "delete", repository.OutcomeNotFound},
	}, rec.ops)
}

// ─── WithTimeout ───

func TestWithTimeout_DeadlineIsStoreError(t *testing.T) {
	repo := store.WithTimeout(blockingRepo{}, "slow", 20*time.Millisecond)

	start := time.Now()
	_, err := repo.List(context.Background())
	require.Less(t, time.Since(start), time.Second)

	var se *repository.StoreError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "slow", se.Driver)
	require.Equal(t, "list", se.Op)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, repository.OutcomeStoreFailure, repository.Classify(err))
}

func TestWithTimeout_PassesThroughAndWraps(t *testing.T) {
	repo := store.WithTimeout(blockingRepo{}, "slow", time.Second)

	_, err := repo.UpdateByID(context.Background(), "x", repository.UserPatch{})
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.False(t, repository.IsStoreError(err))

	_, err = repo.DeleteByID(context.Background(), "x")
	require.True(t, repository.IsStoreError(err), "un error crudo de driver no debe escapar")
}

func TestWithTimeout_Disabled(t *testing.T) {
	inner := memory.NewUserRepo()
	require.Same(t, inner, store.WithTimeout(inner, "memory", 0))
}
