package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
	"github.com/dropDatabas3/hellojane/internal/store"
	_ "github.com/dropDatabas3/hellojane/internal/store/adapters/sqlite"
	"github.com/dropDatabas3/hellojane/internal/store/storetest"
)

var dbSeq atomic.Int64

func openMemory(t *testing.T) store.AdapterConnection {
	t.Helper()
	dsn := fmt.Sprintf("file:users_%d?mode=memory&cache=shared", dbSeq.Add(1))
	conn, err := store.OpenAdapter(context.Background(), store.AdapterConfig{Name: "sqlite", DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestSQLiteAdapterRegistered(t *testing.T) {
	adapter, ok := store.GetAdapter("sqlite")
	require.True(t, ok)
	require.Equal(t, "sqlite", adapter.Name())
}

func TestSQLiteUserRepository(t *testing.T) {
	storetest.RunUserRepository(t, func(t *testing.T) repository.UserRepository {
		return openMemory(t).Users()
	})
}

func TestSQLite_PersistsAcrossConnections(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.db")

	c1, err := store.OpenAdapter(ctx, store.AdapterConfig{Name: "sqlite", DSN: path})
	require.NoError(t, err)
	u, err := c1.Users().Create(ctx, repository.UserFields{"name": "Jane"})
	require.NoError(t, err)
	require.NoError(t, c1.Close())

	c2, err := store.OpenAdapter(ctx, store.AdapterConfig{Name: "sqlite", DSN: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c2.Close() })
	require.NoError(t, c2.Ping(ctx))

	users, err := c2.Users().List(ctx)
	require.NoError(t, err)
	require.Equal(t, []repository.User{*u}, users)
}

func TestSQLite_ConnectFailsOnBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "users.db")
	_, err := store.OpenAdapter(context.Background(), store.AdapterConfig{Name: "sqlite", DSN: path})
	require.Error(t, err)
}
