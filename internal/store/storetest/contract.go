// Package storetest contiene la suite de contrato del puerto de usuarios.
// Cada adapter la corre contra su propio backend.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
)

// Factory retorna un repositorio vacío para un subtest.
type Factory func(t *testing.T) repository.UserRepository

// unknownIDs cubre un ID con formato ajeno al motor y uno con formato
// de ObjectID que no existe.
var unknownIDs = []string{"999", "64b7f0c2a1b2c3d4e5f60718"}

// RunUserRepository ejecuta la suite completa.
func RunUserRepository(t *testing.T, newRepo Factory) {
	t.Run("ListEmpty", func(t *testing.T) {
		users, err := newRepo(t).List(context.Background())
		require.NoError(t, err)
		require.NotNil(t, users)
		require.Empty(t, users)
	})

	t.Run("CreateThenList", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		fields := repository.UserFields{"name": "Jane", "age": float64(30)}
		u, err := repo.Create(ctx, fields)
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
		require.Equal(t, map[string]any(fields), u.Fields)

		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, *u, users[0])
	})

	t.Run("CreateNested", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		fields := repository.UserFields{
			"address": map[string]any{"city": "Lima", "zip": "15001"},
			"tags":    []any{"a", "b"},
			"active":  true,
		}
		u, err := repo.Create(ctx, fields)
		require.NoError(t, err)
		require.Equal(t, map[string]any(fields), u.Fields)
	})

	t.Run("CreateEmpty", func(t *testing.T) {
		u, err := newRepo(t).Create(context.Background(), repository.UserFields{})
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
		require.Empty(t, u.Fields)
	})

	t.Run("UpdateMerges", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		u, err := repo.Create(ctx, repository.UserFields{"name": "Jane", "city": "Lima"})
		require.NoError(t, err)

		got, err := repo.UpdateByID(ctx, u.ID, repository.UserPatch{"name": "Bob", "age": float64(41)})
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, map[string]any{"name": "Bob", "city": "Lima", "age": float64(41)}, got.Fields)

		// mismo payload dos veces = mismo registro
		again, err := repo.UpdateByID(ctx, u.ID, repository.UserPatch{"name": "Bob", "age": float64(41)})
		require.NoError(t, err)
		require.Equal(t, got, again)
	})

	t.Run("UpdateEmptyPatchReturnsCurrent", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		u, err := repo.Create(ctx, repository.UserFields{"name": "Jane"})
		require.NoError(t, err)

		got, err := repo.UpdateByID(ctx, u.ID, repository.UserPatch{})
		require.NoError(t, err)
		require.Equal(t, u, got)
	})

	t.Run("UpdateUnknown", func(t *testing.T) {
		repo := newRepo(t)
		for _, id := range unknownIDs {
			_, err := repo.UpdateByID(context.Background(), id, repository.UserPatch{"name": "Bob"})
			require.ErrorIs(t, err, repository.ErrNotFound, id)
			require.False(t, repository.IsStoreError(err), id)
		}
	})

	t.Run("DeleteTwice", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		keep, err := repo.Create(ctx, repository.UserFields{"name": "Keep"})
		require.NoError(t, err)
		u, err := repo.Create(ctx, repository.UserFields{"name": "Gone"})
		require.NoError(t, err)

		deleted, err := repo.DeleteByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u, deleted)

		_, err = repo.DeleteByID(ctx, u.ID)
		require.ErrorIs(t, err, repository.ErrNotFound)

		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Equal(t, []repository.User{*keep}, users)
	})

	t.Run("DeleteUnknown", func(t *testing.T) {
		repo := newRepo(t)
		for _, id := range unknownIDs {
			_, err := repo.DeleteByID(context.Background(), id)
			require.ErrorIs(t, err, repository.ErrNotFound, id)
		}
	})

	t.Run("ConcurrentCreateUniqueIDs", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		const n = 20
		var wg sync.WaitGroup
		ids := make(chan string, n)
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				u, err := repo.Create(ctx, repository.UserFields{"name": fmt.Sprintf("user%d", i)})
				if err != nil {
					errs <- err
					return
				}
				ids <- u.ID
			}(i)
		}
		wg.Wait()
		close(ids)
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
		seen := map[string]bool{}
		for id := range ids {
			require.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
		require.Len(t, seen, n)

		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, n)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newRepo(t).List(ctx)
		require.Error(t, err)
		require.Equal(t, repository.OutcomeStoreFailure, repository.Classify(err))
	})
}
