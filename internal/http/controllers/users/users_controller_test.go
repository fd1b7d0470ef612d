package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
	svc "github.com/dropDatabas3/hellojane/internal/http/services/users"
	"github.com/dropDatabas3/hellojane/internal/store"
	"github.com/dropDatabas3/hellojane/internal/store/adapters/memory"
	"github.com/dropDatabas3/hellojane/internal/store/adapters/noop"
)

func newRouter(repo repository.UserRepository, allowed ...string) http.Handler {
	r := chi.NewRouter()
	NewUsersController(svc.NewService(svc.Deps{
		Repo:   repo,
		Policy: repository.NewFieldPolicy(allowed),
	})).Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestUsers_Lifecycle(t *testing.T) {
	h := newRouter(memory.NewUserRepo())

	rec, out := do(t, h, http.MethodPost, "/users", `{"name":"Jane","age":30}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "User created", out["message"])
	created := out["createdUser"].(map[string]any)
	id := created["id"].(string)
	require.NotEmpty(t, id)

	rec, _ = do(t, h, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, id, list[0]["id"])

	rec, out = do(t, h, http.MethodPut, "/users/"+id, `{"age":31}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User updated", out["message"])
	require.Equal(t, map[string]any{"id": id, "name": "Jane", "age": float64(31)}, out["updatedUser"])

	rec, out = do(t, h, http.MethodDelete, "/users/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User deleted", out["message"])
	require.Equal(t, id, out["deletedUser"].(map[string]any)["id"])

	rec, _ = do(t, h, http.MethodGet, "/users", "")
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestUsers_NotFound(t *testing.T) {
	h := newRouter(memory.NewUserRepo())

	rec, out := do(t, h, http.MethodPut, "/users/999", `{"name":"Bob"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, map[string]any{"message": "User not found"}, out)

	rec, out = do(t, h, http.MethodDelete, "/users/999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, map[string]any{"message": "User not found"}, out)
}

func TestUsers_BadInput(t *testing.T) {
	h := newRouter(memory.NewUserRepo(), "name")

	cases := map[string]string{
		"array":       `[1,2]`,
		"broken json": `{"name":`,
		"trailing":    `{"name":"a"} {}`,
		"not allowed": `{"role":"admin"}`,
		"reserved":    `{"name":"a","id":"x"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec, out := do(t, h, http.MethodPost, "/users", body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotEmpty(t, out["message"])
			require.Len(t, out, 1)
		})
	}
}

func TestUsers_NonJSONBodyIsNoOpUpdate(t *testing.T) {
	h := newRouter(memory.NewUserRepo())
	_, out := do(t, h, http.MethodPost, "/users", `{"name":"Jane"}`)
	id := out["createdUser"].(map[string]any)["id"].(string)

	req := httptest.NewRequest(http.MethodPut, "/users/"+id, strings.NewReader(`{"name":"Bob"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"User updated","updatedUser":{"id":"`+id+`","name":"Jane"}}`, rec.Body.String())
}

func TestUsers_EmptyBodyCreatesEmptyUser(t *testing.T) {
	h := newRouter(memory.NewUserRepo())
	rec, out := do(t, h, http.MethodPost, "/users", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, out["createdUser"], 1)
}

func TestUsers_StoreFailureIs500WithStoreText(t *testing.T) {
	conn, err := noop.New().Connect(context.Background(), store.AdapterConfig{Name: "noop"})
	require.NoError(t, err)
	h := newRouter(conn.Users())

	rec, out := do(t, h, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "noop: list: no database available", out["message"])

	rec, out = do(t, h, http.MethodPut, "/users/1", `{"a":1}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "noop: update: no database available", out["message"])
}
