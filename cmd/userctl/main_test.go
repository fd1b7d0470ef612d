package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSets(t *testing.T) {
	got, err := parseSets([]string{"name=Jane", "age=30", "admin=true", "tags=[\"a\"]", "note=a=b"})
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"name":  "Jane",
		"age":   float64(30),
		"admin": true,
		"tags":  []any{"a"},
		"note":  "a=b",
	}, got)

	_, err = parseSets([]string{"nokey"})
	require.Error(t, err)
	_, err = parseSets([]string{"=v"})
	require.Error(t, err)
}

func TestFormatUser(t *testing.T) {
	require.Equal(t, `u1 age=30 name="Jane"`, formatUser(map[string]any{"id": "u1", "name": "Jane", "age": 30}))
}

type captured struct {
	method, path string
	body         map[string]any
}

func fakeAPI(t *testing.T, status int, resp string, got *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method, got.path = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&client{Out: &out})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestUpdate_SendsPatch(t *testing.T) {
	var got captured
	srv := fakeAPI(t, http.StatusOK, `{"message":"User updated","updatedUser":{"id":"u1","name":"Bob"}}`, &got)

	out, err := run(t, "--url", srv.URL, "update", "u1", "--set", "name=Bob")
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, got.method)
	require.Equal(t, "/users/u1", got.path)
	require.Equal(t, map[string]any{"name": "Bob"}, got.body)
	require.Contains(t, out, "User updated")
}

func TestDelete_NotFoundSurfacesMessage(t *testing.T) {
	var got captured
	srv := fakeAPI(t, http.StatusNotFound, `{"message":"User not found"}`, &got)

	_, err := run(t, "--url", srv.URL, "delete", "999")
	require.Error(t, err)
	require.Contains(t, err.Error(), "User not found")
	require.Equal(t, http.MethodDelete, got.method)
}

func TestList_TextOutput(t *testing.T) {
	var got captured
	srv := fakeAPI(t, http.StatusOK, `[{"id":"a","name":"Jane"},{"id":"b"}]`, &got)

	out, err := run(t, "--url", srv.URL, "list")
	require.NoError(t, err)
	require.Equal(t, "a name=\"Jane\"\nb\n", out)
}

func TestOutFlag_Invalid(t *testing.T) {
	_, err := run(t, "--out", "yaml", "list")
	require.Error(t, err)
}
