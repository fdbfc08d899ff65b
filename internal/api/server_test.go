// ABOUTME: Test harness for the HTTP API: real sqlite store behind httptest
// ABOUTME: Helpers register users, promote roles, and issue authenticated requests

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/freshslice/orderd/internal/auth"
	"github.com/freshslice/orderd/internal/session"
	"github.com/freshslice/orderd/internal/store"
	"github.com/freshslice/orderd/internal/token"
)

type testAPI struct {
	t      *testing.T
	store  *store.SQLiteStore
	auth   *auth.Service
	server *httptest.Server
}

func setupAPI(t *testing.T, opts ...Option) *testAPI {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "api_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	codec, err := token.NewCodec([]byte("api-test-secret"), time.Hour)
	require.NoError(t, err)

	registry := session.NewStoreRegistry(st)
	gate := auth.NewGate(codec, registry)
	svc := auth.NewService(st, codec, registry)

	srv := NewServer(svc, gate, st, opts...)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	return &testAPI{t: t, store: st, auth: svc, server: ts}
}

// do issues a request with an optional bearer token and JSON body.
func (a *testAPI) do(method, path, tok string, body any) *http.Response {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

var testUserSeq int

// registerDiner creates a fresh diner through the API and returns its view
// and token.
func (a *testAPI) registerDiner() (userView, string) {
	a.t.Helper()

	testUserSeq++
	email := fmt.Sprintf("diner%d@test.com", testUserSeq)

	resp := a.do(http.MethodPost, "/api/auth", "", map[string]string{
		"name": "Test Diner", "email": email, "password": "diner-pass",
	})
	require.Equal(a.t, http.StatusOK, resp.StatusCode)

	var body authResponse
	decodeBody(a.t, resp, &body)
	return body.User, body.Token
}

// createAdmin creates an admin directly through the auth service, as the
// bootstrap command would.
func (a *testAPI) createAdmin() (*store.User, string) {
	a.t.Helper()

	testUserSeq++
	email := fmt.Sprintf("admin%d@test.com", testUserSeq)

	user, tok, err := a.auth.CreateUser(context.Background(), "Test Admin", email, "admin-pass",
		[]store.Role{store.RoleAdmin})
	require.NoError(a.t, err)
	return user, tok
}
