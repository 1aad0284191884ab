package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/mbolis/quick-contract/app"
	"github.com/mbolis/quick-contract/config"
	"github.com/mbolis/quick-contract/database"
	"github.com/mbolis/quick-contract/httpx"
	"github.com/mbolis/quick-contract/service"
	"github.com/mbolis/quick-contract/store/kvstore"
	"github.com/stretchr/testify/require"
)

func open(next http.Handler) http.Handler { return next }

// newServer serves the API over an in-memory store with no auth on writes.
func newServer(t *testing.T) (*httptest.Server, app.App) {
	t.Helper()
	app := app.App{
		Store:  kvstore.New(kvstore.NewMemory()),
		Drafts: service.NewDrafts(),
	}
	srv := httptest.NewServer(apiRouter(app, open))
	t.Cleanup(srv.Close)
	return srv, app
}

// newAuthServer serves the whole router, with the editor account
// alice:s3cret.
func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "auth.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, httpx.UpsertUser(context.Background(), db, "alice", "s3cret"))
	require.NoError(t, httpx.UpsertUser(context.Background(), db, "bob", "s3cret", "viewer"))

	cfg := config.Config{TokenSecret: "test-secret", TokenTTL: time.Minute}
	app := app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
		Store:        kvstore.New(kvstore.NewMemory()),
		Drafts:       service.NewDrafts(),
	}
	srv := httptest.NewServer(Wire(app))
	t.Cleanup(srv.Close)
	return srv
}

type call struct {
	method string
	path   string
	body   any
	header http.Header
}

// do sends c and decodes a JSON answer into out when out is not nil.
func do(t *testing.T, srv *httptest.Server, c call, out any) int {
	t.Helper()
	var body io.Reader
	if c.body != nil {
		data, err := json.Marshal(c.body)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(c.method, srv.URL+c.path, body)
	require.NoError(t, err)
	for k, v := range c.header {
		req.Header[k] = v
	}
	if c.body != nil {
		req.Header.Set("content-type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}
