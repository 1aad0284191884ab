package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{"--token-secret", "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "qcontract.sqlite", cfg.DBUrl)
	assert.Equal(t, 120*time.Second, cfg.TokenTTL)
	assert.Equal(t, "http://localhost:8080", cfg.Url())
	assert.False(t, cfg.Debug)
}

func TestParseRequiresSecret(t *testing.T) {
	_, err := Parse(nil)
	assert.EqualError(t, err, "missing parameter -token-secret")
}

func TestParseEnv(t *testing.T) {
	t.Setenv("QCONTRACT_TOKEN_SECRET", "from-env")
	t.Setenv("QCONTRACT_BACKEND", "kv")
	t.Setenv("QCONTRACT_DATA_DIR", "/var/lib/qcontract")

	cfg, err := Parse([]string{"--port", "9000"})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TokenSecret)
	assert.Equal(t, BackendKV, cfg.Backend)
	assert.Equal(t, "/var/lib/qcontract", cfg.DataDir)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr)
}

func TestParseConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "qcontract.yaml")
	require.NoError(t, os.WriteFile(file, []byte("token-secret: from-file\nbackend: firestore\nfirestore-project: contracts-dev\ndebug: true\nlog-json: true\n"), 0o644))

	cfg, err := Parse([]string{"--config", file})
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.TokenSecret)
	assert.Equal(t, BackendFirestore, cfg.Backend)
	assert.Equal(t, "contracts-dev", cfg.FirestoreProject)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.LogJSON)
}

func TestParseRejectsBadValues(t *testing.T) {
	_, err := Parse([]string{"--token-secret", "x", "--backend", "mongo"})
	assert.Error(t, err)

	_, err = Parse([]string{"--token-secret", "x", "--backend", "firestore"})
	assert.EqualError(t, err, "missing parameter -firestore-project")

	_, err = Parse([]string{"--token-secret", "x", "--add-user", "alice"})
	assert.Error(t, err)

	cfg, err := Parse([]string{"--token-secret", "x", "--add-user", "alice:pa:ss"})
	require.NoError(t, err)
	user, pass, ok := cfg.NewUser()
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "pa:ss", pass)
}
