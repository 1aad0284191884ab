package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMigrates(t *testing.T) {
	url := filepath.Join(t.TempDir(), "qcontract.sqlite")

	db, err := Open(url)
	require.NoError(t, err)

	for _, table := range []string{"user", "token", "blueprint", "blueprint_field", "contract", "contract_field"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}
	require.NoError(t, db.Close())

	// reopening an up to date database is not an error
	db, err = Open(url)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestOpenAppliesPragmas(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "qcontract.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "a.sqlite?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", dsn("a.sqlite"))
	assert.Equal(t, "file:a.sqlite?cache=shared&_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", dsn("file:a.sqlite?cache=shared"))
}
