package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// pragmas applied to every connection of the pool through the DSN.
var pragmas = []string{
	"_foreign_keys=on",
	"_journal_mode=WAL",
	"_busy_timeout=5000",
}

func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + strings.Join(pragmas, "&")
	}
	return path + "?" + strings.Join(pragmas, "&")
}

// Open connects to the SQLite file at path and migrates it to the latest
// schema. Use ":memory:" only with a pool of one connection; Open does
// that for you.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(path, ":memory:") {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err = migrateDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
