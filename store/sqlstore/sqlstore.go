// Package sqlstore keeps blueprints and contracts in the SQLite database
// opened by package database.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mbolis/quick-contract/store"
)

const timeLayout = time.RFC3339Nano

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db  *sql.DB
	now store.Clock
}

func New(db *sql.DB) *Store {
	return &Store{db: db, now: store.UTC}
}

// WithClock replaces the clock used to stamp saved records.
func (s *Store) WithClock(now store.Clock) *Store {
	s.now = now
	return s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.begin_tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// existingCreatedAt returns the creation time of row id in table, or the
// zero time when there is no such row.
func existingCreatedAt(ctx context.Context, q queryer, table, id string) (time.Time, error) {
	if id == "" {
		return time.Time{}, nil
	}
	var createdAt string
	err := q.QueryRowContext(ctx, `SELECT created_at FROM `+table+` WHERE id = ?`, id).Scan(&createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return time.Time{}, nil
	case err != nil:
		return time.Time{}, err
	}
	return parseTime(createdAt)
}

func deleteRow(ctx context.Context, tx *sql.Tx, table, fieldTable, owner, id string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM `+fieldTable+` WHERE `+owner+` = ?`, id)
	if err != nil {
		return fmt.Errorf("db.delete_%s.fields: %w", table, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db.delete_%s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db.delete_%s.verify: %w", table, err)
	}
	if n < 1 {
		return fmt.Errorf("%s %s: %w", table, id, store.ErrNotFound)
	}
	return nil
}
