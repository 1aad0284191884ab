// Package store defines the persistence port blueprints and contracts are
// saved through. Implementations live in the sub-packages: sqlstore
// (SQLite), kvstore (local key-value files), fsstore (Firestore); the REST
// client in package client implements it too.
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mbolis/quick-contract/model"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("not found")

// Store loads, saves and deletes blueprints and contracts.
//
// Save methods assign the id (when empty) and timestamps and return the
// stored record; saving a record with an existing id replaces it. Lists
// are ordered by most recent update first.
type Store interface {
	ListBlueprints(ctx context.Context) ([]model.Blueprint, error)
	GetBlueprint(ctx context.Context, id string) (model.Blueprint, error)
	SaveBlueprint(ctx context.Context, bp model.Blueprint) (model.Blueprint, error)
	DeleteBlueprint(ctx context.Context, id string) error

	ListContracts(ctx context.Context) ([]model.Contract, error)
	GetContract(ctx context.Context, id string) (model.Contract, error)
	SaveContract(ctx context.Context, c model.Contract) (model.Contract, error)
	UpdateContractStatus(ctx context.Context, id string, status model.Status) (model.Contract, error)
	DeleteContract(ctx context.Context, id string) error
}

// Clock returns the current time. Stores take one so tests can pin it.
type Clock func() time.Time

// UTC is the default clock.
func UTC() time.Time {
	return time.Now().UTC()
}

// Stamp fills in what a store assigns on save: a fresh id when missing,
// the creation time on first save, and the update time always.
func Stamp(r *model.Record, now time.Time) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

// PrepareBlueprint returns the copy of bp a store should persist.
func PrepareBlueprint(bp model.Blueprint, now time.Time) model.Blueprint {
	bp = bp.Clone()
	Stamp(&bp.Record, now)
	bp.TotalFields = len(bp.Fields)
	return bp
}

// PrepareContract returns the copy of c a store should persist.
func PrepareContract(c model.Contract, now time.Time) model.Contract {
	c = c.Clone()
	Stamp(&c.Record, now)
	if c.Status == "" {
		c.Status = model.StatusCreated
	}
	return c
}

// SortBlueprints orders blueprints by most recent update first.
func SortBlueprints(bps []model.Blueprint) {
	sort.SliceStable(bps, func(i, j int) bool {
		return bps[i].UpdatedAt.After(bps[j].UpdatedAt)
	})
}

// SortContracts orders contracts by most recent update first.
func SortContracts(cs []model.Contract) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].UpdatedAt.After(cs[j].UpdatedAt)
	})
}
