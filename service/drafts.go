package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mbolis/quick-contract/log"
	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store"
)

// ErrNoDraft is returned for an unknown or closed draft id.
var ErrNoDraft = fmt.Errorf("draft %w", store.ErrNotFound)

// Draft is a Builder shared between requests. Every access goes through
// Do, which holds the draft lock.
type Draft struct {
	ID string
	// BlueprintID is set when the draft edits an existing blueprint; saving
	// replaces it.
	BlueprintID string

	mu       sync.Mutex
	builder  *Builder
	lastUsed time.Time
	closed   bool
}

// Do runs fn with exclusive access to the draft builder.
func (d *Draft) Do(fn func(*Builder) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrNoDraft
	}
	d.lastUsed = time.Now()
	return fn(d.builder)
}

func (d *Draft) idleSince(t time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastUsed.Before(t)
}

func (d *Draft) close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// Drafts is the registry of open authoring sessions.
type Drafts struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewDrafts() *Drafts {
	return &Drafts{drafts: map[string]*Draft{}}
}

// Open starts an empty session, or one editing bp when it is not nil.
func (ds *Drafts) Open(bp *model.Blueprint) *Draft {
	d := &Draft{
		ID:       uuid.NewString(),
		builder:  NewBuilder(),
		lastUsed: time.Now(),
	}
	if bp != nil {
		d.BlueprintID = bp.ID
		d.builder = EditBuilder(*bp)
	}

	ds.mu.Lock()
	ds.drafts[d.ID] = d
	ds.mu.Unlock()
	return d
}

func (ds *Drafts) Get(id string) (*Draft, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	d, ok := ds.drafts[id]
	if !ok {
		return nil, ErrNoDraft
	}
	return d, nil
}

// Close discards draft id.
func (ds *Drafts) Close(id string) error {
	ds.mu.Lock()
	d, ok := ds.drafts[id]
	delete(ds.drafts, id)
	ds.mu.Unlock()
	if !ok {
		return ErrNoDraft
	}
	d.close()
	return nil
}

// Save stores the blueprint draft id describes and closes the draft. When
// saving fails the draft stays open and unchanged. A draft editing a
// blueprint that has been deleted since fails with store.ErrNotFound.
func (ds *Drafts) Save(ctx context.Context, st store.Store, id, name, description string) (model.Blueprint, error) {
	d, err := ds.Get(id)
	if err != nil {
		return model.Blueprint{}, err
	}

	var saved model.Blueprint
	err = d.Do(func(b *Builder) error {
		bp, err := b.Blueprint(name, description)
		if err != nil {
			return err
		}
		if d.BlueprintID != "" {
			if _, err := st.GetBlueprint(ctx, d.BlueprintID); err != nil {
				return err
			}
			bp.ID = d.BlueprintID
		}
		if saved, err = st.SaveBlueprint(ctx, bp); err != nil {
			return err
		}
		d.closed = true
		return nil
	})
	if err != nil {
		return model.Blueprint{}, err
	}
	ds.forget(id)
	return saved, nil
}

func (ds *Drafts) forget(id string) {
	ds.mu.Lock()
	delete(ds.drafts, id)
	ds.mu.Unlock()
}

// Len is the number of open drafts.
func (ds *Drafts) Len() int {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return len(ds.drafts)
}

// Sweep closes the drafts not used for longer than maxIdle.
func (ds *Drafts) Sweep(maxIdle time.Duration) int {
	limit := time.Now().Add(-maxIdle)

	ds.mu.Lock()
	var stale []string
	for id, d := range ds.drafts {
		if d.idleSince(limit) {
			stale = append(stale, id)
		}
	}
	ds.mu.Unlock()

	for _, id := range stale {
		ds.Close(id)
	}
	if len(stale) > 0 {
		log.Debugf("closed %d idle drafts", len(stale))
	}
	return len(stale)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (ds *Drafts) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ds.Sweep(maxIdle)
		}
	}
}
