package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mbolis/quick-contract/canvas"
	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	ds := NewDrafts()

	d := ds.Open(nil)
	got, err := ds.Get(d.ID)
	require.NoError(t, err)
	assert.Same(t, d, got)

	require.NoError(t, d.Do(func(b *Builder) error {
		_, err := b.AddField(model.TypeText, "Party Name")
		return err
	}))

	_, err = ds.Save(ctx, st, d.ID, "", "")
	assert.ErrorIs(t, err, model.ErrInvalid)
	assert.Equal(t, 1, ds.Len(), "failed save keeps the draft open")

	bp, err := ds.Save(ctx, st, d.ID, "NDA", "")
	require.NoError(t, err)
	assert.Equal(t, 1, bp.TotalFields)
	assert.Equal(t, 0, ds.Len())

	_, err = ds.Get(d.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, d.Do(func(*Builder) error { return nil }), ErrNoDraft)
}

func TestDraftEditsExistingBlueprint(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	bp, err := ndaBuilder(t).Save(ctx, st, "NDA", "")
	require.NoError(t, err)

	ds := NewDrafts()
	d := ds.Open(&bp)
	require.NoError(t, d.Do(func(b *Builder) error {
		_, err := b.MoveField(0, canvas.Point{X: 100, Y: 500})
		return err
	}))

	saved, err := ds.Save(ctx, st, d.ID, "NDA v2", "")
	require.NoError(t, err)
	assert.Equal(t, bp.ID, saved.ID)
	assert.Equal(t, canvas.Point{X: 100, Y: 500}, saved.Fields[0].Position.Origin())

	all, err := st.ListBlueprints(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDraftSaveAfterBlueprintDeleted(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	bp, err := ndaBuilder(t).Save(ctx, st, "NDA", "")
	require.NoError(t, err)

	ds := NewDrafts()
	d := ds.Open(&bp)
	require.NoError(t, st.DeleteBlueprint(ctx, bp.ID))

	_, err = ds.Save(ctx, st, d.ID, "NDA v2", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 1, ds.Len(), "failed save keeps the draft open")

	_, err = st.GetBlueprint(ctx, bp.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	all, err := st.ListBlueprints(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

// slowStore delays blueprint saves so concurrent callers overlap.
type slowStore struct{ store.Store }

func (s slowStore) SaveBlueprint(ctx context.Context, bp model.Blueprint) (model.Blueprint, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.SaveBlueprint(ctx, bp)
}

func TestConcurrentDraftSavesStoreOnce(t *testing.T) {
	ctx := context.Background()
	st := slowStore{newStore()}
	ds := NewDrafts()
	d := ds.Open(nil)
	require.NoError(t, d.Do(func(b *Builder) error {
		_, err := b.AddField(model.TypeText, "Party Name")
		return err
	}))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		saved  int
		closed int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ds.Save(ctx, st, d.ID, "NDA", "")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				saved++
			} else if assert.ErrorIs(t, err, ErrNoDraft) {
				closed++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, saved)
	assert.Equal(t, 7, closed)
	all, err := st.ListBlueprints(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 0, ds.Len())
}

func TestCloseAndSweep(t *testing.T) {
	ds := NewDrafts()
	d := ds.Open(nil)

	require.NoError(t, ds.Close(d.ID))
	assert.ErrorIs(t, ds.Close(d.ID), store.ErrNotFound)

	ds.Open(nil)
	assert.Equal(t, 0, ds.Sweep(time.Hour))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, ds.Sweep(time.Millisecond))
	assert.Equal(t, 0, ds.Len())
}

func TestConcurrentPointerEvents(t *testing.T) {
	ds := NewDrafts()
	d := ds.Open(nil)
	require.NoError(t, d.Do(func(b *Builder) error {
		_, err := b.AddField(model.TypeText, "Party Name")
		return err
	}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d.Do(func(b *Builder) error {
				if err := b.PointerDown(canvas.Point{X: 40, Y: 40}, 0); err != nil {
					return err
				}
				b.PointerMove(canvas.Point{X: float64(i * 10), Y: float64(i * 10)})
				b.PointerUp()
				return nil
			})
		}(i)
	}
	wg.Wait()

	d.Do(func(b *Builder) error {
		_, dragging := b.DragState().Dragging()
		assert.False(t, dragging)
		p := b.Fields()[0].Position
		assert.True(t, canvas.A4.Fits(p))
		return nil
	})
}
