package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContract(t *testing.T, st store.Store) (Contracts, model.Contract) {
	t.Helper()
	ctx := context.Background()
	bp, err := ndaBuilder(t).Save(ctx, st, "NDA", "")
	require.NoError(t, err)
	c, err := Instantiate(bp).Contract()
	require.NoError(t, err)

	svc := NewContracts(st)
	c, err = svc.Create(ctx, c)
	require.NoError(t, err)
	return svc, c
}

func TestCreateForcesCreatedStatus(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc, c := newContract(t, st)

	draft := c.Clone()
	draft.Status = model.StatusSigned
	saved, err := svc.Create(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCreated, saved.Status)
	assert.NotEqual(t, c.ID, saved.ID)

	draft.BlueprintID = "missing"
	_, err = svc.Create(ctx, draft)
	assert.ErrorIs(t, err, model.ErrInvalid)
}

func TestWorkflow(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc, c := newContract(t, st)

	for _, want := range []model.Status{model.StatusApproved, model.StatusSent, model.StatusSigned, model.StatusLocked} {
		updated, err := svc.Advance(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, want, updated.Status)
	}

	_, err := svc.Advance(ctx, c.ID)
	assert.ErrorIs(t, err, model.ErrTransition)
	_, err = svc.Revoke(ctx, c.ID)
	assert.ErrorIs(t, err, model.ErrTransition)

	stored, err := st.GetContract(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLocked, stored.Status)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc, c := newContract(t, st)

	_, err := svc.Advance(ctx, c.ID)
	require.NoError(t, err)
	_, err = svc.Revoke(ctx, c.ID)
	assert.ErrorIs(t, err, model.ErrTransition, "approved contracts cannot be revoked")

	_, err = svc.Advance(ctx, c.ID)
	require.NoError(t, err)
	revoked, err := svc.Revoke(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRevoked, revoked.Status)
	assert.Equal(t, model.BucketRevoked, revoked.Status.Bucket())

	_, err = svc.Revoke(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc, c := newContract(t, st)

	_, err := svc.SetStatus(ctx, c.ID, model.StatusSigned)
	assert.ErrorIs(t, err, model.ErrTransition)
	_, err = svc.SetStatus(ctx, c.ID, "archived")
	assert.ErrorIs(t, err, model.ErrTransition)

	updated, err := svc.SetStatus(ctx, c.ID, model.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, updated.Status)
}

func TestUpdateValues(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc, c := newContract(t, st)

	edit := c.Clone()
	edit.Name = "Acme NDA"
	require.NoError(t, edit.SetValue(0, model.TextValue("Acme Corp")))
	updated, err := svc.UpdateValues(ctx, c.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Acme NDA", updated.Name)
	assert.Equal(t, model.TextValue("Acme Corp"), updated.Fields[0].Value)

	moved := edit.Clone()
	moved.Fields[0].Position.X += 10
	_, err = svc.UpdateValues(ctx, c.ID, moved)
	assert.ErrorIs(t, err, model.ErrInvalid)

	_, err = svc.Advance(ctx, c.ID)
	require.NoError(t, err)
	_, err = svc.UpdateValues(ctx, c.ID, edit)
	assert.ErrorIs(t, err, model.ErrTransition)
}

func TestTransitionFailureLeavesContract(t *testing.T) {
	_, err := NewContracts(offlineStore{}).Advance(context.Background(), "any")
	assert.ErrorIs(t, err, errOffline)
}

// slowReads delays contract reads so concurrent updates overlap.
type slowReads struct{ store.Store }

func (s slowReads) GetContract(ctx context.Context, id string) (model.Contract, error) {
	c, err := s.Store.GetContract(ctx, id)
	time.Sleep(2 * time.Millisecond)
	return c, err
}

func TestConcurrentAdvancesNeverRepeatAStep(t *testing.T) {
	ctx := context.Background()
	svc, c := newContract(t, slowReads{newStore()})

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Advance(ctx, c.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	got, err := svc.store.GetContract(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLocked, got.Status)
	assert.Zero(t, svc.locks.len())
}

func TestEditRacingAdvanceKeepsStatus(t *testing.T) {
	ctx := context.Background()
	svc, c := newContract(t, slowReads{newStore()})

	edit := c.Clone()
	require.NoError(t, edit.SetValue(0, model.TextValue("Globex")))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.UpdateValues(ctx, c.ID, edit)
		if err != nil {
			assert.ErrorIs(t, err, model.ErrTransition)
		}
	}()
	go func() {
		defer wg.Done()
		_, err := svc.Advance(ctx, c.ID)
		assert.NoError(t, err)
	}()
	wg.Wait()

	got, err := svc.store.GetContract(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
}

func TestDeleteRacingEditStaysDeleted(t *testing.T) {
	ctx := context.Background()
	svc, c := newContract(t, slowReads{newStore()})

	edit := c.Clone()
	require.NoError(t, edit.SetValue(0, model.TextValue("Globex")))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.UpdateValues(ctx, c.ID, edit)
		if err != nil {
			assert.ErrorIs(t, err, store.ErrNotFound)
		}
	}()
	go func() {
		defer wg.Done()
		assert.NoError(t, svc.Delete(ctx, c.ID))
	}()
	wg.Wait()

	_, err := svc.store.GetContract(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
