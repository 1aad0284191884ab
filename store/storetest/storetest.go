// Package storetest holds the behaviour every store.Store implementation
// must share, run against each of them from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Blueprint returns an unsaved blueprint with one field of every type.
func Blueprint(t *testing.T, name string) model.Blueprint {
	t.Helper()
	var fields []model.FormField
	for _, typ := range model.FieldTypes {
		text := map[model.FieldType]string{
			model.TypeText:      "Party Name",
			model.TypeDate:      "Effective Date",
			model.TypeCheckbox:  "Accept terms",
			model.TypeSignature: "Signature",
			model.TypeFixed:     "This agreement is confidential.",
		}[typ]
		f, err := model.NewField(typ, text)
		require.NoError(t, err)
		f.Position.Y += float64(len(fields)) * 60
		fields = append(fields, f)
	}
	return model.Blueprint{
		Record: model.Record{Name: name, Description: model.OptionalString(name + " template")},
		Fields: fields,
	}
}

// Contract returns an unsaved contract materialized from bp with a few
// values filled in.
func Contract(t *testing.T, bp model.Blueprint, name string) model.Contract {
	t.Helper()
	c := model.Contract{
		Record:      model.Record{Name: name},
		BlueprintID: bp.ID,
		Status:      model.StatusCreated,
		Fields:      model.Materialize(bp.Fields),
	}
	require.NoError(t, c.SetValue(0, model.TextValue("Acme Corp")))
	require.NoError(t, c.SetValue(1, model.DateValue("2026-01-18")))
	require.NoError(t, c.SetValue(2, model.CheckboxValue(true)))
	require.NoError(t, c.SetValue(3, model.SignatureValue("data:image/png;base64,iVBORw0KGgo=")))
	return c
}

// Run exercises s through the whole store.Store contract. s must start
// empty.
func Run(t *testing.T, s store.Store) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		_, err := s.GetBlueprint(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.GetContract(ctx, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.UpdateContractStatus(ctx, "missing", model.StatusApproved)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.DeleteBlueprint(ctx, "missing"), store.ErrNotFound)
		assert.ErrorIs(t, s.DeleteContract(ctx, "missing"), store.ErrNotFound)
	})

	var bp model.Blueprint
	t.Run("BlueprintRoundTrip", func(t *testing.T) {
		draft := Blueprint(t, "NDA")
		saved, err := s.SaveBlueprint(ctx, draft)
		require.NoError(t, err)
		require.NotEmpty(t, saved.ID)
		assert.False(t, saved.CreatedAt.IsZero())
		assert.Equal(t, len(draft.Fields), saved.TotalFields)

		loaded, err := s.GetBlueprint(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, loaded.ID)
		assert.Equal(t, draft.Name, loaded.Name)
		assert.Equal(t, draft.Description, loaded.Description)
		assert.Equal(t, draft.Fields, loaded.Fields)
		assert.Equal(t, len(draft.Fields), loaded.TotalFields)
		assert.WithinDuration(t, saved.CreatedAt, loaded.CreatedAt, time.Millisecond)
		assert.WithinDuration(t, saved.UpdatedAt, loaded.UpdatedAt, time.Millisecond)
		bp = loaded
	})

	t.Run("BlueprintReplace", func(t *testing.T) {
		require.NotEmpty(t, bp.ID)
		edited := bp.Clone()
		edited.Name = "Mutual NDA"
		edited.Description = nil
		edited.Fields = edited.Fields[:2]

		saved, err := s.SaveBlueprint(ctx, edited)
		require.NoError(t, err)
		assert.Equal(t, bp.ID, saved.ID)

		loaded, err := s.GetBlueprint(ctx, bp.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mutual NDA", loaded.Name)
		assert.Nil(t, loaded.Description)
		assert.Len(t, loaded.Fields, 2)
		assert.Equal(t, 2, loaded.TotalFields)
		assert.WithinDuration(t, bp.CreatedAt, loaded.CreatedAt, time.Millisecond)
		bp = loaded
	})

	var c model.Contract
	t.Run("ContractRoundTrip", func(t *testing.T) {
		full := Blueprint(t, "Service Agreement")
		full, err := s.SaveBlueprint(ctx, full)
		require.NoError(t, err)

		draft := Contract(t, full, "Acme service agreement")
		saved, err := s.SaveContract(ctx, draft)
		require.NoError(t, err)
		require.NotEmpty(t, saved.ID)

		loaded, err := s.GetContract(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, full.ID, loaded.BlueprintID)
		assert.Equal(t, model.StatusCreated, loaded.Status)
		assert.Equal(t, draft.Fields, loaded.Fields)
		assert.Equal(t, model.TextValue("Acme Corp"), loaded.Fields[0].Value)
		c = loaded
	})

	t.Run("UpdateContractStatus", func(t *testing.T) {
		require.NotEmpty(t, c.ID)
		updated, err := s.UpdateContractStatus(ctx, c.ID, model.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, updated.Status)
		assert.False(t, updated.UpdatedAt.Before(c.UpdatedAt))
		assert.Equal(t, c.Fields, updated.Fields)

		loaded, err := s.GetContract(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, loaded.Status)
	})

	t.Run("Lists", func(t *testing.T) {
		bps, err := s.ListBlueprints(ctx)
		require.NoError(t, err)
		assert.Len(t, bps, 2)
		for i := 1; i < len(bps); i++ {
			assert.False(t, bps[i].UpdatedAt.After(bps[i-1].UpdatedAt))
		}

		cs, err := s.ListContracts(ctx)
		require.NoError(t, err)
		require.Len(t, cs, 1)
		assert.Equal(t, c.ID, cs[0].ID)
		assert.Len(t, cs[0].Fields, len(c.Fields))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.DeleteContract(ctx, c.ID))
		_, err := s.GetContract(ctx, c.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, s.DeleteBlueprint(ctx, bp.ID))
		_, err = s.GetBlueprint(ctx, bp.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)

		bps, err := s.ListBlueprints(ctx)
		require.NoError(t, err)
		assert.Len(t, bps, 1)
	})
}
