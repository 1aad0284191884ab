package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mbolis/quick-contract/database"
	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func TestStore(t *testing.T) {
	storetest.Run(t, openStore(t))
}

func TestSaveKeepsCreationTime(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	first := time.Date(2026, 1, 18, 10, 0, 0, 0, time.UTC)
	s.WithClock(func() time.Time { return first })

	bp, err := s.SaveBlueprint(ctx, storetest.Blueprint(t, "NDA"))
	require.NoError(t, err)

	second := first.Add(time.Hour)
	s.WithClock(func() time.Time { return second })
	bp.CreatedAt = time.Time{}
	bp, err = s.SaveBlueprint(ctx, bp)
	require.NoError(t, err)
	assert.Equal(t, first, bp.CreatedAt)
	assert.Equal(t, second, bp.UpdatedAt)

	loaded, err := s.GetBlueprint(ctx, bp.ID)
	require.NoError(t, err)
	assert.Equal(t, first, loaded.CreatedAt)
	assert.Equal(t, second, loaded.UpdatedAt)
}

func TestContractOutlivesBlueprint(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	bp, err := s.SaveBlueprint(ctx, storetest.Blueprint(t, "NDA"))
	require.NoError(t, err)
	c, err := s.SaveContract(ctx, storetest.Contract(t, bp, "Acme NDA"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteBlueprint(ctx, bp.ID))

	loaded, err := s.GetContract(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, bp.ID, loaded.BlueprintID)
	assert.Equal(t, model.SignatureValue("data:image/png;base64,iVBORw0KGgo="), loaded.Fields[3].Value)
}
