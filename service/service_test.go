package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store"
	"github.com/mbolis/quick-contract/store/kvstore"
	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("offline")

// offlineStore fails every call as an unreachable backend would.
type offlineStore struct{ store.Store }

func (offlineStore) SaveBlueprint(context.Context, model.Blueprint) (model.Blueprint, error) {
	return model.Blueprint{}, errOffline
}

func (offlineStore) SaveContract(context.Context, model.Contract) (model.Contract, error) {
	return model.Contract{}, errOffline
}

func (offlineStore) GetContract(context.Context, string) (model.Contract, error) {
	return model.Contract{}, errOffline
}

func newStore() store.Store {
	return kvstore.New(kvstore.NewMemory())
}

// ndaBuilder authors the blueprint used across the tests.
func ndaBuilder(t *testing.T) *Builder {
	t.Helper()
	b := NewBuilder()
	for _, f := range []struct {
		typ  model.FieldType
		text string
	}{
		{model.TypeText, "Party Name"},
		{model.TypeDate, "Effective Date"},
		{model.TypeSignature, "Signature"},
		{model.TypeFixed, "MUTUAL NDA"},
	} {
		_, err := b.AddField(f.typ, f.text)
		require.NoError(t, err)
	}
	return b
}
