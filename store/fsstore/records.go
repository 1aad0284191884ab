package fsstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store"
)

func (s *Store) ListBlueprints(ctx context.Context) ([]model.Blueprint, error) {
	bps := []model.Blueprint{}
	err := s.list(ctx, s.blueprints, func(snap *firestore.DocumentSnapshot) error {
		var bp model.Blueprint
		if err := fromDoc(snap, &bp); err != nil {
			return err
		}
		bps = append(bps, bp)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("firestore.get_blueprints: %w", err)
	}
	store.SortBlueprints(bps)
	return bps, nil
}

func (s *Store) GetBlueprint(ctx context.Context, id string) (bp model.Blueprint, err error) {
	err = s.get(ctx, s.blueprints, "blueprint", id, &bp)
	return
}

func (s *Store) SaveBlueprint(ctx context.Context, bp model.Blueprint) (saved model.Blueprint, err error) {
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		draft := bp.Clone()
		if draft.ID != "" {
			var prev model.Blueprint
			found, err := existing(tx, s.client.Collection(s.blueprints).Doc(draft.ID), &prev)
			if err != nil {
				return err
			}
			if found {
				draft.CreatedAt = prev.CreatedAt
			}
		}
		saved = store.PrepareBlueprint(draft, s.now())

		doc, err := toDoc(saved)
		if err != nil {
			return err
		}
		return tx.Set(s.client.Collection(s.blueprints).Doc(saved.ID), doc)
	})
	if err != nil {
		err = fmt.Errorf("firestore.save_blueprint: %w", err)
	}
	return
}

func (s *Store) DeleteBlueprint(ctx context.Context, id string) error {
	return s.delete(ctx, s.blueprints, "blueprint", id)
}

func (s *Store) ListContracts(ctx context.Context) ([]model.Contract, error) {
	cs := []model.Contract{}
	err := s.list(ctx, s.contracts, func(snap *firestore.DocumentSnapshot) error {
		var c model.Contract
		if err := fromDoc(snap, &c); err != nil {
			return err
		}
		cs = append(cs, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("firestore.get_contracts: %w", err)
	}
	store.SortContracts(cs)
	return cs, nil
}

func (s *Store) GetContract(ctx context.Context, id string) (c model.Contract, err error) {
	err = s.get(ctx, s.contracts, "contract", id, &c)
	return
}

func (s *Store) SaveContract(ctx context.Context, c model.Contract) (saved model.Contract, err error) {
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		draft := c.Clone()
		if draft.ID != "" {
			var prev model.Contract
			found, err := existing(tx, s.client.Collection(s.contracts).Doc(draft.ID), &prev)
			if err != nil {
				return err
			}
			if found {
				draft.CreatedAt = prev.CreatedAt
			}
		}
		saved = store.PrepareContract(draft, s.now())

		doc, err := toDoc(saved)
		if err != nil {
			return err
		}
		return tx.Set(s.client.Collection(s.contracts).Doc(saved.ID), doc)
	})
	if err != nil {
		err = fmt.Errorf("firestore.save_contract: %w", err)
	}
	return
}

// UpdateContractStatus rewrites the whole contract document inside a
// transaction.
func (s *Store) UpdateContractStatus(ctx context.Context, id string, st model.Status) (updated model.Contract, err error) {
	if id == "" {
		return updated, fmt.Errorf("contract: %w", store.ErrNotFound)
	}
	ref := s.client.Collection(s.contracts).Doc(id)
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var c model.Contract
		found, err := existing(tx, ref, &c)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("contract %s: %w", id, store.ErrNotFound)
		}
		c.Status = st
		c.UpdatedAt = s.now()

		doc, err := toDoc(c)
		if err != nil {
			return err
		}
		updated = c
		return tx.Set(ref, doc)
	})
	return
}

func (s *Store) DeleteContract(ctx context.Context, id string) error {
	return s.delete(ctx, s.contracts, "contract", id)
}
