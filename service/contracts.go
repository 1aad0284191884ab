package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store"
)

// Contracts applies the contract rules on top of a store: creation from
// an existing blueprint, value edits and the status workflow. On failure
// nothing is changed, in the store or in the values passed in. Edits,
// status changes and deletes of one contract run one at a time, so a
// status never moves backwards and a deleted contract stays deleted.
type Contracts struct {
	store store.Store
	locks *keyLocks
}

func NewContracts(st store.Store) Contracts {
	return Contracts{store: st, locks: contractLocks}
}

// Create stores a new contract. The contract starts as created whatever
// status the draft carries, and its blueprint must exist.
func (s Contracts) Create(ctx context.Context, draft model.Contract) (model.Contract, error) {
	c := draft.Clone()
	c.ID = ""
	c.Status = model.StatusCreated
	if err := c.Validate(); err != nil {
		return model.Contract{}, err
	}
	_, err := s.store.GetBlueprint(ctx, c.BlueprintID)
	if errors.Is(err, store.ErrNotFound) {
		return model.Contract{}, fmt.Errorf("%w: blueprint %s does not exist", model.ErrInvalid, c.BlueprintID)
	}
	if err != nil {
		return model.Contract{}, err
	}
	return s.store.SaveContract(ctx, c)
}

// UpdateValues replaces the values of contract id. Only contracts still
// in the created status may change, and the layout must match.
func (s Contracts) UpdateValues(ctx context.Context, id string, edit model.Contract) (model.Contract, error) {
	defer s.locks.lock(id)()

	c, err := s.store.GetContract(ctx, id)
	if err != nil {
		return model.Contract{}, err
	}
	if c.Status != model.StatusCreated {
		return model.Contract{}, fmt.Errorf("%w: %s contract cannot be edited", model.ErrTransition, c.Status)
	}
	if err := c.SameLayout(edit.Fields); err != nil {
		return model.Contract{}, err
	}

	updated := c.Clone()
	if edit.Name != "" {
		updated.Name = edit.Name
	}
	updated.Description = edit.Clone().Description
	for i, f := range edit.Fields {
		if f.Type == model.TypeFixed {
			continue
		}
		if err := updated.SetValue(i, f.Value); err != nil {
			return model.Contract{}, err
		}
	}
	if err := updated.Validate(); err != nil {
		return model.Contract{}, err
	}
	return s.store.SaveContract(ctx, updated)
}

// Advance moves contract id one step forward in its lifecycle.
func (s Contracts) Advance(ctx context.Context, id string) (model.Contract, error) {
	return s.transition(ctx, id, model.Status.Advance)
}

// Revoke revokes contract id, which must be created or sent.
func (s Contracts) Revoke(ctx context.Context, id string) (model.Contract, error) {
	return s.transition(ctx, id, model.Status.Revoke)
}

// SetStatus moves contract id to status to, which must be its next status
// or revoked.
func (s Contracts) SetStatus(ctx context.Context, id string, to model.Status) (model.Contract, error) {
	return s.transition(ctx, id, func(from model.Status) (model.Status, error) {
		if err := from.TransitionTo(to); err != nil {
			return from, err
		}
		return to, nil
	})
}

// Delete removes contract id.
func (s Contracts) Delete(ctx context.Context, id string) error {
	defer s.locks.lock(id)()
	return s.store.DeleteContract(ctx, id)
}

func (s Contracts) transition(ctx context.Context, id string, step func(model.Status) (model.Status, error)) (model.Contract, error) {
	defer s.locks.lock(id)()

	c, err := s.store.GetContract(ctx, id)
	if err != nil {
		return model.Contract{}, err
	}
	next, err := step(c.Status)
	if err != nil {
		return model.Contract{}, err
	}
	return s.store.UpdateContractStatus(ctx, id, next)
}
