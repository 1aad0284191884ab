package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/store"
)

// Instantiation fills in a new contract from a chosen blueprint.
type Instantiation struct {
	blueprint   *model.Blueprint
	Name        string
	Description string
	fields      []model.FormField
}

// Instantiate selects bp for a new contract.
func Instantiate(bp model.Blueprint) *Instantiation {
	in := &Instantiation{}
	in.Select(bp)
	return in
}

// Select switches to bp: the field list is materialized again from its
// fields, values entered so far are dropped, and name and description are
// suggested from the blueprint.
func (in *Instantiation) Select(bp model.Blueprint) {
	bp = bp.Clone()
	in.blueprint = &bp
	in.Name = bp.Name + " Contract"
	in.Description = bp.DescriptionText()
	in.fields = model.Materialize(bp.Fields)
}

// Blueprint is the selected blueprint.
func (in *Instantiation) Blueprint() (model.Blueprint, bool) {
	if in.blueprint == nil {
		return model.Blueprint{}, false
	}
	return in.blueprint.Clone(), true
}

// Fields returns a copy of the contract fields with the values entered so
// far.
func (in *Instantiation) Fields() []model.FormField {
	out := make([]model.FormField, len(in.fields))
	for i, f := range in.fields {
		out[i] = f.Clone()
	}
	return out
}

// SetValue enters the value of field i. The value type must match the
// field type and fixed fields cannot be edited.
func (in *Instantiation) SetValue(i int, v model.FieldValue) error {
	return model.SetFieldValue(in.fields, i, v)
}

// Contract assembles and validates the contract to save.
func (in *Instantiation) Contract() (model.Contract, error) {
	if in.blueprint == nil {
		return model.Contract{}, fmt.Errorf("%w: please select a blueprint", model.ErrInvalid)
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Contract{}, fmt.Errorf("%w: please enter a contract name", model.ErrInvalid)
	}
	c := model.Contract{
		Record: model.Record{
			Name:        in.Name,
			Description: model.OptionalString(in.Description),
		},
		BlueprintID: in.blueprint.ID,
		Status:      model.StatusCreated,
		Fields:      in.Fields(),
	}
	if err := c.Validate(); err != nil {
		return model.Contract{}, err
	}
	return c, nil
}

// Save validates and stores the contract.
func (in *Instantiation) Save(ctx context.Context, st store.Store) (model.Contract, error) {
	c, err := in.Contract()
	if err != nil {
		return model.Contract{}, err
	}
	return st.SaveContract(ctx, c)
}
