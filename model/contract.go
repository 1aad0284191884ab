package model

import "fmt"

// Contract is a filled-in instance of a blueprint. Its fields are a
// snapshot taken when it was created; later blueprint changes do not reach
// it.
type Contract struct {
	Record
	BlueprintID string      `json:"blueprintId"`
	Status      Status      `json:"status"`
	Fields      []FormField `json:"fields"`
}

// Validate checks the contract can be saved.
func (c Contract) Validate() error {
	var p problems
	c.validate(&p, "contract")
	if c.BlueprintID == "" {
		p.addf("contract needs a blueprint")
	}
	if !c.Status.Valid() {
		p.addf("unknown status %q", c.Status)
	}
	if len(c.Fields) == 0 {
		p.addf("contract needs at least one field")
	}
	for _, f := range c.Fields {
		p.add(f.validate(false))
	}
	return p.result()
}

// Clone returns a deep copy of c.
func (c Contract) Clone() Contract {
	c.Record = c.Record.clone()
	c.Fields = cloneFields(c.Fields)
	return c
}

// SetValue stores v in field i. Fixed fields cannot be edited.
func (c *Contract) SetValue(i int, v FieldValue) error {
	return setValue(c.Fields, i, v)
}

// SameLayout reports whether fields has the field types, labels and
// positions of c, ignoring values.
func (c Contract) SameLayout(fields []FormField) error {
	if len(fields) != len(c.Fields) {
		return invalidf("contract has %d fields, got %d", len(c.Fields), len(fields))
	}
	for i, f := range fields {
		want := c.Fields[i]
		if f.Type != want.Type || f.LabelText() != want.LabelText() || f.Position != want.Position {
			return invalidf("field %d does not match the contract layout", i)
		}
		if f.Type == TypeFixed && f.Caption() != want.Caption() {
			return invalidf("field %d: fixed text cannot change", i)
		}
	}
	return nil
}

func setValue(fields []FormField, i int, v FieldValue) error {
	if i < 0 || i >= len(fields) {
		return invalidf("no field at index %d", i)
	}
	f := fields[i]
	if f.Type == TypeFixed {
		return invalidf("fixed field %d cannot be edited", i)
	}
	if v == nil {
		v = ZeroValue(f.Type)
	}
	if err := checkValue(f.Type, v); err != nil {
		return fmt.Errorf("field %d: %w", i, err)
	}
	fields[i].Value = v
	return nil
}

// SetFieldValue stores v in fields[i] with the same rules as
// Contract.SetValue.
func SetFieldValue(fields []FormField, i int, v FieldValue) error {
	return setValue(fields, i, v)
}
