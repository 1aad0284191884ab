package model

// Blueprint is a reusable document template: an ordered set of field
// placements with no values.
type Blueprint struct {
	Record
	TotalFields int         `json:"totalFields"`
	Fields      []FormField `json:"fields"`
}

// Validate checks the blueprint can be saved.
func (b Blueprint) Validate() error {
	var p problems
	b.validate(&p, "blueprint")
	if len(b.Fields) == 0 {
		p.addf("blueprint needs at least one field")
	}
	for _, f := range b.Fields {
		p.add(f.validate(true))
	}
	return p.result()
}

// Clone returns a deep copy of b.
func (b Blueprint) Clone() Blueprint {
	b.Record = b.Record.clone()
	b.Fields = cloneFields(b.Fields)
	return b
}
