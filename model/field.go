package model

import (
	"encoding/json"
	"strings"

	"github.com/mbolis/quick-contract/canvas"
)

type FieldType string

const (
	TypeText      FieldType = "text"
	TypeDate      FieldType = "date"
	TypeCheckbox  FieldType = "checkbox"
	TypeSignature FieldType = "signature"
	TypeFixed     FieldType = "fixed"
)

// FieldTypes lists every field type in the order offered to authors.
var FieldTypes = []FieldType{TypeText, TypeDate, TypeCheckbox, TypeSignature, TypeFixed}

// DefaultOrigin is where new fields are dropped on the canvas.
var DefaultOrigin = canvas.Point{X: 40, Y: 40}

func (t FieldType) Valid() bool {
	switch t {
	case TypeText, TypeDate, TypeCheckbox, TypeSignature, TypeFixed:
		return true
	}
	return false
}

// DefaultSize is the width and height of a newly added field.
func (t FieldType) DefaultSize() (w, h float64) {
	switch t {
	case TypeText:
		return 200, 35
	case TypeDate:
		return 160, 35
	case TypeCheckbox:
		return 140, 35
	case TypeSignature:
		return 240, 50
	case TypeFixed:
		return 100, 30
	}
	return 0, 0
}

// FormField is a field placed on the canvas. Blueprint fields carry no
// value (except the caption of a fixed field); contract fields always do.
type FormField struct {
	Label    *string
	Type     FieldType
	Position canvas.Rect
	Value    FieldValue
}

// NewField builds a field of type t at the default origin. For fixed
// fields text is the caption to display, otherwise it is the label.
func NewField(t FieldType, text string) (FormField, error) {
	if !t.Valid() {
		return FormField{}, invalidf("unknown field type %q", t)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		if t == TypeFixed {
			return FormField{}, invalidf("fixed field needs text to display")
		}
		return FormField{}, invalidf("%s field needs a label", t)
	}

	w, h := t.DefaultSize()
	f := FormField{
		Label:    &text,
		Type:     t,
		Position: canvas.Rect{X: DefaultOrigin.X, Y: DefaultOrigin.Y, W: w, H: h},
	}
	if t == TypeFixed {
		f.Value = FixedValue(text)
	}
	return f, nil
}

// LabelText returns the label, or "" when the field has none.
func (f FormField) LabelText() string {
	if f.Label == nil {
		return ""
	}
	return *f.Label
}

// Caption is the static text of a fixed field.
func (f FormField) Caption() string {
	if v, ok := f.Value.(FixedValue); ok && v != "" {
		return string(v)
	}
	return f.LabelText()
}

// Clone returns a field sharing no memory with f.
func (f FormField) Clone() FormField {
	if f.Label != nil {
		label := *f.Label
		f.Label = &label
	}
	return f
}

// Materialize copies blueprint fields into contract fields: same order,
// layout and labels, each value reset to its empty form. Fixed fields take
// their caption as value.
func Materialize(fields []FormField) []FormField {
	out := make([]FormField, len(fields))
	for i, f := range fields {
		c := f.Clone()
		if f.Type == TypeFixed {
			if label := f.LabelText(); label != "" {
				c.Value = FixedValue(label)
			} else {
				c.Value = FixedValue(f.Caption())
			}
		} else {
			c.Value = ZeroValue(f.Type)
		}
		out[i] = c
	}
	return out
}

func cloneFields(fields []FormField) []FormField {
	if fields == nil {
		return nil
	}
	out := make([]FormField, len(fields))
	for i, f := range fields {
		out[i] = f.Clone()
	}
	return out
}

func (f FormField) validate(template bool) error {
	var p problems
	if !f.Type.Valid() {
		p.addf("unknown field type %q", f.Type)
		return p.result()
	}
	if f.Type == TypeFixed {
		if strings.TrimSpace(f.Caption()) == "" {
			p.addf("fixed field needs text to display")
		}
	} else if strings.TrimSpace(f.LabelText()) == "" {
		p.addf("%s field needs a label", f.Type)
	}
	if f.Position.W <= 0 || f.Position.H <= 0 {
		p.addf("%s field has no size", f.Type)
	} else if !canvas.A4.Fits(f.Position) {
		p.addf("%s field %q lies outside the canvas", f.Type, f.LabelText())
	}
	p.add(checkValue(f.Type, f.Value))
	if template && f.Type != TypeFixed && f.Value != nil && !f.Value.IsZero() {
		p.addf("blueprint field %q cannot carry a value", f.LabelText())
	}
	return p.result()
}

type wireField struct {
	Label    *string         `json:"label,omitempty"`
	Type     FieldType       `json:"type"`
	Position canvas.Rect     `json:"position"`
	Value    json.RawMessage `json:"value"`
}

func (f FormField) MarshalJSON() ([]byte, error) {
	value, err := MarshalValue(f.Value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireField{
		Label:    f.Label,
		Type:     f.Type,
		Position: f.Position,
		Value:    value,
	})
}

func (f *FormField) UnmarshalJSON(data []byte) error {
	var w wireField
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if !w.Type.Valid() {
		return invalidf("unknown field type %q", w.Type)
	}
	value, err := UnmarshalValue(w.Type, w.Value)
	if err != nil {
		return err
	}
	*f = FormField{
		Label:    w.Label,
		Type:     w.Type,
		Position: w.Position,
		Value:    value,
	}
	return nil
}
