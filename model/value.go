package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the format of date field values.
const DateLayout = "2006-01-02"

// FieldValue is the value carried by a contract field. Its concrete type
// always matches the field type: TextValue, DateValue, CheckboxValue,
// SignatureValue or FixedValue.
type FieldValue interface {
	FieldType() FieldType
	IsZero() bool
	isFieldValue()
}

type (
	TextValue      string
	DateValue      string
	CheckboxValue  bool
	SignatureValue string // data:image/...;base64,... URI
	FixedValue     string
)

func (TextValue) FieldType() FieldType      { return TypeText }
func (DateValue) FieldType() FieldType      { return TypeDate }
func (CheckboxValue) FieldType() FieldType  { return TypeCheckbox }
func (SignatureValue) FieldType() FieldType { return TypeSignature }
func (FixedValue) FieldType() FieldType     { return TypeFixed }

func (v TextValue) IsZero() bool      { return v == "" }
func (v DateValue) IsZero() bool      { return v == "" }
func (v CheckboxValue) IsZero() bool  { return !bool(v) }
func (v SignatureValue) IsZero() bool { return v == "" }
func (v FixedValue) IsZero() bool     { return v == "" }

func (TextValue) isFieldValue()      {}
func (DateValue) isFieldValue()      {}
func (CheckboxValue) isFieldValue()  {}
func (SignatureValue) isFieldValue() {}
func (FixedValue) isFieldValue()     {}

// Time parses the date. The zero time is returned for an empty value.
func (v DateValue) Time() (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, string(v))
}

// ZeroValue is the empty value a new contract field of type t starts with.
func ZeroValue(t FieldType) FieldValue {
	switch t {
	case TypeText:
		return TextValue("")
	case TypeDate:
		return DateValue("")
	case TypeCheckbox:
		return CheckboxValue(false)
	case TypeSignature:
		return SignatureValue("")
	case TypeFixed:
		return FixedValue("")
	}
	return nil
}

// ValueString renders v for display and search.
func ValueString(v FieldValue) string {
	switch v := v.(type) {
	case nil:
		return ""
	case TextValue:
		return string(v)
	case DateValue:
		return string(v)
	case CheckboxValue:
		if v {
			return "yes"
		}
		return "no"
	case SignatureValue:
		if v == "" {
			return ""
		}
		return "[signature]"
	case FixedValue:
		return string(v)
	}
	panic(fmt.Sprintf("unhandled field value %T", v))
}

func checkValue(t FieldType, v FieldValue) error {
	if v == nil {
		return nil
	}
	if v.FieldType() != t {
		return invalidf("%s value given for %s field", v.FieldType(), t)
	}
	switch v := v.(type) {
	case DateValue:
		if _, err := v.Time(); err != nil {
			return invalidf("date %q is not %s", string(v), DateLayout)
		}
	case SignatureValue:
		if v != "" && !strings.HasPrefix(string(v), "data:image/") {
			return invalidf("signature must be an image data URI")
		}
	}
	return nil
}

// MarshalValue encodes v as its JSON wire form (null for no value).
func MarshalValue(v FieldValue) (json.RawMessage, error) {
	switch v := v.(type) {
	case nil:
		return json.RawMessage("null"), nil
	case CheckboxValue:
		return json.Marshal(bool(v))
	case TextValue:
		return json.Marshal(string(v))
	case DateValue:
		return json.Marshal(string(v))
	case SignatureValue:
		return json.Marshal(string(v))
	case FixedValue:
		return json.Marshal(string(v))
	}
	return nil, fmt.Errorf("unhandled field value %T", v)
}

// UnmarshalValue reads the wire value of a field of type t. Checkbox values
// written as an empty string decode as unchecked.
func UnmarshalValue(t FieldType, raw json.RawMessage) (FieldValue, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if t == TypeCheckbox {
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return CheckboxValue(b), nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s == "" {
			return CheckboxValue(false), nil
		}
		return nil, invalidf("checkbox value must be a boolean")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, invalidf("%s value must be a string", t)
	}
	switch t {
	case TypeText:
		return TextValue(s), nil
	case TypeDate:
		return DateValue(s), nil
	case TypeSignature:
		return SignatureValue(s), nil
	case TypeFixed:
		return FixedValue(s), nil
	}
	return nil, invalidf("unknown field type %q", t)
}
