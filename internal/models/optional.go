package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// OptionalFloat is a numeric upstream field that may be absent, null, a JSON
// number or a numeric string. Anything else decodes as absent rather than
// failing the whole response.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *OptionalFloat) UnmarshalJSON(data []byte) error {
	*f = OptionalFloat{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}

	text := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		text = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	f.Value = v
	f.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f OptionalFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return jsonNull, nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (f OptionalFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// Float wraps v as a present OptionalFloat.
func Float(v float64) OptionalFloat {
	return OptionalFloat{Value: v, Valid: true}
}

// OptionalText keeps the textual form of an upstream field. Strings are kept
// verbatim; numbers, booleans and other JSON values keep their literal JSON
// text. Null and absent fields are not valid.
type OptionalText struct {
	Value string
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *OptionalText) UnmarshalJSON(data []byte) error {
	*t = OptionalText{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		t.Value = s
		t.Valid = true
		return nil
	}

	t.Value = string(data)
	t.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t OptionalText) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return jsonNull, nil
	}
	return json.Marshal(t.Value)
}

// Ptr returns a pointer to a copy of the text, or nil when absent.
func (t OptionalText) Ptr() *string {
	if !t.Valid {
		return nil
	}
	s := t.Value
	return &s
}

// Text wraps s as a present OptionalText.
func Text(s string) OptionalText {
	return OptionalText{Value: s, Valid: true}
}
