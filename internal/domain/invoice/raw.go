package invoice

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Value is a single OCR value. OCR engines emit strings, bare numbers, nulls
// and one-element lists interchangeably; all of them decode to text.
type Value string

// UnmarshalJSON accepts a string, number, boolean, null or list. A list yields
// its first element; objects are kept as their compact JSON text.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
	case '[':
		var list []Value
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*v = ""
		if len(list) > 0 {
			*v = list[0]
		}
	case '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*v = Value(buf.String())
	default:
		// numbers and booleans keep their literal spelling
		*v = Value(data)
	}
	return nil
}

// String returns the value with surrounding whitespace removed
func (v Value) String() string {
	return strings.TrimSpace(string(v))
}

// Fields is one section of an OCR payload keyed by free-form field names
type Fields map[string]Value

// Strings converts the section to plain strings
func (f Fields) Strings() map[string]string {
	out := make(map[string]string, len(f))
	for k, v := range f {
		out[k] = v.String()
	}
	return out
}

// RawInvoice is the OCR payload for one invoice:
// {"dynamic": [{field: value}], "static": {field: [value]}}.
type RawInvoice struct {
	Dynamic []Fields `json:"dynamic"`
	Static  Fields   `json:"static"`
}
