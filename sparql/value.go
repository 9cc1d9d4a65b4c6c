// Package sparql provides the store interface: an HTTP client for the
// SPARQL endpoint, the wire result format, and coercion of typed-literal
// bindings into native values.
package sparql

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
)

// Kind is the native type of a coerced cell value.
type Kind int

const (
	// KindNull marks the reserved "NULL" string sentinel for "no value".
	KindNull Kind = iota
	// KindInt holds integer- and decimal-typed bindings (decimals are
	// truncated toward zero).
	KindInt
	// KindBool holds boolean-typed bindings.
	KindBool
	// KindString holds string-typed and unrecognized bindings, and
	// dateTime values in the display format.
	KindString
	// KindURI holds URI bindings, passed through as opaque strings.
	KindURI
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindURI:
		return "uri"
	default:
		return "unknown"
	}
}

// Value is one coerced cell of a result row.
type Value struct {
	kind Kind
	i    int64
	b    bool
	s    string
}

// Null returns the "no value" sentinel.
func Null() Value {
	return Value{kind: KindNull}
}

// Int returns an integer value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// URI returns an opaque URI value.
func URI(s string) Value {
	return Value{kind: KindURI, s: s}
}

// Kind returns the native type of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is the "no value" sentinel.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Int returns the integer value, or zero for any other kind.
func (v Value) Int() int64 {
	return v.i
}

// Bool returns the boolean value, or false for any other kind.
func (v Value) Bool() bool {
	return v.b
}

// Text returns the string or URI value, or the empty string otherwise.
func (v Value) Text() string {
	return v.s
}

// jsonValue is the serialized form for disk-cached rows. Keeping the kind
// tag avoids the float64 round-trip of plain JSON numbers.
type jsonValue struct {
	Kind string `json:"k"`
	Int  int64  `json:"i,omitempty"`
	Bool bool   `json:"b,omitempty"`
	Str  string `json:"s,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonValue{Kind: v.kind.String(), Int: v.i, Bool: v.b, Str: v.s})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}
	switch jv.Kind {
	case "null":
		*v = Null()
	case "int":
		*v = Int(jv.Int)
	case "bool":
		*v = Bool(jv.Bool)
	case "string":
		*v = String(jv.Str)
	case "uri":
		*v = URI(jv.Str)
	default:
		return fmt.Errorf("unknown value kind %q", jv.Kind)
	}
	return nil
}

// Row is one normalized result row, keyed by variable name.
type Row map[string]Value

// Clone returns a shallow copy of the row. Rows handed out by the result
// cache are shared between callers; clone before adding fields.
func (r Row) Clone() Row {
	return maps.Clone(r)
}

// Has reports whether the field is bound and not the NULL sentinel.
func (r Row) Has(field string) bool {
	v, ok := r[field]
	return ok && !v.IsNull()
}

// Int returns the integer value of a field, or zero when absent.
func (r Row) Int(field string) int64 {
	return r[field].Int()
}

// Bool returns the boolean value of a field, or false when absent.
func (r Row) Bool(field string) bool {
	return r[field].Bool()
}

// Text returns the string or URI value of a field, or "" when absent.
func (r Row) Text(field string) string {
	return r[field].Text()
}

// parseIntegerLiteral parses integer- and decimal-typed values. Decimals
// truncate toward zero, matching the historical float-to-int coercion of
// the record schema; no field in the data model carries fractional data on
// this path.
func parseIntegerLiteral(value string) (int64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// parseBooleanLiteral parses the 0/1 integer encoding used on record
// fields, and tolerates the xsd:boolean word forms written on session
// records.
func parseBooleanLiteral(value string) (bool, error) {
	switch value {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		return false, fmt.Errorf("not a boolean encoding: %q", value)
	}
}
