// Package world provides the world-state model that plans are searched over.
package world

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindString
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Value is a single fact value: exactly one of a bool, an int or a string.
// Values are comparable with ==; a Bool never equals an Int.
type Value struct {
	kind Kind
	b    bool
	i    int
	s    string
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns an integer value.
func Int(i int) Value {
	return Value{kind: KindInt, i: i}
}

// Str returns a string value.
func Str(s string) Value {
	return Value{kind: KindString, s: s}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsValid reports whether v holds one of the three variants.
func (v Value) IsValid() bool {
	return v.kind != KindInvalid
}

// AsBool returns the boolean and whether v is a Bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the integer and whether v is an Int.
func (v Value) AsInt() (int, bool) {
	return v.i, v.kind == KindInt
}

// AsString returns the string and whether v is a Str.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// Equal reports structural equality.
func (v Value) Equal(other Value) bool {
	return v == other
}

// Any returns the value as a plain Go value (bool, int or string).
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindString:
		return v.s
	default:
		return nil
	}
}

// String renders the value the way it would be written in a catalog file.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.Itoa(v.i)
	case KindString:
		return v.s
	default:
		return "<invalid>"
	}
}

// canonical renders the value with its kind tag so that Int(1) and Str("1")
// never collide.
func (v Value) canonical() string {
	switch v.kind {
	case KindBool:
		return "b:" + strconv.FormatBool(v.b)
	case KindInt:
		return "i:" + strconv.Itoa(v.i)
	case KindString:
		return "s:" + strconv.Quote(v.s)
	default:
		return "x:"
	}
}

// FromAny converts a decoded JSON/YAML scalar into a Value.
// Integral floats are accepted because encoding/json decodes numbers as float64.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int8:
		return Int(int(t)), nil
	case int16:
		return Int(int(t)), nil
	case int32:
		return Int(int(t)), nil
	case int64:
		return Int(int(t)), nil
	case uint:
		return Int(int(t)), nil
	case uint8:
		return Int(int(t)), nil
	case uint16:
		return Int(int(t)), nil
	case uint32:
		return Int(int(t)), nil
	case uint64:
		if t > math.MaxInt {
			return Value{}, fmt.Errorf("%w: %d overflows int", ErrUnsupportedValue, t)
		}
		return Int(int(t)), nil
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedValue, t)
		}
		return Int(int(n)), nil
	case string:
		return Str(t), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, x)
	}
}

func fromFloat(f float64) (Value, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt || f < math.MinInt {
		return Value{}, fmt.Errorf("%w: %v is not an integer", ErrUnsupportedValue, f)
	}
	return Int(int(f)), nil
}

// MarshalJSON encodes the value as a bare JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.IsValid() {
		return []byte("null"), nil
	}
	return json.Marshal(v.Any())
}

// UnmarshalJSON decodes a bare JSON scalar.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Parse reads a configuration literal: true/false in any case become a Bool,
// integers become an Int, and anything else is kept as a Str. Surrounding
// whitespace is ignored.
func Parse(raw string) Value {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "true") {
		return Bool(true)
	}
	if strings.EqualFold(raw, "false") {
		return Bool(false)
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return Int(n)
	}
	return Str(raw)
}
