// Package compound provides lexing, parsing and evaluation of compound
// matching expressions such as "grains['os'] == 'Ubuntu' and pillar['role'] == 'web'".
package compound

import (
	"encoding/json"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindInteger
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	default:
		return "absent"
	}
}

// Value is the result of evaluating an expression or a sub-term.
// The zero Value is Absent.
type Value struct {
	kind Kind
	s    string
	i    int64
	b    bool
}

// Absent is the value of a key that exists but carries no data.
var Absent = Value{}

// String returns a String value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Integer returns an Integer value.
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }

// Boolean returns a Boolean value.
func Boolean(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string payload and whether v is a String.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Int returns the integer payload and whether v is an Integer.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInteger }

// Bool returns the boolean payload and whether v is a Boolean.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBoolean }

// Truthy reports whether v counts as true in a logical context.
// Absent, the empty string, zero and false are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.s != ""
	case KindInteger:
		return v.i != 0
	case KindBoolean:
		return v.b
	default:
		return false
	}
}

// Equal reports structural equality. Values of different kinds are never equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInteger:
		return v.i == o.i
	case KindBoolean:
		return v.b == o.b
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	default:
		return "<absent>"
	}
}

// MarshalJSON encodes Absent as null and every other kind as its JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.s)
	case KindInteger:
		return json.Marshal(v.i)
	case KindBoolean:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}
