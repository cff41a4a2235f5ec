// Package toon implements TOON (Token-Oriented Object Notation), a
// line-oriented, indentation-sensitive text format for encoding the same
// data JSON encodes, using fewer tokens when the result is shown to an
// LLM. A TOON document always decodes to a Value: a tagged variant over
// null, bool, float64, string, array, and ordered object.
//
// Encoding:
//
//	v := toon.Obj(toon.Entry{Key: "name", Value: toon.Str("Alice")},
//	             toon.Entry{Key: "age", Value: toon.Num(30)})
//	s, _ := toon.Encode(v, toon.DefaultEncodeOptions())
//	// name: Alice
//	// age: 30
//
// Decoding:
//
//	v, err := toon.Decode(s, toon.DefaultDecodeOptions())
package toon

import (
	"fmt"
	"math"
)

// Kind identifies which case of Value is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNum
	KindStr
	KindArr
	KindObj
)

// String returns a debug name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNum:
		return "num"
	case KindStr:
		return "str"
	case KindArr:
		return "arr"
	case KindObj:
		return "obj"
	default:
		return "unknown"
	}
}

// Entry is a single key/value pair of an Obj, kept in a slice rather than
// a map so that iteration order matches the order the entries were given
// in (encode) or the order keys appeared on the wire (decode).
type Entry struct {
	Key   string
	Value *Value
}

// Value is the tagged-union data model TOON encodes and decodes. Exactly
// one of the typed fields is meaningful, selected by Kind; use the As*
// accessors rather than reading the fields directly.
type Value struct {
	kind    Kind
	boolVal bool
	numVal  float64
	strVal  string
	arrVal  []*Value
	objVal  []Entry
}

// Null returns the null Value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a boolean Value.
func Bool(b bool) *Value { return &Value{kind: KindBool, boolVal: b} }

// Num returns a numeric Value, normalizing NaN, +Inf, -Inf to Null and
// -0 to +0 per the format's number rules.
func Num(f float64) *Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	if f == 0 {
		f = 0 // normalize -0 to +0
	}
	return &Value{kind: KindNum, numVal: f}
}

// Str returns a string Value.
func Str(s string) *Value { return &Value{kind: KindStr, strVal: s} }

// Arr returns an array Value containing the given elements in order.
func Arr(elems ...*Value) *Value {
	return &Value{kind: KindArr, arrVal: elems}
}

// Obj returns an object Value, preserving the given entry order and
// keeping only the last occurrence of any repeated key.
func Obj(entries ...Entry) *Value {
	seen := make(map[string]int, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if i, ok := seen[e.Key]; ok {
			out[i] = e
			continue
		}
		seen[e.Key] = len(out)
		out = append(out, e)
	}
	return &Value{kind: KindObj, objVal: out}
}

// Kind reports which case of Value is populated.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is null (including a nil *Value).
func (v *Value) IsNull() bool { return v == nil || v.kind == KindNull }

// AsBool returns the boolean payload of v.
func (v *Value) AsBool() (bool, error) {
	if v == nil || v.kind != KindBool {
		return false, fmt.Errorf("toon: value is %s, not bool", v.Kind())
	}
	return v.boolVal, nil
}

// AsNum returns the numeric payload of v.
func (v *Value) AsNum() (float64, error) {
	if v == nil || v.kind != KindNum {
		return 0, fmt.Errorf("toon: value is %s, not num", v.Kind())
	}
	return v.numVal, nil
}

// AsStr returns the string payload of v.
func (v *Value) AsStr() (string, error) {
	if v == nil || v.kind != KindStr {
		return "", fmt.Errorf("toon: value is %s, not str", v.Kind())
	}
	return v.strVal, nil
}

// AsArr returns the element slice of v. The slice is owned by v and must
// not be mutated.
func (v *Value) AsArr() ([]*Value, error) {
	if v == nil || v.kind != KindArr {
		return nil, fmt.Errorf("toon: value is %s, not arr", v.Kind())
	}
	return v.arrVal, nil
}

// AsObj returns the entry slice of v in iteration order. The slice is
// owned by v and must not be mutated.
func (v *Value) AsObj() ([]Entry, error) {
	if v == nil || v.kind != KindObj {
		return nil, fmt.Errorf("toon: value is %s, not obj", v.Kind())
	}
	return v.objVal, nil
}

// Get returns the value for key in an object Value, or nil if v is not
// an object or has no such key.
func (v *Value) Get(key string) *Value {
	if v == nil || v.kind != KindObj {
		return nil
	}
	for _, e := range v.objVal {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Len returns the number of elements (Arr) or entries (Obj) in v, or 0
// for any other kind.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindArr:
		return len(v.arrVal)
	case KindObj:
		return len(v.objVal)
	default:
		return 0
	}
}
