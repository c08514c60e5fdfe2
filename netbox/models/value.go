package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind discriminates the cases of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is one field value of a NetBox object as it travels through the sync:
// null, bool, number, string, nested mapping or ordered sequence.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    json.Number
	s    string
	m    Object
	seq  []Value
}

// Object is a NetBox resource instance keyed by field name.
type Object map[string]Value

func Null() Value              { return Value{} }
func Bool(b bool) Value        { return Value{kind: KindBool, b: b} }
func String(s string) Value    { return Value{kind: KindString, s: s} }
func Mapping(m Object) Value   { return Value{kind: KindMapping, m: m} }
func Sequence(s []Value) Value { return Value{kind: KindSequence, seq: s} }

func Number(n json.Number) Value { return Value{kind: KindNumber, n: n} }

func Int(i int64) Value { return Number(json.Number(strconv.FormatInt(i, 10))) }

func Float(f float64) Value {
	return Number(json.Number(strconv.FormatFloat(f, 'f', -1, 64)))
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Primitive reports whether v is neither a mapping nor a sequence.
func (v Value) Primitive() bool {
	return v.kind != KindMapping && v.kind != KindSequence
}

func (v Value) AsBool() (bool, bool)          { return v.b, v.kind == KindBool }
func (v Value) AsNumber() (json.Number, bool) { return v.n, v.kind == KindNumber }
func (v Value) AsString() (string, bool)      { return v.s, v.kind == KindString }
func (v Value) AsMapping() (Object, bool)     { return v.m, v.kind == KindMapping }
func (v Value) AsSequence() ([]Value, bool)   { return v.seq, v.kind == KindSequence }

// Text renders v the way it is stored in a tabular cell. Null renders empty,
// mappings and sequences render as JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return v.n.String()
	case KindString:
		return v.s
	case KindMapping, KindSequence:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
	return ""
}

// Equal compares two values structurally. Numbers compare by their numeric value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		if v.n == o.n {
			return true
		}
		a, errA := v.n.Float64()
		b, errB := o.n.Float64()
		return errA == nil && errB == nil && a == b
	case KindString:
		return v.s == o.s
	case KindMapping:
		return v.m.Equal(o.m)
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	if v.kind == KindString {
		return v.s
	}
	if v.kind == KindNull {
		return "null"
	}
	return v.Text()
}

// FromAny converts a decoded JSON document (encoding/json with UseNumber, or
// ojg) into a Value. Unknown types are stringified.
func FromAny(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case json.Number:
		return Number(t)
	case float64:
		return Float(t)
	case float32:
		return Float(float64(t))
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case int32:
		return Int(int64(t))
	case uint64:
		return Number(json.Number(strconv.FormatUint(t, 10)))
	case string:
		return String(t)
	case map[string]interface{}:
		obj := make(Object, len(t))
		for k, e := range t {
			obj[k] = FromAny(e)
		}
		return Mapping(obj)
	case []interface{}:
		seq := make([]Value, 0, len(t))
		for _, e := range t {
			seq = append(seq, FromAny(e))
		}
		return Sequence(seq)
	}
	return String(fmt.Sprint(raw))
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if v.n == "" {
			return []byte("0"), nil
		}
		return []byte(v.n), nil
	case KindString:
		return json.Marshal(v.s)
	case KindMapping:
		if v.m == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(map[string]Value(v.m))
	case KindSequence:
		if v.seq == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.seq)
	}
	return nil, fmt.Errorf("can't marshal value of kind %s", v.kind)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	*v = FromAny(raw)
	return nil
}

// Keys returns the field names of o in lexicographic order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (o Object) Equal(other Object) bool {
	if len(o) != len(other) {
		return false
	}
	for k, v := range o {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// DecodeObject parses a single JSON object.
func DecodeObject(data []byte) (Object, error) {
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	obj, ok := v.AsMapping()
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %s", v.Kind())
	}
	return obj, nil
}
