package domain

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"go.trai.ch/zerr"
)

// Kind identifies the shape of a parameter Value.
type Kind uint8

const (
	// KindNull is an absent value.
	KindNull Kind = iota
	// KindString is a string scalar.
	KindString
	// KindBool is a boolean scalar.
	KindBool
	// KindInt is an integer scalar.
	KindInt
	// KindFloat is a floating point scalar.
	KindFloat
	// KindMap is a nested ParameterSet.
	KindMap
	// KindList is an ordered list of values.
	KindList
)

// Value is a single parameter value.
type Value struct {
	kind Kind
	s    string
	b    bool
	i    int64
	f    float64
	m    ParameterSet
	l    []Value
}

// ParameterSet is an ordered mapping of parameter names to values.
// Insertion order is kept for display; identity uses the canonical form.
type ParameterSet struct {
	names  []string
	values map[string]Value
}

// NewParameterSet builds a ParameterSet from a plain Go map.
// Names are inserted in sorted order.
func NewParameterSet(m map[string]any) (ParameterSet, error) {
	var p ParameterSet
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := p.Set(name, m[name]); err != nil {
			return ParameterSet{}, err
		}
	}
	return p, nil
}

// MustParameterSet is like NewParameterSet but panics on unsupported values.
// It is intended for parameter sets built from literals.
func MustParameterSet(m map[string]any) ParameterSet {
	p, err := NewParameterSet(m)
	if err != nil {
		panic(err)
	}
	return p
}

// Set adds or replaces a named value.
func (p *ParameterSet) Set(name string, v any) error {
	val, err := ValueOf(v)
	if err != nil {
		return zerr.With(err, "parameter", name)
	}
	if p.values == nil {
		p.values = make(map[string]Value)
	}
	if _, exists := p.values[name]; !exists {
		p.names = append(p.names, name)
	}
	p.values[name] = val
	return nil
}

// Get returns the named value.
func (p ParameterSet) Get(name string) (Value, bool) {
	v, ok := p.values[name]
	return v, ok
}

// String returns the named value as a string, or "" when absent or not a string.
func (p ParameterSet) String(name string) string {
	return p.values[name].Str()
}

// Bool returns the named value as a bool, or false when absent or not a bool.
func (p ParameterSet) Bool(name string) bool {
	return p.values[name].Bool()
}

// List returns the named value as a list, or nil when absent or not a list.
func (p ParameterSet) List(name string) []Value {
	return p.values[name].List()
}

// Map returns the named value as a nested ParameterSet.
func (p ParameterSet) Map(name string) ParameterSet {
	return p.values[name].Map()
}

// Len returns the number of parameters.
func (p ParameterSet) Len() int {
	return len(p.names)
}

// Names returns the parameter names in insertion order.
func (p ParameterSet) Names() []string {
	return slices.Clone(p.names)
}

// Interface converts the set back into plain Go values.
func (p ParameterSet) Interface() map[string]any {
	out := make(map[string]any, len(p.names))
	for _, name := range p.names {
		out[name] = p.values[name].Interface()
	}
	return out
}

// MarshalJSON encodes the set as a JSON object.
func (p ParameterSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Interface())
}

// Canonical returns the deterministic structural encoding of the set.
// Map keys are sorted bytewise, list order is kept, and every value is
// tagged with its kind and length-prefixed.
func (p ParameterSet) Canonical() []byte {
	return p.appendCanonical(nil)
}

func (p ParameterSet) appendCanonical(buf []byte) []byte {
	names := slices.Clone(p.names)
	slices.Sort(names)

	buf = append(buf, byte(KindMap))
	buf = binary.AppendUvarint(buf, uint64(len(names)))
	for _, name := range names {
		buf = binary.AppendUvarint(buf, uint64(len(name)))
		buf = append(buf, name...)
		buf = p.values[name].appendCanonical(buf)
	}
	return buf
}

// ValueOf converts a plain Go value into a Value.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Value{kind: KindNull}, nil
	case Value:
		return x, nil
	case ParameterSet:
		return Value{kind: KindMap, m: x}, nil
	case string:
		return Value{kind: KindString, s: x}, nil
	case bool:
		return Value{kind: KindBool, b: x}, nil
	case int:
		return Value{kind: KindInt, i: int64(x)}, nil
	case int32:
		return Value{kind: KindInt, i: int64(x)}, nil
	case int64:
		return Value{kind: KindInt, i: x}, nil
	case uint:
		return Value{kind: KindInt, i: int64(x)}, nil //nolint:gosec // parameter values are small
	case float32:
		return Value{kind: KindFloat, f: float64(x)}, nil
	case float64:
		return Value{kind: KindFloat, f: x}, nil
	case map[string]any:
		m, err := NewParameterSet(x)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindMap, m: m}, nil
	case map[string]string:
		m := make(map[string]any, len(x))
		for k, s := range x {
			m[k] = s
		}
		return ValueOf(m)
	case []any:
		return listOf(x)
	case []string:
		return listOf(x)
	case []map[string]any:
		return listOf(x)
	case []ParameterSet:
		return listOf(x)
	case []Value:
		return Value{kind: KindList, l: slices.Clone(x)}, nil
	default:
		return Value{}, zerr.With(ErrUnsupportedParameter, "type", fmt.Sprintf("%T", v))
	}
}

func listOf[T any](items []T) (Value, error) {
	l := make([]Value, 0, len(items))
	for _, item := range items {
		v, err := ValueOf(item)
		if err != nil {
			return Value{}, err
		}
		l = append(l, v)
	}
	return Value{kind: KindList, l: l}, nil
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string scalar, or "" for other kinds.
func (v Value) Str() string { return v.s }

// Bool returns the boolean scalar, or false for other kinds.
func (v Value) Bool() bool { return v.b }

// Int returns the integer scalar, or 0 for other kinds.
func (v Value) Int() int64 { return v.i }

// Float returns the floating point scalar, or 0 for other kinds.
func (v Value) Float() float64 { return v.f }

// Map returns the nested set, or an empty set for other kinds.
func (v Value) Map() ParameterSet { return v.m }

// List returns the list items, or nil for other kinds.
func (v Value) List() []Value { return v.l }

// Strings returns the string items of a list value.
func (v Value) Strings() []string {
	out := make([]string, 0, len(v.l))
	for _, item := range v.l {
		out = append(out, item.s)
	}
	return out
}

// Interface converts the value back into a plain Go value.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindMap:
		return v.m.Interface()
	case KindList:
		out := make([]any, 0, len(v.l))
		for _, item := range v.l {
			out = append(out, item.Interface())
		}
		return out
	default:
		return nil
	}
}

func (v Value) appendCanonical(buf []byte) []byte {
	switch v.kind {
	case KindString:
		buf = append(buf, byte(KindString))
		buf = binary.AppendUvarint(buf, uint64(len(v.s)))
		return append(buf, v.s...)
	case KindBool:
		b := byte(0)
		if v.b {
			b = 1
		}
		return append(buf, byte(KindBool), b)
	case KindInt:
		buf = append(buf, byte(KindInt))
		return binary.BigEndian.AppendUint64(buf, uint64(v.i)) //nolint:gosec // bit pattern only
	case KindFloat:
		f := v.f
		if f == 0 {
			f = 0 // folds negative zero
		}
		buf = append(buf, byte(KindFloat))
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(f))
	case KindMap:
		return v.m.appendCanonical(buf)
	case KindList:
		buf = append(buf, byte(KindList))
		buf = binary.AppendUvarint(buf, uint64(len(v.l)))
		for _, item := range v.l {
			buf = item.appendCanonical(buf)
		}
		return buf
	default:
		return append(buf, byte(KindNull))
	}
}
