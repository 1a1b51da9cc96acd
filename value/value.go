package value

import (
	"fmt"
	"time"
)

// Kind identifies the concrete shape stored in a [Value].
type Kind int

// Value kinds, one per YAML scalar/collection shape the parser understands.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTimestamp
	KindSequence
	KindMapping
)

// String returns a lowercase label for k, used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTimestamp:
		return "timestamp"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	}

	return "unknown"
}

// Provenance records where a Value came from, for diagnostics.
type Provenance struct {
	Source string
	Line   int
}

// Value is a recursive tagged variant modeling a single YAML-shaped node:
// null, boolean, integer, float, string, timestamp, an ordered sequence of
// Values, or an ordered mapping of string to Value.
//
// The zero Value is null. Values are typically constructed with the New*
// helpers rather than struct literals.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	t     time.Time
	seq   []Value
	m     *Mapping
	where *Provenance
}

// NewNull returns the null Value.
func NewNull() Value { return Value{kind: KindNull} }

// NewBool returns a boolean Value.
func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

// NewInt returns an integer Value.
func NewInt(i int64) Value { return Value{kind: KindInt, i: i} }

// NewFloat returns a float Value.
func NewFloat(f float64) Value { return Value{kind: KindFloat, f: f} }

// NewString returns a string Value.
func NewString(s string) Value { return Value{kind: KindString, s: s} }

// NewTimestamp returns a timestamp Value.
func NewTimestamp(t time.Time) Value { return Value{kind: KindTimestamp, t: t} }

// NewSequence returns a sequence Value wrapping items in order.
func NewSequence(items ...Value) Value { return Value{kind: KindSequence, seq: items} }

// NewMapping returns a mapping Value wrapping m. A nil m produces an empty
// mapping, never a null Value.
func NewMapping(m *Mapping) Value {
	if m == nil {
		m = NewMappingData()
	}

	return Value{kind: KindMapping, m: m}
}

// Kind reports the concrete shape of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null Value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns v's boolean payload. Only meaningful when Kind() == KindBool.
func (v Value) Bool() bool { return v.b }

// Int returns v's integer payload. Only meaningful when Kind() == KindInt.
func (v Value) Int() int64 { return v.i }

// Float returns v's float payload, widening an integer Value if needed.
func (v Value) Float() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}

	return v.f
}

// String returns v's string payload, or a plain-text rendering of any other
// scalar ("" for null, sequences and mappings).
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindBool:
		if v.b {
			return "true"
		}

		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindNull:
		return ""
	case KindTimestamp:
		return v.t.Format(time.RFC3339)
	}

	return ""
}

// Timestamp returns v's timestamp payload. Only meaningful when Kind() == KindTimestamp.
func (v Value) Timestamp() time.Time { return v.t }

// Sequence returns v's sequence payload, or nil if v is not a sequence.
func (v Value) Sequence() []Value {
	if v.kind != KindSequence {
		return nil
	}

	return v.seq
}

// Mapping returns v's mapping payload, or nil if v is not a mapping.
func (v Value) Mapping() *Mapping {
	if v.kind != KindMapping {
		return nil
	}

	return v.m
}

// Provenance returns v's source location, if recorded.
func (v Value) Provenance() *Provenance { return v.where }

// WithProvenance returns a copy of v tagged with source location p.
func (v Value) WithProvenance(p Provenance) Value {
	v.where = &p

	return v
}

// Native converts v into a plain Go value (bool, int64, float64, string,
// time.Time, []any, map[string]any, or nil), useful for JSON round-tripping
// (e.g. feeding the "schema" constraint's JSON-Schema validator).
func (v Value) Native() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindTimestamp:
		return v.t
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Native()
		}

		return out
	case KindMapping:
		if v.m == nil {
			return map[string]any{}
		}

		out := make(map[string]any, v.m.Len())
		for _, k := range v.m.Keys() {
			item, _ := v.m.Get(k)
			out[k] = item.Native()
		}

		return out
	}

	return nil
}

// FromNative converts a plain Go value (as produced by encoding/json or
// goccy/go-yaml unmarshaling into any) into a Value tree.
func FromNative(v any) Value {
	switch x := v.(type) {
	case nil:
		return NewNull()
	case bool:
		return NewBool(x)
	case int:
		return NewInt(int64(x))
	case int64:
		return NewInt(x)
	case float64:
		return NewFloat(x)
	case string:
		return NewString(x)
	case time.Time:
		return NewTimestamp(x)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = FromNative(item)
		}

		return NewSequence(items...)
	case map[string]any:
		m := NewMappingData()
		for k, item := range x {
			m.Set(k, FromNative(item))
		}

		return NewMapping(m)
	default:
		return NewString(fmt.Sprintf("%v", x))
	}
}

// Equal reports whether a and b are structurally equal, ignoring
// provenance.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindTimestamp:
		return a.t.Equal(b.t)
	case KindSequence:
		if len(a.seq) != len(b.seq) {
			return false
		}

		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}

		return true
	case KindMapping:
		return mappingsEqual(a.m, b.m)
	}

	return false
}

func mappingsEqual(a, b *Mapping) bool {
	if a == nil || b == nil {
		return a == b || (a.Len() == 0 && b.Len() == 0)
	}

	if a.Len() != b.Len() {
		return false
	}

	for _, k := range a.Keys() {
		av, _ := a.Get(k)
		bv, ok := b.Get(k)
		if !ok || !Equal(av, bv) {
			return false
		}
	}

	return true
}

// DeepCopy returns a deep copy of v, independent of the original's
// backing storage.
func (v Value) DeepCopy() Value {
	switch v.kind {
	case KindSequence:
		items := make([]Value, len(v.seq))
		for i, item := range v.seq {
			items[i] = item.DeepCopy()
		}

		out := NewSequence(items...)
		out.where = v.where

		return out
	case KindMapping:
		out := NewMapping(v.m.DeepCopy())
		out.where = v.where

		return out
	default:
		return v
	}
}
