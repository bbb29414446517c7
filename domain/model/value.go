package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// State is the presence state of a Value.
type State int

const (
	// StateAbsent means the key carries no value at all
	StateAbsent State = iota
	// StateEmpty means the key was supplied but blank; it is stored as NULL
	StateEmpty
	// StatePresent means the key carries a scalar
	StatePresent
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateEmpty:
		return "empty"
	case StatePresent:
		return "present"
	default:
		return "unknown"
	}
}

// Kind is the scalar type carried by a present Value.
type Kind int

const (
	// KindNone is the kind of absent and empty values
	KindNone Kind = iota
	// KindString represents text
	KindString
	// KindInt represents a 64-bit integer
	KindInt
	// KindFloat represents a 64-bit float
	KindFloat
	// KindBool represents a boolean
	KindBool
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "none"
	}
}

// Value is a cell or field value. The zero Value is absent.
type Value struct {
	state  State
	kind   Kind
	scalar any
}

// Absent returns a value that marks a missing key.
func Absent() Value {
	return Value{}
}

// Null returns a present-but-empty value.
func Null() Value {
	return Value{state: StateEmpty}
}

// String returns a text value. The empty string is an empty value.
func String(s string) Value {
	if s == "" {
		return Null()
	}
	return Value{state: StatePresent, kind: KindString, scalar: s}
}

// Int returns an integer value.
func Int(i int64) Value {
	return Value{state: StatePresent, kind: KindInt, scalar: i}
}

// Float returns a floating point value. NaN and infinities are treated as absent.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Absent()
	}
	return Value{state: StatePresent, kind: KindFloat, scalar: f}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{state: StatePresent, kind: KindBool, scalar: b}
}

// ValueOf converts a decoded scalar into a Value.
// nil becomes an empty value; maps, slices and other composites are rejected.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case json.Number:
		if i, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Absent(), fmt.Errorf("%w: %q", ErrNotScalar, x.String())
		}
		return Float(f), nil
	default:
		return Absent(), fmt.Errorf("%w: %T", ErrNotScalar, v)
	}
}

// State returns the presence state.
func (v Value) State() State {
	return v.state
}

// Kind returns the scalar kind, KindNone unless present.
func (v Value) Kind() Kind {
	return v.kind
}

// IsPresent reports whether the value carries a scalar.
func (v Value) IsPresent() bool {
	return v.state == StatePresent
}

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool {
	return v.state == StateAbsent
}

// IsEmpty reports whether the value is present but empty.
func (v Value) IsEmpty() bool {
	return v.state == StateEmpty
}

// Interface returns the scalar, or nil when the value is not present.
// The result is suitable as a database/sql argument.
func (v Value) Interface() any {
	if v.state != StatePresent {
		return nil
	}
	return v.scalar
}

// Equal reports whether two values have the same state, kind and scalar.
func (v Value) Equal(other Value) bool {
	return v.state == other.state && v.kind == other.kind && v.scalar == other.scalar
}

// GoString implements fmt.GoStringer for readable test failures.
func (v Value) GoString() string {
	if v.state != StatePresent {
		return "model.Value(" + v.state.String() + ")"
	}
	return fmt.Sprintf("model.Value(%s:%v)", v.kind, v.scalar)
}

// MarshalJSON encodes present values as their scalar and everything else as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes a JSON scalar. Strings "" and null decode to an empty value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	decoded, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
