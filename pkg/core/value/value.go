package value

import (
	"math"
	"strconv"
	"strings"
)

// Type represents the tag in the Value tagged union.
type Type uint8

const (
	TypeNil Type = iota
	TypeBoolean
	TypeInteger
	TypeFloat
	TypeString
	TypeGoFunction
)

// GoFunc is the uniform call contract every native satisfies: it observes
// its arguments in order and returns an ordered result sequence or a fault.
type GoFunc func(args []Value) ([]Value, error)

// Value is a tagged union. Scalar payloads live in Data; strings and
// functions live in Opaque.
type Value struct {
	Type   Type
	Data   uint64
	Opaque any
}

// Nil returns the nil value. The zero Value is also nil.
func Nil() Value {
	return Value{}
}

func Boolean(b bool) Value {
	var d uint64
	if b {
		d = 1
	}
	return Value{Type: TypeBoolean, Data: d}
}

func Integer(i int64) Value {
	return Value{Type: TypeInteger, Data: uint64(i)}
}

func Float(f float64) Value {
	return Value{Type: TypeFloat, Data: math.Float64bits(f)}
}

func String(s string) Value {
	return Value{Type: TypeString, Opaque: s}
}

func GoFunction(fn GoFunc) Value {
	return Value{Type: TypeGoFunction, Opaque: fn}
}

// IsNil reports whether the value is nil.
func (v Value) IsNil() bool {
	return v.Type == TypeNil
}

// Bool returns the boolean payload.
func (v Value) Bool() bool {
	return v.Data != 0
}

// Int returns the integer payload.
func (v Value) Int() int64 {
	return int64(v.Data)
}

// Float64 returns the float payload, converting an integer payload.
func (v Value) Float64() float64 {
	if v.Type == TypeFloat {
		return math.Float64frombits(v.Data)
	}
	return float64(int64(v.Data))
}

// Str returns the string payload.
func (v Value) Str() string {
	s, _ := v.Opaque.(string)
	return s
}

// Callable returns the value's call implementation, if it has one. This is
// the single capability the Call opcode dispatches through; the dispatch
// loop never inspects concrete function kinds.
func (v Value) Callable() (GoFunc, bool) {
	if v.Type != TypeGoFunction {
		return nil, false
	}
	fn, ok := v.Opaque.(GoFunc)
	return fn, ok
}

// IsCallable reports whether the Call opcode accepts this value.
func (v Value) IsCallable() bool {
	_, ok := v.Callable()
	return ok
}

// Equal reports raw equality: same tag, same payload. Functions never
// compare equal.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case TypeNil:
		return true
	case TypeString:
		return v.Str() == o.Str()
	case TypeGoFunction:
		return false
	default:
		return v.Data == o.Data
	}
}

// TypeName returns the surface-language name of the value's type.
func (v Value) TypeName() string {
	switch v.Type {
	case TypeNil:
		return "nil"
	case TypeBoolean:
		return "boolean"
	case TypeInteger, TypeFloat:
		return "number"
	case TypeString:
		return "string"
	case TypeGoFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Format returns the tostring representation of the value.
func (v Value) Format() string {
	switch v.Type {
	case TypeNil:
		return "nil"
	case TypeBoolean:
		if v.Data != 0 {
			return "true"
		}
		return "false"
	case TypeInteger:
		return strconv.FormatInt(int64(v.Data), 10)
	case TypeFloat:
		f := math.Float64frombits(v.Data)
		s := strconv.FormatFloat(f, 'g', 14, 64)
		if !strings.ContainsAny(s, ".eEni") {
			s += ".0"
		}
		return s
	case TypeString:
		return v.Str()
	case TypeGoFunction:
		return "function: builtin"
	default:
		return "unknown"
	}
}
