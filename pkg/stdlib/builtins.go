// Package stdlib provides the base natives a host registers into a global
// table before running chunks. Every native satisfies the uniform call
// contract: ordered arguments in, ordered results or a fault out.
package stdlib

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/remtori/luago/pkg/core/value"
	"github.com/remtori/luago/pkg/vm"
)

// Register installs the base natives into g. print writes to out.
func Register(g *vm.Globals, out io.Writer) {
	g.Set("print", value.GoFunction(Print(out)))
	g.Set("type", value.GoFunction(Type))
	g.Set("tostring", value.GoFunction(ToString))
	g.Set("tonumber", value.GoFunction(ToNumber))
	g.Set("assert", value.GoFunction(Assert))
	g.Set("error", value.GoFunction(Error))
}

// Print returns a native that writes its arguments, tab-separated and
// newline-terminated, to out.
func Print(out io.Writer) value.GoFunc {
	return func(args []value.Value) ([]value.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.Format()
		}
		if _, err := fmt.Fprintln(out, strings.Join(parts, "\t")); err != nil {
			return nil, fmt.Errorf("print: %w", err)
		}
		return nil, nil
	}
}

// Type returns the type name of its argument.
func Type(args []value.Value) ([]value.Value, error) {
	if len(args) < 1 {
		return nil, errors.New("bad argument #1 to 'type' (value expected)")
	}
	return []value.Value{value.String(args[0].TypeName())}, nil
}

// ToString converts its argument to a string.
func ToString(args []value.Value) ([]value.Value, error) {
	if len(args) < 1 {
		return nil, errors.New("bad argument #1 to 'tostring' (value expected)")
	}
	return []value.Value{value.String(args[0].Format())}, nil
}

// ToNumber converts a string or number argument to a number, or nil if the
// argument does not convert.
func ToNumber(args []value.Value) ([]value.Value, error) {
	if len(args) < 1 {
		return nil, errors.New("bad argument #1 to 'tonumber' (value expected)")
	}
	v := args[0]
	switch v.Type {
	case value.TypeInteger, value.TypeFloat:
		return []value.Value{v}, nil
	case value.TypeString:
		s := strings.TrimSpace(v.Str())
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return []value.Value{value.Integer(i)}, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return []value.Value{value.Float(f)}, nil
		}
	}
	return []value.Value{value.Nil()}, nil
}

// Assert faults unless its first argument is truthy; on success it returns
// all its arguments. nil and false are the only falsy values.
func Assert(args []value.Value) ([]value.Value, error) {
	if len(args) < 1 {
		return nil, errors.New("bad argument #1 to 'assert' (value expected)")
	}
	v := args[0]
	if v.IsNil() || (v.Type == value.TypeBoolean && !v.Bool()) {
		if len(args) > 1 {
			return nil, errors.New(args[1].Format())
		}
		return nil, errors.New("assertion failed!")
	}
	return args, nil
}

// Error faults with its argument as the message.
func Error(args []value.Value) ([]value.Value, error) {
	msg := "nil"
	if len(args) > 0 {
		msg = args[0].Format()
	}
	return nil, errors.New(msg)
}
