package stdlib_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/remtori/luago/pkg/compiler/codegen"
	"github.com/remtori/luago/pkg/core/value"
	"github.com/remtori/luago/pkg/stdlib"
	"github.com/remtori/luago/pkg/vm"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	chunk, err := codegen.Compile([]byte(src))
	if err != nil {
		t.Fatalf("compile %q: %v", src, err)
	}
	var out bytes.Buffer
	globals := vm.NewGlobals()
	stdlib.Register(globals, &out)
	err = vm.Run(chunk, globals)
	return out.String(), err
}

func TestPrint(t *testing.T) {
	out, err := run(t, `print("a", 1, 2.5, nil, true)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "a\t1\t2.5\tnil\ttrue\n" {
		t.Errorf("output %q", out)
	}
}

func TestPrintHelloWorld(t *testing.T) {
	out, err := run(t, `print "hello, world!"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello, world!\n" {
		t.Errorf("output %q", out)
	}
}

func TestType(t *testing.T) {
	got, err := stdlib.Type([]value.Value{value.Integer(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got[0].Equal(value.String("number")) {
		t.Errorf("type = %v", got[0])
	}
	if _, err := stdlib.Type(nil); err == nil {
		t.Errorf("type with no argument must fail")
	}
}

func TestToString(t *testing.T) {
	got, err := stdlib.ToString([]value.Value{value.Float(1.5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Str() != "1.5" {
		t.Errorf("tostring = %q", got[0].Str())
	}
}

func TestToNumber(t *testing.T) {
	cases := []struct {
		in   value.Value
		want value.Value
	}{
		{value.String("42"), value.Integer(42)},
		{value.String(" 2.5 "), value.Float(2.5)},
		{value.Integer(7), value.Integer(7)},
		{value.String("not a number"), value.Nil()},
		{value.Boolean(true), value.Nil()},
	}
	for _, c := range cases {
		got, err := stdlib.ToNumber([]value.Value{c.in})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got[0].Equal(c.want) {
			t.Errorf("tonumber(%v) = %v, want %v", c.in, got[0], c.want)
		}
	}
}

func TestAssert(t *testing.T) {
	got, err := stdlib.Assert([]value.Value{value.Integer(0)})
	if err != nil {
		t.Fatalf("0 is truthy in Lua: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("assert must return its arguments")
	}

	if _, err := stdlib.Assert([]value.Value{value.Nil()}); err == nil {
		t.Errorf("assert(nil) must fail")
	}
	_, err = stdlib.Assert([]value.Value{value.Boolean(false), value.String("custom")})
	if err == nil || err.Error() != "custom" {
		t.Errorf("assert message = %v", err)
	}
}

func TestErrorHaltsRun(t *testing.T) {
	_, err := run(t, "print \"before\"\nerror \"boom\"\nprint \"after\"")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected boom fault, got %v", err)
	}
	var fault *vm.Fault
	if !errors.As(err, &fault) || fault.Op != vm.OpCall {
		t.Errorf("fault context wrong: %v", err)
	}
}

func TestErrorStopsFollowingOutput(t *testing.T) {
	out, err := run(t, "print \"before\"\nerror \"boom\"\nprint \"after\"")
	if err == nil {
		t.Fatalf("expected fault")
	}
	if out != "before\n" {
		t.Errorf("output after fault: %q", out)
	}
}
