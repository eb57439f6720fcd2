package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/remtori/luago/pkg/compiler/ast"
	"github.com/remtori/luago/pkg/compiler/lexer"
	"github.com/remtori/luago/pkg/compiler/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	srcBytes := []byte(src)
	p := parser.NewParser(lexer.NewScanner(srcBytes), srcBytes)
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return prog
}

func TestParseCallSugar(t *testing.T) {
	prog := parse(t, `print "hello, world!"`)
	if len(prog.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Stmts))
	}
	call, ok := prog.Stmts[0].(*ast.CallStmt)
	if !ok {
		t.Fatalf("expected CallStmt, got %T", prog.Stmts[0])
	}
	if got := call.Callee.Text([]byte(`print "hello, world!"`)); got != "print" {
		t.Errorf("callee = %q", got)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(call.Args))
	}
	if _, ok := call.Args[0].(*ast.StringLiteral); !ok {
		t.Errorf("expected StringLiteral arg, got %T", call.Args[0])
	}
}

func TestParseCallParens(t *testing.T) {
	prog := parse(t, `print(1, 2.5, nil, true, x)`)
	call := prog.Stmts[0].(*ast.CallStmt)
	if len(call.Args) != 5 {
		t.Fatalf("expected 5 args, got %d", len(call.Args))
	}
	wantTypes := []string{"*ast.IntLiteral", "*ast.FloatLiteral", "*ast.NilLiteral", "*ast.BoolLiteral", "*ast.Name"}
	for i, arg := range call.Args {
		if got := fmt.Sprintf("%T", arg); got != wantTypes[i] {
			t.Errorf("arg %d is %s, want %s", i, got, wantTypes[i])
		}
	}
}

func TestParseEmptyCall(t *testing.T) {
	prog := parse(t, `tick()`)
	call := prog.Stmts[0].(*ast.CallStmt)
	if len(call.Args) != 0 {
		t.Errorf("expected no args, got %d", len(call.Args))
	}
}

func TestParseAssignment(t *testing.T) {
	src := `greeting = "hi"`
	prog := parse(t, src)
	asg, ok := prog.Stmts[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected Assignment, got %T", prog.Stmts[0])
	}
	if got := asg.Target.Text([]byte(src)); got != "greeting" {
		t.Errorf("target = %q", got)
	}
}

func TestParseMultipleStatements(t *testing.T) {
	prog := parse(t, "a = 1; b = a\nprint(b)")
	if len(prog.Stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Stmts))
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`print + 1`, "after name"},
		{`= 1`, "expected a statement"},
		{`print(1 2)`, "argument list"},
		{`f(end)`, "expected an expression"},
		{`"floating"`, "expected a statement"},
	}
	for _, c := range cases {
		srcBytes := []byte(c.src)
		p := parser.NewParser(lexer.NewScanner(srcBytes), srcBytes)
		_, err := p.Parse()
		if err == nil {
			t.Errorf("%q: expected error", c.src)
			continue
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Errorf("%q: error %q does not mention %q", c.src, err, c.want)
		}
	}
}
