package codegen

import (
	"fmt"
	"strconv"

	"github.com/remtori/luago/pkg/compiler/ast"
	"github.com/remtori/luago/pkg/compiler/lexer"
	"github.com/remtori/luago/pkg/compiler/parser"
	"github.com/remtori/luago/pkg/core/value"
	"github.com/remtori/luago/pkg/vm"
)

// CodeGen lowers an AST into a chunk. Every statement is straight-line and
// allocates its stack slots from 0, so a program never grows the register
// file beyond its widest statement.
type CodeGen struct {
	instructions []vm.Instruction
	constants    []value.Value
	src          []byte
}

func NewCodeGen(src []byte) *CodeGen {
	return &CodeGen{src: src}
}

// Compile runs the whole front end over src and returns the chunk.
func Compile(src []byte) (*vm.Chunk, error) {
	s := lexer.NewScanner(src)
	p := parser.NewParser(s, src)
	prog, err := p.Parse()
	if err != nil {
		return nil, err
	}
	return NewCodeGen(src).Generate(prog)
}

func (g *CodeGen) Generate(prog *ast.Program) (*vm.Chunk, error) {
	for _, stmt := range prog.Stmts {
		if err := g.genStatement(stmt); err != nil {
			return nil, err
		}
	}
	return &vm.Chunk{
		Instructions: g.instructions,
		Constants:    g.constants,
	}, nil
}

func (g *CodeGen) genStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.Assignment:
		if err := g.genExpr(s.Value, 0); err != nil {
			return err
		}
		k := g.addConstant(value.String(s.Target.Text(g.src)))
		g.emit(vm.SetGlobal{Name: k, Src: 0})
		return nil

	case *ast.CallStmt:
		k := g.addConstant(value.String(s.Callee.Text(g.src)))
		g.emit(vm.GetGlobal{Dest: 0, Name: k})
		for i, arg := range s.Args {
			if err := g.genExpr(arg, vm.StackIndex(1+i)); err != nil {
				return err
			}
		}
		g.emit(vm.Call{Base: 0, NArgs: uint32(len(s.Args)), NResults: 0})
		return nil

	default:
		return fmt.Errorf("codegen: unhandled statement at line %d", stmt.Pos().Line)
	}
}

func (g *CodeGen) genExpr(e ast.Expr, dest vm.StackIndex) error {
	switch n := e.(type) {
	case *ast.NilLiteral:
		g.emit(vm.LoadNil{Dest: dest})

	case *ast.BoolLiteral:
		g.emit(vm.LoadBool{Dest: dest, Val: n.Value})

	case *ast.IntLiteral:
		i, err := strconv.ParseInt(n.Token.Text(g.src), 10, 64)
		if err != nil {
			// Out-of-range integer literals become floats, as in Lua.
			f, ferr := strconv.ParseFloat(n.Token.Text(g.src), 64)
			if ferr != nil {
				return fmt.Errorf("codegen: bad number %q at line %d", n.Token.Text(g.src), n.Token.Line)
			}
			g.emit(vm.LoadConst{Dest: dest, K: g.addConstant(value.Float(f))})
			return nil
		}
		g.emit(vm.LoadInt{Dest: dest, N: i})

	case *ast.FloatLiteral:
		f, err := strconv.ParseFloat(n.Token.Text(g.src), 64)
		if err != nil {
			return fmt.Errorf("codegen: bad number %q at line %d", n.Token.Text(g.src), n.Token.Line)
		}
		g.emit(vm.LoadConst{Dest: dest, K: g.addConstant(value.Float(f))})

	case *ast.StringLiteral:
		s, err := unquote(n.Token.Text(g.src))
		if err != nil {
			return fmt.Errorf("codegen: %v at line %d", err, n.Token.Line)
		}
		g.emit(vm.LoadConst{Dest: dest, K: g.addConstant(value.String(s))})

	case *ast.Name:
		k := g.addConstant(value.String(n.Token.Text(g.src)))
		g.emit(vm.GetGlobal{Dest: dest, Name: k})

	default:
		return fmt.Errorf("codegen: unhandled expression at line %d", e.Pos().Line)
	}
	return nil
}

func (g *CodeGen) emit(ins vm.Instruction) {
	g.instructions = append(g.instructions, ins)
}

// addConstant interns v into the pool, reusing an existing equal entry.
func (g *CodeGen) addConstant(v value.Value) vm.ConstIndex {
	for i, c := range g.constants {
		if c.Equal(v) {
			return vm.ConstIndex(i)
		}
	}
	g.constants = append(g.constants, v)
	return vm.ConstIndex(len(g.constants) - 1)
}

// unquote strips the surrounding quotes and resolves backslash escapes.
func unquote(lit string) (string, error) {
	if len(lit) < 2 {
		return "", fmt.Errorf("bad string literal %q", lit)
	}
	body := lit[1 : len(lit)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' {
			out = append(out, ch)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("dangling escape in %q", lit)
		}
		switch body[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case 'a':
			out = append(out, '\a')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'v':
			out = append(out, '\v')
		case '\\':
			out = append(out, '\\')
		case '"':
			out = append(out, '"')
		case '\'':
			out = append(out, '\'')
		case '0':
			out = append(out, 0)
		default:
			return "", fmt.Errorf("unknown escape '\\%c' in %q", body[i], lit)
		}
	}
	return string(out), nil
}
