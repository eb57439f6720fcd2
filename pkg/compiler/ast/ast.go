package ast

import "github.com/remtori/luago/pkg/compiler/lexer"

// Node represents any node in the Abstract Syntax Tree.
type Node interface {
	Pos() lexer.Token
}

// Expr represents an expression that yields a value.
type Expr interface {
	Node
	exprNode()
}

// Statement represents a standalone unit of execution.
type Statement interface {
	Node
	stmtNode()
}

// Program is the root node.
type Program struct {
	Stmts []Statement
}

// Assignment: NAME = EXPR (global binding).
type Assignment struct {
	Target lexer.Token
	Value  Expr
}

func (a *Assignment) Pos() lexer.Token { return a.Target }
func (a *Assignment) stmtNode()        {}

// CallStmt: NAME ( ARGS ) or NAME "string".
type CallStmt struct {
	Callee lexer.Token
	Args   []Expr
}

func (c *CallStmt) Pos() lexer.Token { return c.Callee }
func (c *CallStmt) stmtNode()        {}

// Literal values

type NilLiteral struct {
	Token lexer.Token
}

func (n *NilLiteral) Pos() lexer.Token { return n.Token }
func (n *NilLiteral) exprNode()        {}

type BoolLiteral struct {
	Token lexer.Token
	Value bool
}

func (b *BoolLiteral) Pos() lexer.Token { return b.Token }
func (b *BoolLiteral) exprNode()        {}

type IntLiteral struct {
	Token lexer.Token
}

func (i *IntLiteral) Pos() lexer.Token { return i.Token }
func (i *IntLiteral) exprNode()        {}

type FloatLiteral struct {
	Token lexer.Token
}

func (f *FloatLiteral) Pos() lexer.Token { return f.Token }
func (f *FloatLiteral) exprNode()        {}

type StringLiteral struct {
	Token lexer.Token
}

func (s *StringLiteral) Pos() lexer.Token { return s.Token }
func (s *StringLiteral) exprNode()        {}

// Name: a reference to a global binding.
type Name struct {
	Token lexer.Token
}

func (n *Name) Pos() lexer.Token { return n.Token }
func (n *Name) exprNode()        {}
