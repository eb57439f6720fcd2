package parser

import (
	"fmt"

	"github.com/remtori/luago/pkg/compiler/ast"
	"github.com/remtori/luago/pkg/compiler/lexer"
)

// Parser builds an AST for the statement subset the instruction set can
// express: global assignments and call statements. Anything else in the
// token stream is rejected with a position-carrying error.
type Parser struct {
	scanner *lexer.Scanner
	curTok  lexer.Token
	peekTok lexer.Token
	src     []byte
}

func NewParser(s *lexer.Scanner, src []byte) *Parser {
	p := &Parser{
		scanner: s,
		src:     src,
	}
	// Read two tokens, so curTok and peekTok are both set
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.scanner.Next()
}

func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{}

	for p.curTok.Kind != lexer.KindEOF {
		if p.curTok.Kind == lexer.KindSemiColon {
			p.nextToken()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Stmts = append(program.Stmts, stmt)
	}

	return program, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	if p.curTok.Kind == lexer.KindError {
		return nil, p.errorf("invalid token %q", p.curTok.Text(p.src))
	}
	if p.curTok.Kind != lexer.KindName {
		return nil, p.errorf("unexpected token %q, expected a statement", p.curTok.Text(p.src))
	}

	name := p.curTok
	switch p.peekTok.Kind {
	case lexer.KindAssign:
		p.nextToken() // onto '='
		p.nextToken() // onto expression
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{Target: name, Value: val}, nil

	case lexer.KindParL:
		p.nextToken() // onto '('
		p.nextToken() // onto first argument or ')'
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return &ast.CallStmt{Callee: name, Args: args}, nil

	case lexer.KindString:
		// Lua call sugar: a single string literal needs no parentheses.
		p.nextToken()
		arg := &ast.StringLiteral{Token: p.curTok}
		p.nextToken()
		return &ast.CallStmt{Callee: name, Args: []ast.Expr{arg}}, nil

	default:
		return nil, p.errorf("unexpected token %q after name %q", p.peekTok.Text(p.src), name.Text(p.src))
	}
}

// parseArgs consumes the argument list after '(', including the closing
// parenthesis.
func (p *Parser) parseArgs() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.curTok.Kind == lexer.KindParR {
		p.nextToken()
		return args, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		switch p.curTok.Kind {
		case lexer.KindComma:
			p.nextToken()
		case lexer.KindParR:
			p.nextToken()
			return args, nil
		default:
			return nil, p.errorf("expected ',' or ')' in argument list, got %q", p.curTok.Text(p.src))
		}
	}
}

// parseExpr consumes one expression token and advances past it.
func (p *Parser) parseExpr() (ast.Expr, error) {
	tok := p.curTok
	var e ast.Expr
	switch tok.Kind {
	case lexer.KindNil:
		e = &ast.NilLiteral{Token: tok}
	case lexer.KindTrue:
		e = &ast.BoolLiteral{Token: tok, Value: true}
	case lexer.KindFalse:
		e = &ast.BoolLiteral{Token: tok, Value: false}
	case lexer.KindInt:
		e = &ast.IntLiteral{Token: tok}
	case lexer.KindFloat:
		e = &ast.FloatLiteral{Token: tok}
	case lexer.KindString:
		e = &ast.StringLiteral{Token: tok}
	case lexer.KindName:
		e = &ast.Name{Token: tok}
	default:
		return nil, p.errorf("unexpected token %q, expected an expression", tok.Text(p.src))
	}
	p.nextToken()
	return e, nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("parse error at line %d: %s", p.curTok.Line, fmt.Sprintf(format, args...))
}
