package compiler

import (
	"fmt"
	"strings"
)

const (
	// EntryFunctionName is the function exported as the program entry point.
	EntryFunctionName = "entry"

	// anonFunctionName wraps bare top-level expressions.
	anonFunctionName = "__anon_expr"
)

// binopPrecedence lists every operator the grammar knows about. Only '+'
// can currently be reduced.
var binopPrecedence = map[string]int{
	"<": 10,
	"+": 20,
	"-": 20,
	"*": 40,
}

// Parser pulls tokens from the Lexer one at a time and builds the AST,
// registering declarations and string literals in the Unit as it goes.
//
// Grammar:
//
//	program     = ( "{" | "}" | ";" | "expose" | definition | expression )* EOF
//	definition  = "fn" prototype expression* "}"
//	prototype   = IDENTIFIER "(" ( IDENTIFIER ","? )* ")" "{"
//	expression  = primary ( "+" primary )*
//	primary     = "(" expression ")" | STRING | INTEGER | identExpr | declaration | ";"
//	identExpr   = IDENTIFIER ( "=" expression | ":" "=" expression | "(" ( expression ( "," expression )* )? ")" )?
//	declaration = NAME ":" ( IDENTIFIER ( "=" expression )? | "=" expression ) ";"
type Parser struct {
	lex         *Lexer
	tok         Token // current token
	unit        *Unit
	sourceLines []string
}

func NewParser(src string, unit *Unit) *Parser {
	p := &Parser{lex: newLexer(src), unit: unit, sourceLines: strings.Split(src, "\n")}
	p.advance()
	return p
}

// snippet returns the trimmed source text of a 1-based line.
func (p *Parser) snippet(line int) string {
	idx := line - 1
	if idx >= 0 && idx < len(p.sourceLines) {
		return strings.TrimSpace(p.sourceLines[idx])
	}
	return ""
}

// fmtError builds a diagnostic anchored at the line where tok appears.
func (p *Parser) fmtError(tok Token, kind ErrorKind, format string, args ...any) error {
	e := newError(kind, tok.Line, format, args...)
	e.Snippet = p.snippet(tok.Line)
	return e
}

// advance reads the next token from the lexer and makes it current.
func (p *Parser) advance() Token {
	p.tok = p.lex.nextToken()
	return p.tok
}

// tokPrecedence returns the precedence of the current token, or -1 if it
// is not a binary operator.
func (p *Parser) tokPrecedence() int {
	if p.tok.Type != PUNCT {
		return -1
	}
	prec, ok := binopPrecedence[p.tok.Lexeme]
	if !ok {
		return -1
	}
	return prec
}

// parseProgram is the top-level loop.
func (p *Parser) parseProgram() ([]*Function, error) {
	var funcs []*Function
	for {
		switch {
		case p.tok.Type == EOF:
			return funcs, nil

		case p.tok.Is('{'), p.tok.Is('}'), p.tok.Is(';'):
			p.advance()

		case p.tok.Type == FN:
			f, err := p.parseDefinition()
			if err != nil {
				return nil, err
			}
			funcs = append(funcs, f)

		case p.tok.Type == EXPOSE:
			// reserved visibility marker, nothing is recorded
			p.advance()

		default:
			f, err := p.parseTopLevelExpression()
			if err != nil {
				return nil, err
			}
			if f != nil {
				funcs = append(funcs, f)
			}
		}
	}
}

// parseTopLevelExpression wraps a bare expression in an anonymous function.
func (p *Parser) parseTopLevelExpression() (*Function, error) {
	e, err := p.parseExpression()
	if err != nil || e == nil {
		return nil, err
	}
	return &Function{
		Proto: &Prototype{Name: anonFunctionName},
		Body:  []Expr{e},
	}, nil
}

// parseDefinition handles fn name(params) { statements }.
func (p *Parser) parseDefinition() (*Function, error) {
	p.advance() // consume fn

	proto, err := p.parsePrototype()
	if err != nil {
		return nil, err
	}

	var body []Expr
	for !p.tok.Is('}') {
		if p.tok.Type == EOF {
			return nil, p.fmtError(p.tok, SyntaxError, "expected '}' to close function %q", proto.Name)
		}
		stmt, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			continue
		}
		body = append(body, stmt)
	}
	p.advance() // consume }

	return &Function{Proto: proto, Body: body}, nil
}

// parsePrototype handles name(params) and the opening brace of the body.
func (p *Parser) parsePrototype() (*Prototype, error) {
	nameTok := p.tok
	if nameTok.Type != IDENTIFIER {
		return nil, p.fmtError(nameTok, SyntaxError, "expected function name, got %s", nameTok.describe())
	}
	p.advance()

	if !p.tok.Is('(') {
		return nil, p.fmtError(p.tok, SyntaxError, "expected '(' after function name %q, got %s", nameTok.Lexeme, p.tok.describe())
	}
	p.advance()

	var params []string
	for p.tok.Type == IDENTIFIER {
		params = append(params, p.tok.Lexeme)
		p.advance()
		if p.tok.Is(',') {
			p.advance()
		}
	}

	if !p.tok.Is(')') {
		return nil, p.fmtError(p.tok, SyntaxError, "expected ')' at end of parameter list, got %s", p.tok.describe())
	}
	p.advance()

	if !p.tok.Is('{') {
		return nil, p.fmtError(p.tok, SyntaxError, "expected '{' to open body of %q, got %s", nameTok.Lexeme, p.tok.describe())
	}
	p.advance()

	return &Prototype{Name: nameTok.Lexeme, Params: params}, nil
}

// parseExpression is the entry point for expression parsing. It returns a
// nil Expr without error for an empty statement.
func (p *Parser) parseExpression() (Expr, error) {
	lhs, err := p.parsePrimary()
	if err != nil || lhs == nil {
		return nil, err
	}
	return p.parseBinOpRHS(0, lhs)
}

// parseBinOpRHS is a precedence climber over binopPrecedence.
func (p *Parser) parseBinOpRHS(exprPrec int, lhs Expr) (Expr, error) {
	for {
		tokPrec := p.tokPrecedence()
		if tokPrec < exprPrec {
			return lhs, nil
		}

		opTok := p.tok
		if opTok.Lexeme != "+" {
			return nil, p.fmtError(opTok, SyntaxError, "binary operator %q not implemented", opTok.Lexeme)
		}
		p.advance()

		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, p.fmtError(opTok, SyntaxError, "expected expression after %q", opTok.Lexeme)
		}

		if tokPrec < p.tokPrecedence() {
			rhs, err = p.parseBinOpRHS(tokPrec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &Add{Left: lhs, Right: rhs}
	}
}

// parsePrimary dispatches on the current token.
func (p *Parser) parsePrimary() (Expr, error) {
	switch {
	case p.tok.Is('('):
		return p.parseParenExpr()
	case p.tok.Is(';'):
		p.advance()
		return nil, nil
	case p.tok.Type == QUOTE:
		return p.parseStringLiteral()
	case p.tok.Type == INTEGER:
		return p.parseIntExpr()
	case p.tok.Type == IDENTIFIER:
		return p.parseIdentifierExpr()
	case p.tok.Type == DECLARATION:
		return p.parseDeclaration()
	default:
		return nil, p.fmtError(p.tok, SyntaxError, "unexpected %s", p.tok.describe())
	}
}

func (p *Parser) parseParenExpr() (Expr, error) {
	open := p.tok
	p.advance() // consume (
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, p.fmtError(open, SyntaxError, "expected expression after '('")
	}
	if !p.tok.Is(')') {
		return nil, p.fmtError(p.tok, SyntaxError, "expected ')', got %s", p.tok.describe())
	}
	p.advance()
	return e, nil
}

func (p *Parser) parseIntExpr() (Expr, error) {
	e := &IntLiteral{Value: p.tok.Value}
	p.advance()
	return e, nil
}

// parseStringLiteral reads the literal body straight from the lexer and
// registers it in the string pool.
func (p *Parser) parseStringLiteral() (Expr, error) {
	body, err := p.lex.readStringBody()
	if err != nil {
		if ce, ok := err.(*Error); ok {
			ce.Snippet = p.snippet(ce.Line)
		}
		return nil, err
	}
	id := p.unit.Strings.Register(body)
	p.advance()
	return &StringLiteral{ID: id}, nil
}

// parseIdentifierExpr handles a reference, an assignment, a call or a
// spaced name := expr declaration.
func (p *Parser) parseIdentifierExpr() (Expr, error) {
	nameTok := p.tok
	name := nameTok.Lexeme
	p.advance()

	// name := expr with a space before the colon
	if p.tok.Is(':') {
		p.advance()
		if p.tok.Type != ASSIGN {
			return nil, p.fmtError(p.tok, SyntaxError, "expected '=' after %q, got %s", name+" :", p.tok.describe())
		}
		return p.parseInferredDeclaration(nameTok)
	}

	if p.tok.Type == ASSIGN {
		p.advance()
		right, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, p.fmtError(nameTok, SyntaxError, "expected expression after '=' in assignment to %q", name)
		}
		return &Assignment{Target: &VarRef{Name: name}, Value: right}, nil
	}

	if !p.tok.Is('(') {
		return &VarRef{Name: name}, nil
	}
	p.advance() // consume (

	var args []Expr
	if !p.tok.Is(')') {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if arg == nil {
				return nil, p.fmtError(nameTok, SyntaxError, "expected expression in argument list of %q", name)
			}
			args = append(args, arg)

			if p.tok.Is(')') {
				break
			}
			if !p.tok.Is(',') {
				return nil, p.fmtError(p.tok, SyntaxError, "expected ')' or ',' in argument list, got %s", p.tok.describe())
			}
			p.advance()
		}
	}
	p.advance() // consume )

	return &Call{Callee: name, Args: args}, nil
}

// parseDeclaration handles name: type; and name: type = expr;. The binding
// is registered before the initializer is parsed, so the initializer can
// already refer to it.
func (p *Parser) parseDeclaration() (Expr, error) {
	declTok := p.tok
	name := declTok.Lexeme
	p.advance()

	if p.tok.Type == ASSIGN {
		return p.parseInferredDeclaration(declTok)
	}

	if p.tok.Type != IDENTIFIER {
		return nil, p.fmtError(p.tok, SyntaxError, "expected type name after %q, got %s", name+":", p.tok.describe())
	}
	typ := p.tok.Lexeme
	p.unit.Symbols.Add(name, typ)
	decl := &Declaration{Type: typ, Name: name}

	p.advance()
	if p.tok.Is(';') {
		return decl, nil
	}
	if p.tok.Type != ASSIGN {
		return nil, p.fmtError(p.tok, SyntaxError, "expected '=' or ';' after declaration of %q, got %s", name, p.tok.describe())
	}
	p.advance()

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, p.fmtError(declTok, SyntaxError, "expected expression after '=' in declaration of %q", name)
	}
	if !p.tok.Is(';') {
		return nil, p.fmtError(p.tok, SyntaxError, "expected ';' after variable declaration, got %s", p.tok.describe())
	}

	return &Assignment{Target: decl, Value: value}, nil
}

// parseInferredDeclaration handles name := expr;. The type comes from the
// initializer, so the binding is registered only after it is parsed.
func (p *Parser) parseInferredDeclaration(declTok Token) (Expr, error) {
	name := declTok.Lexeme
	p.advance() // consume =

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, p.fmtError(declTok, SyntaxError, "expected expression after ':=' in declaration of %q", name)
	}

	typ, err := p.inferType(declTok, value)
	if err != nil {
		return nil, err
	}
	p.unit.Symbols.Add(name, typ)

	if !p.tok.Is(';') {
		return nil, p.fmtError(p.tok, SyntaxError, "expected ';' after variable declaration, got %s", p.tok.describe())
	}

	return &Assignment{Target: &Declaration{Type: typ, Name: name}, Value: value}, nil
}

// inferType derives the declared type of name := value.
func (p *Parser) inferType(declTok Token, value Expr) (string, error) {
	switch v := value.(type) {
	case *IntLiteral, *Add:
		return TypeInt, nil
	case *StringLiteral:
		return TypeString, nil
	case *VarRef:
		if typ, ok := p.unit.Symbols.Lookup(v.Name); ok {
			return typ, nil
		}
		return "", p.fmtError(declTok, SemanticError, "cannot infer type of %q: %q is not declared", declTok.Lexeme, v.Name)
	case *Call:
		if v.Callee == builtinToString {
			return TypeString, nil
		}
	}
	return "", p.fmtError(declTok, SemanticError, "cannot infer type of %q from %s", declTok.Lexeme, describeExpr(value))
}

// describeExpr names an expression for diagnostics.
func describeExpr(e Expr) string {
	switch n := e.(type) {
	case *Call:
		return fmt.Sprintf("call to %q", n.Callee)
	case *Assignment:
		return "assignment"
	}
	return fmt.Sprintf("%q", e.String())
}

// Parse builds the program from src, recording declarations and string
// literals in unit. It stops at the first error.
func Parse(src string, unit *Unit) ([]*Function, error) {
	p := NewParser(src, unit)
	return p.parseProgram()
}
