package compiler

// keywords maps reserved words to their TokenType.
var keywords = map[string]TokenType{
	"fn":     FN,
	"expose": EXPOSE,
}

// Lexer holds all mutable state for a single scanning pass over src.
// Tokens are produced on demand because string bodies are consumed by the
// parser through readStringBody rather than by nextToken.
//
// The source is scanned as raw bytes: string literal bodies are copied to
// the data section unchanged, whatever their encoding.
type Lexer struct {
	src  []byte
	pos  int // index of the next byte to consume
	line int // current 1-based source line
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []byte(src), pos: 0, line: 1}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

// peek returns the byte at the current position without advancing.
func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

// advance consumes one byte and returns it.
func (l *Lexer) advance() byte {
	if l.atEnd() {
		return 0
	}
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
	}
	return c
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isSpace(l.peek()) {
		l.advance()
	}
}

// Character classes are ASCII only; identifiers become IR names.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// scanIdent collects an identifier, keyword or declaration.
// The first letter must still be at l.peek().
func (l *Lexer) scanIdent() Token {
	line := l.line
	start := l.pos
	for !l.atEnd() {
		c := l.peek()
		if !isLetter(c) && !isDigit(c) {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])

	// name: is always a declaration, never a reference.
	if l.peek() == ':' {
		l.advance()
		return Token{Type: DECLARATION, Lexeme: lexeme, Line: line}
	}
	if kw, ok := keywords[lexeme]; ok {
		return Token{Type: kw, Lexeme: lexeme, Line: line}
	}
	return Token{Type: IDENTIFIER, Lexeme: lexeme, Line: line}
}

// scanInt collects a non-negative decimal literal. Values wrap silently on
// overflow.
func (l *Lexer) scanInt() Token {
	line := l.line
	start := l.pos
	value := 0
	for !l.atEnd() && isDigit(l.peek()) {
		value = value*10 + int(l.advance()-'0')
	}
	return Token{Type: INTEGER, Lexeme: string(l.src[start:l.pos]), Value: value, Line: line}
}

// nextToken skips whitespace and returns the next Token. A '"' is reported
// as QUOTE and left unconsumed.
func (l *Lexer) nextToken() Token {
	l.skipWhitespace()
	if l.atEnd() {
		return Token{Type: EOF, Line: l.line}
	}

	ch := l.peek()
	line := l.line

	switch {
	case isLetter(ch):
		return l.scanIdent()
	case isDigit(ch):
		return l.scanInt()
	case ch == '"':
		return Token{Type: QUOTE, Lexeme: `"`, Line: line}
	}

	l.advance()
	if ch == '=' {
		if l.peek() == '=' { // lookahead: distinguish = vs ==
			l.advance()
			return Token{Type: EQUALS, Lexeme: "==", Line: line}
		}
		return Token{Type: ASSIGN, Lexeme: "=", Line: line}
	}
	return Token{Type: PUNCT, Lexeme: string(l.src[l.pos-1 : l.pos]), Line: line}
}

// readStringBody consumes a string literal starting at the opening quote and
// returns its contents. A newline or end of input before the closing quote
// is an error.
func (l *Lexer) readStringBody() (string, error) {
	line := l.line
	l.advance() // consume opening "

	start := l.pos
	for {
		if l.atEnd() {
			return "", newError(LexicalError, line, "unterminated string literal")
		}
		c := l.peek()
		if c == '"' {
			break
		}
		if c == '\n' {
			return "", newError(LexicalError, line, "unterminated string literal")
		}
		l.advance()
	}
	body := string(l.src[start:l.pos])
	l.advance() // consume closing "

	return body, nil
}

// Lex tokenises src and returns all tokens including the final EOF token.
// String literals appear as a single STRING token holding the decoded body.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok := l.nextToken()
		if tok.Type == QUOTE {
			body, err := l.readStringBody()
			if err != nil {
				return tokens, err
			}
			tok = Token{Type: STRING, Lexeme: body, Line: tok.Line}
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
