package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Keywords
	FN     // "fn"
	EXPOSE // "expose" (reserved, inert)

	// Literals
	IDENTIFIER  // variable / function name
	DECLARATION // name immediately followed by ':'
	INTEGER     // decimal integer literal
	QUOTE       // opening '"'; the body is read by the parser
	STRING      // decoded string body, only produced by Lex

	// Operators
	ASSIGN // =
	EQUALS // ==

	PUNCT // any other single character
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	EOF:         "EOF",
	FN:          "FN",
	EXPOSE:      "EXPOSE",
	IDENTIFIER:  "IDENTIFIER",
	DECLARATION: "DECLARATION",
	INTEGER:     "INTEGER",
	QUOTE:       "QUOTE",
	STRING:      "STRING",
	ASSIGN:      "ASSIGN",
	EQUALS:      "EQUALS",
	PUNCT:       "PUNCT",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // identifier name, declared name, digits or the punctuation character
	Value  int    // decoded value of an INTEGER token
	Line   int    // 1-based source line
}

// Is reports whether t is the punctuation token for ch.
func (t Token) Is(ch rune) bool {
	return t.Type == PUNCT && t.Lexeme == string(ch)
}

func (t Token) String() string {
	return fmt.Sprintf("%-11s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}

// describe renders a token for diagnostics.
func (t Token) describe() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case PUNCT:
		return fmt.Sprintf("%q", t.Lexeme)
	case QUOTE:
		return "string literal"
	case ASSIGN:
		return `"="`
	case EQUALS:
		return `"=="`
	case DECLARATION:
		return fmt.Sprintf("declaration %q", t.Lexeme+":")
	}
	return fmt.Sprintf("%s %q", t.Type, t.Lexeme)
}
