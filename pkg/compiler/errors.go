package compiler

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies a compilation failure. Every kind is fatal.
type ErrorKind int

const (
	IOError       ErrorKind = iota // source missing or unreadable
	LexicalError                   // e.g. unterminated string literal
	SyntaxError                    // unexpected token, missing delimiter, unimplemented operator
	SemanticError                  // unknown variable type, unsupported declared type
)

var errorKindNames = [...]string{
	IOError:       "io",
	LexicalError:  "lex",
	SyntaxError:   "parse",
	SemanticError: "codegen",
}

func (k ErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the single diagnostic a failed compilation produces.
type Error struct {
	Kind    ErrorKind
	Line    int    // 1-based; 0 when no source position applies
	Msg     string // human-readable message
	Snippet string // trimmed source line, if known
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}
	sb.WriteString(e.Msg)
	if e.Snippet != "" {
		fmt.Fprintf(&sb, "\n  |> %s", e.Snippet)
	}
	return sb.String()
}

func newError(kind ErrorKind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of a compilation error, looking through wrapping.
func KindOf(err error) (ErrorKind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}
