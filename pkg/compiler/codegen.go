package compiler

import (
	"fmt"
	"strings"

	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap"
)

const (
	builtinPrint    = "print"
	builtinToString = "toString"

	// conversionTemp holds every toString result. It is not renamed per call.
	conversionTemp = "v1"

	indentUnit = "    "
)

// CodeGen walks the AST and emits QBE IR text.
type CodeGen struct {
	unit  *Unit
	out   *bytebufferpool.ByteBuffer
	depth int
	log   *zap.Logger
}

func newCodeGen(unit *Unit, out *bytebufferpool.ByteBuffer, log *zap.Logger) *CodeGen {
	return &CodeGen{unit: unit, out: out, log: log}
}

// line writes one indented IR line.
func (cg *CodeGen) line(format string, args ...any) {
	for i := 0; i < cg.depth; i++ {
		cg.out.WriteString(indentUnit)
	}
	fmt.Fprintf(cg.out, format+"\n", args...)
}

// irType maps a declared type to its storage class: w (word) or l (long,
// pointer-sized).
func irType(typ string) (string, error) {
	switch typ {
	case TypeInt:
		return "w", nil
	case TypeString:
		return "l", nil
	}
	return "", newError(SemanticError, 0, "type %q not implemented", typ)
}

func dataLabel(id int) string {
	return fmt.Sprintf("$sl%d", id)
}

// genData emits one data definition per string pool entry, in ID order.
func (cg *CodeGen) genData() {
	for id := 0; id < cg.unit.Strings.Len(); id++ {
		content, _ := cg.unit.Strings.Get(id)
		cg.line("data %s = { b \"%s\\0\" }", dataLabel(id), content)
	}
}

func (cg *CodeGen) genFunction(f *Function) error {
	name := f.Proto.Name
	if name == EntryFunctionName {
		cg.line("export function w $main() {")
	} else {
		cg.line("function $%s() {", name)
	}
	cg.line("@start")

	cg.depth++
	for _, stmt := range f.Body {
		if err := cg.genStmt(stmt); err != nil {
			if ce, ok := err.(*Error); ok {
				ce.Msg = fmt.Sprintf("function %q: %s", name, ce.Msg)
			}
			return err
		}
	}
	// always terminate, even if the body already returned
	cg.line("ret 0")
	cg.depth--

	cg.line("}")
	return nil
}

// genStmt emits the instructions for one body statement.
func (cg *CodeGen) genStmt(e Expr) error {
	switch n := e.(type) {
	case *Assignment:
		return cg.genAssignment(n)

	case *Call:
		return cg.genCall(n)

	case *Add:
		operands, err := cg.addOperands(n)
		if err != nil {
			return err
		}
		cg.line("add %s", operands)
		return nil

	case *StringLiteral:
		cg.line("%s", dataLabel(n.ID))
		return nil

	case *Declaration, *VarRef, *IntLiteral:
		// no effect
		return nil
	}
	return newError(SemanticError, 0, "cannot generate code for %s", describeExpr(e))
}

// targetType resolves the name and declared type of an assignment target.
// A declaration carries its own type; a variable is looked up, so the
// first declaration of a name wins.
func (cg *CodeGen) targetType(target Expr) (string, string, error) {
	switch t := target.(type) {
	case *Declaration:
		return t.Name, t.Type, nil
	case *VarRef:
		typ, ok := cg.unit.Symbols.Lookup(t.Name)
		if !ok {
			return "", "", newError(SemanticError, 0, "type not found for %q", t.Name)
		}
		return t.Name, typ, nil
	}
	return "", "", newError(SemanticError, 0, "cannot assign to %s", describeExpr(target))
}

func (cg *CodeGen) genAssignment(a *Assignment) error {
	name, typ, err := cg.targetType(a.Target)
	if err != nil {
		return err
	}
	class, err := irType(typ)
	if err != nil {
		return err
	}
	rhs, err := cg.valueOf(a.Value)
	if err != nil {
		return err
	}
	cg.line("%%%s =%s %s", name, class, rhs)
	return nil
}

// valueOf renders the right-hand side instruction of an assignment.
func (cg *CodeGen) valueOf(e Expr) (string, error) {
	switch n := e.(type) {
	case *StringLiteral:
		return "copy " + dataLabel(n.ID), nil

	case *IntLiteral:
		return fmt.Sprintf("copy %d", n.Value), nil

	case *VarRef:
		if _, ok := cg.unit.Symbols.Lookup(n.Name); !ok {
			return "", newError(SemanticError, 0, "type not found for %q", n.Name)
		}
		return "copy %" + n.Name, nil

	case *Add:
		operands, err := cg.addOperands(n)
		if err != nil {
			return "", err
		}
		return "add " + operands, nil

	case *Call:
		if n.Callee != builtinToString {
			return "", newError(SemanticError, 0, "call to %q does not produce a value", n.Callee)
		}
		operand, err := cg.toStringOperand(n)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("call $itos(w %s)", operand), nil
	}
	return "", newError(SemanticError, 0, "%s cannot be used as a value", describeExpr(e))
}

// addOperands only accepts two integer literals; anything else is rejected
// rather than evaluated.
func (cg *CodeGen) addOperands(a *Add) (string, error) {
	left, lok := a.Left.(*IntLiteral)
	right, rok := a.Right.(*IntLiteral)
	if !lok || !rok {
		return "", newError(SemanticError, 0, "addition is only supported between two integer literals, got %q", a.String())
	}
	return fmt.Sprintf("%d, %d", left.Value, right.Value), nil
}

// toStringOperand returns the word operand converted by toString(x).
func (cg *CodeGen) toStringOperand(c *Call) (string, error) {
	if len(c.Args) != 1 {
		return "", newError(SemanticError, 0, "%s expects 1 argument, got %d", builtinToString, len(c.Args))
	}
	switch arg := c.Args[0].(type) {
	case *VarRef:
		return "%" + arg.Name, nil
	case *IntLiteral:
		return fmt.Sprintf("%d", arg.Value), nil
	}
	return "", newError(SemanticError, 0, "%s expects a variable or integer literal, got %s", builtinToString, describeExpr(c.Args[0]))
}

func (cg *CodeGen) genCall(c *Call) error {
	if c.Callee == builtinPrint {
		return cg.genPrint(c)
	}
	// user-defined functions (and a bare toString) are not invoked
	cg.log.Debug("Call generates no code", zap.String("callee", c.Callee), zap.Int("args", len(c.Args)))
	return nil
}

// genPrint materializes every argument first, then emits one output call
// per argument.
func (cg *CodeGen) genPrint(c *Call) error {
	refs := make([]string, 0, len(c.Args))
	for _, arg := range c.Args {
		ref, err := cg.prepare(arg)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}
	for _, ref := range refs {
		cg.line("call $dputs(l %s, w 1)", ref)
	}
	return nil
}

// prepare returns the operand that holds the string value of a print
// argument, emitting a conversion for toString calls.
func (cg *CodeGen) prepare(arg Expr) (string, error) {
	switch n := arg.(type) {
	case *Call:
		if n.Callee == builtinToString {
			operand, err := cg.toStringOperand(n)
			if err != nil {
				return "", err
			}
			cg.line("%%%s =l call $itos(w %s)", conversionTemp, operand)
			return "%" + conversionTemp, nil
		}
	case *VarRef:
		return "%" + n.Name, nil
	case *StringLiteral:
		return dataLabel(n.ID), nil
	}
	return "", newError(SemanticError, 0, "unsupported argument to %s: %s", builtinPrint, describeExpr(arg))
}

// Generate emits the data section followed by every function in order.
// Nothing is returned unless the whole program was generated.
func Generate(funcs []*Function, unit *Unit, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	cg := newCodeGen(unit, buf, log)
	cg.genData()
	for _, f := range funcs {
		if err := cg.genFunction(f); err != nil {
			return "", err
		}
	}

	ir := buf.String()
	log.Debug("Generated IR",
		zap.Int("functions", len(funcs)),
		zap.Int("data", unit.Strings.Len()),
		zap.Int("lines", strings.Count(ir, "\n")),
	)
	return ir, nil
}
