package compiler

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

//  Expression nodes

// Expr is implemented by every AST node. A parent exclusively owns its
// children: no node is reachable from two places in the tree.
type Expr interface {
	exprNode()
	String() string
}

// IntLiteral is a non-negative decimal constant.
//
//	x: int = 10;
//	         ^^  IntLiteral{Value: 10}
type IntLiteral struct {
	Value int
}

func (*IntLiteral) exprNode()        {}
func (l *IntLiteral) String() string { return fmt.Sprintf("%d", l.Value) }

// VarRef is a read of a named variable.
type VarRef struct {
	Name string
}

func (*VarRef) exprNode()        {}
func (v *VarRef) String() string { return v.Name }

// Add is the only reducible binary operation.
type Add struct {
	Left  Expr
	Right Expr
}

func (*Add) exprNode()        {}
func (a *Add) String() string { return fmt.Sprintf("%s+%s", a.Left, a.Right) }

// Call represents callee(args). Only print and toString generate code.
type Call struct {
	Callee string
	Args   []Expr
}

func (*Call) exprNode() {}
func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(args, ","))
}

// Prototype is a function name plus its parameter names. Parameters are
// recorded but not used by code generation.
type Prototype struct {
	Name   string
	Params []string
}

func (*Prototype) exprNode() {}
func (p *Prototype) String() string {
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(p.Params, ", "))
}

// Function is a prototype with its ordered statement list.
//
//	fn entry() { x: int = 1; }
type Function struct {
	Proto *Prototype
	Body  []Expr
}

func (*Function) exprNode() {}
func (f *Function) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s {\n", f.Proto)
	for _, stmt := range f.Body {
		fmt.Fprintf(&sb, "    %s;\n", stmt)
	}
	sb.WriteString("}")
	return sb.String()
}

// Assignment stores Value into Target, which is a *Declaration or a *VarRef.
type Assignment struct {
	Target Expr
	Value  Expr
}

func (*Assignment) exprNode()        {}
func (a *Assignment) String() string { return fmt.Sprintf("%s=%s", a.Target, a.Value) }

// Declaration introduces name with a declared type ("int" or "string").
type Declaration struct {
	Type string
	Name string
}

func (*Declaration) exprNode()        {}
func (d *Declaration) String() string { return fmt.Sprintf("%s: %s", d.Name, d.Type) }

// StringLiteral refers to an entry of the string pool by its literal ID.
type StringLiteral struct {
	ID int
}

func (*StringLiteral) exprNode()        {}
func (s *StringLiteral) String() string { return fmt.Sprintf("$sl%d", s.ID) }

// Walk visits e and its children depth-first in source order. Children are
// skipped when visit returns false.
func Walk(e Expr, visit func(Expr) bool) {
	if e == nil || !visit(e) {
		return
	}
	switch n := e.(type) {
	case *Add:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case *Call:
		for _, a := range n.Args {
			Walk(a, visit)
		}
	case *Function:
		Walk(n.Proto, visit)
		for _, s := range n.Body {
			Walk(s, visit)
		}
	case *Assignment:
		Walk(n.Target, visit)
		Walk(n.Value, visit)
	}
}

// CheckOwnership returns an error if any node is reachable more than once
// from the given functions.
func CheckOwnership(funcs []*Function) error {
	seen := make(map[Expr]struct{})
	var dup Expr
	for _, f := range funcs {
		Walk(f, func(e Expr) bool {
			if dup != nil {
				return false
			}
			if _, ok := seen[e]; ok {
				dup = e
				return false
			}
			seen[e] = struct{}{}
			return true
		})
		if dup != nil {
			return errors.Errorf("node %s is shared between subtrees", dup)
		}
	}
	return nil
}
