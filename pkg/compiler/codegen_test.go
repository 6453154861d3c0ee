package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// assertContains checks if the generated code contains the expected substring.
func assertContains(t *testing.T, code, expected string) {
	t.Helper()
	if !strings.Contains(code, expected) {
		t.Errorf("Expected code to contain %q, but it didn't.\nCode:\n%s", expected, code)
	}
}

func entryFunc(body ...Expr) *Function {
	return &Function{Proto: &Prototype{Name: EntryFunctionName}, Body: body}
}

func TestGenerate_FunctionFrame(t *testing.T) {
	t.Run("entry is exported as main", func(t *testing.T) {
		code, err := Generate([]*Function{entryFunc()}, NewUnit(), nil)
		require.NoError(t, err)
		assert.Equal(t, "export function w $main() {\n@start\n    ret 0\n}\n", code)
	})

	t.Run("other functions are internal", func(t *testing.T) {
		f := &Function{Proto: &Prototype{Name: "helper", Params: []string{"a", "b"}}}
		code, err := Generate([]*Function{f}, NewUnit(), nil)
		require.NoError(t, err)
		assert.Equal(t, "function $helper() {\n@start\n    ret 0\n}\n", code)
	})
}

func TestGenerate_DataSection(t *testing.T) {
	unit := NewUnit()
	unit.Strings.Register("hello world")
	unit.Strings.Register("")

	code, err := Generate(nil, unit, nil)
	require.NoError(t, err)
	assert.Equal(t, "data $sl0 = { b \"hello world\\0\" }\ndata $sl1 = { b \"\\0\" }\n", code)
}

func TestGenerate_Assignments(t *testing.T) {
	unit := NewUnit()
	unit.Symbols.Add("n", TypeInt)
	unit.Symbols.Add("s", TypeString)
	unit.Strings.Register("hi")

	code, err := Generate([]*Function{entryFunc(
		&Assignment{Target: &Declaration{Type: TypeInt, Name: "n"}, Value: &IntLiteral{Value: 5}},
		&Assignment{Target: &Declaration{Type: TypeString, Name: "s"}, Value: &StringLiteral{ID: 0}},
		&Assignment{Target: &VarRef{Name: "n"}, Value: &Add{Left: &IntLiteral{Value: 1}, Right: &IntLiteral{Value: 2}}},
		&Assignment{Target: &VarRef{Name: "s"}, Value: &Call{Callee: "toString", Args: []Expr{&VarRef{Name: "n"}}}},
		&Assignment{Target: &Declaration{Type: TypeInt, Name: "m"}, Value: &VarRef{Name: "n"}},
	)}, unit, nil)
	require.NoError(t, err)

	assertContains(t, code, "    %n =w copy 5\n")
	assertContains(t, code, "    %s =l copy $sl0\n")
	assertContains(t, code, "    %n =w add 1, 2\n")
	assertContains(t, code, "    %s =l call $itos(w %n)\n")
	assertContains(t, code, "    %m =w copy %n\n")
}

func TestGenerate_BareStatements(t *testing.T) {
	unit := NewUnit()
	unit.Symbols.Add("x", TypeInt)
	unit.Strings.Register("s")

	code, err := Generate([]*Function{entryFunc(
		&Declaration{Type: TypeInt, Name: "x"},
		&VarRef{Name: "x"},
		&IntLiteral{Value: 7},
		&StringLiteral{ID: 0},
		&Add{Left: &IntLiteral{Value: 3}, Right: &IntLiteral{Value: 4}},
		&Call{Callee: "toString", Args: []Expr{&VarRef{Name: "x"}}},
	)}, unit, nil)
	require.NoError(t, err)

	assert.Equal(t, "data $sl0 = { b \"s\\0\" }\n"+
		"export function w $main() {\n"+
		"@start\n"+
		"    $sl0\n"+
		"    add 3, 4\n"+
		"    ret 0\n"+
		"}\n", code)
}

func TestGenerate_Print(t *testing.T) {
	unit := NewUnit()
	unit.Strings.Register("label")

	code, err := Generate([]*Function{entryFunc(
		&Call{Callee: "print", Args: []Expr{
			&VarRef{Name: "s"},
			&Call{Callee: "toString", Args: []Expr{&VarRef{Name: "n"}}},
			&StringLiteral{ID: 0},
			&Call{Callee: "toString", Args: []Expr{&IntLiteral{Value: 9}}},
		}},
	)}, unit, nil)
	require.NoError(t, err)

	// conversions come first, all sharing one temporary
	assert.Equal(t, "data $sl0 = { b \"label\\0\" }\n"+
		"export function w $main() {\n"+
		"@start\n"+
		"    %v1 =l call $itos(w %n)\n"+
		"    %v1 =l call $itos(w 9)\n"+
		"    call $dputs(l %s, w 1)\n"+
		"    call $dputs(l %v1, w 1)\n"+
		"    call $dputs(l $sl0, w 1)\n"+
		"    call $dputs(l %v1, w 1)\n"+
		"    ret 0\n"+
		"}\n", code)
}

func TestGenerate_UserCallsAreIgnored(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	code, err := Generate([]*Function{entryFunc(
		&Call{Callee: "helper", Args: []Expr{&IntLiteral{Value: 1}}},
	)}, NewUnit(), zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, "export function w $main() {\n@start\n    ret 0\n}\n", code)
	entries := logs.FilterMessage("Call generates no code").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "helper", entries[0].ContextMap()["callee"])
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name string
		stmt Expr
		msg  string
	}{
		{
			name: "unsupported declared type",
			stmt: &Assignment{Target: &Declaration{Type: "float", Name: "f"}, Value: &IntLiteral{Value: 1}},
			msg:  `type "float" not implemented`,
		},
		{
			name: "undeclared target",
			stmt: &Assignment{Target: &VarRef{Name: "ghost"}, Value: &IntLiteral{Value: 1}},
			msg:  `type not found for "ghost"`,
		},
		{
			name: "undeclared source",
			stmt: &Assignment{Target: &Declaration{Type: TypeInt, Name: "a"}, Value: &VarRef{Name: "ghost"}},
			msg:  `type not found for "ghost"`,
		},
		{
			name: "add with variable operand",
			stmt: &Assignment{
				Target: &Declaration{Type: TypeInt, Name: "a"},
				Value:  &Add{Left: &VarRef{Name: "a"}, Right: &IntLiteral{Value: 1}},
			},
			msg: "addition is only supported between two integer literals",
		},
		{
			name: "add chain",
			stmt: &Add{
				Left:  &Add{Left: &IntLiteral{Value: 1}, Right: &IntLiteral{Value: 2}},
				Right: &IntLiteral{Value: 3},
			},
			msg: "addition is only supported between two integer literals",
		},
		{
			name: "user call as value",
			stmt: &Assignment{Target: &Declaration{Type: TypeInt, Name: "a"}, Value: &Call{Callee: "helper"}},
			msg:  `call to "helper" does not produce a value`,
		},
		{
			name: "assign to literal",
			stmt: &Assignment{Target: &IntLiteral{Value: 1}, Value: &IntLiteral{Value: 2}},
			msg:  `cannot assign to "1"`,
		},
		{
			name: "print integer literal",
			stmt: &Call{Callee: "print", Args: []Expr{&IntLiteral{Value: 1}}},
			msg:  `unsupported argument to print: "1"`,
		},
		{
			name: "toString without argument",
			stmt: &Call{Callee: "print", Args: []Expr{&Call{Callee: "toString"}}},
			msg:  "toString expects 1 argument, got 0",
		},
		{
			name: "nested function",
			stmt: entryFunc(),
			msg:  "cannot generate code for",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := NewUnit()
			unit.Symbols.Add("a", TypeInt)

			code, err := Generate([]*Function{entryFunc(tt.stmt)}, unit, nil)
			require.Error(t, err)
			assert.Empty(t, code)

			kind, ok := KindOf(err)
			require.True(t, ok)
			assert.Equal(t, SemanticError, kind)
			assert.Contains(t, err.Error(), `function "entry": `)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
