package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTable(t *testing.T) {
	st := NewSymbolTable()
	assert.Equal(t, 0, st.Len())
	assert.Equal(t, "Symbols: (empty)\n", st.String())

	_, ok := st.Lookup("x")
	assert.False(t, ok)

	st.Add("x", TypeInt)
	st.Add("s", TypeString)
	st.Add("x", TypeString)

	require.Equal(t, 3, st.Len())

	typ, ok := st.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, TypeInt, typ, "the first binding must win")

	typ, ok = st.Lookup("s")
	require.True(t, ok)
	assert.Equal(t, TypeString, typ)

	assert.Equal(t, []Symbol{
		{Name: "x", Type: TypeInt},
		{Name: "s", Type: TypeString},
		{Name: "x", Type: TypeString},
	}, st.Entries())
}

func TestSymbolTable_EntriesIsACopy(t *testing.T) {
	st := NewSymbolTable()
	st.Add("x", TypeInt)

	entries := st.Entries()
	entries[0].Type = TypeString

	typ, _ := st.Lookup("x")
	assert.Equal(t, TypeInt, typ)
}

func TestSymbolTable_String(t *testing.T) {
	st := NewSymbolTable()
	st.Add("count", TypeInt)
	st.Add("name", TypeString)

	out := st.String()
	assertContains(t, out, "Symbols:\n")
	assertContains(t, out, "    0  count                 int\n")
	assertContains(t, out, "    1  name                  string\n")
}

func TestStringPool(t *testing.T) {
	sp := NewStringPool()
	assert.Equal(t, "Strings: (empty)\n", sp.String())

	assert.Equal(t, 0, sp.Register("hi"))
	assert.Equal(t, 1, sp.Register(""))
	assert.Equal(t, 2, sp.Register("hi"), "identical text is not deduplicated")
	assert.Equal(t, 3, sp.Len())

	s, ok := sp.Get(1)
	require.True(t, ok)
	assert.Equal(t, "", s)

	s, ok = sp.Get(2)
	require.True(t, ok)
	assert.Equal(t, "hi", s)

	_, ok = sp.Get(3)
	assert.False(t, ok)
	_, ok = sp.Get(-1)
	assert.False(t, ok)

	assert.Equal(t, "Strings:\n    0  \"hi\"\n    1  \"\"\n    2  \"hi\"\n", sp.String())
}
