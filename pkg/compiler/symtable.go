package compiler

import (
	"fmt"
	"strings"
)

// Declared types understood by the code generator.
const (
	TypeInt    = "int"
	TypeString = "string"
)

// Symbol is one (name, declared type) binding.
type Symbol struct {
	Name string
	Type string
}

// SymbolTable is the single global binding list for a compilation.
// Entries are only ever appended; there is no scoping, so equally named
// variables in different functions share the first binding.
type SymbolTable struct {
	entries []Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{}
}

// Add appends a binding without checking for duplicates.
func (s *SymbolTable) Add(name, typ string) {
	s.entries = append(s.entries, Symbol{Name: name, Type: typ})
}

// Lookup returns the type of the first binding for name.
func (s *SymbolTable) Lookup(name string) (string, bool) {
	for _, sym := range s.entries {
		if sym.Name == name {
			return sym.Type, true
		}
	}
	return "", false
}

func (s *SymbolTable) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the bindings in declaration order.
func (s *SymbolTable) Entries() []Symbol {
	out := make([]Symbol, len(s.entries))
	copy(out, s.entries)
	return out
}

// String returns the table in declaration order.
func (s *SymbolTable) String() string {
	if len(s.entries) == 0 {
		return "Symbols: (empty)\n"
	}
	var sb strings.Builder
	sb.WriteString("Symbols:\n")
	for i, sym := range s.entries {
		fmt.Fprintf(&sb, "  %3d  %-20s  %s\n", i, sym.Name, sym.Type)
	}
	return sb.String()
}
