package compiler

import (
	"fmt"
	"strings"
)

// StringPool holds string literal contents in discovery order. The index of
// an entry is its literal ID and its data-section ordinal. Identical text
// registered twice yields two entries.
type StringPool struct {
	entries []string
}

func NewStringPool() *StringPool {
	return &StringPool{}
}

// Register appends content and returns its literal ID.
func (p *StringPool) Register(content string) int {
	p.entries = append(p.entries, content)
	return len(p.entries) - 1
}

// Get returns the content registered under id.
func (p *StringPool) Get(id int) (string, bool) {
	if id < 0 || id >= len(p.entries) {
		return "", false
	}
	return p.entries[id], true
}

func (p *StringPool) Len() int {
	return len(p.entries)
}

func (p *StringPool) String() string {
	if len(p.entries) == 0 {
		return "Strings: (empty)\n"
	}
	var sb strings.Builder
	sb.WriteString("Strings:\n")
	for i, s := range p.entries {
		fmt.Fprintf(&sb, "  %3d  %q\n", i, s)
	}
	return sb.String()
}
