package compiler

// Unit is the state shared by the stages of one compilation. The parser
// fills it; the code generator only reads it.
type Unit struct {
	Symbols *SymbolTable
	Strings *StringPool
}

func NewUnit() *Unit {
	return &Unit{
		Symbols: NewSymbolTable(),
		Strings: NewStringPool(),
	}
}
