// Package compiler provides the scanner, parser and code generator for the
// fn language, a small curly-brace language with int and string variables,
// targeting QBE intermediate language.
//
// Pipeline: source → Lexer → Parser (filling a Unit) → Generate → QBE IR text
package compiler
