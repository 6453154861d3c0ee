package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"

	"funcoc/pkg/compiler"
	"funcoc/pkg/logging"
	"funcoc/pkg/utils"
)

const testSource = `fn entry() {
    x: string = "hi";
    n: int = 1 + 2;
    print(x, toString(n));
}
`

func main() {
	var verbose bool
	flag.BoolVarP(&verbose, "verbose", "v", false, "Log pipeline details to standard error")
	flag.Parse()

	logger := logging.New(verbose, os.Stderr)
	defer func() { _ = logger.Sync() }()

	src := testSource
	if flag.NArg() > 0 {
		data, err := utils.ReadSource(afero.NewOsFs(), flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = data
	}

	fmt.Printf("Source:\n%s\n", src)

	// Lex
	tokens, err := compiler.Lex(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lex error:", err)
		os.Exit(1)
	}

	fmt.Printf("Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Println(" ", tok)
	}
	fmt.Println()

	// Parse
	unit := compiler.NewUnit()
	funcs, err := compiler.Parse(src, unit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}

	fmt.Println("AST")
	for _, f := range funcs {
		fmt.Println(f)
	}
	fmt.Println()
	fmt.Print(unit.Symbols)
	fmt.Print(unit.Strings)
	fmt.Println()

	// code Generation
	ir, err := compiler.Generate(funcs, unit, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codegen error:", err)
		os.Exit(1)
	}

	fmt.Println("Generated IR")
	fmt.Print(ir)
}
