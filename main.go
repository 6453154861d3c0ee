package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"funcoc/pkg/compiler"
	"funcoc/pkg/logging"
	"funcoc/pkg/utils"
)

var version = "dev"

type options struct {
	output      string
	verbose     bool
	showVersion bool
	showHelp    bool
}

func main() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr))
}

// run compiles the single source file named in args and returns the process
// exit code. IR and diagnostics are written to stdout; logs go to stderr.
func run(args []string, fs afero.Fs, stdout, stderr io.Writer) int {
	var opts options
	fset := flag.NewFlagSet("funcoc", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.StringVarP(&opts.output, "output", "o", "", "Write the IR to this file instead of standard output")
	fset.BoolVarP(&opts.verbose, "verbose", "v", false, "Log pipeline details to standard error")
	fset.BoolVar(&opts.showVersion, "version", false, "Print version information and quit")
	fset.BoolVarP(&opts.showHelp, "help", "h", false, "Print usage information (this message) and quit")
	fset.Usage = func() {
		fmt.Fprintln(stderr, "usage: funcoc [flags] <source file>")
		fset.PrintDefaults()
	}

	if err := fset.Parse(args); err != nil {
		fmt.Fprintln(stderr, err)
		fset.Usage()
		return 2
	}
	if opts.showHelp {
		fset.Usage()
		return 0
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "funcoc %s\n", version)
		return 0
	}
	if fset.NArg() != 1 {
		fset.Usage()
		return 2
	}

	logger := logging.New(opts.verbose, zapcore.AddSync(stderr))
	defer func() { _ = logger.Sync() }()

	path := fset.Arg(0)
	logger.Debug("Compiling source file", zap.String("path", path))

	ir, err := compiler.CompileFile(fs, path, logger)
	if err != nil {
		logger.Debug("Compilation failed", zap.Error(err))
		// diagnostics share standard output with the IR
		fmt.Fprintln(stdout, err)
		return 1
	}

	if opts.output == "" {
		if _, err := io.WriteString(stdout, ir); err != nil {
			logger.Error("Failed to write IR", zap.Error(err))
			return 1
		}
		return 0
	}
	if err := utils.WriteOutput(fs, opts.output, ir); err != nil {
		fmt.Fprintln(stdout, err)
		return 1
	}
	logger.Debug("IR written", zap.String("path", opts.output), zap.Int("bytes", len(ir)))
	return 0
}
