package compiler

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"funcoc/pkg/utils"
)

// stageError prefixes a compilation error with the stage that raised it,
// e.g. "parse error: line 3: ...".
func stageError(err error) error {
	kind, ok := KindOf(err)
	if !ok {
		return errors.Wrap(err, "internal error")
	}
	return errors.Wrapf(err, "%s error", kind)
}

// Compile runs the whole pipeline over src and returns the IR text. The
// first failure aborts the run and no partial IR is returned.
func Compile(src string, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	unit := NewUnit()
	funcs, err := Parse(src, unit)
	if err != nil {
		return "", stageError(err)
	}
	log.Debug("Parsed program",
		zap.Int("functions", len(funcs)),
		zap.Int("symbols", unit.Symbols.Len()),
		zap.Int("strings", unit.Strings.Len()),
	)

	if err := CheckOwnership(funcs); err != nil {
		return "", stageError(err)
	}

	ir, err := Generate(funcs, unit, log)
	if err != nil {
		return "", stageError(err)
	}
	return ir, nil
}

// CompileFile reads the source at path from fs and compiles it.
func CompileFile(fs afero.Fs, path string, log *zap.Logger) (string, error) {
	src, err := utils.ReadSource(fs, path)
	if err != nil {
		return "", stageError(&Error{Kind: IOError, Msg: err.Error()})
	}
	return Compile(src, log)
}
