package utils

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// ReadSource returns the contents of the source file at path.
func ReadSource(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read source file %q", path)
	}
	return string(data), nil
}

// WriteOutput replaces the file at path with text, creating its parent
// directory if needed.
func WriteOutput(fs afero.Fs, path string, text string) error {
	fullPath, parentDir, err := GetPathInfo(path)
	if err != nil {
		return errors.Wrapf(err, "failed to write output file %q", path)
	}
	if err := fs.MkdirAll(parentDir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to write output file %q", path)
	}
	if err := afero.WriteFile(fs, fullPath, []byte(text), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write output file %q", path)
	}
	return nil
}
