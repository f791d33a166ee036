package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

// Inspect reads the descriptor at path, validates it and decodes it. The
// descriptor is nil when the report has problems.
func Inspect(fsys afero.Fs, path string) (*Descriptor, *Report, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading descriptor %s: %w", path, err)
	}

	report, err := Validate(data)
	if err != nil {
		return nil, nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if !report.Valid() {
		return nil, report, nil
	}

	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, nil, fmt.Errorf("decoding descriptor %s: %w", path, err)
	}
	return &d, report, nil
}

// Parse reads and validates the descriptor at path. Rule violations are
// returned as ErrInvalid.
func Parse(fsys afero.Fs, path string) (*Descriptor, error) {
	d, report, err := Inspect(fsys, path)
	if err != nil {
		return nil, err
	}
	if !report.Valid() {
		return nil, fmt.Errorf("%w %s: %s", ErrInvalid, path, report)
	}
	return d, nil
}

// Load returns the descriptor at the root of packageDir on fsys, or nil
// when the package has none.
func Load(fsys afero.Fs, packageDir string) (*Descriptor, error) {
	path := filepath.Join(packageDir, FileName)
	if _, err := fsys.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return Parse(fsys, path)
}
