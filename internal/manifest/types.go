package manifest

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// FileName is the descriptor file looked up at a package root.
const FileName = "ezinstall.yaml"

var (
	// ErrInvalid is returned when a descriptor fails schema validation.
	ErrInvalid = errors.New("invalid descriptor")

	// ErrPythonVersion is returned when the interpreter does not satisfy
	// requires_python.
	ErrPythonVersion = errors.New("python version not supported")
)

// Descriptor holds the per-package install settings.
type Descriptor struct {
	// Name overrides the installed directory name, which otherwise is the
	// package directory's basename.
	Name string `yaml:"name,omitempty"`

	// Exclude lists glob patterns left out of comparison and copying, on top
	// of __pycache__ and compiled bytecode.
	Exclude []string `yaml:"exclude,omitempty"`

	// RequiresPython is a semver constraint such as ">= 3.9, < 4".
	RequiresPython string `yaml:"requires_python,omitempty"`
}

// PackageName returns Name, or fallback when Name is empty.
func (d *Descriptor) PackageName(fallback string) string {
	if d == nil || d.Name == "" {
		return fallback
	}
	return d.Name
}

// ExcludePatterns returns the exclude patterns of a possibly nil descriptor.
func (d *Descriptor) ExcludePatterns() []string {
	if d == nil {
		return nil
	}
	return d.Exclude
}

// CheckPython verifies v against RequiresPython. A nil descriptor, an empty
// constraint or an unknown version (nil v) always pass.
func (d *Descriptor) CheckPython(v *semver.Version) error {
	if d == nil || d.RequiresPython == "" || v == nil {
		return nil
	}
	c, err := semver.NewConstraint(d.RequiresPython)
	if err != nil {
		return fmt.Errorf("%w: requires_python %q: %v", ErrInvalid, d.RequiresPython, err)
	}
	if ok, errs := c.Validate(v); !ok {
		return fmt.Errorf("%w: python %s does not satisfy %q: %v", ErrPythonVersion, v, d.RequiresPython, errors.Join(errs...))
	}
	return nil
}
