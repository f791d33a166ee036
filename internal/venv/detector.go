package venv

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/ezinstall-dev/ezinstall/internal/pathutil"
	"github.com/ezinstall-dev/ezinstall/internal/platform"
	"github.com/spf13/afero"
)

// ErrResolution is returned when no site-packages directory can be
// determined for an install.
var ErrResolution = errors.New("cannot resolve site-packages directory")

// Destination is where a package will be installed.
type Destination struct {
	// SitePackages is the directory packages are copied into.
	SitePackages pathutil.Path

	// Environment is the virtual environment root; only meaningful when
	// InEnvironment is true.
	Environment   pathutil.Path
	InEnvironment bool

	// PythonVersion is the interpreter version owning SitePackages, or nil
	// when it could not be determined.
	PythonVersion *semver.Version
}

// Detector locates virtual environments and site-packages directories
// according to a platform layout.
type Detector struct {
	Layout platform.Layout

	// System is the interpreter queried when the package is not inside a
	// virtual environment.
	System Prober

	// EnvProber builds a prober for an environment's own interpreter. It is
	// only used when the environment's version cannot be read from disk.
	EnvProber func(interpreter string) Prober

	// Fs is where markers, pyvenv.cfg and site-packages directories are
	// looked up. Nil means the OS filesystem.
	Fs afero.Fs
}

func (d *Detector) fs() afero.Fs {
	if d.Fs == nil {
		return afero.NewOsFs()
	}
	return d.Fs
}

// NewDetector returns a Detector for layout that probes the system
// interpreter named by command (or the layout default when empty).
func NewDetector(layout platform.Layout, command string) *Detector {
	if command == "" {
		command = layout.DefaultInterpreter
	}
	return &Detector{
		Layout: layout,
		Fs:     afero.NewOsFs(),
		System: &Interpreter{Command: command},
		EnvProber: func(interpreter string) Prober {
			return &Interpreter{Command: interpreter}
		},
	}
}

// IsEnvironmentRoot reports whether dir holds all three environment markers:
// the activation script, the interpreter and pip. A directory holding only
// some of them is not an environment.
func (d *Detector) IsEnvironmentRoot(dir pathutil.Path) bool {
	for _, rel := range d.Layout.Markers() {
		if ok, _ := afero.Exists(d.fs(), dir.Join(rel).String()); !ok {
			return false
		}
	}
	return true
}

// FindEnvironmentRoot walks upward from the directory containing file and
// returns the innermost environment root, if any.
func (d *Detector) FindEnvironmentRoot(file pathutil.Path) (pathutil.Path, bool) {
	for _, dir := range file.Absolute().Parent().AncestorChain() {
		if d.IsEnvironmentRoot(dir) {
			return dir, true
		}
	}
	return pathutil.Path{}, false
}

// EnvironmentVersion determines the interpreter version of an environment:
// first from pyvenv.cfg, then from the site-packages directories present,
// and finally by asking the environment's interpreter.
func (d *Detector) EnvironmentVersion(ctx context.Context, root pathutil.Path) (*semver.Version, error) {
	v, err := readConfigVersion(d.fs(), root.String())
	if err != nil {
		return nil, err
	}
	if v != nil {
		return v, nil
	}

	if d.Layout.Versioned() {
		if v := highestSitePackagesVersion(d.fs(), root.String(), d.Layout.SitePackagesGlob()); v != nil {
			return v, nil
		}
	}

	if d.EnvProber == nil {
		return nil, fmt.Errorf("no version information in environment %s", root)
	}
	info, err := d.EnvProber(root.Join(d.Layout.InterpreterPath()).String()).Probe(ctx)
	if err != nil {
		return nil, err
	}
	return info.ParsedVersion()
}

// SitePackagesFor returns the site-packages directory of the environment at
// root.
func (d *Detector) SitePackagesFor(ctx context.Context, root pathutil.Path) (pathutil.Path, error) {
	if !d.Layout.Versioned() {
		return root.Join(d.Layout.SitePackagesPath("")), nil
	}

	v, err := d.EnvironmentVersion(ctx, root)
	if err != nil {
		return pathutil.Path{}, fmt.Errorf("%w: environment %s: %v", ErrResolution, root, err)
	}
	return root.Join(d.Layout.SitePackagesPath(shortVersion(v))), nil
}

// SystemSitePackages asks the system interpreter for its site-packages list
// and picks the entry the layout designates.
func (d *Detector) SystemSitePackages(ctx context.Context) (pathutil.Path, error) {
	p, _, err := d.systemSitePackages(ctx)
	return p, err
}

func (d *Detector) systemSitePackages(ctx context.Context) (pathutil.Path, *semver.Version, error) {
	if d.System == nil {
		return pathutil.Path{}, nil, fmt.Errorf("%w: no system interpreter configured", ErrResolution)
	}

	info, err := d.System.Probe(ctx)
	if err != nil {
		return pathutil.Path{}, nil, fmt.Errorf("%w: %v", ErrResolution, err)
	}

	idx := d.Layout.SystemSiteIndex
	if info.SitePackages == nil {
		return pathutil.Path{}, nil, fmt.Errorf("%w: interpreter does not support site.getsitepackages()", ErrResolution)
	}
	if idx >= len(info.SitePackages) {
		return pathutil.Path{}, nil, fmt.Errorf("%w: interpreter reported %d site-packages entries, need entry %d",
			ErrResolution, len(info.SitePackages), idx)
	}

	// A version the interpreter cannot report does not block the install.
	v, _ := info.ParsedVersion()
	return pathutil.New(info.SitePackages[idx]), v, nil
}

// Resolve returns the install destination for a package whose trigger file
// is file: the site-packages of the innermost enclosing environment, or the
// system site-packages otherwise.
func (d *Detector) Resolve(ctx context.Context, file pathutil.Path) (*Destination, error) {
	if root, ok := d.FindEnvironmentRoot(file); ok {
		dest := &Destination{Environment: root, InEnvironment: true}
		v, err := d.EnvironmentVersion(ctx, root)
		switch {
		case err == nil:
			dest.PythonVersion = v
			dest.SitePackages = root.Join(d.Layout.SitePackagesPath(shortVersion(v)))
		case d.Layout.Versioned():
			return nil, fmt.Errorf("%w: environment %s: %v", ErrResolution, root, err)
		default:
			dest.SitePackages = root.Join(d.Layout.SitePackagesPath(""))
		}
		return dest, nil
	}

	site, v, err := d.systemSitePackages(ctx)
	if err != nil {
		return nil, err
	}
	return &Destination{SitePackages: site, PythonVersion: v}, nil
}
