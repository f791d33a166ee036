package platform

import (
	"fmt"
	"path/filepath"
	"strings"
)

// VersionPlaceholder marks where the interpreter's major.minor version goes
// in a site-packages template.
const VersionPlaceholder = "{version}"

// Layout describes where things live inside a virtual environment root.
// Relative paths are slash-separated; use the accessor methods to get
// OS-native forms.
type Layout struct {
	Family Family

	// ScriptDir holds the activation script and executables.
	ScriptDir string

	ActivateScript string
	Python         string
	Pip            string

	// SitePackages may contain VersionPlaceholder.
	SitePackages string

	// SystemSiteIndex is the entry of site.getsitepackages() that is the
	// system-wide site-packages directory.
	SystemSiteIndex int

	// DefaultInterpreter is the command used to query the system
	// interpreter when none is configured.
	DefaultInterpreter string
}

var posixLayout = Layout{
	ScriptDir:          "bin",
	ActivateScript:     "bin/activate",
	Python:             "bin/python",
	Pip:                "bin/pip",
	SitePackages:       "lib/python" + VersionPlaceholder + "/site-packages",
	SystemSiteIndex:    0,
	DefaultInterpreter: "python3",
}

var layouts = map[Family]Layout{
	Windows: {
		Family:             Windows,
		ScriptDir:          "Scripts",
		ActivateScript:     "Scripts/activate.bat",
		Python:             "Scripts/python.exe",
		Pip:                "Scripts/pip.exe",
		SitePackages:       "Lib/site-packages",
		SystemSiteIndex:    1,
		DefaultInterpreter: "python",
	},
	MacOS: withFamily(posixLayout, MacOS),
	Linux: withFamily(posixLayout, Linux),
}

func withFamily(l Layout, f Family) Layout {
	l.Family = f
	return l
}

// LayoutFor returns the layout for a family.
func LayoutFor(f Family) (Layout, error) {
	l, ok := layouts[f]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, f)
	}
	return l, nil
}

// Markers returns the three files whose joint presence identifies an
// environment root, as OS-native relative paths.
func (l Layout) Markers() []string {
	return []string{
		filepath.FromSlash(l.ActivateScript),
		filepath.FromSlash(l.Python),
		filepath.FromSlash(l.Pip),
	}
}

// InterpreterPath returns the environment interpreter relative to its root.
func (l Layout) InterpreterPath() string {
	return filepath.FromSlash(l.Python)
}

// Versioned reports whether the site-packages path depends on the
// interpreter version.
func (l Layout) Versioned() bool {
	return strings.Contains(l.SitePackages, VersionPlaceholder)
}

// SitePackagesPath returns the OS-native site-packages path relative to an
// environment root for the given "major.minor" version.
func (l Layout) SitePackagesPath(version string) string {
	return filepath.FromSlash(strings.ReplaceAll(l.SitePackages, VersionPlaceholder, version))
}

// SitePackagesGlob returns a glob matching every versioned site-packages
// directory relative to an environment root.
func (l Layout) SitePackagesGlob() string {
	return l.SitePackagesPath("*")
}
