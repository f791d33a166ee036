package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Path is an immutable filesystem path. Methods that derive another path
// return a new value.
type Path struct {
	raw string
}

// New joins path and any extra parts into a Path.
func New(path string, parts ...string) Path {
	if len(parts) == 0 {
		return Path{raw: path}
	}
	return Path{raw: filepath.Join(append([]string{path}, parts...)...)}
}

// String returns the path as given (or as derived).
func (p Path) String() string {
	return p.raw
}

// Join returns a new Path with parts appended.
func (p Path) Join(parts ...string) Path {
	return New(p.raw, parts...)
}

// IsAbs reports whether the path is absolute.
func (p Path) IsAbs() bool {
	return filepath.IsAbs(p.raw)
}

// Absolute returns the absolute, cleaned form of the path resolved against
// the working directory. If the working directory cannot be determined the
// cleaned path is returned unchanged.
func (p Path) Absolute() Path {
	abs, err := filepath.Abs(p.raw)
	if err != nil {
		return Path{raw: filepath.Clean(p.raw)}
	}
	return Path{raw: abs}
}

// Exists reports whether anything exists at the path.
func (p Path) Exists() bool {
	_, err := os.Stat(p.raw)
	return err == nil
}

// Basename returns the last element: /usr/bin/test.txt -> test.txt.
func (p Path) Basename() string {
	return filepath.Base(p.raw)
}

// Ext returns the extension including the dot: /usr/bin/test.txt -> .txt.
func (p Path) Ext() string {
	return filepath.Ext(p.Basename())
}

// Stem returns the basename without its extension: /usr/bin/test.txt -> test.
func (p Path) Stem() string {
	base := p.Basename()
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Dirname returns the basename of the parent: /usr/bin/test.txt -> bin.
func (p Path) Dirname() string {
	return p.Parent().Basename()
}

// Parent returns the containing directory: /usr/bin/test.txt -> /usr/bin.
// The parent of a root is the root itself.
func (p Path) Parent() Path {
	return Path{raw: filepath.Dir(p.raw)}
}

// Segments splits the absolute path into its components. On POSIX the first
// segment is "/"; on Windows it is the drive, e.g. `C:\`.
//
//	/usr/bin/test.txt      -> ["/", "usr", "bin", "test.txt"]
//	C:\User\admin\test.txt -> ["C:\", "User", "admin", "test.txt"]
func (p Path) Segments() []string {
	abs := p.Absolute().raw
	vol := filepath.VolumeName(abs)
	rest := abs[len(vol):]

	sep := string(filepath.Separator)
	segments := []string{vol + sep}
	for _, part := range strings.Split(rest, sep) {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// AncestorChain returns the absolute path followed by each of its ancestors
// up to and including the root. It has one entry per segment.
func (p Path) AncestorChain() []Path {
	n := len(p.Segments())
	chain := make([]Path, 0, n)
	cur := p.Absolute()
	chain = append(chain, cur)
	for i := 1; i < n; i++ {
		cur = cur.Parent()
		chain = append(chain, cur)
	}
	return chain
}

// Equal reports whether both paths have the same absolute form.
func (p Path) Equal(other Path) bool {
	return p.Absolute().raw == other.Absolute().raw
}
