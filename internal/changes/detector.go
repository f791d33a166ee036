package changes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
)

// Kind classifies a difference between source and destination.
type Kind int

const (
	// Added means the file has no counterpart at the destination.
	Added Kind = iota + 1
	// Modified means the destination counterpart has different content.
	Modified
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// Change is one source file that differs from the destination.
type Change struct {
	// Path is relative to the source root.
	Path string
	Kind Kind
}

// errStop ends a walk early once a difference is found.
var errStop = errors.New("stop walk")

// Detector compares a source package tree against an installed copy.
type Detector struct {
	fs     afero.Fs
	filter Filter
}

// Option configures a Detector.
type Option func(*Detector)

// WithFilter replaces the default filter.
func WithFilter(f Filter) Option {
	return func(d *Detector) { d.filter = f }
}

// New returns a Detector reading from fsys. A nil fsys means the OS
// filesystem.
func New(fsys afero.Fs, opts ...Option) *Detector {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	d := &Detector{fs: fsys}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NeedsInstall reports whether any source file is missing from dst or
// differs in content. It stops at the first difference. An empty source
// tree never needs installing. Filesystem errors are returned as-is.
func (d *Detector) NeedsInstall(src, dst string) (bool, error) {
	found := false
	err := d.walk(src, dst, func(Change) error {
		found = true
		return errStop
	})
	if err != nil && !errors.Is(err, errStop) {
		return false, err
	}
	return found, nil
}

// Diff returns every source file that is missing from dst or differs in
// content, in walk order.
func (d *Detector) Diff(src, dst string) ([]Change, error) {
	var changes []Change
	err := d.walk(src, dst, func(c Change) error {
		changes = append(changes, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

func (d *Detector) walk(src, dst string, onChange func(Change) error) error {
	return Walk(d.fs, src, func(path, rel string, info os.FileInfo) error {
		if info.IsDir() {
			if rel != "." && d.filter.SkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.filter.SkipFile(rel) {
			return nil
		}

		kind, err := d.compare(path, filepath.Join(dst, rel), info)
		if err != nil {
			return err
		}
		if kind != 0 {
			return onChange(Change{Path: rel, Kind: kind})
		}
		return nil
	})
}

// compare returns 0 when dstPath holds the same content as srcPath.
func (d *Detector) compare(srcPath, dstPath string, srcInfo os.FileInfo) (Kind, error) {
	dstInfo, err := d.fs.Stat(dstPath)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR) {
			return Added, nil
		}
		return 0, err
	}
	if !dstInfo.Mode().IsRegular() || dstInfo.Size() != srcInfo.Size() {
		return Modified, nil
	}

	srcSum, err := Checksum(d.fs, srcPath)
	if err != nil {
		return 0, fmt.Errorf("hashing source file: %w", err)
	}
	dstSum, err := Checksum(d.fs, dstPath)
	if err != nil {
		return 0, fmt.Errorf("hashing installed file: %w", err)
	}
	if srcSum != dstSum {
		return Modified, nil
	}
	return 0, nil
}
