package installer

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ezinstall-dev/ezinstall/internal/changes"
	"github.com/ezinstall-dev/ezinstall/internal/platform"
	"github.com/spf13/afero"
)

// copyStats counts what copyTree wrote.
type copyStats struct {
	Files int
	Bytes int64
}

// copyTree recursively copies src to dst, leaving out whatever filter
// excludes. Symlinked files are copied as regular files holding their
// target's content. File and directory modes are preserved.
func copyTree(fsys afero.Fs, src, dst string, filter changes.Filter) (copyStats, error) {
	var stats copyStats
	err := changes.Walk(fsys, src, func(path, rel string, info os.FileInfo) error {
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			if rel != "." && filter.SkipDir(rel) {
				return filepath.SkipDir
			}
			if err := fsys.MkdirAll(target, info.Mode().Perm()); err != nil {
				return err
			}
			return platform.Chmod(fsys, target, info.Mode().Perm())
		}
		if filter.SkipFile(rel) {
			return nil
		}

		n, err := copyFile(fsys, path, target, info.Mode().Perm())
		if err != nil {
			return err
		}
		stats.Files++
		stats.Bytes += n
		return nil
	})
	return stats, err
}

// copyFile copies a single file from src to dst with the given permissions.
func copyFile(fsys afero.Fs, src, dst string, perm os.FileMode) (int64, error) {
	in, err := fsys.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, err
	}
	if err := out.Close(); err != nil {
		return n, err
	}
	return n, platform.Chmod(fsys, dst, perm)
}
