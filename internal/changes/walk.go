package changes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// WalkFunc is called by Walk for every directory and regular file. rel is
// relative to the walk root ("." for the root). info describes the entry
// with symlinks followed. Returning filepath.SkipDir from a directory
// skips its contents.
type WalkFunc func(path, rel string, info os.FileInfo) error

// Walk visits the tree at root in lexical order. The root and symlinked
// files are followed to their targets. Symlinked directories, dangling
// links and special files are not visited.
func Walk(fsys afero.Fs, root string, fn WalkFunc) error {
	info, err := fsys.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}
	err = walkDir(fsys, root, ".", info, fn)
	if errors.Is(err, filepath.SkipDir) {
		return nil
	}
	return err
}

func walkDir(fsys afero.Fs, root, rel string, info os.FileInfo, fn WalkFunc) error {
	dir := filepath.Join(root, rel)
	if err := fn(dir, rel, info); err != nil {
		return err
	}

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		entryRel := filepath.Join(rel, entry.Name())
		path := filepath.Join(root, entryRel)

		if entry.Mode()&os.ModeSymlink != 0 {
			target, err := fsys.Stat(path)
			if err != nil || target.IsDir() {
				continue
			}
			entry = target
		}

		switch {
		case entry.IsDir():
			err := walkDir(fsys, root, entryRel, entry, fn)
			if err != nil && !errors.Is(err, filepath.SkipDir) {
				return err
			}
		case entry.Mode().IsRegular():
			if err := fn(path, entryRel, entry); err != nil {
				return err
			}
		}
	}
	return nil
}
