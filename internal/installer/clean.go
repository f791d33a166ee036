package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ezinstall-dev/ezinstall/internal/changes"
	"github.com/spf13/afero"
)

// CleanReport lists what RemoveCompiledArtifacts deleted.
type CleanReport struct {
	CacheDirs []string
	Files     []string
}

// Removed returns the number of removed entries.
func (r CleanReport) Removed() int {
	return len(r.CacheDirs) + len(r.Files)
}

// RemoveCompiledArtifacts deletes every __pycache__ directory and stray
// bytecode file under dir. It keeps going after individual failures and
// returns them joined.
func RemoveCompiledArtifacts(fsys afero.Fs, dir string) (CleanReport, error) {
	var dirs, files []string

	err := changes.Walk(fsys, dir, func(path, rel string, info os.FileInfo) error {
		name := filepath.Base(path)
		if info.IsDir() {
			if rel != "." && name == changes.CacheDirName {
				dirs = append(dirs, path)
				return filepath.SkipDir
			}
			return nil
		}
		if changes.IsCompiledArtifact(name) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return CleanReport{}, fmt.Errorf("scanning %s: %w", dir, err)
	}

	var report CleanReport
	var errs []error
	for _, d := range dirs {
		if err := fsys.RemoveAll(d); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", d, err))
			continue
		}
		report.CacheDirs = append(report.CacheDirs, d)
	}
	for _, f := range files {
		if err := fsys.Remove(f); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", f, err))
			continue
		}
		report.Files = append(report.Files, f)
	}

	return report, errors.Join(errs...)
}
