package venv

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
)

// ConfigFile is the file written by `python -m venv` at the environment root.
const ConfigFile = "pyvenv.cfg"

// readConfigVersion returns the interpreter version recorded in pyvenv.cfg.
// It returns (nil, nil) when the file or the key is absent.
func readConfigVersion(fsys afero.Fs, root string) (*semver.Version, error) {
	f, err := fsys.Open(filepath.Join(root, ConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		values[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", ConfigFile, err)
	}

	// virtualenv and uv write version_info as "3.12.1.final.0".
	for _, key := range []string{"version", "version_info"} {
		raw := values[key]
		if raw == "" {
			continue
		}
		parts := strings.SplitN(raw, ".", 4)
		if len(parts) > 3 {
			parts = parts[:3]
		}
		v, err := semver.NewVersion(strings.Join(parts, "."))
		if err != nil {
			return nil, fmt.Errorf("parsing %s %s %q: %w", ConfigFile, key, raw, err)
		}
		return v, nil
	}
	return nil, nil
}

// highestSitePackagesVersion inspects lib/python*/site-packages directories
// under root and returns the highest interpreter version among them, or
// nil if there are none.
func highestSitePackagesVersion(fsys afero.Fs, root, glob string) *semver.Version {
	matches, err := afero.Glob(fsys, filepath.Join(root, glob))
	if err != nil {
		return nil
	}

	var versions []*semver.Version
	for _, m := range matches {
		info, err := fsys.Stat(m)
		if err != nil || !info.IsDir() {
			continue
		}
		name := filepath.Base(filepath.Dir(m))
		v, err := semver.NewVersion(strings.TrimPrefix(name, "python"))
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	if len(versions) == 0 {
		return nil
	}
	sort.Sort(semver.Collection(versions))
	return versions[len(versions)-1]
}

// shortVersion formats v as "major.minor".
func shortVersion(v *semver.Version) string {
	return fmt.Sprintf("%d.%d", v.Major(), v.Minor())
}
