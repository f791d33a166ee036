package changes

import (
	"path"
	"path/filepath"
	"strings"
)

// CacheDirName is the directory Python writes compiled bytecode into.
const CacheDirName = "__pycache__"

// bytecodeExts are compiled-bytecode file extensions.
var bytecodeExts = []string{".pyc", ".pyo"}

// IsCompiledArtifact reports whether a file name is compiled bytecode.
func IsCompiledArtifact(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range bytecodeExts {
		if ext == e {
			return true
		}
	}
	return false
}

// Filter selects which entries of a package tree take part in comparison
// and copying. The zero Filter excludes only compiled artifacts.
type Filter struct {
	// Patterns are path.Match globs tested against both the slash-separated
	// path relative to the package root and the base name.
	Patterns []string
}

// SkipDir reports whether the directory at rel (relative, OS-native) is
// excluded along with everything below it.
func (f Filter) SkipDir(rel string) bool {
	name := filepath.Base(rel)
	if name == CacheDirName {
		return true
	}
	return f.matches(rel, name)
}

// SkipFile reports whether the file at rel is excluded.
func (f Filter) SkipFile(rel string) bool {
	name := filepath.Base(rel)
	if IsCompiledArtifact(name) {
		return true
	}
	return f.matches(rel, name)
}

func (f Filter) matches(rel, name string) bool {
	slashed := filepath.ToSlash(rel)
	for _, p := range f.Patterns {
		p = strings.TrimSuffix(p, "/")
		if ok, _ := path.Match(p, slashed); ok {
			return true
		}
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}
