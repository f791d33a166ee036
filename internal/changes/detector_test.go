package changes

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree writes files (relative path -> content) under root.
func writeTree(t *testing.T, fsys afero.Fs, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0644))
	}
}

func TestNeedsInstall(t *testing.T) {
	tests := []struct {
		name string
		src  map[string]string
		dst  map[string]string
		want bool
	}{
		{
			name: "identical trees",
			src:  map[string]string{"a.py": "x", "sub/b.py": "y"},
			dst:  map[string]string{"a.py": "x", "sub/b.py": "y"},
			want: false,
		},
		{
			name: "empty source",
			src:  map[string]string{},
			dst:  map[string]string{"a.py": "x"},
			want: false,
		},
		{
			name: "missing destination file",
			src:  map[string]string{"a.py": "x", "sub/b.py": "y"},
			dst:  map[string]string{"a.py": "x"},
			want: true,
		},
		{
			name: "content differs with same size",
			src:  map[string]string{"a.py": "x"},
			dst:  map[string]string{"a.py": "z"},
			want: true,
		},
		{
			name: "content differs in size",
			src:  map[string]string{"a.py": "x = 1"},
			dst:  map[string]string{"a.py": "x"},
			want: true,
		},
		{
			name: "pycache differences ignored",
			src:  map[string]string{"a.py": "x", "__pycache__/a.cpython-311.pyc": "new", "sub/__pycache__/b.pyc": "new"},
			dst:  map[string]string{"a.py": "x", "__pycache__/a.cpython-311.pyc": "old"},
			want: false,
		},
		{
			name: "stray bytecode ignored",
			src:  map[string]string{"a.py": "x", "a.pyc": "compiled", "legacy.pyo": "compiled"},
			dst:  map[string]string{"a.py": "x"},
			want: false,
		},
		{
			name: "destination-only files are not inspected",
			src:  map[string]string{"a.py": "x"},
			dst:  map[string]string{"a.py": "x", "stale.py": "old"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			require.NoError(t, fsys.MkdirAll("/src/pkg", 0755))
			writeTree(t, fsys, "/src/pkg", tt.src)
			writeTree(t, fsys, "/site/pkg", tt.dst)

			got, err := New(fsys).NeedsInstall("/src/pkg", "/site/pkg")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNeedsInstallMissingDestinationRoot(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "/src/pkg", map[string]string{"a.py": "x"})

	got, err := New(fsys).NeedsInstall("/src/pkg", "/site/pkg")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestNeedsInstallDestinationIsDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "/src/pkg", map[string]string{"a.py": "x"})
	require.NoError(t, fsys.MkdirAll("/site/pkg/a.py", 0755))

	got, err := New(fsys).NeedsInstall("/src/pkg", "/site/pkg")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestNeedsInstallMissingSource(t *testing.T) {
	_, err := New(afero.NewMemMapFs()).NeedsInstall("/nope", "/site/nope")
	assert.Error(t, err)
}

func TestNeedsInstallWithFilterPatterns(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "/src/pkg", map[string]string{
		"a.py":             "x",
		"notes.txt":        "local notes",
		"tests/test_a.py":  "new test",
		"build/output.bin": "artifact",
	})
	writeTree(t, fsys, "/site/pkg", map[string]string{"a.py": "x"})

	d := New(fsys, WithFilter(Filter{Patterns: []string{"*.txt", "tests", "build/"}}))
	got, err := d.NeedsInstall("/src/pkg", "/site/pkg")
	require.NoError(t, err)
	assert.False(t, got)

	got, err = New(fsys).NeedsInstall("/src/pkg", "/site/pkg")
	require.NoError(t, err)
	assert.True(t, got, "without patterns the extra files count")
}

func TestDiff(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "/src/pkg", map[string]string{
		"a.py":     "changed",
		"b.py":     "same",
		"sub/c.py": "new",
	})
	writeTree(t, fsys, "/site/pkg", map[string]string{
		"a.py":     "original",
		"b.py":     "same",
		"extra.py": "dest only",
	})

	changes, err := New(fsys).Diff("/src/pkg", "/site/pkg")
	require.NoError(t, err)
	assert.ElementsMatch(t, []Change{
		{Path: "a.py", Kind: Modified},
		{Path: filepath.Join("sub", "c.py"), Kind: Added},
	}, changes)
}

func TestDiffIdentical(t *testing.T) {
	fsys := afero.NewMemMapFs()
	files := map[string]string{"a.py": "x", "sub/b.py": "y"}
	writeTree(t, fsys, "/src/pkg", files)
	writeTree(t, fsys, "/site/pkg", files)

	changes, err := New(fsys).Diff("/src/pkg", "/site/pkg")
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestNeedsInstallOnDisk(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src", "pkg")
	dst := filepath.Join(tmp, "site", "pkg")
	osfs := afero.NewOsFs()
	writeTree(t, osfs, src, map[string]string{"a.py": "x", "sub/b.py": "y"})

	d := New(nil)
	got, err := d.NeedsInstall(src, dst)
	require.NoError(t, err)
	assert.True(t, got)

	writeTree(t, osfs, dst, map[string]string{"a.py": "x", "sub/b.py": "y"})
	got, err = d.NeedsInstall(src, dst)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestNeedsInstallUnreadableSource(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("permission bits not enforced")
	}
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	dst := filepath.Join(tmp, "dst")
	osfs := afero.NewOsFs()
	writeTree(t, osfs, src, map[string]string{"a.py": "x"})
	writeTree(t, osfs, dst, map[string]string{"a.py": "x"})
	require.NoError(t, os.Chmod(filepath.Join(src, "a.py"), 0))

	_, err := New(nil).NeedsInstall(src, dst)
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "modified", Modified.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestNeedsInstallFollowsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need developer mode")
	}
	tmp := t.TempDir()
	osfs := afero.NewOsFs()
	writeTree(t, osfs, tmp, map[string]string{"shared.py": "v1", "real/pkg/a.py": "x"})

	t.Run("symlinked file", func(t *testing.T) {
		src := filepath.Join(tmp, "src")
		require.NoError(t, os.MkdirAll(src, 0755))
		require.NoError(t, os.Symlink(filepath.Join(tmp, "shared.py"), filepath.Join(src, "shared.py")))
		dst := filepath.Join(tmp, "dst")

		got, err := New(osfs).NeedsInstall(src, dst)
		require.NoError(t, err)
		assert.True(t, got, "missing destination copy of a linked file")

		writeTree(t, osfs, dst, map[string]string{"shared.py": "v1"})
		got, err = New(osfs).NeedsInstall(src, dst)
		require.NoError(t, err)
		assert.False(t, got)

		writeTree(t, osfs, tmp, map[string]string{"shared.py": "v2"})
		diff, err := New(osfs).Diff(src, dst)
		require.NoError(t, err)
		assert.Equal(t, []Change{{Path: "shared.py", Kind: Modified}}, diff)
	})

	t.Run("symlinked root", func(t *testing.T) {
		link := filepath.Join(tmp, "link")
		require.NoError(t, os.Symlink(filepath.Join(tmp, "real", "pkg"), link))

		got, err := New(osfs).NeedsInstall(link, filepath.Join(tmp, "site", "pkg"))
		require.NoError(t, err)
		assert.True(t, got)
	})
}

func TestWalkSkipsLinkedDirectoriesAndDanglingLinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need developer mode")
	}
	tmp := t.TempDir()
	osfs := afero.NewOsFs()
	src := filepath.Join(tmp, "src")
	writeTree(t, osfs, src, map[string]string{"a.py": "x"})
	require.NoError(t, os.Symlink(src, filepath.Join(src, "loop")))
	require.NoError(t, os.Symlink(filepath.Join(tmp, "gone.py"), filepath.Join(src, "gone.py")))

	var seen []string
	err := Walk(osfs, src, func(path, rel string, info os.FileInfo) error {
		seen = append(seen, rel)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{".", "a.py"}, seen)
}

func TestWalkRejectsFileRoot(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTree(t, fsys, "/src", map[string]string{"a.py": "x"})
	err := Walk(fsys, "/src/a.py", func(string, string, os.FileInfo) error { return nil })
	assert.Error(t, err)
}
