//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// testEnv holds paths to an isolated virtual environment and the package
// developed inside it.
type testEnv struct {
	HomeDir    string // EZINSTALL_HOME, holds config.yaml
	VenvDir    string // environment root with bin/activate, bin/python, bin/pip
	PackageDir string // package source, nested under the environment
	SiteDir    string // expected site-packages of the environment
}

// setupTestEnv creates an environment skeleton and an empty package
// directory, and sandboxes the config directory. Only the POSIX layout is
// exercised.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("integration tests use the POSIX environment layout")
	}

	base := t.TempDir()
	env := &testEnv{
		HomeDir:    t.TempDir(),
		VenvDir:    filepath.Join(base, "venv"),
		PackageDir: filepath.Join(base, "venv", "workspace", "mypkg"),
	}
	env.SiteDir = filepath.Join(env.VenvDir, "lib", "python3.12", "site-packages")

	t.Setenv("EZINSTALL_HOME", env.HomeDir)

	makeVenv(t, env.VenvDir, "3.12.1")
	if err := os.MkdirAll(env.PackageDir, 0755); err != nil {
		t.Fatalf("creating package dir: %v", err)
	}
	return env
}

// makeVenv writes the three environment markers and a pyvenv.cfg.
func makeVenv(t *testing.T, root, version string) {
	t.Helper()
	for _, marker := range []string{"bin/activate", "bin/python", "bin/pip"} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(marker)), "")
	}
	writeFile(t, filepath.Join(root, "pyvenv.cfg"), "home = /usr/bin\nversion = "+version+"\n")
}

// trigger returns the trigger file path for the package.
func (e *testEnv) trigger() string {
	return filepath.Join(e.PackageDir, "ezinstall.yaml")
}

// installed returns a path inside the installed copy of the package.
func (e *testEnv) installed(rel ...string) string {
	return filepath.Join(append([]string{e.SiteDir, filepath.Base(e.PackageDir)}, rel...)...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file to not exist: %s", path)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q", path, substr)
	}
}
