package venv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// probeScript prints the interpreter's site-packages list (null when the
// site module lacks getsitepackages) and its version as JSON.
const probeScript = `import json, site, sys
sp = site.getsitepackages() if hasattr(site, "getsitepackages") else None
print(json.dumps({"site_packages": sp, "version": "%d.%d.%d" % tuple(sys.version_info[:3])}))`

// InterpreterInfo is what a Prober reports about a Python interpreter.
type InterpreterInfo struct {
	SitePackages []string `json:"site_packages"`
	Version      string   `json:"version"`
}

// ParsedVersion returns Version as a semver value.
func (i *InterpreterInfo) ParsedVersion() (*semver.Version, error) {
	if i.Version == "" {
		return nil, fmt.Errorf("interpreter reported no version")
	}
	return semver.NewVersion(i.Version)
}

// Prober queries an interpreter for its installation details.
type Prober interface {
	Probe(ctx context.Context) (*InterpreterInfo, error)
}

// Interpreter probes a Python executable by running a short script.
type Interpreter struct {
	// Command is an executable name looked up on PATH, or a path.
	Command string
}

// Probe runs the interpreter and decodes its report.
func (in *Interpreter) Probe(ctx context.Context) (*InterpreterInfo, error) {
	bin, err := exec.LookPath(in.Command)
	if err != nil {
		return nil, fmt.Errorf("python interpreter %q not found: %w", in.Command, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-c", probeScript)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("probing %s: %w: %s", bin, err, msg)
		}
		return nil, fmt.Errorf("probing %s: %w", bin, err)
	}

	var info InterpreterInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("decoding probe output from %s: %w", bin, err)
	}
	return &info, nil
}
