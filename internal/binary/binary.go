// Package binary locates the gasoline server binary and probes its health.
package binary

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Name is the server executable name registered with clients.
const Name = "gasoline"

// versionTimeout bounds the --version probe.
const versionTimeout = 5 * time.Second

// Health is the result of probing the server binary, merged into the
// doctor report.
type Health struct {
	OK      bool   `json:"ok" yaml:"ok"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Find locates the server binary. An explicit override wins; otherwise a
// sibling of the running CLI executable is preferred over a PATH lookup.
func Find(override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", errors.Wrapf(err, "configured binary path %s", override)
		}
		return override, nil
	}

	if self, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(self), Name)
		if _, err := os.Stat(sibling); err == nil {
			return sibling, nil
		}
	}

	path, err := exec.LookPath(Name)
	if err != nil {
		return "", errors.Wrapf(err, "%s binary not found", Name)
	}
	return path, nil
}

// Check probes the binary with --version under a short timeout.
// It never returns an error; failures are reported in the Health value.
func Check(ctx context.Context, override string) Health {
	path, err := Find(override)
	if err != nil {
		return Health{Error: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return Health{
			Path:  path,
			Error: "binary found but failed to execute: " + err.Error(),
		}
	}

	version := strings.TrimSpace(string(out))
	if version == "" {
		version = "unknown"
	}
	return Health{OK: true, Path: path, Version: version}
}
