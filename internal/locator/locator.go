// Package locator resolves the mdbase-lsp executable that backs the client.
// The backend can live in several places depending on how mdb was installed:
// an explicit user-configured path, the bundled binary next to the install
// root, or a development build under target/.
package locator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// ServerName is the backend executable name without platform suffix
	ServerName = "mdbase-lsp"

	// LogEnvVar is the environment variable the backend reads for log filtering
	LogEnvVar = "MDBASE_LOG"
)

// ErrNotFound indicates no backend executable exists at any probed location.
// This is fatal for the session: without a backend there is nothing to talk to.
var ErrNotFound = errors.New("mdbase-lsp executable not found")

// ConfigError reports a user-configured server path that failed validation.
// A bad override never falls back to probing; the user asked for a specific
// binary and silently running a different one would be worse than failing.
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configured server path %q %s", e.Path, e.Reason)
}

// Location is a resolved backend executable plus the environment overlay
// to launch it with.
type Location struct {
	// Path is the absolute path to the executable
	Path string
	// Env holds additional KEY=VALUE entries appended to the child environment
	Env []string
}

// Resolve finds the backend executable.
// Resolution order:
//  1. override, if non-empty: must exist and be a regular file, otherwise
//     a *ConfigError is returned and no fallback is attempted
//  2. bundled binary: <installDir>/bin/mdbase-lsp
//  3. build artifacts: <installDir>/target/release, then <installDir>/target/debug
//
// logLevel, when non-empty, becomes the MDBASE_LOG entry of the overlay.
func Resolve(installDir, override, logLevel string) (Location, error) {
	var env []string
	if logLevel != "" {
		env = append(env, LogEnvVar+"="+logLevel)
	}

	if override != "" {
		path := exeSuffixed(override)
		info, err := os.Stat(path)
		if err != nil {
			return Location{}, &ConfigError{Path: path, Reason: "does not exist"}
		}
		if !info.Mode().IsRegular() {
			return Location{}, &ConfigError{Path: path, Reason: "is not a regular file"}
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return Location{}, fmt.Errorf("failed to resolve server path: %w", err)
		}
		return Location{Path: abs, Env: env}, nil
	}

	candidates := []string{
		filepath.Join(installDir, "bin", ServerName),
		filepath.Join(installDir, "target", "release", ServerName),
		filepath.Join(installDir, "target", "debug", ServerName),
	}

	for _, candidate := range candidates {
		path := exeSuffixed(candidate)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		return Location{Path: abs, Env: env}, nil
	}

	return Location{}, ErrNotFound
}

// exeSuffixed appends the platform executable suffix when missing.
func exeSuffixed(path string) string {
	if runtime.GOOS == "windows" && filepath.Ext(path) != ".exe" {
		return path + ".exe"
	}
	return path
}
