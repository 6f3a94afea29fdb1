package config

import (
	"os"
	"path/filepath"
	"sync"
)

const envHome = "GWTDRIVER_HOME"

var (
	homeOnce sync.Once
	homeDir  string
)

// GetHome returns the gwt-driver home directory, where the default
// gwtdriver.yaml and log file live.
//
// Resolution order:
//  1. $GWTDRIVER_HOME environment variable
//  2. Parent of the binary's directory (if binary is in <home>/bin/)
//  3. Current working directory (development fallback)
func GetHome() string {
	homeOnce.Do(func() {
		homeDir = resolveHome()
	})
	return homeDir
}

// DefaultLogPath returns <home>/gwtdriver.log.
func DefaultLogPath() string {
	return filepath.Join(GetHome(), "gwtdriver.log")
}

func resolveHome() string {
	if env := os.Getenv(envHome); env != "" {
		return env
	}

	// Binary-relative: if binary is at <home>/bin/gwtdriver, use <home>
	if execPath, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
			execPath = resolved
		}
		binDir := filepath.Dir(execPath)
		if filepath.Base(binDir) == "bin" {
			return filepath.Dir(binDir)
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}

	return "."
}

// ResetHome resets the cached home directory (for testing).
func ResetHome() {
	homeOnce = sync.Once{}
	homeDir = ""
}
