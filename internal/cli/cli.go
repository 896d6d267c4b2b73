// Package cli implements the gridopt command-line interface.
//
// This package provides commands for solving optimal power flow cases,
// converting polynomial cost curves to piecewise-linear form, rendering
// one-line diagrams, managing the solve cache, and running the HTTP API.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - solve: Run an OPF solve on a TOML case file
//   - convert: Rewrite polynomial cost rows as piecewise-linear curves
//   - graph: Render a case as a one-line diagram (DOT or SVG)
//   - cache: Manage the on-disk solve cache
//   - serve: Run the HTTP API server
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/voltlab/gridopt/pkg/cache"
	"github.com/voltlab/gridopt/pkg/opf"

	_ "github.com/voltlab/gridopt/pkg/solver/backends"
)

// appName is the application name used for directories and display.
const appName = "gridopt"

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner builds a pipeline runner for CLI use. The cache falls back to
// a null cache when the cache directory cannot be determined.
func newRunner(ctx context.Context, noCache bool, dir string) (*opf.Runner, error) {
	c, err := newCache(noCache, dir)
	if err != nil {
		return nil, err
	}
	return opf.NewRunner(nil, c, nil, nil, loggerFromContext(ctx)), nil
}

func newCache(noCache bool, dir string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gridopt/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
