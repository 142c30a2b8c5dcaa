// Package testenv provides isolated test environments with temp directories
// and environment variable overrides. It creates images and output
// directories and points IMAGE_MANAGER_IMAGES / IMAGE_MANAGER_OUTPUT at them
// (restored on test cleanup).
//
// Usage:
//
//	// Isolated dirs:
//	env := testenv.New(t)
//	env.Dirs.Base   // temp root
//	env.Dirs.Images // images root (IMAGE_MANAGER_IMAGES)
//	env.Dirs.Output // output root (IMAGE_MANAGER_OUTPUT)
//
//	// With config:
//	env := testenv.New(t, testenv.WithRuntimeConfig(yamlString))
//	env.Config // *config.RuntimeConfig
package testenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/timo-reymann/poc-container-image-manager/internal/config"
)

// IsolatedDirs holds the directory paths created for the test.
type IsolatedDirs struct {
	Base   string // temp root (parent of all dirs)
	Images string //
	Output string //
}

// Env is a unified test environment with isolated directories and optional
// higher-level capabilities.
type Env struct {
	Dirs   IsolatedDirs
	Config *config.RuntimeConfig
}

// Option configures an Env during construction.
type Option func(t *testing.T, e *Env)

// WithRuntimeConfig parses a runtime config backed by the isolated dirs.
func WithRuntimeConfig(yaml string) Option {
	return func(t *testing.T, e *Env) {
		t.Helper()
		cfg, err := config.RuntimeFromString(yaml)
		if err != nil {
			t.Fatalf("testenv: creating config: %v", err)
		}
		e.Config = &cfg
	}
}

// New creates an isolated test environment. It:
//  1. Creates a temp directory with images and output subdirectories
//  2. Sets IMAGE_MANAGER_IMAGES / IMAGE_MANAGER_OUTPUT (restored on cleanup)
//  3. Applies any options (e.g. WithRuntimeConfig)
func New(t *testing.T, opts ...Option) *Env {
	t.Helper()

	// Resolve symlinks on the base temp dir so paths match os.Getwd()
	// after chdir (macOS: /var → /private/var).
	base, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("testenv: resolving temp dir symlinks: %v", err)
	}

	dirs := IsolatedDirs{
		Base:   base,
		Images: filepath.Join(base, "images"),
		Output: filepath.Join(base, "dist"),
	}

	for _, dir := range []string{dirs.Images, dirs.Output} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("testenv: creating dir %s: %v", dir, err)
		}
	}

	t.Setenv("IMAGE_MANAGER_IMAGES", dirs.Images)
	t.Setenv("IMAGE_MANAGER_OUTPUT", dirs.Output)

	env := &Env{Dirs: dirs}

	for _, opt := range opts {
		opt(t, env)
	}

	return env
}
