package harness

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/timo-reymann/poc-container-image-manager/internal/cmd"
	"github.com/timo-reymann/poc-container-image-manager/internal/testenv"
)

// Harness provides an isolated filesystem environment for integration tests
// and drives the real cobra command tree.
type Harness struct {
	T *testing.T
}

// RunResult holds the outcome of a CLI command execution.
type RunResult struct {
	ExitCode int
	Err      error
	Stdout   string
	Stderr   string
}

// SetupResult holds the resolved paths from NewIsolatedFS.
type SetupResult struct {
	BaseDir    string
	ProjectDir string
	ImagesDir  string
	OutputDir  string
}

// FSOptions allows overriding the project directory name.
type FSOptions struct {
	ProjectDir string // subdirectory name under base (default: "testproject")
}

// NewIsolatedFS creates an isolated test environment.
//
// Delegates directory setup to testenv.New, then adds a project directory
// and chdirs into it (restored on cleanup) so runtime config discovery from
// CWD behaves like a real checkout.
func (h *Harness) NewIsolatedFS(opts *FSOptions) *SetupResult {
	h.T.Helper()

	if opts == nil {
		opts = &FSOptions{}
	}
	if opts.ProjectDir == "" {
		opts.ProjectDir = "testproject"
	}

	env := testenv.New(h.T)

	projectDir := filepath.Join(env.Dirs.Base, opts.ProjectDir)
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		h.T.Fatalf("harness: creating project dir %s: %v", projectDir, err)
	}

	prevDir, err := os.Getwd()
	if err != nil {
		h.T.Fatalf("harness: getting cwd: %v", err)
	}
	if err := os.Chdir(projectDir); err != nil {
		h.T.Fatalf("harness: chdir to project dir: %v", err)
	}
	h.T.Cleanup(func() {
		_ = os.Chdir(prevDir)
	})

	return &SetupResult{
		BaseDir:    env.Dirs.Base,
		ProjectDir: projectDir,
		ImagesDir:  env.Dirs.Images,
		OutputDir:  env.Dirs.Output,
	}
}

// WriteFile writes a file under the images root, creating parent dirs.
func (r *SetupResult) WriteFile(t *testing.T, relPath, content string) string {
	t.Helper()
	path := filepath.Join(r.ImagesDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("harness: creating dir for %s: %v", relPath, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("harness: writing %s: %v", relPath, err)
	}
	return path
}

// Run executes a CLI command through the full cmd.NewRootCmd Cobra pipeline.
func (h *Harness) Run(args ...string) *RunResult {
	h.T.Helper()

	rootCmd := cmd.NewRootCmd("test", "test")

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	exitCode := 0
	if err != nil {
		exitCode = 1
	}

	return &RunResult{ExitCode: exitCode, Err: err, Stdout: stdout.String(), Stderr: stderr.String()}
}
