package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptCmd(input string) (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	stderr := &bytes.Buffer{}
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(input))
	return cmd, stderr
}

func TestConfirmWriteMissingTargetNeedsNoPrompt(t *testing.T) {
	cmd, stderr := promptCmd("")

	err := confirmWrite(cmd, false, filepath.Join(t.TempDir(), "new.yml"))

	require.NoError(t, err)
	assert.Empty(t, stderr.String())
}

func TestConfirmWriteRejectsDirectoryTarget(t *testing.T) {
	cmd, _ := promptCmd("")

	err := confirmWrite(cmd, true, t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestConfirmWriteExistingFileHonorsAnswer(t *testing.T) {
	target := filepath.Join(t.TempDir(), "existing.yml")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))

	cmd, stderr := promptCmd("yes\n")
	require.NoError(t, confirmWrite(cmd, false, target))
	assert.Contains(t, stderr.String(), "already exists")

	cmd, _ = promptCmd("n\n")
	require.Error(t, confirmWrite(cmd, false, target))

	// Empty answer defaults to no.
	cmd, _ = promptCmd("\n")
	require.Error(t, confirmWrite(cmd, false, target))
}

func TestConfirmWriteInlineSkipsPrompt(t *testing.T) {
	target := filepath.Join(t.TempDir(), "existing.yml")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))

	cmd, stderr := promptCmd("")
	require.NoError(t, confirmWrite(cmd, true, target))
	assert.Empty(t, stderr.String())
}
