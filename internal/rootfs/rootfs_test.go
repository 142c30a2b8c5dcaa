package rootfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(raw)
}

func TestCollectPathsPrecedenceOrder(t *testing.T) {
	base := t.TempDir()
	imageRoot := filepath.Join(base, "python")
	versionRoot := filepath.Join(base, "python", "3")

	require.NoError(t, os.MkdirAll(filepath.Join(imageRoot, Dir), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(versionRoot, Dir), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(versionRoot, "browser", Dir), 0o755))

	paths := CollectPaths(imageRoot, versionRoot, "browser")

	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(imageRoot, Dir), paths[0])
	assert.Equal(t, filepath.Join(versionRoot, Dir), paths[1])
	assert.Equal(t, filepath.Join(versionRoot, "browser", Dir), paths[2])
}

func TestCollectPathsOmitsMissingLevels(t *testing.T) {
	base := t.TempDir()
	imageRoot := filepath.Join(base, "python")
	versionRoot := filepath.Join(base, "python", "3")

	require.NoError(t, os.MkdirAll(filepath.Join(versionRoot, Dir), 0o755))

	paths := CollectPaths(imageRoot, versionRoot, "browser")

	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(versionRoot, Dir), paths[0])
}

func TestCollectPathsSkipsVariantWithoutName(t *testing.T) {
	base := t.TempDir()
	imageRoot := filepath.Join(base, "python")
	versionRoot := filepath.Join(base, "python", "3")

	require.NoError(t, os.MkdirAll(filepath.Join(versionRoot, "browser", Dir), 0o755))

	assert.Empty(t, CollectPaths(imageRoot, versionRoot, ""))
}

func TestHasContentIgnoresEmptyDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "etc", "empty"), 0o755))

	assert.False(t, HasContent([]string{root}))

	writeFile(t, root, "etc/config", "data")
	assert.True(t, HasContent([]string{root}))
}

func TestHasContentCountsSymlinks(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "etc"), 0o755))
	require.NoError(t, os.Symlink("/target", filepath.Join(root, "etc", "link")))

	assert.True(t, HasContent([]string{root}))
}

func TestMergeLastWriterWins(t *testing.T) {
	levelA := t.TempDir()
	levelB := t.TempDir()
	dest := filepath.Join(t.TempDir(), "merged")

	writeFile(t, levelA, "etc/config", "from A")
	writeFile(t, levelA, "etc/only-a", "only A")
	writeFile(t, levelB, "etc/config", "from B")

	require.NoError(t, Merge([]string{levelA, levelB}, dest))

	assert.Equal(t, "from B", readFile(t, dest, "etc/config"))
	assert.Equal(t, "only A", readFile(t, dest, "etc/only-a"))
}

func TestMergeUnionsDirectories(t *testing.T) {
	levelA := t.TempDir()
	levelB := t.TempDir()
	dest := filepath.Join(t.TempDir(), "merged")

	writeFile(t, levelA, "usr/local/bin/a.sh", "a")
	writeFile(t, levelB, "usr/local/bin/b.sh", "b")

	require.NoError(t, Merge([]string{levelA, levelB}, dest))

	assert.Equal(t, "a", readFile(t, dest, "usr/local/bin/a.sh"))
	assert.Equal(t, "b", readFile(t, dest, "usr/local/bin/b.sh"))
}

func TestMergePreservesSymlinks(t *testing.T) {
	level := t.TempDir()
	dest := filepath.Join(t.TempDir(), "merged")

	require.NoError(t, os.MkdirAll(filepath.Join(level, "etc"), 0o755))
	require.NoError(t, os.Symlink("../usr/share/zoneinfo/UTC", filepath.Join(level, "etc", "localtime")))

	require.NoError(t, Merge([]string{level}, dest))

	target, err := os.Readlink(filepath.Join(dest, "etc", "localtime"))
	require.NoError(t, err)
	assert.Equal(t, "../usr/share/zoneinfo/UTC", target)
}

func TestMergeFileReplacesSymlinkAndViceVersa(t *testing.T) {
	levelA := t.TempDir()
	levelB := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(levelA, "etc"), 0o755))
	require.NoError(t, os.Symlink("/old", filepath.Join(levelA, "etc", "config")))
	writeFile(t, levelB, "etc/config", "regular file")

	dest := filepath.Join(t.TempDir(), "merged")
	require.NoError(t, Merge([]string{levelA, levelB}, dest))

	info, err := os.Lstat(filepath.Join(dest, "etc", "config"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
	assert.Equal(t, "regular file", readFile(t, dest, "etc/config"))

	// And the other direction: a symlink at a later level replaces a file.
	reversed := filepath.Join(t.TempDir(), "merged")
	require.NoError(t, Merge([]string{levelB, levelA}, reversed))

	info, err = os.Lstat(filepath.Join(reversed, "etc", "config"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
}

func TestMergeEmptyLevelDoesNotChangeResult(t *testing.T) {
	level := t.TempDir()
	empty := t.TempDir()

	writeFile(t, level, "etc/config", "data")

	withEmpty := filepath.Join(t.TempDir(), "merged-a")
	require.NoError(t, Merge([]string{level, empty}, withEmpty))

	withoutEmpty := filepath.Join(t.TempDir(), "merged-b")
	require.NoError(t, Merge([]string{level}, withoutEmpty))

	assert.Equal(t, readFile(t, withoutEmpty, "etc/config"), readFile(t, withEmpty, "etc/config"))
}

func TestMergeNoPathsWritesNothing(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "merged")

	require.NoError(t, Merge(nil, dest))

	_, err := os.Stat(dest)
	assert.True(t, os.IsNotExist(err))
}

func TestSensitiveFilesFindsSecretPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "home/app/.env", "SECRET=1")
	writeFile(t, root, "etc/ssl/server.key", "key material")
	writeFile(t, root, "root/.ssh/id_rsa", "private")
	writeFile(t, root, "etc/motd", "hello")

	warnings := SensitiveFiles(root)

	require.Len(t, warnings, 3)
	for _, warning := range warnings {
		assert.Contains(t, warning, "potentially sensitive file")
	}
}

func TestSensitiveFilesEmptyTree(t *testing.T) {
	assert.Empty(t, SensitiveFiles(t.TempDir()))
}
