// Package rootfs discovers layered filesystem overlay directories and
// merges them into a single tree with last-writer-wins semantics.
package rootfs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Dir is the conventional overlay directory name at every level.
const Dir = "rootfs"

// CollectPaths returns the existing overlay directories for a tag in merge
// order, lowest precedence first: image-level, version-level, then the
// variant level when variantName is set. Missing levels are omitted.
func CollectPaths(imageRoot, versionRoot, variantName string) []string {
	candidates := []string{
		filepath.Join(imageRoot, Dir),
		filepath.Join(versionRoot, Dir),
	}
	if variantName != "" {
		candidates = append(candidates, filepath.Join(versionRoot, variantName, Dir))
	}

	var paths []string
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			paths = append(paths, candidate)
		}
	}
	return paths
}

// HasContent reports whether any regular file or symlink exists under the
// given paths. A tree of empty directories counts as no content and triggers
// no overlay injection.
func HasContent(paths []string) bool {
	for _, root := range paths {
		found := false
		_ = filepath.WalkDir(root, func(_ string, entry fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if entry.Type()&fs.ModeSymlink != 0 || entry.Type().IsRegular() {
				found = true
				return fs.SkipAll
			}
			return nil
		})
		if found {
			return true
		}
	}
	return false
}

// Merge walks each overlay in precedence order and writes it into dest. An
// entry from a later overlay fully replaces whatever an earlier one wrote at
// the same relative path, including a file replacing a symlink and vice
// versa. Directories are unioned. Symlinks are recreated with their original
// target string, never dereferenced.
func Merge(paths []string, dest string) error {
	if len(paths) == 0 {
		return nil
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create merge destination %s: %w", dest, err)
	}

	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == root {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			target := filepath.Join(dest, rel)

			switch {
			case entry.Type()&fs.ModeSymlink != 0:
				return writeSymlink(path, target)
			case entry.Type().IsRegular():
				return copyFile(path, target)
			case entry.IsDir():
				return os.MkdirAll(target, 0o755)
			default:
				// Sockets, devices etc. have no place in an image overlay.
				return nil
			}
		})
		if err != nil {
			return fmt.Errorf("merge overlay %s: %w", root, err)
		}
	}

	return nil
}

// SensitiveFiles returns advisory warnings for secret-looking file names
// anywhere under root. Findings never block a merge.
func SensitiveFiles(root string) []string {
	patterns := []string{".env", "*.key", "*.pem", "*.p12", "*.pfx", "id_rsa", "id_ed25519"}

	var warnings []string
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		for _, pattern := range patterns {
			if matched, _ := filepath.Match(pattern, entry.Name()); matched {
				warnings = append(warnings, fmt.Sprintf("potentially sensitive file in rootfs: %s", path))
				break
			}
		}
		return nil
	})
	return warnings
}

func writeSymlink(source, target string) error {
	linkTarget, err := os.Readlink(source)
	if err != nil {
		return fmt.Errorf("read symlink %s: %w", source, err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := removeExisting(target); err != nil {
		return err
	}
	if err := os.Symlink(linkTarget, target); err != nil {
		return fmt.Errorf("write symlink %s: %w", target, err)
	}
	return nil
}

func copyFile(source, target string) error {
	info, err := os.Stat(source)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := removeExisting(target); err != nil {
		return err
	}

	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open overlay file %s: %w", source, err)
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create merged file %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy overlay file %s: %w", target, err)
	}
	return out.Close()
}

// removeExisting clears whatever occupies target so a later overlay level
// can change the entry type. Lstat so dangling symlinks are seen too.
func removeExisting(target string) error {
	if _, err := os.Lstat(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.RemoveAll(target)
}
