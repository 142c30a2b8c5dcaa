package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/timo-reymann/poc-container-image-manager/internal/model"
	"github.com/timo-reymann/poc-container-image-manager/internal/rootfs"
)

// Options configures a Generate run over the full resolved image set.
type Options struct {
	Images     []model.Image
	OutputDir  string
	SnapshotID string
	// Cleanup removes output directories for images no longer defined.
	Cleanup bool
	Logger  *slog.Logger
}

// Result maps every image name to the rendered Dockerfile text of each of
// its tags, in resolution order. The dependency graph resolver consumes it.
type Result struct {
	Rendered map[string][]string
}

// Generate writes the artifact tree for every resolved image:
//
//	<out>/<image>/<tag>/Dockerfile
//	<out>/<image>/<tag>/test.yml        (when the image has a test template)
//	<out>/<image>/<tag>/rootfs/...      (merged overlays, when any have content)
//	<out>/<image>/<alias>               (file containing the target tag name)
//
// and returns the rendered Dockerfile texts for build ordering.
func Generate(opts Options) (*Result, error) {
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	result := &Result{Rendered: make(map[string][]string, len(opts.Images))}

	for _, image := range opts.Images {
		contexts := tagContexts(image, opts.Images, opts.SnapshotID)

		for _, ctx := range contexts {
			rendered, err := writeTag(ctx, opts.OutputDir, logger)
			if err != nil {
				return nil, err
			}
			result.Rendered[image.Name] = append(result.Rendered[image.Name], rendered)
		}

		if err := writeAliases(image, opts.OutputDir); err != nil {
			return nil, err
		}
	}

	if opts.Cleanup {
		keep := make(map[string]struct{}, len(opts.Images))
		for _, image := range opts.Images {
			keep[image.Name] = struct{}{}
		}
		if err := cleanupObsolete(opts.OutputDir, keep); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// tagContexts enumerates every renderable tag of an image: base tags first,
// then each variant's tags in declaration order.
func tagContexts(image model.Image, all []model.Image, snapshotID string) []Context {
	var contexts []Context
	for _, tag := range image.Tags {
		contexts = append(contexts, Context{Image: image, Tag: tag, All: all, SnapshotID: snapshotID})
	}
	for i := range image.Variants {
		variant := &image.Variants[i]
		for _, tag := range variant.Tags {
			contexts = append(contexts, Context{Image: image, Tag: tag, Variant: variant, All: all, SnapshotID: snapshotID})
		}
	}
	return contexts
}

func writeTag(ctx Context, outputDir string, logger *slog.Logger) (string, error) {
	rendered, err := Dockerfile(ctx)
	if err != nil {
		return "", fmt.Errorf("render %s:%s: %w", ctx.Image.Name, ctx.Tag.Name, err)
	}

	tagDir := filepath.Join(outputDir, ctx.Image.Name, ctx.Tag.Name)
	if err := os.MkdirAll(tagDir, 0o755); err != nil {
		return "", fmt.Errorf("create output path %q: %w", tagDir, err)
	}

	dockerfilePath := filepath.Join(tagDir, "Dockerfile")
	if err := os.WriteFile(dockerfilePath, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write dockerfile %q: %w", dockerfilePath, err)
	}

	testConfig, hasTests, err := TestConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("render test config %s:%s: %w", ctx.Image.Name, ctx.Tag.Name, err)
	}
	if hasTests {
		testPath := filepath.Join(tagDir, "test.yml")
		if err := os.WriteFile(testPath, []byte(testConfig), 0o644); err != nil {
			return "", fmt.Errorf("write test config %q: %w", testPath, err)
		}
	}

	if err := mergeRootfs(ctx, tagDir, logger); err != nil {
		return "", err
	}

	return rendered, nil
}

func mergeRootfs(ctx Context, tagDir string, logger *slog.Logger) error {
	if !ctx.Tag.RootfsCopy {
		return nil
	}

	variantName := ""
	if ctx.Variant != nil {
		variantName = ctx.Variant.Name
	}

	imageRoot := filepath.Dir(ctx.Image.Path)
	paths := rootfs.CollectPaths(imageRoot, ctx.Image.Path, variantName)
	if !rootfs.HasContent(paths) {
		return nil
	}

	dest := filepath.Join(tagDir, rootfs.Dir)
	if err := rootfs.Merge(paths, dest); err != nil {
		return fmt.Errorf("merge rootfs for %s:%s: %w", ctx.Image.Name, ctx.Tag.Name, err)
	}

	for _, warning := range rootfs.SensitiveFiles(dest) {
		logger.Warn(warning, "image", ctx.Image.Name, "tag", ctx.Tag.Name)
	}

	return nil
}

// writeAliases materializes the image's alias maps as plain files next to
// the tag directories: <out>/<image>/<alias> holds the target tag name so
// downstream tooling can follow an alias without re-resolving the model.
func writeAliases(image model.Image, outputDir string) error {
	imageDir := filepath.Join(outputDir, image.Name)
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return fmt.Errorf("create output path %q: %w", imageDir, err)
	}

	all := make(map[string]string, len(image.Aliases))
	for alias, target := range image.Aliases {
		all[alias] = target
	}
	for _, variant := range image.Variants {
		for alias, target := range variant.Aliases {
			all[alias] = target
		}
	}

	for alias, target := range all {
		path := filepath.Join(imageDir, alias)
		if err := os.WriteFile(path, []byte(target), 0o644); err != nil {
			return fmt.Errorf("write alias %q: %w", path, err)
		}
	}

	return nil
}

func cleanupObsolete(outputDir string, keep map[string]struct{}) error {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return fmt.Errorf("read output directory for cleanup: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := keep[entry.Name()]; ok {
			continue
		}

		if err := os.RemoveAll(filepath.Join(outputDir, entry.Name())); err != nil {
			return fmt.Errorf("remove obsolete output dir %q: %w", entry.Name(), err)
		}
	}

	return nil
}
