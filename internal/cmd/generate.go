package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timo-reymann/poc-container-image-manager/internal/render"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Resolve all images and generate build artifacts in dependency order",
		RunE:  runGenerate,
	}

	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	opts, err := mergedOptions(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(opts)

	images, err := loadImages(opts.ImagesDir)
	if err != nil {
		return err
	}
	logger.Debug("resolved image definitions", "count", len(images))

	result, err := render.Generate(render.Options{
		Images:     images,
		OutputDir:  opts.OutputDir,
		SnapshotID: opts.SnapshotID,
		Cleanup:    opts.Cleanup,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	order, err := buildOrder(images, result)
	if err != nil {
		return err
	}

	catalogPath, err := render.Catalog(images, opts.OutputDir, opts.SnapshotID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated artifacts for %d images in %s\n", len(images), opts.OutputDir)
	fmt.Fprintln(cmd.OutOrStdout(), "Build order:")
	for _, name := range order {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Image catalog: %s\n", catalogPath)
	return nil
}
