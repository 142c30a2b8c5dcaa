package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/timo-reymann/poc-container-image-manager/internal/graph"
	"github.com/timo-reymann/poc-container-image-manager/internal/model"
	"github.com/timo-reymann/poc-container-image-manager/internal/render"
)

func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Print the global build order derived from FROM references",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := mergedOptions(cmd)
			if err != nil {
				return err
			}

			images, err := loadImages(opts.ImagesDir)
			if err != nil {
				return err
			}

			rendered, err := renderAll(images, opts.SnapshotID)
			if err != nil {
				return err
			}

			order, err := graph.BuildOrder(rendered)
			if err != nil {
				return err
			}

			for _, name := range order {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	return cmd
}

// renderAll expands every tag of every image in memory, without writing the
// artifact tree, for build-order computation.
func renderAll(images []model.Image, snapshotID string) ([]graph.RenderedImage, error) {
	rendered := make([]graph.RenderedImage, 0, len(images))

	for _, image := range images {
		entry := graph.RenderedImage{Name: image.Name, Extends: image.Extends}

		contexts := []render.Context{}
		for _, tag := range image.Tags {
			contexts = append(contexts, render.Context{Image: image, Tag: tag, All: images, SnapshotID: snapshotID})
		}
		for i := range image.Variants {
			variant := &image.Variants[i]
			for _, tag := range variant.Tags {
				contexts = append(contexts, render.Context{Image: image, Tag: tag, Variant: variant, All: images, SnapshotID: snapshotID})
			}
		}

		for _, ctx := range contexts {
			text, err := render.Dockerfile(ctx)
			if err != nil {
				return nil, fmt.Errorf("render %s:%s: %w", image.Name, ctx.Tag.Name, err)
			}
			entry.Instructions = append(entry.Instructions, text)
		}

		rendered = append(rendered, entry)
	}

	return rendered, nil
}

// buildOrder adapts an already-written Generate result for the sorter.
func buildOrder(images []model.Image, result *render.Result) ([]string, error) {
	rendered := lo.Map(images, func(image model.Image, _ int) graph.RenderedImage {
		return graph.RenderedImage{
			Name:         image.Name,
			Instructions: result.Rendered[image.Name],
			Extends:      image.Extends,
		}
	})
	return graph.BuildOrder(rendered)
}
