package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/timo-reymann/poc-container-image-manager/internal/model"
)

// resolvedView is the stable YAML shape printed by the resolve command.
type resolvedView struct {
	Name     string            `yaml:"name"`
	Template string            `yaml:"template"`
	Tags     []tagView         `yaml:"tags"`
	Aliases  map[string]string `yaml:"aliases,omitempty"`
	Variants []variantView     `yaml:"variants,omitempty"`
}

type tagView struct {
	Name       string            `yaml:"name"`
	Versions   map[string]string `yaml:"versions,omitempty"`
	Variables  map[string]string `yaml:"variables,omitempty"`
	RootfsUser string            `yaml:"rootfs_user"`
	RootfsCopy bool              `yaml:"rootfs_copy"`
}

type variantView struct {
	Name     string            `yaml:"name"`
	Template string            `yaml:"template"`
	Tags     []tagView         `yaml:"tags"`
	Aliases  map[string]string `yaml:"aliases,omitempty"`
}

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [image...]",
		Short: "Print the fully resolved model for all (or selected) images",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := mergedOptions(cmd)
			if err != nil {
				return err
			}

			images, err := loadImages(opts.ImagesDir)
			if err != nil {
				return err
			}

			selected := filterImages(images, args)
			if len(selected) == 0 {
				return fmt.Errorf("no image matches %v", args)
			}

			views := make([]resolvedView, 0, len(selected))
			for _, image := range selected {
				views = append(views, viewOf(image))
			}

			encoder := yaml.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent(2)
			defer encoder.Close()
			return encoder.Encode(views)
		},
	}

	return cmd
}

func filterImages(images []model.Image, names []string) []model.Image {
	if len(names) == 0 {
		return images
	}

	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}

	var selected []model.Image
	for _, image := range images {
		if _, ok := wanted[image.Name]; ok {
			selected = append(selected, image)
		}
	}
	return selected
}

func viewOf(image model.Image) resolvedView {
	view := resolvedView{
		Name:     image.Name,
		Template: image.TemplatePath,
		Aliases:  image.Aliases,
	}

	for _, tag := range image.Tags {
		view.Tags = append(view.Tags, tagViewOf(tag))
	}

	for _, variant := range image.Variants {
		variantV := variantView{
			Name:     variant.Name,
			Template: variant.TemplatePath,
			Aliases:  variant.Aliases,
		}
		for _, tag := range variant.Tags {
			variantV.Tags = append(variantV.Tags, tagViewOf(tag))
		}
		view.Variants = append(view.Variants, variantV)
	}

	return view
}

func tagViewOf(tag model.Tag) tagView {
	return tagView{
		Name:       tag.Name,
		Versions:   tag.Versions,
		Variables:  tag.Variables,
		RootfsUser: tag.RootfsUser,
		RootfsCopy: tag.RootfsCopy,
	}
}
