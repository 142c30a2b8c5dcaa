package cmd

import (
	"errors"
	"fmt"

	"github.com/timo-reymann/poc-container-image-manager/internal/config"
	"github.com/timo-reymann/poc-container-image-manager/internal/model"
)

// loadImages discovers and resolves every image definition under the images
// root. Configuration errors across sibling images are collected and
// reported together instead of stopping at the first broken definition.
func loadImages(imagesDir string) ([]model.Image, error) {
	defs, loadErrs := config.Discover(imagesDir)

	images, resolveErrs := model.ResolveAll(defs)

	errs := append(loadErrs, resolveErrs...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("resolving image definitions in %s:\n%w", imagesDir, errors.Join(errs...))
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("no image definitions found in %s", imagesDir)
	}

	return images, nil
}
