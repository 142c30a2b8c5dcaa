// Package render expands Dockerfile and test-manifest templates for
// resolved tags and writes the per-tag artifact tree.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/timo-reymann/poc-container-image-manager/internal/model"
)

// Context carries everything one template expansion can see: the image, the
// concrete tag, the variant when rendering a variant tag, and the full image
// set for base-image resolution. SnapshotID suffixes internal base
// references for branch builds.
type Context struct {
	Image      model.Image
	Tag        model.Tag
	Variant    *model.Variant
	All        []model.Image
	SnapshotID string
}

// Dockerfile expands the tag's template. Templates reference merged data as
// {{ version "python" }} and internal bases as {{ baseImage "ubuntu" }};
// unknown names fail the render.
func Dockerfile(ctx Context) (string, error) {
	path := ctx.Image.TemplatePath
	if ctx.Variant != nil {
		path = ctx.Variant.TemplatePath
	}
	return expand(path, ctx)
}

// TestConfig expands the image's container test manifest template, when the
// image carries one.
func TestConfig(ctx Context) (string, bool, error) {
	path := filepath.Join(ctx.Image.Path, model.TestConfigTemplateName)
	if _, err := os.Stat(path); err != nil {
		return "", false, nil
	}

	rendered, err := expand(path, ctx)
	if err != nil {
		return "", false, err
	}
	return rendered, true, nil
}

func expand(path string, ctx Context) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}

	tpl, err := template.New(filepath.Base(path)).Funcs(template.FuncMap{
		"baseImage": resolveBaseImage(ctx),
		"version":   resolveVersion(ctx),
	}).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", path, err)
	}

	var out strings.Builder
	if err := tpl.Execute(&out, templateData(ctx)); err != nil {
		return "", fmt.Errorf("render template %s: %w", path, err)
	}
	return out.String(), nil
}

func templateData(ctx Context) map[string]any {
	data := map[string]any{
		"Image":                  ctx.Image,
		"Tag":                    ctx.Tag,
		"FullQualifiedImageName": ctx.Image.Name + ":" + ctx.Tag.Name,
	}

	if ctx.Variant != nil {
		data["Variant"] = *ctx.Variant
		// Variant builds layer on their own image's base tag, which is the
		// variant tag name minus the suffix.
		baseTag := strings.TrimSuffix(ctx.Tag.Name, ctx.Variant.TagSuffix)
		data["BaseImage"] = ctx.Image.Name + ":" + baseTag
	}

	return data
}

// resolveBaseImage maps an image name to the fully qualified reference of
// the matching base image in the resolved set.
func resolveBaseImage(ctx Context) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, image := range ctx.All {
			if image.Name != name || !image.IsBaseImage {
				continue
			}
			ref, ok := image.FullQualifiedBaseImageName()
			if !ok {
				return "", fmt.Errorf("base image %q must declare exactly one tag", name)
			}
			if ctx.SnapshotID != "" {
				ref += "-" + ctx.SnapshotID
			}
			return ref, nil
		}
		return "", fmt.Errorf("could not resolve base image %q", name)
	}
}

// resolveVersion looks a version up in the tag's merged version map.
func resolveVersion(ctx Context) func(string) (string, error) {
	return func(name string) (string, error) {
		if value, ok := ctx.Tag.Versions[name]; ok {
			return value, nil
		}
		return "", fmt.Errorf("could not resolve version %q for tag %s", name, ctx.Tag.Name)
	}
}
