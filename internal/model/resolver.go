package model

import (
	"errors"

	"github.com/samber/lo"

	"github.com/timo-reymann/poc-container-image-manager/internal/config"
)

// Resolve turns a validated image definition into a fully computed Image.
// It is deterministic and touches the filesystem only to locate templates.
//
// Override cascades run along two independent paths: base tags merge
// image -> tag, variant tags merge image -> variant. A variant tag never
// inherits a sibling base tag's overrides.
func Resolve(def config.ImageDefinition) (Image, error) {
	dir := templatesDir(def.Path)

	templatePath, err := resolveTemplate(dir, def.Template, "")
	if err != nil {
		return Image{}, decorate(err, def.Name, "")
	}

	baseTags := lo.Map(def.Tags, func(tag config.TagDefinition, _ int) Tag {
		return Tag{
			Name:       tag.Name,
			Versions:   Merge(def.Versions, tag.Versions),
			Variables:  Merge(def.Variables, tag.Variables),
			RootfsUser: resolveRootfsUser(tag.RootfsUser, def.RootfsUser),
			RootfsCopy: resolveRootfsCopy(tag.RootfsCopy, def.RootfsCopy),
		}
	})

	baseTagNames := lo.Map(baseTags, func(tag Tag, _ int) string { return tag.Name })
	aliases := Aliases(baseTagNames)

	variants := make([]Variant, 0, len(def.Variants))
	for _, variantDef := range def.Variants {
		variant, err := resolveVariant(def, variantDef, baseTags, dir)
		if err != nil {
			return Image{}, err
		}
		variants = append(variants, variant)
	}

	return Image{
		Name:         def.Name,
		Path:         def.Path,
		TemplatePath: templatePath,
		Versions:     def.Versions,
		Variables:    def.Variables,
		Tags:         baseTags,
		Variants:     variants,
		Aliases:      aliases,
		IsBaseImage:  def.IsBaseImage,
		Extends:      def.Extends,
		RootfsUser:   resolveRootfsUser(def.RootfsUser),
		RootfsCopy:   resolveRootfsCopy(def.RootfsCopy),
	}, nil
}

// ResolveAll resolves every definition, collecting configuration errors so
// one broken image does not hide the rest.
func ResolveAll(defs []config.ImageDefinition) ([]Image, []error) {
	images := make([]Image, 0, len(defs))
	var errs []error

	for _, def := range defs {
		image, err := Resolve(def)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		images = append(images, image)
	}

	return images, errs
}

func resolveVariant(def config.ImageDefinition, variantDef config.VariantDefinition, baseTags []Tag, dir string) (Variant, error) {
	templatePath, err := resolveTemplate(dir, variantDef.Template, variantDef.Name)
	if err != nil {
		return Variant{}, decorate(err, def.Name, variantDef.Name)
	}

	// Variant tags inherit image- and variant-level overrides only; the
	// base tag contributes nothing but its name.
	versions := Merge(def.Versions, variantDef.Versions)
	variables := Merge(def.Variables, variantDef.Variables)
	rootfsUser := resolveRootfsUser(variantDef.RootfsUser, def.RootfsUser)
	rootfsCopy := resolveRootfsCopy(variantDef.RootfsCopy, def.RootfsCopy)

	tags := lo.Map(baseTags, func(base Tag, _ int) Tag {
		return Tag{
			Name:       base.Name + variantDef.TagSuffix,
			Versions:   versions,
			Variables:  variables,
			RootfsUser: rootfsUser,
			RootfsCopy: rootfsCopy,
		}
	})

	tagNames := lo.Map(tags, func(tag Tag, _ int) string { return tag.Name })

	return Variant{
		Name:         variantDef.Name,
		TagSuffix:    variantDef.TagSuffix,
		TemplatePath: templatePath,
		Tags:         tags,
		Aliases:      SuffixedAliases(tagNames, variantDef.TagSuffix),
		RootfsUser:   rootfsUser,
		RootfsCopy:   rootfsCopy,
	}, nil
}

// decorate stamps the owning image and variant onto template lookup errors
// so the operator sees which definition failed.
func decorate(err error, image, variant string) error {
	var notFound *TemplateNotFoundError
	if errors.As(err, &notFound) {
		notFound.Image = image
		notFound.Variant = variant
	}
	return err
}
