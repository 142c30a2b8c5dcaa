// Package config loads and validates declarative image definitions
// (image.yml) discovered under an images root.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefinitionFile is the per-image definition file name discovered under the
// images root.
const DefinitionFile = "image.yml"

// TagDefinition is one concrete version within an image. Versions and
// variables override the image-level maps; rootfs fields are tri-state
// (nil means inherit).
type TagDefinition struct {
	Name       string            `yaml:"name"`
	Versions   map[string]string `yaml:"versions"`
	Variables  map[string]string `yaml:"variables"`
	RootfsUser *string           `yaml:"rootfs_user"`
	RootfsCopy *bool             `yaml:"rootfs_copy"`
}

// VariantDefinition is a named transformation applied uniformly to all base
// tags of an image, producing suffixed tag names.
type VariantDefinition struct {
	Name       string            `yaml:"name"`
	TagSuffix  string            `yaml:"tag_suffix"`
	Template   string            `yaml:"template"`
	Versions   map[string]string `yaml:"versions"`
	Variables  map[string]string `yaml:"variables"`
	RootfsUser *string           `yaml:"rootfs_user"`
	RootfsCopy *bool             `yaml:"rootfs_copy"`
}

// ImageDefinition is the root of an image.yml file.
type ImageDefinition struct {
	Name        string              `yaml:"name"`
	Template    string              `yaml:"template"`
	Versions    map[string]string   `yaml:"versions"`
	Variables   map[string]string   `yaml:"variables"`
	Tags        []TagDefinition     `yaml:"tags"`
	Variants    []VariantDefinition `yaml:"variants"`
	IsBaseImage bool                `yaml:"is_base_image"`
	Extends     string              `yaml:"extends"`
	RootfsUser  *string             `yaml:"rootfs_user"`
	RootfsCopy  *bool               `yaml:"rootfs_copy"`

	// Path is the directory containing the definition file. Set by the
	// loader, not part of the YAML surface.
	Path string `yaml:"-"`
}

// ValidationError describes a fatal problem with a single image definition.
type ValidationError struct {
	Image  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid image definition %q: %s", e.Image, e.Reason)
}

// Load reads and validates a single image.yml file. The image name falls
// back to a directory-derived name when the definition omits it.
func Load(path string) (ImageDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ImageDefinition{}, fmt.Errorf("read image definition: %w", err)
	}

	def, err := FromBytes(raw)
	if err != nil {
		return ImageDefinition{}, fmt.Errorf("parse %s: %w", path, err)
	}

	def.Path = filepath.Dir(path)
	if def.Name == "" {
		def.Name = detectName(def)
	}

	if err := def.Validate(); err != nil {
		return ImageDefinition{}, err
	}

	return def, nil
}

// FromBytes parses an image definition without touching the filesystem.
// Callers that need name detection or validation use Load.
func FromBytes(raw []byte) (ImageDefinition, error) {
	var def ImageDefinition
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return ImageDefinition{}, fmt.Errorf("parse image definition YAML: %w", err)
	}
	return def, nil
}

// Discover walks root for image.yml files and loads each one. Load errors
// are collected per file so one broken definition does not hide the others.
func Discover(root string) ([]ImageDefinition, []error) {
	var defs []ImageDefinition
	var errs []error

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || entry.Name() != DefinitionFile {
			return nil
		}

		def, loadErr := Load(path)
		if loadErr != nil {
			errs = append(errs, loadErr)
			return nil
		}
		defs = append(defs, def)
		return nil
	})
	if walkErr != nil {
		errs = append(errs, fmt.Errorf("discover image definitions in %s: %w", root, walkErr))
	}

	return defs, errs
}

// Validate enforces the structural invariants of a definition: a name, at
// least one tag, unique tag names and unique variant suffixes.
func (d ImageDefinition) Validate() error {
	if d.Name == "" {
		return &ValidationError{Image: "(unnamed)", Reason: "name is empty and could not be derived from the path"}
	}

	if len(d.Tags) == 0 {
		return &ValidationError{Image: d.Name, Reason: "no tags defined, an image without tags cannot be built"}
	}

	seenTags := make(map[string]struct{}, len(d.Tags))
	for _, tag := range d.Tags {
		if tag.Name == "" {
			return &ValidationError{Image: d.Name, Reason: "tag with empty name"}
		}
		if _, dup := seenTags[tag.Name]; dup {
			return &ValidationError{Image: d.Name, Reason: fmt.Sprintf("duplicate tag %q", tag.Name)}
		}
		seenTags[tag.Name] = struct{}{}
	}

	seenSuffixes := make(map[string]string, len(d.Variants))
	for _, variant := range d.Variants {
		if variant.Name == "" {
			return &ValidationError{Image: d.Name, Reason: "variant with empty name"}
		}
		if variant.TagSuffix == "" {
			return &ValidationError{Image: d.Name, Reason: fmt.Sprintf("variant %q has an empty tag_suffix", variant.Name)}
		}
		if other, dup := seenSuffixes[variant.TagSuffix]; dup {
			return &ValidationError{
				Image:  d.Name,
				Reason: fmt.Sprintf("variants %q and %q share tag_suffix %q, tag names would be ambiguous", other, variant.Name, variant.TagSuffix),
			}
		}
		seenSuffixes[variant.TagSuffix] = variant.Name
	}

	return nil
}

// FullQualifiedBaseImageName returns "name:tag" for base images with exactly
// one tag. Other images cannot serve as an internal base reference target.
func (d ImageDefinition) FullQualifiedBaseImageName() (string, bool) {
	if !d.IsBaseImage || len(d.Tags) != 1 {
		return "", false
	}
	return d.Name + ":" + d.Tags[0].Name, true
}

// detectName derives an image name from the definition directory.
// Base images use the directory itself (images/base/ubuntu -> "ubuntu"),
// regular images use the parent (images/python/3 -> "python").
func detectName(def ImageDefinition) string {
	if def.Path == "" {
		return ""
	}

	dir := filepath.Clean(def.Path)
	if def.IsBaseImage || pathContainsBase(dir) {
		return filepath.Base(dir)
	}
	return filepath.Base(filepath.Dir(dir))
}

func pathContainsBase(dir string) bool {
	for _, part := range strings.Split(dir, string(filepath.Separator)) {
		if part == "base" {
			return true
		}
	}
	return false
}
