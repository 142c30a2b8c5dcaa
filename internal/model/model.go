// Package model resolves declarative image definitions into fully computed
// build models: merged override cascades, generated variant tags, semver
// aliases and discovered template paths.
package model

// Tag is a resolved tag with fully merged versions and variables and
// inherited rootfs policy.
type Tag struct {
	Name       string
	Versions   map[string]string
	Variables  map[string]string
	RootfsUser string
	RootfsCopy bool
}

// Variant is a resolved variant with its generated tags and aliases.
type Variant struct {
	Name         string
	TagSuffix    string
	TemplatePath string
	Tags         []Tag
	Aliases      map[string]string
	RootfsUser   string
	RootfsCopy   bool
}

// Image is the fully resolved model for one image definition. It is a pure
// derived value, recomputed on every resolution pass.
type Image struct {
	Name         string
	Path         string
	TemplatePath string
	Versions     map[string]string
	Variables    map[string]string
	Tags         []Tag
	Variants     []Variant
	Aliases      map[string]string
	IsBaseImage  bool
	Extends      string
	RootfsUser   string
	RootfsCopy   bool
}

// FullQualifiedBaseImageName returns "name:tag" for base images with
// exactly one tag.
func (i Image) FullQualifiedBaseImageName() (string, bool) {
	if !i.IsBaseImage || len(i.Tags) != 1 {
		return "", false
	}
	return i.Name + ":" + i.Tags[0].Name, true
}
