package config

// DefaultRuntimeTemplate returns the annotated .image-manager.yml scaffold
// written by "image-manager config init".
func DefaultRuntimeTemplate() string {
	return `# image-manager configuration
#
# Precedence: flags > environment variables > config file > defaults
# Environment prefix: IMAGE_MANAGER_

# Root directory scanned for image.yml definitions
images: ./images

# Output root for generated artifacts:
# - <output>/<image>/<tag>/Dockerfile
# - <output>/<image>/<tag>/test.yml
# - <output>/<image>/<tag>/rootfs/
output: ./dist

# Suffix appended to internal base image references, for MR/branch builds
snapshot_id: ""

# Remove output directories of images that are no longer defined
cleanup: false

# Enable debug logging
debug: false
`
}

// DefaultImageTemplate returns the annotated image.yml scaffold written by
// "image-manager config init-image".
func DefaultImageTemplate() string {
	return `# image-manager image definition
#
# Place this file at images/<image>/<version>/image.yml.
# Templates are discovered in a sibling templates/ directory first
# (Dockerfile.tmpl, Dockerfile.<variant>.tmpl), then next to this file.

# Image name. Optional: derived from the directory layout when omitted
# (base images use the directory name, others the parent directory name).
name: ""

# Mark as base image so other images can reference it via the baseImage
# template function. Base images must declare exactly one tag.
is_base_image: false

# Name of another image this one builds on. Adds a build-order dependency
# in addition to any baseImage references found in the rendered Dockerfile.
extends: ""

# Image-level defaults, overridable per tag and per variant.
versions: {}
variables: {}

# Owner (uid:gid) and copy behavior for injected rootfs overlays.
rootfs_user: "0:0"
rootfs_copy: true

# Concrete buildable tags. Three-component semver names (e.g. 3.13.7)
# automatically produce major and major.minor aliases.
tags:
  - name: "1.0.0"
    versions: {}
    variables: {}

# Variants apply uniformly to every tag, producing suffixed tag names.
variants: []
#  - name: browser
#    tag_suffix: "-browser"
#    versions:
#      chromium: "120.0"
`
}
