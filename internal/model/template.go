package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultTemplateName is the fallback Dockerfile template.
	DefaultTemplateName = "Dockerfile.tmpl"
	// TestConfigTemplateName is the optional container test manifest template.
	TestConfigTemplateName = "test.yml.tmpl"
)

// TemplateNotFoundError is a configuration error: no template candidate
// exists for an image (and variant, when set).
type TemplateNotFoundError struct {
	Image    string
	Variant  string
	Dir      string
	Searched []string
}

func (e *TemplateNotFoundError) Error() string {
	subject := e.Image
	if e.Variant != "" {
		subject += " variant " + e.Variant
	}
	return fmt.Sprintf("no template found for %s: searched %s in %s", subject, strings.Join(e.Searched, ", "), e.Dir)
}

// templatesDir prefers a sibling templates/ directory over the image
// directory itself: images/python/3 -> images/python/templates when present.
func templatesDir(imagePath string) string {
	sibling := filepath.Join(filepath.Dir(imagePath), "templates")
	if info, err := os.Stat(sibling); err == nil && info.IsDir() {
		return sibling
	}
	return imagePath
}

// resolveTemplate picks the template path for an image or variant in strict
// priority order: an explicit relative path, the variant convention
// (Dockerfile.<variant>.tmpl), then the default Dockerfile.tmpl. The first
// existing candidate wins.
func resolveTemplate(dir, explicit, variantName string) (string, error) {
	if explicit != "" {
		path := filepath.Join(dir, explicit)
		if fileExists(path) {
			return path, nil
		}
		return "", &TemplateNotFoundError{Dir: dir, Searched: []string{explicit}}
	}

	var searched []string
	if variantName != "" {
		candidate := fmt.Sprintf("Dockerfile.%s.tmpl", variantName)
		searched = append(searched, candidate)
		if path := filepath.Join(dir, candidate); fileExists(path) {
			return path, nil
		}
	}

	searched = append(searched, DefaultTemplateName)
	if path := filepath.Join(dir, DefaultTemplateName); fileExists(path) {
		return path, nil
	}

	return "", &TemplateNotFoundError{Dir: dir, Searched: searched}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
