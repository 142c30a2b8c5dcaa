package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timo-reymann/poc-container-image-manager/internal/model"
)

func catalogImages() []model.Image {
	return []model.Image{
		{
			Name:        "ubuntu",
			IsBaseImage: true,
			Tags:        []model.Tag{{Name: "24.04"}},
		},
		{
			Name: "python",
			Tags: []model.Tag{
				{Name: "3.13.7", Versions: map[string]string{"python": "3.13.7", "uv": "0.8.22"}},
				{Name: "3.13.6", Versions: map[string]string{"python": "3.13.6", "uv": "0.8.22"}},
			},
			Aliases: map[string]string{"3": "3.13.7", "3.13": "3.13.7"},
			Variants: []model.Variant{{
				Name:    "browser",
				Tags:    []model.Tag{{Name: "3.13.7-browser"}, {Name: "3.13.6-browser"}},
				Aliases: map[string]string{"3-browser": "3.13.7-browser"},
			}},
		},
	}
}

func TestCatalogListsImagesTagsAndAliases(t *testing.T) {
	outputDir := t.TempDir()

	path, err := Catalog(catalogImages(), outputDir, "mr-42")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, CatalogFile), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(raw)

	for _, expected := range []string{
		"Image Catalog",
		"Snapshot: mr-42",
		`id="ubuntu"`,
		`id="python"`,
		"base image",
		"3.13.7-browser",
		"3 &rarr; 3.13.7",
		"3-browser &rarr; 3.13.7-browser",
		"<th>python</th>",
		"<th>uv</th>",
	} {
		assert.Contains(t, html, expected)
	}
}

func TestCatalogOmitsSnapshotBadgeWhenUnset(t *testing.T) {
	outputDir := t.TempDir()

	path, err := Catalog(catalogImages(), outputDir, "")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Snapshot:")
}
