package render

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/timo-reymann/poc-container-image-manager/internal/model"
)

// CatalogFile is the report written into the output root.
const CatalogFile = "index.html"

type catalogAlias struct {
	Name   string
	Target string
}

type catalogVariant struct {
	Name    string
	Tags    []string
	Aliases []catalogAlias
}

type catalogImage struct {
	Name        string
	IsBaseImage bool
	Tags        []model.Tag
	VersionKeys []string
	Aliases     []catalogAlias
	Variants    []catalogVariant
}

type catalogData struct {
	Generated     string
	SnapshotID    string
	Images        []catalogImage
	TotalTags     int
	TotalVariants int
}

// Catalog writes an HTML overview of the resolved image set (tags, aliases,
// variants, version tables) to <out>/index.html and returns the path.
func Catalog(images []model.Image, outputDir, snapshotID string) (string, error) {
	data := catalogData{
		Generated:  time.Now().Format("2006-01-02 15:04:05"),
		SnapshotID: snapshotID,
	}

	for _, image := range images {
		data.TotalTags += len(image.Tags)
		data.TotalVariants += len(image.Variants)
		data.Images = append(data.Images, catalogImageOf(image))
	}

	path := filepath.Join(outputDir, CatalogFile)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create catalog %q: %w", path, err)
	}

	if err := catalogTemplate.Execute(out, data); err != nil {
		out.Close()
		return "", fmt.Errorf("render catalog: %w", err)
	}
	return path, out.Close()
}

func catalogImageOf(image model.Image) catalogImage {
	entry := catalogImage{
		Name:        image.Name,
		IsBaseImage: image.IsBaseImage,
		Tags:        image.Tags,
		Aliases:     sortedAliases(image.Aliases),
	}

	if len(image.Tags) > 0 {
		entry.VersionKeys = lo.Keys(image.Tags[0].Versions)
		sort.Strings(entry.VersionKeys)
	}

	for _, variant := range image.Variants {
		entry.Variants = append(entry.Variants, catalogVariant{
			Name: variant.Name,
			Tags: lo.Map(variant.Tags, func(tag model.Tag, _ int) string {
				return tag.Name
			}),
			Aliases: sortedAliases(variant.Aliases),
		})
	}

	return entry
}

func sortedAliases(aliases map[string]string) []catalogAlias {
	entries := make([]catalogAlias, 0, len(aliases))
	for name, target := range aliases {
		entries = append(entries, catalogAlias{Name: name, Target: target})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

var catalogTemplate = template.Must(template.New("catalog").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Image Catalog</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0; padding: 20px; background: #f5f5f5; }
.container { max-width: 1200px; margin: 0 auto; background: white; padding: 20px; border-radius: 8px; }
h2 { margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee; }
.meta { color: #666; margin-bottom: 20px; }
.stats { display: flex; gap: 20px; margin-bottom: 20px; }
.stat { background: #f0f0f0; padding: 15px; border-radius: 4px; min-width: 100px; }
.stat b { font-size: 24px; display: block; }
.tag { display: inline-block; background: #e0e7ff; color: #3730a3; padding: 4px 10px; border-radius: 4px; margin: 3px; font-family: monospace; }
.variant { display: inline-block; background: #fef3c7; color: #92400e; padding: 4px 10px; border-radius: 4px; margin: 3px; font-family: monospace; }
.alias { display: inline-block; background: #d1fae5; color: #065f46; padding: 4px 10px; border-radius: 4px; margin: 3px; font-family: monospace; }
.base-image { display: inline-block; background: #fee2e2; color: #991b1b; padding: 2px 8px; border-radius: 3px; font-size: 11px; }
.snapshot { background: #fef3c7; color: #92400e; padding: 2px 8px; border-radius: 3px; }
table { border-collapse: collapse; margin: 15px 0; }
th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #eee; }
</style>
</head>
<body>
<div class="container">
<h1>Image Catalog</h1>
<div class="meta">Generated: {{ .Generated }}{{ if .SnapshotID }} <span class="snapshot">Snapshot: {{ .SnapshotID }}</span>{{ end }}</div>
<div class="stats">
<div class="stat"><b>{{ len .Images }}</b>Images</div>
<div class="stat"><b>{{ .TotalTags }}</b>Tags</div>
<div class="stat"><b>{{ .TotalVariants }}</b>Variants</div>
</div>
<ul>
{{ range .Images }}<li><a href="#{{ .Name }}">{{ .Name }}</a> ({{ len .Tags }} tags){{ if .IsBaseImage }} <span class="base-image">base</span>{{ end }}</li>
{{ end }}</ul>
{{ range .Images }}<div>
<h2 id="{{ .Name }}">{{ .Name }}{{ if .IsBaseImage }} <span class="base-image">base image</span>{{ end }}</h2>
<p><strong>Tags:</strong></p>
<div>{{ range .Tags }}<span class="tag">{{ .Name }}</span>{{ end }}</div>
{{ if .Aliases }}<p><strong>Aliases:</strong></p>
<div>{{ range .Aliases }}<span class="alias">{{ .Name }} &rarr; {{ .Target }}</span>{{ end }}</div>
{{ end }}{{ if .Variants }}<p><strong>Variants:</strong></p>
{{ range .Variants }}<div style="margin-left: 20px;">
<strong>{{ .Name }}</strong><br>
{{ range .Tags }}<span class="variant">{{ . }}</span>{{ end }}
{{ if .Aliases }}<div>{{ range .Aliases }}<span class="alias">{{ .Name }} &rarr; {{ .Target }}</span>{{ end }}</div>{{ end }}
</div>
{{ end }}{{ end }}{{ if .VersionKeys }}<p><strong>Versions:</strong></p>
<table>
<thead><tr><th>Tag</th>{{ range .VersionKeys }}<th>{{ . }}</th>{{ end }}</tr></thead>
<tbody>
{{ $keys := .VersionKeys }}{{ range .Tags }}<tr><td>{{ .Name }}</td>{{ $tag := . }}{{ range $keys }}<td>{{ with index $tag.Versions . }}{{ . }}{{ else }}-{{ end }}</td>{{ end }}</tr>
{{ end }}</tbody>
</table>
{{ end }}</div>
{{ end }}</div>
</body>
</html>
`))
