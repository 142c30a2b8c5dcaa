// Package graph extracts inter-image build dependencies from rendered
// Dockerfile text and computes a global build order.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/distribution/reference"
	"github.com/samber/lo"
)

// RenderedImage is the graph resolver's view of one image: its name and the
// rendered build-instruction text of every tag, plus an optional explicit
// extends dependency.
type RenderedImage struct {
	Name         string
	Instructions []string
	Extends      string
}

// CycleError reports a dependency cycle. Remaining lists every image left
// unsorted so the operator can locate the cycle; no partial order exists.
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle between images: %s", strings.Join(e.Remaining, ", "))
}

// ExtractRefs returns the names from known that the rendered Dockerfile text
// references as a build base, via FROM instructions or COPY/ADD --from
// flags. Extraction is purely syntactic: a matching name is recorded even if
// the referenced tag would not resolve. Build-stage aliases introduced with
// AS never count as references, and external images not present in known are
// ignored.
func ExtractRefs(rendered string, known map[string]struct{}) []string {
	stages := make(map[string]struct{})
	refs := make(map[string]struct{})

	record := func(raw string) {
		if _, isStage := stages[strings.ToLower(raw)]; isStage {
			return
		}
		name, ok := imageName(raw)
		if !ok {
			return
		}
		if _, matches := known[name]; matches {
			refs[name] = struct{}{}
		}
	}

	for _, line := range strings.Split(rendered, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 {
			continue
		}

		switch strings.ToUpper(fields[0]) {
		case "FROM":
			args := lo.Filter(fields[1:], func(field string, _ int) bool {
				return !strings.HasPrefix(field, "--")
			})
			if len(args) == 0 {
				continue
			}
			record(args[0])
			if len(args) == 3 && strings.EqualFold(args[1], "AS") {
				stages[strings.ToLower(args[2])] = struct{}{}
			}
		case "COPY", "ADD":
			for _, field := range fields[1:] {
				if source, found := strings.CutPrefix(field, "--from="); found {
					record(source)
				}
			}
		}
	}

	names := lo.Keys(refs)
	sort.Strings(names)
	return names
}

// imageName normalizes a Dockerfile reference down to its familiar
// repository name (e.g. "python:3.13" -> "python"), dropping tag and digest.
func imageName(raw string) (string, bool) {
	named, err := reference.ParseNormalizedNamed(raw)
	if err != nil {
		// Stage numbers in --from=0 and template leftovers are not
		// references; they simply contribute no edge.
		return "", false
	}
	return reference.FamiliarName(reference.TrimNamed(named)), true
}

// BuildOrder computes the global build order for a set of rendered images:
// dependencies come before dependents, ties break by input order. A cycle
// yields a CycleError and no order.
func BuildOrder(images []RenderedImage) ([]string, error) {
	dag := NewDirectedAcyclicGraph()

	for _, image := range images {
		if err := dag.AddVertex(image.Name); err != nil {
			return nil, err
		}
	}

	known := lo.SliceToMap(images, func(image RenderedImage) (string, struct{}) {
		return image.Name, struct{}{}
	})

	for _, image := range images {
		deps := make(map[string]struct{})
		for _, instructions := range image.Instructions {
			for _, ref := range ExtractRefs(instructions, known) {
				deps[ref] = struct{}{}
			}
		}
		if image.Extends != "" {
			if _, ok := known[image.Extends]; ok {
				deps[image.Extends] = struct{}{}
			}
		}

		for dep := range deps {
			dag.AddDependency(image.Name, dep)
		}
	}

	return dag.TopologicalSort()
}
