package graph

import "fmt"

// DirectedAcyclicGraph is a string-keyed dependency graph. Vertices remember
// insertion order so topological sorts are deterministic across runs.
type DirectedAcyclicGraph struct {
	vertices map[string]map[string]struct{}
	order    []string
}

func NewDirectedAcyclicGraph() *DirectedAcyclicGraph {
	return &DirectedAcyclicGraph{vertices: make(map[string]map[string]struct{})}
}

// AddVertex registers a node. Duplicate names are an error; the caller's
// image set must be unique.
func (d *DirectedAcyclicGraph) AddVertex(name string) error {
	if _, exists := d.vertices[name]; exists {
		return fmt.Errorf("duplicate image name in dependency graph: %q", name)
	}
	d.vertices[name] = make(map[string]struct{})
	d.order = append(d.order, name)
	return nil
}

// AddDependency records that from depends on to. Unknown vertices are
// ignored (references to external images carry no edge). Self-edges are
// recorded but never block sorting: variant instructions reference their
// own image's base tag, which is not a build-order constraint.
func (d *DirectedAcyclicGraph) AddDependency(from, to string) {
	deps, ok := d.vertices[from]
	if !ok {
		return
	}
	if _, ok := d.vertices[to]; !ok {
		return
	}
	deps[to] = struct{}{}
}

// TopologicalSort runs Kahn's algorithm: repeatedly emit the first vertex in
// insertion order whose dependencies are all satisfied. If vertices remain
// once no candidate is left, the graph has a cycle and no partial order is
// returned.
func (d *DirectedAcyclicGraph) TopologicalSort() ([]string, error) {
	sorted := make([]string, 0, len(d.vertices))
	emitted := make(map[string]struct{}, len(d.vertices))

	for len(sorted) < len(d.vertices) {
		progressed := false
		for _, name := range d.order {
			if _, done := emitted[name]; done {
				continue
			}
			if !d.satisfied(name, emitted) {
				continue
			}
			sorted = append(sorted, name)
			emitted[name] = struct{}{}
			progressed = true
		}

		if !progressed {
			var remaining []string
			for _, name := range d.order {
				if _, done := emitted[name]; !done {
					remaining = append(remaining, name)
				}
			}
			return nil, &CycleError{Remaining: remaining}
		}
	}

	return sorted, nil
}

func (d *DirectedAcyclicGraph) satisfied(name string, emitted map[string]struct{}) bool {
	for dep := range d.vertices[name] {
		if dep == name {
			continue
		}
		if _, done := emitted[dep]; !done {
			return false
		}
	}
	return true
}
