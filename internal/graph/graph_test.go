package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func known(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func TestExtractRefsFromInstruction(t *testing.T) {
	refs := ExtractRefs("FROM ubuntu:24.04\nRUN true\n", known("ubuntu", "python"))

	assert.Equal(t, []string{"ubuntu"}, refs)
}

func TestExtractRefsIgnoresExternalImages(t *testing.T) {
	rendered := "FROM debian:bookworm-slim\nFROM quay.io/prometheus/busybox:latest\n"

	assert.Empty(t, ExtractRefs(rendered, known("ubuntu")))
}

func TestExtractRefsMultiStage(t *testing.T) {
	rendered := `FROM golang:1.24 AS build
RUN go build ./...
FROM ubuntu:24.04
COPY --from=build /app /usr/local/bin/app
`

	// "build" is a stage alias, not an image reference.
	refs := ExtractRefs(rendered, known("ubuntu", "build"))
	assert.Equal(t, []string{"ubuntu"}, refs)
}

func TestExtractRefsCopyFromImage(t *testing.T) {
	rendered := "FROM scratch\nCOPY --from=toolbox:1.2.3 /tools /tools\n"

	refs := ExtractRefs(rendered, known("toolbox"))
	assert.Equal(t, []string{"toolbox"}, refs)
}

func TestExtractRefsRecordsMissingTagReferences(t *testing.T) {
	// The referenced tag does not exist anywhere, extraction stays purely
	// syntactic and still records the edge.
	refs := ExtractRefs("FROM ubuntu:no-such-tag\n", known("ubuntu"))

	assert.Equal(t, []string{"ubuntu"}, refs)
}

func TestExtractRefsHandlesPlatformFlag(t *testing.T) {
	refs := ExtractRefs("FROM --platform=linux/amd64 ubuntu:24.04 AS base\n", known("ubuntu"))

	assert.Equal(t, []string{"ubuntu"}, refs)
}

func TestBuildOrderChain(t *testing.T) {
	images := []RenderedImage{
		{Name: "c", Instructions: []string{"FROM b:1.0.0\n"}},
		{Name: "b", Instructions: []string{"FROM a:1.0.0\n"}},
		{Name: "a", Instructions: []string{"FROM debian:bookworm\n"}},
	}

	order, err := BuildOrder(images)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestBuildOrderIsDeterministic(t *testing.T) {
	images := []RenderedImage{
		{Name: "zeta", Instructions: []string{"FROM scratch\n"}},
		{Name: "alpha", Instructions: []string{"FROM scratch\n"}},
		{Name: "mid", Instructions: []string{"FROM zeta:1\n"}},
	}

	first, err := BuildOrder(images)
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		again, err := BuildOrder(images)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// Independent images keep input order.
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, first)
}

func TestBuildOrderExtendsAddsEdge(t *testing.T) {
	images := []RenderedImage{
		{Name: "app", Instructions: []string{"FROM debian:bookworm\n"}, Extends: "base"},
		{Name: "base", Instructions: []string{"FROM debian:bookworm\n"}},
	}

	order, err := BuildOrder(images)
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "app"}, order)
}

func TestBuildOrderCycleFailsWithAllNodes(t *testing.T) {
	images := []RenderedImage{
		{Name: "a", Instructions: []string{"FROM b:1.0.0\n"}},
		{Name: "b", Instructions: []string{"FROM a:1.0.0\n"}},
	}

	order, err := BuildOrder(images)
	require.Nil(t, order)

	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.ElementsMatch(t, []string{"a", "b"}, cycle.Remaining)
	assert.Contains(t, cycle.Error(), "a")
	assert.Contains(t, cycle.Error(), "b")
}

func TestBuildOrderCycleLeavesIndependentImagesSortable(t *testing.T) {
	images := []RenderedImage{
		{Name: "standalone", Instructions: []string{"FROM scratch\n"}},
		{Name: "a", Instructions: []string{"FROM b:1.0.0\n"}},
		{Name: "b", Instructions: []string{"FROM a:1.0.0\n"}},
	}

	_, err := BuildOrder(images)

	// No partial order: even though standalone could be built, the cycle
	// fails the whole resolution and names only the cyclic nodes.
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.ElementsMatch(t, []string{"a", "b"}, cycle.Remaining)
}

func TestBuildOrderSelfReferenceDoesNotBlockSorting(t *testing.T) {
	// Variant instructions reference their own image's base tag; that edge
	// is recorded but must never be reported as a cycle.
	images := []RenderedImage{
		{Name: "python", Instructions: []string{"FROM python:3.13.7\n"}},
		{Name: "app", Instructions: []string{"FROM python:3.13.7\n"}},
	}

	order, err := BuildOrder(images)
	require.NoError(t, err)

	assert.Equal(t, []string{"python", "app"}, order)
}

func TestBuildOrderDuplicateImageNamesRejected(t *testing.T) {
	images := []RenderedImage{
		{Name: "dup", Instructions: []string{"FROM scratch\n"}},
		{Name: "dup", Instructions: []string{"FROM scratch\n"}},
	}

	_, err := BuildOrder(images)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate image name")
}

func TestTopologicalSortDiamond(t *testing.T) {
	dag := NewDirectedAcyclicGraph()
	for _, name := range []string{"base", "left", "right", "top"} {
		require.NoError(t, dag.AddVertex(name))
	}
	dag.AddDependency("left", "base")
	dag.AddDependency("right", "base")
	dag.AddDependency("top", "left")
	dag.AddDependency("top", "right")

	order, err := dag.TopologicalSort()
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "left", "right", "top"}, order)
}
