package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	omtsf "github.com/omtsf/omtsf-go"
	"github.com/omtsf/omtsf-go/graph"
)

func chainFile() *omtsf.File {
	return &omtsf.File{
		OMTSFVersion: omtsf.SemVer{Major: 1},
		Nodes: []omtsf.Node{
			{ID: "a", Type: omtsf.NewNodeType("organization")},
			{ID: "b", Type: omtsf.NewNodeType("facility")},
			{ID: "c", Type: omtsf.NewNodeType("facility")},
			{ID: "d", Type: omtsf.NewNodeType("good")},
		},
		Edges: []omtsf.Edge{
			{ID: "e1", Type: omtsf.NewEdgeType("operates"), Source: "a", Target: "b"},
			{ID: "e2", Type: omtsf.NewEdgeType("supplies"), Source: "b", Target: "c"},
			{ID: "e3", Type: omtsf.NewEdgeType("supplies"), Source: "c", Target: "d"},
		},
	}
}

func TestBuild_RejectsDuplicateNodeID(t *testing.T) {
	f := &omtsf.File{
		OMTSFVersion: omtsf.SemVer{Major: 1},
		Nodes: []omtsf.Node{
			{ID: "a", Type: omtsf.NewNodeType("organization")},
			{ID: "a", Type: omtsf.NewNodeType("facility")},
		},
	}
	_, err := graph.Build(f)
	require.Error(t, err)
	var dupErr *graph.DuplicateIDError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "node", dupErr.Kind)
}

func TestBuild_RejectsDanglingEdgeEndpoint(t *testing.T) {
	f := &omtsf.File{
		OMTSFVersion: omtsf.SemVer{Major: 1},
		Nodes: []omtsf.Node{
			{ID: "a", Type: omtsf.NewNodeType("organization")},
		},
		Edges: []omtsf.Edge{
			{ID: "e1", Type: omtsf.NewEdgeType("supplies"), Source: "a", Target: "missing"},
		},
	}
	_, err := graph.Build(f)
	require.Error(t, err)
	var structErr *graph.StructuralError
	require.ErrorAs(t, err, &structErr)
}

func TestReachableFrom_ForwardBFS(t *testing.T) {
	g, err := graph.Build(chainFile())
	require.NoError(t, err)

	reached, err := graph.ReachableFrom(g, "a", graph.Forward, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []omtsf.NodeID{"b", "c", "d"}, reached)
}

func TestReachableFrom_UnknownNode(t *testing.T) {
	g, err := graph.Build(chainFile())
	require.NoError(t, err)

	_, err = graph.ReachableFrom(g, "nope", graph.Forward, nil)
	require.Error(t, err)
	var qe *graph.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, graph.NodeNotFound, qe.Kind)
}

func TestReachableFrom_EdgeFilterRestrictsTraversal(t *testing.T) {
	g, err := graph.Build(chainFile())
	require.NoError(t, err)

	filter := graph.EdgeFilter{"operates": true}
	reached, err := graph.ReachableFrom(g, "a", graph.Forward, filter)
	require.NoError(t, err)
	assert.ElementsMatch(t, []omtsf.NodeID{"b"}, reached)
}

func TestShortestPath_FindsPathAlongChain(t *testing.T) {
	g, err := graph.Build(chainFile())
	require.NoError(t, err)

	path, found, err := graph.ShortestPath(g, "a", "d", graph.Forward, nil)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []omtsf.NodeID{"a", "b", "c", "d"}, path)
}

func TestShortestPath_NoPathReturnsFalse(t *testing.T) {
	g, err := graph.Build(chainFile())
	require.NoError(t, err)

	path, found, err := graph.ShortestPath(g, "d", "a", graph.Forward, nil)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, path)
}

func TestShortestPath_SameNodeIsTrivial(t *testing.T) {
	g, err := graph.Build(chainFile())
	require.NoError(t, err)

	path, found, err := graph.ShortestPath(g, "a", "a", graph.Forward, nil)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []omtsf.NodeID{"a"}, path)
}

func TestAllPaths_FindsEverySimplePath(t *testing.T) {
	f := chainFile()
	f.Edges = append(f.Edges, omtsf.Edge{ID: "e4", Type: omtsf.NewEdgeType("supplies"), Source: "b", Target: "d"})
	g, err := graph.Build(f)
	require.NoError(t, err)

	paths, err := graph.AllPaths(g, "a", "d", graph.DefaultMaxDepth, graph.Forward, nil)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	assert.Contains(t, paths, []omtsf.NodeID{"a", "b", "c", "d"})
	assert.Contains(t, paths, []omtsf.NodeID{"a", "b", "d"})
}

func TestAllPaths_RespectsMaxDepth(t *testing.T) {
	g, err := graph.Build(chainFile())
	require.NoError(t, err)

	paths, err := graph.AllPaths(g, "a", "d", 2, graph.Forward, nil)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestSelectorMatch_NodeTypeSelector(t *testing.T) {
	g, err := graph.Build(chainFile())
	require.NoError(t, err)

	set := graph.Set{graph.Group{graph.NodeTypeSelector{Type: "facility"}}}
	nodeIdx, edgeIdx := graph.SelectorMatch(g, set)
	assert.Len(t, nodeIdx, 2)
	assert.Empty(t, edgeIdx)
}

func TestSelectorMatch_EmptySetMatchesEverything(t *testing.T) {
	g, err := graph.Build(chainFile())
	require.NoError(t, err)

	nodeIdx, edgeIdx := graph.SelectorMatch(g, nil)
	assert.Len(t, nodeIdx, g.NumNodes())
	assert.Len(t, edgeIdx, 3)
}

func TestInducedSubgraph_KeepsOnlyEdgesWithBothEndpointsInSet(t *testing.T) {
	g, err := graph.Build(chainFile())
	require.NoError(t, err)

	today := omtsf.CalendarDate{Year: 2026, Month: 7, Day: 31}
	sub := graph.InducedSubgraph(g, today, []omtsf.NodeID{"a", "b", "d"})
	assert.Len(t, sub.Nodes, 3)
	assert.Len(t, sub.Edges, 1)
	assert.Equal(t, omtsf.EdgeID("e1"), sub.Edges[0].ID)
}

func TestEgoGraph_RadiusBoundsExpansion(t *testing.T) {
	g, err := graph.Build(chainFile())
	require.NoError(t, err)

	today := omtsf.CalendarDate{Year: 2026, Month: 7, Day: 31}
	sub, err := graph.EgoGraph(g, today, "a", 1, graph.Forward)
	require.NoError(t, err)
	assert.Len(t, sub.Nodes, 2)
}

func TestSelectorSubgraph_EmptySeedReturnsError(t *testing.T) {
	g, err := graph.Build(chainFile())
	require.NoError(t, err)

	today := omtsf.CalendarDate{Year: 2026, Month: 7, Day: 31}
	set := graph.Set{graph.Group{graph.IdentifierSchemeSelector{Scheme: "nonexistent"}}}
	_, err = graph.SelectorSubgraph(g, today, set, 1)
	require.Error(t, err)
	var qe *graph.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, graph.EmptyResult, qe.Kind)
}
