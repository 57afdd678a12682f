package graph

import (
	"sort"

	"github.com/omtsf/omtsf-go"
)

// extractFile builds a standalone File containing exactly the given node
// and edge index sets, preserving header fields and Extra but refreshing
// SnapshotDate to today.
func extractFile(g *Graph, today omtsf.CalendarDate, nodeIdx, edgeIdx []int) omtsf.File {
	src := g.file

	nodes := make([]omtsf.Node, len(nodeIdx))
	for i, idx := range nodeIdx {
		nodes[i] = src.Nodes[idx]
	}
	edges := make([]omtsf.Edge, len(edgeIdx))
	for i, idx := range edgeIdx {
		edges[i] = src.Edges[idx]
	}

	return omtsf.File{
		OMTSFVersion:        src.OMTSFVersion,
		SnapshotDate:        today,
		FileSalt:            src.FileSalt,
		Nodes:               nodes,
		Edges:               edges,
		DisclosureScope:     src.DisclosureScope,
		PreviousSnapshotRef: src.PreviousSnapshotRef,
		SnapshotSequence:    src.SnapshotSequence,
		ReportingEntity:     src.ReportingEntity,
		Extra:               src.Extra,
	}
}

// inducedEdges returns, in original file order, the indices of every edge
// whose source and target both lie in the given node index set.
func inducedEdges(g *Graph, nodeSet map[int]bool) []int {
	var out []int
	for i, e := range g.file.Edges {
		srcIdx, ok := g.IndexOf(e.Source)
		if !ok || !nodeSet[srcIdx] {
			continue
		}
		tgtIdx, ok := g.IndexOf(e.Target)
		if !ok || !nodeSet[tgtIdx] {
			continue
		}
		out = append(out, i)
	}
	return out
}

func sortedIntKeys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// InducedSubgraph returns a standalone File containing the listed node
// IDs and every edge whose both endpoints are in that set. Unknown IDs
// are ignored.
func InducedSubgraph(g *Graph, today omtsf.CalendarDate, ids []omtsf.NodeID) omtsf.File {
	nodeSet := make(map[int]bool, len(ids))
	for _, id := range ids {
		if idx, ok := g.IndexOf(id); ok {
			nodeSet[idx] = true
		}
	}
	nodeIdx := sortedIntKeys(nodeSet)
	edgeIdx := inducedEdges(g, nodeSet)
	return extractFile(g, today, nodeIdx, edgeIdx)
}

// EgoGraph returns the induced subgraph over every node reachable from
// center within radius hops (in the given direction), plus center itself.
func EgoGraph(g *Graph, today omtsf.CalendarDate, center omtsf.NodeID, radius int, dir Direction) (omtsf.File, error) {
	centerIdx, ok := g.IndexOf(center)
	if !ok {
		return omtsf.File{}, &QueryError{Kind: NodeNotFound, NodeID: string(center)}
	}

	visited := map[int]bool{centerIdx: true}
	frontier := []int{centerIdx}
	for depth := 0; depth < radius && len(frontier) > 0; depth++ {
		var next []int
		for _, cur := range frontier {
			for _, ref := range g.neighbors(cur, dir, nil) {
				if visited[ref.NodeIndex] {
					continue
				}
				visited[ref.NodeIndex] = true
				next = append(next, ref.NodeIndex)
			}
		}
		frontier = next
	}

	nodeIdx := sortedIntKeys(visited)
	edgeIdx := inducedEdges(g, visited)
	return extractFile(g, today, nodeIdx, edgeIdx), nil
}

// SelectorSubgraph matches set against the graph's file to obtain a seed
// set of nodes, unions each seed's radius-expandHops ego-graph (direction
// Both), and returns the induced subgraph over the result. Returns
// QueryError{Kind: EmptyResult} if no node matches the selector set.
func SelectorSubgraph(g *Graph, today omtsf.CalendarDate, set Set, expandHops int) (omtsf.File, error) {
	seedIdx, _ := SelectorMatch(g, set)
	if len(seedIdx) == 0 {
		return omtsf.File{}, &QueryError{Kind: EmptyResult}
	}

	visited := make(map[int]bool, len(seedIdx))
	for _, idx := range seedIdx {
		visited[idx] = true
	}
	frontier := append([]int(nil), seedIdx...)
	for depth := 0; depth < expandHops && len(frontier) > 0; depth++ {
		var next []int
		for _, cur := range frontier {
			for _, ref := range g.neighbors(cur, Both, nil) {
				if visited[ref.NodeIndex] {
					continue
				}
				visited[ref.NodeIndex] = true
				next = append(next, ref.NodeIndex)
			}
		}
		frontier = next
	}

	nodeIdx := sortedIntKeys(visited)
	edgeIdx := inducedEdges(g, visited)
	return extractFile(g, today, nodeIdx, edgeIdx), nil
}
