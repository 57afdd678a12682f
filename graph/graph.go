// Package graph builds a directed labelled graph from an omtsf.File with
// stable node indices, and implements reachability, shortest/all-paths,
// selector matching, and subgraph extraction over it.
package graph

import (
	"github.com/omtsf/omtsf-go"
)

// EdgeRef is one outgoing (or incoming) adjacency entry: the index of the
// traversed edge and the index of the node on the far end.
type EdgeRef struct {
	EdgeIndex int
	NodeIndex int
}

// Graph is a directed labelled graph over a File's nodes and edges, built
// once and then queried read-only.
type Graph struct {
	file *omtsf.File

	nodeIndex map[omtsf.NodeID]int
	// out[i] / in[i] list the edges leaving / entering node i, in the
	// same order those edges appear in file.Edges — this is what makes
	// BFS/DFS traversal order (and therefore shortest_path/all_paths
	// results) deterministic and stable across runs.
	out [][]EdgeRef
	in  [][]EdgeRef
}

// File returns the File the graph was built from.
func (g *Graph) File() *omtsf.File { return g.file }

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int { return len(g.file.Nodes) }

// NodeAt returns the node at a stable index.
func (g *Graph) NodeAt(i int) *omtsf.Node { return &g.file.Nodes[i] }

// EdgeAt returns the edge at a stable index.
func (g *Graph) EdgeAt(i int) *omtsf.Edge { return &g.file.Edges[i] }

// IndexOf returns the stable index of a node ID.
func (g *Graph) IndexOf(id omtsf.NodeID) (int, bool) {
	i, ok := g.nodeIndex[id]
	return i, ok
}

// Out returns the outgoing adjacency of node i.
func (g *Graph) Out(i int) []EdgeRef { return g.out[i] }

// In returns the incoming adjacency of node i.
func (g *Graph) In(i int) []EdgeRef { return g.in[i] }

// Build constructs a Graph from a File, failing with a StructuralError if
// any edge endpoint does not resolve to a node in the same file, or a
// DuplicateIDError if node or edge IDs collide.
func Build(file *omtsf.File) (*Graph, error) {
	nodeIndex := make(map[omtsf.NodeID]int, len(file.Nodes))
	for i, n := range file.Nodes {
		if _, exists := nodeIndex[n.ID]; exists {
			return nil, &DuplicateIDError{Kind: "node", ID: string(n.ID)}
		}
		nodeIndex[n.ID] = i
	}

	edgeIDs := make(map[omtsf.EdgeID]bool, len(file.Edges))
	out := make([][]EdgeRef, len(file.Nodes))
	in := make([][]EdgeRef, len(file.Nodes))

	for ei, e := range file.Edges {
		if edgeIDs[e.ID] {
			return nil, &DuplicateIDError{Kind: "edge", ID: string(e.ID)}
		}
		edgeIDs[e.ID] = true

		srcIdx, ok := nodeIndex[e.Source]
		if !ok {
			return nil, &StructuralError{Op: "build", EdgeID: string(e.ID), NodeID: string(e.Source), Reason: "source not found"}
		}
		tgtIdx, ok := nodeIndex[e.Target]
		if !ok {
			return nil, &StructuralError{Op: "build", EdgeID: string(e.ID), NodeID: string(e.Target), Reason: "target not found"}
		}
		out[srcIdx] = append(out[srcIdx], EdgeRef{EdgeIndex: ei, NodeIndex: tgtIdx})
		in[tgtIdx] = append(in[tgtIdx], EdgeRef{EdgeIndex: ei, NodeIndex: srcIdx})
	}

	return &Graph{file: file, nodeIndex: nodeIndex, out: out, in: in}, nil
}

// Direction selects which adjacency lists a traversal consults.
type Direction int

const (
	Forward Direction = iota
	Backward
	Both
)

// EdgeFilter restricts traversal to a set of edge-type wire strings. A nil
// or empty filter allows every edge type.
type EdgeFilter map[string]bool

// Allows reports whether f permits traversing an edge of the given type.
func (f EdgeFilter) Allows(edgeType string) bool {
	if len(f) == 0 {
		return true
	}
	return f[edgeType]
}

// neighbors returns the adjacency entries of node i consistent with dir
// and filter, in stable (edge-declaration) order. When Both, all outgoing
// entries come first, then all incoming entries, each in declaration order.
func (g *Graph) neighbors(i int, dir Direction, filter EdgeFilter) []EdgeRef {
	var refs []EdgeRef
	if dir == Forward || dir == Both {
		for _, r := range g.out[i] {
			if filter.Allows(g.file.Edges[r.EdgeIndex].Type.String()) {
				refs = append(refs, r)
			}
		}
	}
	if dir == Backward || dir == Both {
		for _, r := range g.in[i] {
			if filter.Allows(g.file.Edges[r.EdgeIndex].Type.String()) {
				refs = append(refs, r)
			}
		}
	}
	return refs
}
