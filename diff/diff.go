// Package diff implements the structural diff engine: matching nodes and
// edges across two snapshots via the identity closure plus an ID
// fallback, then classifying every node and edge as
// added/removed/modified/unchanged with stable, input-order-derived
// ordering.
package diff

import (
	"fmt"
	"sort"

	"github.com/omtsf/omtsf-go"
)

// ChangeKind classifies a node or edge between two snapshots.
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Modified
	Unchanged
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	default:
		return "unchanged"
	}
}

// PropertyChange records a single field-level difference between A's and
// B's value for a matched pair.
type PropertyChange struct {
	Field string
	Old   any
	New   any
}

// Filter restricts a Diff run to a subset of node/edge types and lets the
// caller suppress specific scalar fields from property comparison.
type Filter struct {
	NodeTypes    []string
	EdgeTypes    []string
	IgnoreFields []string
}

func (f *Filter) allowsNodeType(t string) bool {
	if f == nil || len(f.NodeTypes) == 0 {
		return true
	}
	return contains(f.NodeTypes, t)
}

func (f *Filter) allowsEdgeType(t string) bool {
	if f == nil || len(f.EdgeTypes) == 0 {
		return true
	}
	return contains(f.EdgeTypes, t)
}

func (f *Filter) ignores(field string) bool {
	if f == nil {
		return false
	}
	return contains(f.IgnoreFields, field)
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// NodeDiff is one classified outcome for a node: Removed (A only, B nil),
// Added (B only, A nil), or Modified/Unchanged (both present).
type NodeDiff struct {
	Kind               ChangeKind
	A                  *omtsf.Node
	B                  *omtsf.Node
	NodeType           omtsf.NodeType
	Witness            string
	PropertyChanges    []PropertyChange
	AddedIdentifiers   []omtsf.Identifier
	RemovedIdentifiers []omtsf.Identifier
	AddedLabels        []omtsf.Label
	RemovedLabels      []omtsf.Label
}

// EdgeDiff is the edge analogue of NodeDiff.
type EdgeDiff struct {
	Kind            ChangeKind
	A               *omtsf.Edge
	B               *omtsf.Edge
	EdgeType        omtsf.EdgeType
	PropertyChanges []PropertyChange
	AddedIdentifiers   []omtsf.Identifier
	RemovedIdentifiers []omtsf.Identifier
	AddedLabels        []omtsf.Label
	RemovedLabels      []omtsf.Label
}

// Result is the full outcome of a Diff run.
type Result struct {
	Nodes    []NodeDiff
	Edges    []EdgeDiff
	Warnings []string
}

// IsEmpty reports whether every node and edge diff is Unchanged.
func (r *Result) IsEmpty() bool {
	for _, n := range r.Nodes {
		if n.Kind != Unchanged {
			return false
		}
	}
	for _, e := range r.Edges {
		if e.Kind != Unchanged {
			return false
		}
	}
	return true
}

func (r *Result) countNodes(k ChangeKind) int {
	n := 0
	for _, d := range r.Nodes {
		if d.Kind == k {
			n++
		}
	}
	return n
}

// NodesAdded, NodesRemoved, NodesModified count node diffs of each kind.
func (r *Result) NodesAdded() int    { return r.countNodes(Added) }
func (r *Result) NodesRemoved() int  { return r.countNodes(Removed) }
func (r *Result) NodesModified() int { return r.countNodes(Modified) }

// Diff computes the structural diff between baseline file a and target
// file b, honouring an optional Filter.
func Diff(a, b *omtsf.File, filter *Filter) (*Result, error) {
	result := &Result{}

	if a.OMTSFVersion.Compare(b.OMTSFVersion) != 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"version mismatch: a=%s b=%s", a.OMTSFVersion, b.OMTSFVersion))
	}

	uf, nodeDiffs, warnings := diffNodes(a.Nodes, b.Nodes, filter)
	result.Nodes = nodeDiffs
	result.Warnings = append(result.Warnings, warnings...)

	result.Edges = diffEdges(a, b, uf, len(a.Nodes), filter)

	return result, nil
}

// sortedInts is a small convenience wrapper used by both node and edge
// matching to keep component member ordering deterministic.
func sortedInts(xs []int) []int {
	out := append([]int(nil), xs...)
	sort.Ints(out)
	return out
}
