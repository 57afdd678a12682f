// Package testutil provides fixture constructors shared across this
// module's test files. Nothing here is imported by production code.
package testutil

import (
	"github.com/google/uuid"

	omtsf "github.com/omtsf/omtsf-go"
)

// TestSalt is a fixed, well-formed 64-hex-char salt for fixtures that
// don't care about salt randomness.
const TestSalt = omtsf.FileSalt("deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")

// MinimalFile builds a File with the given nodes and edges, version
// 1.0.0, snapshot date 2026-02-19, and TestSalt. All optional header
// fields are left absent.
func MinimalFile(nodes []omtsf.Node, edges []omtsf.Edge) omtsf.File {
	return omtsf.File{
		OMTSFVersion: omtsf.SemVer{Major: 1, Minor: 0, Patch: 0},
		SnapshotDate: omtsf.CalendarDate{Year: 2026, Month: 2, Day: 19},
		FileSalt:     TestSalt,
		Nodes:        nodes,
		Edges:        edges,
	}
}

// OrgNode builds an organization node with the given ID and no other
// fields set.
func OrgNode(id string) omtsf.Node {
	return TypedNode(id, omtsf.NodeTypeOrganization)
}

// FacilityNode builds a facility node with the given ID.
func FacilityNode(id string) omtsf.Node {
	return TypedNode(id, omtsf.NodeTypeFacility)
}

// TypedNode builds a node of the given known node type.
func TypedNode(id string, nodeType string) omtsf.Node {
	return omtsf.Node{ID: omtsf.NodeID(id), Type: omtsf.NewNodeType(nodeType)}
}

// ExtensionNode builds a node with a non-built-in type string.
func ExtensionNode(id, typeStr string) omtsf.Node {
	return omtsf.Node{ID: omtsf.NodeID(id), Type: omtsf.NewNodeType(typeStr)}
}

// WithLEI attaches an LEI identifier to a copy of n.
func WithLEI(n omtsf.Node, lei string) omtsf.Node {
	n.Identifiers = append(append([]omtsf.Identifier{}, n.Identifiers...), omtsf.Identifier{Scheme: "lei", Value: lei})
	return n
}

// TypedEdge builds an edge of the given known edge type between two
// node IDs.
func TypedEdge(id, edgeType, source, target string) omtsf.Edge {
	return omtsf.Edge{
		ID:     omtsf.EdgeID(id),
		Type:   omtsf.NewEdgeType(edgeType),
		Source: omtsf.NodeID(source),
		Target: omtsf.NodeID(target),
	}
}

// SuppliesEdge builds a `supplies` edge between two node IDs.
func SuppliesEdge(id, source, target string) omtsf.Edge {
	return TypedEdge(id, omtsf.EdgeTypeSupplies, source, target)
}

// OwnershipEdge builds an `ownership` edge between two node IDs.
func OwnershipEdge(id, source, target string) omtsf.Edge {
	return TypedEdge(id, omtsf.EdgeTypeOwnership, source, target)
}

// LegalParentageEdge builds a `legal_parentage` edge between two node IDs.
func LegalParentageEdge(id, source, target string) omtsf.Edge {
	return TypedEdge(id, omtsf.EdgeTypeLegalParentage, source, target)
}

// ExtensionEdge builds an edge with a non-built-in type string.
func ExtensionEdge(id, source, target, typeStr string) omtsf.Edge {
	return omtsf.Edge{
		ID:     omtsf.EdgeID(id),
		Type:   omtsf.NewEdgeType(typeStr),
		Source: omtsf.NodeID(source),
		Target: omtsf.NodeID(target),
	}
}

// RandomNodeID returns a syntactically valid, collision-resistant node
// ID suffix for tests that need many distinct nodes without hand-naming
// each one.
func RandomNodeID(prefix string) omtsf.NodeID {
	return omtsf.NodeID(prefix + "-" + uuid.NewString())
}
