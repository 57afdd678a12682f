package validate

import (
	"fmt"

	"github.com/omtsf/omtsf-go"
	"github.com/omtsf/omtsf-go/graph"
)

// ownershipEdgeTypes lists the edge types whose cycles are disallowed.
var ownershipEdgeTypes = map[string]bool{
	omtsf.EdgeTypeOwnership:      true,
	omtsf.EdgeTypeLegalParentage: true,
}

// runL2 performs graph-level semantic checks. It builds the graph itself
// (rather than requiring a prior successful L1 run) and simply skips any
// check that depends on a graph the builder could not construct.
func runL2(f *omtsf.File, r *ValidationResult) {
	checkUnknownExtensionTypes(f, r)
	checkPersonIdentifierSensitivity(f, r)
	checkDanglingReportingEntity(f, r)

	g, err := graph.Build(f)
	if err != nil {
		return
	}
	checkOwnershipCycles(f, g, r)
	checkOrphanedAttestations(f, g, r)
}

func checkUnknownExtensionTypes(f *omtsf.File, r *ValidationResult) {
	for i, n := range f.Nodes {
		if !n.Type.IsKnown() && n.Type.String() != "" {
			r.add(Diagnostic{RuleID: "L2.unknown_node_type", Severity: Warning,
				Message: fmt.Sprintf("unrecognised node type extension %q", n.Type.String()),
				Path:    fmt.Sprintf("nodes[%d].type", i)})
		}
	}
	for i, e := range f.Edges {
		if !e.Type.IsKnown() && e.Type.String() != "" {
			r.add(Diagnostic{RuleID: "L2.unknown_edge_type", Severity: Warning,
				Message: fmt.Sprintf("unrecognised edge type extension %q", e.Type.String()),
				Path:    fmt.Sprintf("edges[%d].type", i)})
		}
	}
}

func checkPersonIdentifierSensitivity(f *omtsf.File, r *ValidationResult) {
	for i, n := range f.Nodes {
		if !n.Type.Is(omtsf.NodeTypePerson) {
			continue
		}
		for j, id := range n.Identifiers {
			if id.Sensitivity == nil {
				r.add(Diagnostic{RuleID: "L2.person_identifier_sensitivity", Severity: Warning,
					Message: "person identifier has no declared sensitivity",
					Path:    fmt.Sprintf("nodes[%d].identifiers[%d]", i, j)})
			}
		}
	}
}

// checkDanglingReportingEntity warns when the file's reporting_entity
// identifier matches no node's identifier set.
func checkDanglingReportingEntity(f *omtsf.File, r *ValidationResult) {
	if f.ReportingEntity == nil || f.ReportingEntity.Identifier == nil {
		return
	}
	want := *f.ReportingEntity.Identifier
	for _, n := range f.Nodes {
		for _, id := range n.Identifiers {
			if identifiersLooselyMatch(want, id) {
				return
			}
		}
	}
	r.add(Diagnostic{RuleID: "L2.dangling_reporting_entity", Severity: Warning,
		Message: "reporting_entity identifier does not resolve to any node", Path: "reporting_entity"})
}

func identifiersLooselyMatch(a, b omtsf.Identifier) bool {
	return a.Scheme == b.Scheme && a.Value == b.Value
}

func checkOwnershipCycles(f *omtsf.File, g *graph.Graph, r *ValidationResult) {
	n := g.NumNodes()
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, n)

	var visit func(i int) bool
	visit = func(i int) bool {
		color[i] = gray
		for _, ref := range g.Out(i) {
			if !ownershipEdgeTypes[g.EdgeAt(ref.EdgeIndex).Type.String()] {
				continue
			}
			switch color[ref.NodeIndex] {
			case gray:
				r.add(Diagnostic{RuleID: "L2.ownership_cycle", Severity: Error,
					Message: fmt.Sprintf("ownership/legal_parentage cycle through %q", g.NodeAt(ref.NodeIndex).ID),
					Path:    fmt.Sprintf("edges[%d]", ref.EdgeIndex)})
				return true
			case white:
				if visit(ref.NodeIndex) {
					return true
				}
			}
		}
		color[i] = black
		return false
	}

	for i := 0; i < n; i++ {
		if color[i] == white {
			visit(i)
		}
	}
}

func checkOrphanedAttestations(f *omtsf.File, g *graph.Graph, r *ValidationResult) {
	for i, n := range f.Nodes {
		if !n.Type.Is(omtsf.NodeTypeAttestation) {
			continue
		}
		hasSubject := false
		for _, ref := range g.In(i) {
			if g.EdgeAt(ref.EdgeIndex).Type.Is(omtsf.EdgeTypeAttestedBy) {
				hasSubject = true
				break
			}
		}
		if !hasSubject {
			r.add(Diagnostic{RuleID: "L2.orphan_attestation", Severity: Warning,
				Message: "attestation has no attested_by edge naming its subject",
				Path:    fmt.Sprintf("nodes[%d]", i)})
		}
	}
}
