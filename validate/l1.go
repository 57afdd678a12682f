package validate

import (
	"fmt"
	"strings"

	"github.com/omtsf/omtsf-go"
	"github.com/omtsf/omtsf-go/checkdigit"
	"github.com/omtsf/omtsf-go/graph"
)

// runL1 performs structural validation: well-formed IDs, resolvable edge
// endpoints, unique IDs, known-or-extension enum values, a well-formed
// file_salt, and identifier check digits.
func runL1(f *omtsf.File, r *ValidationResult) {
	checkFileSalt(f, r)
	checkNodeIDs(f, r)
	checkEdgeIDsAndEndpoints(f, r)
	checkEnumValues(f, r)
	checkIdentifierCheckDigits(f, r)
}

func checkFileSalt(f *omtsf.File, r *ValidationResult) {
	if _, err := omtsf.ParseFileSalt(string(f.FileSalt)); err != nil {
		r.add(Diagnostic{RuleID: "L1.file_salt", Severity: Error,
			Message: "file_salt is not 64 lowercase hex characters", Path: "file_salt"})
	}
}

func checkNodeIDs(f *omtsf.File, r *ValidationResult) {
	seen := make(map[omtsf.NodeID]bool, len(f.Nodes))
	for i, n := range f.Nodes {
		path := fmt.Sprintf("nodes[%d]", i)
		if _, err := omtsf.ParseNodeID(string(n.ID)); err != nil {
			r.add(Diagnostic{RuleID: "L1.node_id", Severity: Error, Message: err.Error(), Path: path + ".id"})
			continue
		}
		if seen[n.ID] {
			r.add(Diagnostic{RuleID: "L1.node_id_unique", Severity: Error,
				Message: fmt.Sprintf("duplicate node id %q", n.ID), Path: path + ".id"})
		}
		seen[n.ID] = true
	}
}

// checkEdgeIDsAndEndpoints reuses graph.Build, whose own checks (endpoint
// resolution, ID uniqueness) are exactly L1's structural requirements for
// edges; a build failure is reported as a single diagnostic rather than
// duplicating the traversal here.
func checkEdgeIDsAndEndpoints(f *omtsf.File, r *ValidationResult) {
	for i, e := range f.Edges {
		path := fmt.Sprintf("edges[%d]", i)
		if _, err := omtsf.ParseEdgeID(string(e.ID)); err != nil {
			r.add(Diagnostic{RuleID: "L1.edge_id", Severity: Error, Message: err.Error(), Path: path + ".id"})
		}
	}
	if _, err := graph.Build(f); err != nil {
		r.add(Diagnostic{RuleID: "L1.edge_structure", Severity: Error, Message: err.Error(), Path: "edges"})
	}
}

func checkEnumValues(f *omtsf.File, r *ValidationResult) {
	for i, n := range f.Nodes {
		if !n.Type.IsKnown() && n.Type.String() == "" {
			r.add(Diagnostic{RuleID: "L1.node_type", Severity: Error,
				Message: "node type is empty", Path: fmt.Sprintf("nodes[%d].type", i)})
		}
	}
	for i, e := range f.Edges {
		if !e.Type.IsKnown() && e.Type.String() == "" {
			r.add(Diagnostic{RuleID: "L1.edge_type", Severity: Error,
				Message: "edge type is empty", Path: fmt.Sprintf("edges[%d].type", i)})
		}
	}
}

// checkIdentifierCheckDigits validates LEI (MOD 97-10), GLN (GS1 Mod-10),
// and DUNS (9-digit) identifiers wherever they appear, on both nodes and
// edges.
func checkIdentifierCheckDigits(f *omtsf.File, r *ValidationResult) {
	for i, n := range f.Nodes {
		for j, id := range n.Identifiers {
			checkOneIdentifier(id, fmt.Sprintf("nodes[%d].identifiers[%d]", i, j), r)
		}
	}
	for i, e := range f.Edges {
		for j, id := range e.Identifiers {
			checkOneIdentifier(id, fmt.Sprintf("edges[%d].identifiers[%d]", i, j), r)
		}
	}
}

func checkOneIdentifier(id omtsf.Identifier, path string, r *ValidationResult) {
	switch strings.ToLower(id.Scheme) {
	case "lei":
		if !checkdigit.MOD9710(strings.ToUpper(id.Value)) {
			r.add(Diagnostic{RuleID: "L1.lei_check_digit", Severity: Error,
				Message: fmt.Sprintf("invalid LEI check digit: %q", id.Value), Path: path})
		}
	case "gln":
		if !checkdigit.GS1Mod10(id.Value) {
			r.add(Diagnostic{RuleID: "L1.gln_check_digit", Severity: Error,
				Message: fmt.Sprintf("invalid GLN check digit: %q", id.Value), Path: path})
		}
	case "duns":
		if !checkdigit.ValidDUNS(id.Value) {
			r.add(Diagnostic{RuleID: "L1.duns_format", Severity: Error,
				Message: fmt.Sprintf("invalid DUNS format: %q", id.Value), Path: path})
		}
	}
}
