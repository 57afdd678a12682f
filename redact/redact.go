// Package redact implements a scope-driven redaction engine: per-node
// classification into omit/retain/replace, salted content-addressed
// boundary-reference stub synthesis, and edge filtering consistent with
// the chosen disclosure scope.
package redact

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/omtsf/omtsf-go"
	"github.com/omtsf/omtsf-go/identity"
)

// Options configures a Redact run.
type Options struct {
	Target    omtsf.DisclosureScope
	RetainIDs map[omtsf.NodeID]bool
}

// nodeAction is the per-node redaction classification.
type nodeAction int

const (
	actionOmit nodeAction = iota
	actionRetain
	actionReplace
)

// Redact produces a copy of f scoped down to target, replacing
// non-retained nodes with salted boundary-reference stubs and filtering
// edges accordingly. f itself is never mutated.
func Redact(f *omtsf.File, opts Options) (*omtsf.File, error) {
	sourceScope := omtsf.ScopeInternal
	if f.DisclosureScope != nil {
		sourceScope = *f.DisclosureScope
	}
	if sourceScope.MoreRestrictiveThan(opts.Target) {
		return nil, &Error{Kind: ScopeViolation, Source: string(sourceScope), Target: string(opts.Target)}
	}

	salt := f.FileSalt
	if salt == "" {
		var err error
		salt, err = omtsf.GenerateFileSalt()
		if err != nil {
			return nil, &Error{Kind: EntropyUnavailable, Err: err}
		}
	}
	saltBytes, err := salt.SaltBytes()
	if err != nil {
		return nil, err
	}

	actions := make(map[omtsf.NodeID]nodeAction, len(f.Nodes))
	for _, n := range f.Nodes {
		actions[n.ID] = classifyNode(n, opts)
	}

	newID := make(map[omtsf.NodeID]omtsf.NodeID, len(f.Nodes))
	var outNodes []omtsf.Node
	for _, n := range f.Nodes {
		switch actions[n.ID] {
		case actionOmit:
			// dropped entirely; no entry in newID means any edge
			// referencing it is dropped too.
		case actionRetain:
			retained := n
			retained.Identifiers = filterIdentifiers(n.Identifiers, opts.Target)
			outNodes = append(outNodes, retained)
			newID[n.ID] = n.ID
		case actionReplace:
			stub := boundaryRefStub(n, saltBytes)
			outNodes = append(outNodes, stub)
			newID[n.ID] = stub.ID
		}
	}

	outEdges := filterEdges(f.Edges, actions, newID, opts.Target)

	out := *f
	out.Nodes = outNodes
	out.Edges = outEdges
	out.FileSalt = salt
	out.DisclosureScope = &opts.Target
	return &out, nil
}

// classifyNode applies the per-node action table for the target scope.
func classifyNode(n omtsf.Node, opts Options) nodeAction {
	if n.Type.Is(omtsf.NodeTypePerson) && opts.Target == omtsf.ScopePublic {
		return actionOmit
	}
	if n.Type.Is(omtsf.NodeTypeBoundaryRef) {
		return actionRetain
	}
	if opts.RetainIDs[n.ID] {
		return actionRetain
	}
	return actionReplace
}

// filterIdentifiers applies the sensitivity-vs-scope retention rule:
// public always kept, restricted stripped only in public, confidential
// kept only in internal. Identifiers with no declared sensitivity are
// always kept.
func filterIdentifiers(ids []omtsf.Identifier, target omtsf.DisclosureScope) []omtsf.Identifier {
	var out []omtsf.Identifier
	for _, id := range ids {
		if id.Sensitivity == nil {
			out = append(out, id)
			continue
		}
		switch *id.Sensitivity {
		case omtsf.SensitivityPublic:
			out = append(out, id)
		case omtsf.SensitivityRestricted:
			if target != omtsf.ScopePublic {
				out = append(out, id)
			}
		case omtsf.SensitivityConfidential:
			if target == omtsf.ScopeInternal {
				out = append(out, id)
			}
		}
	}
	return out
}

// boundaryRefStub synthesizes the replacement node: a boundary_ref node
// carrying a single opaque identifier whose value is the salted
// content-address hash of n's canonical identifiers.
func boundaryRefStub(n omtsf.Node, saltBytes []byte) omtsf.Node {
	hash := boundaryRefHash(n, saltBytes)
	return omtsf.Node{
		ID:   omtsf.NodeID("boundary_ref:" + hash),
		Type: omtsf.NewNodeType(omtsf.NodeTypeBoundaryRef),
		Identifiers: []omtsf.Identifier{
			{Scheme: "opaque", Value: hash},
		},
	}
}

// boundaryRefHash computes lowercase_hex(SHA-256(salt || sorted_canonical_ids)),
// falling back to salt || original node ID when the node carries no
// canonical identifiers.
func boundaryRefHash(n omtsf.Node, saltBytes []byte) string {
	ids := identity.CanonicalIDsForNode(n)
	h := sha256.New()
	h.Write(saltBytes)
	if len(ids) == 0 {
		h.Write([]byte(n.ID))
	} else {
		sorted := make([]string, len(ids))
		for i, id := range ids {
			sorted[i] = string(id)
		}
		sort.Strings(sorted)
		for _, s := range sorted {
			h.Write([]byte(s))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// filterEdges applies the edge-filtering rules: drop edges with an
// omitted endpoint, rewrite endpoints pointing to replaced nodes, drop
// beneficial_ownership edges in public scope, and strip confidential edge
// identifiers in partner/public scope.
func filterEdges(edges []omtsf.Edge, actions map[omtsf.NodeID]nodeAction, newID map[omtsf.NodeID]omtsf.NodeID, target omtsf.DisclosureScope) []omtsf.Edge {
	var out []omtsf.Edge
	for _, e := range edges {
		srcID, srcOK := newID[e.Source]
		tgtID, tgtOK := newID[e.Target]
		if !srcOK || !tgtOK {
			continue
		}
		if target == omtsf.ScopePublic && e.Type.Is(omtsf.EdgeTypeBeneficialOwnership) {
			continue
		}

		rewritten := e
		rewritten.Source = srcID
		rewritten.Target = tgtID
		if target == omtsf.ScopePartner || target == omtsf.ScopePublic {
			rewritten.Identifiers = dropConfidential(e.Identifiers)
		}
		out = append(out, rewritten)
	}
	return out
}

func dropConfidential(ids []omtsf.Identifier) []omtsf.Identifier {
	var out []omtsf.Identifier
	for _, id := range ids {
		if id.Sensitivity != nil && *id.Sensitivity == omtsf.SensitivityConfidential {
			continue
		}
		out = append(out, id)
	}
	return out
}
