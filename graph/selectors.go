package graph

import (
	"strings"

	"github.com/omtsf/omtsf-go"
)

// Selector is one predicate in a SelectorSet. MatchNode/MatchEdge each
// report (matched, applicable): applicable is false when the selector
// kind does not apply to that entity kind at all (e.g. NodeType against
// an edge), in which case the selector is skipped silently rather than
// counted as a non-match.
type Selector interface {
	MatchNode(n *omtsf.Node) (matched, applicable bool)
	MatchEdge(e *omtsf.Edge) (matched, applicable bool)
}

// Group is a disjunction (OR) of selectors.
type Group []Selector

// Set is a conjunction (AND) of Groups, each itself a disjunction (OR)
// of selectors. An empty Set matches everything; a non-empty Set in which
// no selector applies to edges matches no edge.
type Set []Group

// MatchesNode evaluates the set against a node.
func (s Set) MatchesNode(n *omtsf.Node) bool {
	for _, group := range s {
		if !group.matchesNode(n) {
			return false
		}
	}
	return true
}

// MatchesEdge evaluates the set against an edge. A non-empty set made only
// of node-only selectors matches no edge.
func (s Set) MatchesEdge(e *omtsf.Edge) bool {
	applicable := false
	for _, group := range s {
		for _, sel := range group {
			if _, ok := sel.MatchEdge(e); ok {
				applicable = true
			}
		}
		if !group.matchesEdge(e) {
			return false
		}
	}
	return len(s) == 0 || applicable
}

func (g Group) matchesNode(n *omtsf.Node) bool {
	anyApplicable := false
	for _, sel := range g {
		matched, applicable := sel.MatchNode(n)
		if !applicable {
			continue
		}
		anyApplicable = true
		if matched {
			return true
		}
	}
	return !anyApplicable
}

func (g Group) matchesEdge(e *omtsf.Edge) bool {
	anyApplicable := false
	for _, sel := range g {
		matched, applicable := sel.MatchEdge(e)
		if !applicable {
			continue
		}
		anyApplicable = true
		if matched {
			return true
		}
	}
	return !anyApplicable
}

// NodeTypeSelector matches nodes of a given type. Node-only.
type NodeTypeSelector struct{ Type string }

func (s NodeTypeSelector) MatchNode(n *omtsf.Node) (bool, bool) { return n.Type.Is(s.Type), true }
func (s NodeTypeSelector) MatchEdge(*omtsf.Edge) (bool, bool)   { return false, false }

// EdgeTypeSelector matches edges of a given type. Edge-only.
type EdgeTypeSelector struct{ Type string }

func (s EdgeTypeSelector) MatchNode(*omtsf.Node) (bool, bool)   { return false, false }
func (s EdgeTypeSelector) MatchEdge(e *omtsf.Edge) (bool, bool) { return e.Type.Is(s.Type), true }

// LabelKeySelector matches nodes or edges carrying a label with the given
// key, regardless of value.
type LabelKeySelector struct{ Key string }

func (s LabelKeySelector) MatchNode(n *omtsf.Node) (bool, bool) {
	return hasLabelKey(n.Labels, s.Key), true
}
func (s LabelKeySelector) MatchEdge(e *omtsf.Edge) (bool, bool) {
	return hasLabelKey(edgeLabels(e), s.Key), true
}

// LabelKeyValueSelector matches nodes or edges carrying an exact
// (key, value) label.
type LabelKeyValueSelector struct{ Key, Value string }

func (s LabelKeyValueSelector) MatchNode(n *omtsf.Node) (bool, bool) {
	return hasLabel(n.Labels, s.Key, s.Value), true
}
func (s LabelKeyValueSelector) MatchEdge(e *omtsf.Edge) (bool, bool) {
	return hasLabel(edgeLabels(e), s.Key, s.Value), true
}

// IdentifierSchemeSelector matches nodes or edges carrying an identifier
// of the given scheme.
type IdentifierSchemeSelector struct{ Scheme string }

func (s IdentifierSchemeSelector) MatchNode(n *omtsf.Node) (bool, bool) {
	return hasScheme(n.Identifiers, s.Scheme), true
}
func (s IdentifierSchemeSelector) MatchEdge(e *omtsf.Edge) (bool, bool) {
	return hasScheme(e.Identifiers, s.Scheme), true
}

// IdentifierSchemeValueSelector matches nodes or edges carrying an exact
// (scheme, value) identifier.
type IdentifierSchemeValueSelector struct{ Scheme, Value string }

func (s IdentifierSchemeValueSelector) MatchNode(n *omtsf.Node) (bool, bool) {
	return hasSchemeValue(n.Identifiers, s.Scheme, s.Value), true
}
func (s IdentifierSchemeValueSelector) MatchEdge(e *omtsf.Edge) (bool, bool) {
	return hasSchemeValue(e.Identifiers, s.Scheme, s.Value), true
}

// JurisdictionSelector matches nodes whose Jurisdiction equals the given
// country code. Node-only.
type JurisdictionSelector struct{ Country string }

func (s JurisdictionSelector) MatchNode(n *omtsf.Node) (bool, bool) {
	if n.Jurisdiction == nil {
		return false, true
	}
	return string(*n.Jurisdiction) == s.Country, true
}
func (s JurisdictionSelector) MatchEdge(*omtsf.Edge) (bool, bool) { return false, false }

// NameSelector matches nodes whose Name contains Pattern, case-insensitive.
// Node-only.
type NameSelector struct{ Pattern string }

func (s NameSelector) MatchNode(n *omtsf.Node) (bool, bool) {
	if n.Name == nil {
		return false, true
	}
	return strings.Contains(strings.ToLower(*n.Name), strings.ToLower(s.Pattern)), true
}
func (s NameSelector) MatchEdge(*omtsf.Edge) (bool, bool) { return false, false }

func hasLabelKey(labels []omtsf.Label, key string) bool {
	for _, l := range labels {
		if l.Key == key {
			return true
		}
	}
	return false
}

func hasLabel(labels []omtsf.Label, key, value string) bool {
	for _, l := range labels {
		if l.Key == key && l.Value == value {
			return true
		}
	}
	return false
}

func hasScheme(ids []omtsf.Identifier, scheme string) bool {
	for _, id := range ids {
		if strings.EqualFold(id.Scheme, scheme) {
			return true
		}
	}
	return false
}

func hasSchemeValue(ids []omtsf.Identifier, scheme, value string) bool {
	for _, id := range ids {
		if strings.EqualFold(id.Scheme, scheme) && id.Value == value {
			return true
		}
	}
	return false
}

func edgeLabels(e *omtsf.Edge) []omtsf.Label {
	if e.Properties == nil {
		return nil
	}
	return e.Properties.Labels
}

// SelectorMatch runs a Set against every node and edge in a graph's file,
// returning the matching indices in ascending order.
func SelectorMatch(g *Graph, set Set) (nodeIndices, edgeIndices []int) {
	for i := range g.file.Nodes {
		if set.MatchesNode(&g.file.Nodes[i]) {
			nodeIndices = append(nodeIndices, i)
		}
	}
	for i := range g.file.Edges {
		if set.MatchesEdge(&g.file.Edges[i]) {
			edgeIndices = append(edgeIndices, i)
		}
	}
	return nodeIndices, edgeIndices
}
