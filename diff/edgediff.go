package diff

import (
	"strconv"

	"github.com/omtsf/omtsf-go"
	"github.com/omtsf/omtsf-go/identity"
	"github.com/omtsf/omtsf-go/unionfind"
)

// edgeIdentityFields lists, per EdgeType, the scalar properties treated as
// identity-bearing for edgesMatch when no external identifier is shared.
// Falls back to composite-key-only equality when neither side sets any of
// its type's listed fields.
var edgeIdentityFields = map[string][]string{
	omtsf.EdgeTypeSupplies:            {"commodity"},
	omtsf.EdgeTypeOwnership:           {"percentage"},
	omtsf.EdgeTypeBeneficialOwnership: {"percentage"},
	omtsf.EdgeTypeTolls:               {"service_type"},
	omtsf.EdgeTypeBrokers:             {"service_type"},
	omtsf.EdgeTypeDistributes:         {"volume"},
}

type edgeKey struct {
	srcRep, tgtRep int
	edgeType       string
}

// diffEdges matches b's edges against a's using the composite key
// (src_rep, tgt_rep, edge_type) derived from the node union-find built by
// diffNodes, excluding same_as edges from matching entirely (they surface
// as plain add/remove). Additions (and matched pairs) come out in B's
// declaration order; removals in A's.
func diffEdges(a, b *omtsf.File, uf *unionfind.UnionFind, n int, filter *Filter) []EdgeDiff {
	idxA := buildNodeIndex(a)
	idxB := buildNodeIndex(b)

	aByKey := make(map[edgeKey][]int)
	for i, e := range a.Edges {
		if e.Type.Is(omtsf.EdgeTypeSameAs) {
			continue
		}
		key := edgeComposite(e, idxA, uf, 0)
		aByKey[key] = append(aByKey[key], i)
	}

	usedA := make(map[int]bool)
	var diffs []EdgeDiff

	for _, eb := range b.Edges {
		if eb.Type.Is(omtsf.EdgeTypeSameAs) {
			continue
		}
		if !filter.allowsEdgeType(eb.Type.String()) {
			continue
		}
		key := edgeComposite(eb, idxB, uf, n)
		matchedIdx := -1
		for _, ai := range aByKey[key] {
			if usedA[ai] {
				continue
			}
			if edgesMatch(a.Edges[ai], eb) {
				matchedIdx = ai
				break
			}
		}
		if matchedIdx == -1 {
			be := eb
			diffs = append(diffs, EdgeDiff{Kind: Added, B: &be, EdgeType: eb.Type})
			continue
		}
		usedA[matchedIdx] = true
		diffs = append(diffs, matchedEdgeDiff(a.Edges[matchedIdx], eb, filter))
	}

	for i, ea := range a.Edges {
		if ea.Type.Is(omtsf.EdgeTypeSameAs) {
			continue
		}
		if !filter.allowsEdgeType(ea.Type.String()) {
			continue
		}
		if usedA[i] {
			continue
		}
		ae := ea
		diffs = append(diffs, EdgeDiff{Kind: Removed, A: &ae, EdgeType: ea.Type})
	}

	return diffs
}

func buildNodeIndex(f *omtsf.File) map[omtsf.NodeID]int {
	m := make(map[omtsf.NodeID]int, len(f.Nodes))
	for i, n := range f.Nodes {
		m[n.ID] = i
	}
	return m
}

// edgeComposite computes an edge's (src_rep, tgt_rep, type) key, offsetting
// indices into the combined union-find space by offset (0 for A, n for B).
func edgeComposite(e omtsf.Edge, idx map[omtsf.NodeID]int, uf *unionfind.UnionFind, offset int) edgeKey {
	return edgeKey{
		srcRep:   uf.Find(offset + idx[e.Source]),
		tgtRep:   uf.Find(offset + idx[e.Target]),
		edgeType: e.Type.String(),
	}
}

// edgesMatch reports whether two edges represent the same real-world
// relationship: same external identifier set by canonical key, or else
// type-specific identity properties equal (falling back to
// composite-key-only equality when neither side sets any identity-bearing
// field for that type).
func edgesMatch(a, b omtsf.Edge) bool {
	if sharesIdentifier(a.Identifiers, b.Identifiers) {
		return true
	}
	fields := edgeIdentityFields[a.Type.String()]
	if len(fields) == 0 {
		return true
	}
	for _, f := range fields {
		av, aok := edgePropertyValue(a.Properties, f)
		bv, bok := edgePropertyValue(b.Properties, f)
		if !aok && !bok {
			continue
		}
		if !aok || !bok || av != bv {
			return false
		}
	}
	return true
}

func sharesIdentifier(a, b []omtsf.Identifier) bool {
	for _, ia := range a {
		keyA, ok := identity.Normalize(ia)
		if !ok {
			continue
		}
		for _, ib := range b {
			keyB, ok := identity.Normalize(ib)
			if ok && keyA == keyB {
				return true
			}
		}
	}
	return false
}

func edgePropertyValue(p *omtsf.EdgeProperties, field string) (string, bool) {
	if p == nil {
		return "", false
	}
	switch field {
	case "commodity":
		if p.Commodity != nil {
			return *p.Commodity, true
		}
	case "percentage":
		if p.Percentage != nil {
			return strconv.FormatFloat(*p.Percentage, 'g', -1, 64), true
		}
	case "service_type":
		if p.ServiceType != nil {
			return string(*p.ServiceType), true
		}
	case "volume":
		if p.Volume != nil {
			return strconv.FormatFloat(*p.Volume, 'g', -1, 64), true
		}
	}
	return "", false
}

func matchedEdgeDiff(a, b omtsf.Edge, filter *Filter) EdgeDiff {
	var changes []PropertyChange
	add := func(field string, oldV, newV any) {
		if filter.ignores(field) {
			return
		}
		changes = append(changes, PropertyChange{Field: field, Old: oldV, New: newV})
	}

	ap, bp := edgePropsOrEmpty(a.Properties), edgePropsOrEmpty(b.Properties)
	diffOptional("valid_from", ap.ValidFrom, bp.ValidFrom, add)
	diffOptionalDate("valid_to", ap.ValidTo, bp.ValidTo, add)
	diffOptional("percentage", ap.Percentage, bp.Percentage, add)
	diffOptional("commodity", ap.Commodity, bp.Commodity, add)
	diffOptional("volume", ap.Volume, bp.Volume, add)
	diffOptional("tier", ap.Tier, bp.Tier, add)
	diffOptional("service_type", ap.ServiceType, bp.ServiceType, add)
	diffOptional("event_type", ap.EventType, bp.EventType, add)
	diffOptional("scope", ap.Scope, bp.Scope, add)

	addedIDs, removedIDs := diffIdentifierSet(a.Identifiers, b.Identifiers)
	addedLabels, removedLabels := diffLabelSet(ap.Labels, bp.Labels)

	kind := Unchanged
	if len(changes) > 0 || len(addedIDs) > 0 || len(removedIDs) > 0 || len(addedLabels) > 0 || len(removedLabels) > 0 {
		kind = Modified
	}

	aCopy, bCopy := a, b
	return EdgeDiff{
		Kind: kind, A: &aCopy, B: &bCopy, EdgeType: a.Type,
		PropertyChanges: changes, AddedIdentifiers: addedIDs, RemovedIdentifiers: removedIDs,
		AddedLabels: addedLabels, RemovedLabels: removedLabels,
	}
}

func edgePropsOrEmpty(p *omtsf.EdgeProperties) omtsf.EdgeProperties {
	if p == nil {
		return omtsf.EdgeProperties{}
	}
	return *p
}

func diffOptionalDate(field string, a, b omtsf.OptionalDate, add func(string, any, any)) {
	if optionalDateEqual(a, b) {
		return
	}
	add(field, optionalDateRepr(a), optionalDateRepr(b))
}

func optionalDateEqual(a, b omtsf.OptionalDate) bool {
	if a.Present != b.Present {
		return false
	}
	if !a.Present {
		return true
	}
	if a.Null != b.Null {
		return false
	}
	if a.Null {
		return true
	}
	return a.Value.Compare(b.Value) == 0
}

func optionalDateRepr(o omtsf.OptionalDate) any {
	if !o.Present {
		return nil
	}
	if o.Null {
		return "no-expiry"
	}
	return o.Value.String()
}
