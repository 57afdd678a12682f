package diff

import (
	"fmt"
	"sort"

	"github.com/omtsf/omtsf-go"
	"github.com/omtsf/omtsf-go/identity"
	"github.com/omtsf/omtsf-go/unionfind"
)

// diffNodes runs the full node-matching algorithm: identity closure over
// a union-find spanning A (indices [0,n)) and B
// (indices [n, n+m)), an ID-fallback pass, then component classification
// into removed/added/modified/unchanged node diffs in stable order.
func diffNodes(a, b []omtsf.Node, filter *Filter) (*unionfind.UnionFind, []NodeDiff, []string) {
	n, m := len(a), len(b)
	uf := unionfind.New(n + m)
	witness := make(map[[2]int]string)

	idxA := identity.BuildIndex(a)
	idxB := identity.BuildIndex(b)

	for _, key := range idxA.SortedKeys() {
		bCandidates, ok := idxB[key]
		if !ok {
			continue
		}
		for _, ai := range idxA[key] {
			for _, bj := range bCandidates {
				if !identity.HasMatchingPair(a[ai], b[bj]) {
					continue
				}
				uf.Union(ai, n+bj)
				witness[[2]int{ai, bj}] = string(key)
			}
		}
	}

	// Fallback: any still-unrelated (ai, bj) pair sharing a NodeId string.
	bByID := make(map[omtsf.NodeID]int, m)
	for j, node := range b {
		bByID[node.ID] = j
	}
	for ai := range a {
		bj, ok := bByID[a[ai].ID]
		if !ok {
			continue
		}
		if uf.Connected(ai, n+bj) {
			continue
		}
		uf.Union(ai, n+bj)
		witness[[2]int{ai, bj}] = fmt.Sprintf("node-id:%s", a[ai].ID)
	}

	components := uf.Components()
	processed := make(map[int]bool, len(components))

	var diffs []NodeDiff
	var warnings []string

	emit := func(rep int) {
		members := sortedInts(components[rep])
		var aMembers, bMembers []int
		for _, idx := range members {
			if idx < n {
				aMembers = append(aMembers, idx)
			} else {
				bMembers = append(bMembers, idx-n)
			}
		}
		switch {
		case len(bMembers) == 0:
			for _, ai := range aMembers {
				node := a[ai]
				diffs = append(diffs, NodeDiff{Kind: Removed, A: &node, NodeType: node.Type})
			}
		case len(aMembers) == 0:
			for _, bj := range bMembers {
				node := b[bj]
				diffs = append(diffs, NodeDiff{Kind: Added, B: &node, NodeType: node.Type})
			}
		default:
			if len(aMembers) > 1 || len(bMembers) > 1 {
				warnings = append(warnings, ambiguityWarning(a, b, aMembers, bMembers))
			}
			for _, ai := range aMembers {
				for _, bj := range bMembers {
					diffs = append(diffs, matchedNodeDiff(a[ai], b[bj], witness[[2]int{ai, bj}], filter))
				}
			}
		}
	}

	for ai := 0; ai < n; ai++ {
		rep := uf.Find(ai)
		if processed[rep] {
			continue
		}
		processed[rep] = true
		emit(rep)
	}
	for bj := 0; bj < m; bj++ {
		rep := uf.Find(n + bj)
		if processed[rep] {
			continue
		}
		processed[rep] = true
		emit(rep)
	}

	return uf, applyTypeFilter(diffs, filter), warnings
}

func applyTypeFilter(diffs []NodeDiff, filter *Filter) []NodeDiff {
	if filter == nil || len(filter.NodeTypes) == 0 {
		return diffs
	}
	out := diffs[:0]
	for _, d := range diffs {
		t := d.NodeType.String()
		if filter.allowsNodeType(t) {
			out = append(out, d)
		}
	}
	return out
}

func ambiguityWarning(a, b []omtsf.Node, aMembers, bMembers []int) string {
	var ids []string
	for _, ai := range aMembers {
		ids = append(ids, string(a[ai].ID))
	}
	for _, bj := range bMembers {
		ids = append(ids, string(b[bj].ID))
	}
	return fmt.Sprintf("ambiguous identity match: %v", ids)
}

// matchedNodeDiff compares a matched (A, B) node pair field by field,
// classifying the result as Modified or Unchanged.
func matchedNodeDiff(a, b omtsf.Node, witness string, filter *Filter) NodeDiff {
	var changes []PropertyChange
	add := func(field string, oldV, newV any) {
		if filter.ignores(field) {
			return
		}
		changes = append(changes, PropertyChange{Field: field, Old: oldV, New: newV})
	}

	// Node-type disagreement is recorded as a property change; A's type
	// is preserved on the NodeDiff itself.
	if a.Type.String() != b.Type.String() {
		add("type", a.Type.String(), b.Type.String())
	}

	diffOptional("name", a.Name, b.Name, add)
	diffOptional("jurisdiction", a.Jurisdiction, b.Jurisdiction, add)
	diffOptional("status", a.Status, b.Status, add)
	diffOptional("operator", a.Operator, b.Operator, add)
	diffOptional("address", a.Address, b.Address, add)
	diffOptional("geo", a.Geo, b.Geo, add)
	diffOptional("commodity_code", a.CommodityCode, b.CommodityCode, add)
	diffOptional("unit", a.Unit, b.Unit, add)
	diffOptional("role", a.Role, b.Role, add)
	diffOptional("attestation_status", a.AttestationStatus, b.AttestationStatus, add)
	diffOptional("attestation_outcome", a.AttestationOutcome, b.AttestationOutcome, add)
	diffOptional("standard", a.Standard, b.Standard, add)
	diffOptional("issuer", a.Issuer, b.Issuer, add)
	diffOptional("risk_severity", a.RiskSeverity, b.RiskSeverity, add)
	diffOptional("risk_likelihood", a.RiskLikelihood, b.RiskLikelihood, add)
	diffOptional("volume", a.Volume, b.Volume, add)
	diffOptional("consolidation_basis", a.ConsolidationBasis, b.ConsolidationBasis, add)
	diffOptional("emission_factor_source", a.EmissionFactorSource, b.EmissionFactorSource, add)
	diffOptional("co2e_kg", a.CO2eKg, b.CO2eKg, add)
	diffOptional("installation_id", a.InstallationID, b.InstallationID, add)

	addedIDs, removedIDs := diffIdentifierSet(a.Identifiers, b.Identifiers)
	addedLabels, removedLabels := diffLabelSet(a.Labels, b.Labels)

	kind := Unchanged
	if len(changes) > 0 || len(addedIDs) > 0 || len(removedIDs) > 0 || len(addedLabels) > 0 || len(removedLabels) > 0 {
		kind = Modified
	}

	aCopy, bCopy := a, b
	return NodeDiff{
		Kind: kind, A: &aCopy, B: &bCopy, NodeType: a.Type, Witness: witness,
		PropertyChanges: changes, AddedIdentifiers: addedIDs, RemovedIdentifiers: removedIDs,
		AddedLabels: addedLabels, RemovedLabels: removedLabels,
	}
}

// diffOptional compares two pointers to a comparable type and, on
// disagreement, reports the change via add. Either side being nil is
// reported with a nil counterpart.
func diffOptional[T comparable](field string, a, b *T, add func(string, any, any)) {
	switch {
	case a == nil && b == nil:
		return
	case a == nil:
		add(field, nil, *b)
	case b == nil:
		add(field, *a, nil)
	case *a != *b:
		add(field, *a, *b)
	}
}

// diffIdentifierSet computes the set diff over canonical keys between two
// identifier slices.
func diffIdentifierSet(a, b []omtsf.Identifier) (added, removed []omtsf.Identifier) {
	aKeys := make(map[identity.CanonicalID]omtsf.Identifier)
	for _, id := range a {
		if key, ok := identity.Normalize(id); ok {
			aKeys[key] = id
		}
	}
	bKeys := make(map[identity.CanonicalID]omtsf.Identifier)
	for _, id := range b {
		if key, ok := identity.Normalize(id); ok {
			bKeys[key] = id
		}
	}
	var aSorted, bSorted []identity.CanonicalID
	for k := range aKeys {
		aSorted = append(aSorted, k)
	}
	for k := range bKeys {
		bSorted = append(bSorted, k)
	}
	sort.Slice(aSorted, func(i, j int) bool { return aSorted[i] < aSorted[j] })
	sort.Slice(bSorted, func(i, j int) bool { return bSorted[i] < bSorted[j] })

	for _, k := range aSorted {
		if _, ok := bKeys[k]; !ok {
			removed = append(removed, aKeys[k])
		}
	}
	for _, k := range bSorted {
		if _, ok := aKeys[k]; !ok {
			added = append(added, bKeys[k])
		}
	}
	return added, removed
}

// diffLabelSet computes the set diff over (key, value) pairs.
func diffLabelSet(a, b []omtsf.Label) (added, removed []omtsf.Label) {
	aSet := make(map[omtsf.Label]bool, len(a))
	for _, l := range a {
		aSet[l] = true
	}
	bSet := make(map[omtsf.Label]bool, len(b))
	for _, l := range b {
		bSet[l] = true
	}
	sortLabels := func(xs []omtsf.Label) {
		sort.Slice(xs, func(i, j int) bool {
			if xs[i].Key != xs[j].Key {
				return xs[i].Key < xs[j].Key
			}
			return xs[i].Value < xs[j].Value
		})
	}
	for _, l := range a {
		if !bSet[l] {
			removed = append(removed, l)
		}
	}
	for _, l := range b {
		if !aSet[l] {
			added = append(added, l)
		}
	}
	sortLabels(removed)
	sortLabels(added)
	return added, removed
}
