package merge

import (
	"sort"

	"github.com/omtsf/omtsf-go"
	"github.com/omtsf/omtsf-go/identity"
)

// conflictRecord is the shape written to a merged node's
// extra["_conflicts"] array.
type conflictRecord struct {
	Field   string   `json:"field"`
	Sources []string `json:"sources"`
	Values  []any    `json:"values"`
}

// synthesizeNode collapses one union-find component (a set of indices
// into allNodes) into a single canonical node, returning the number of
// scalar-field conflicts recorded.
func synthesizeNode(allNodes []omtsf.Node, originFile []int, members []int, sourceNames []string) (omtsf.Node, int) {
	group := make([]omtsf.Node, len(members))
	sources := make([]string, len(members))
	for i, m := range members {
		group[i] = allNodes[m]
		sources[i] = string(allNodes[m].ID)
	}

	id := group[0].ID
	for _, n := range group[1:] {
		if n.ID < id {
			id = n.ID
		}
	}

	nodeType, typeConflict := mergeNodeType(group, sources)

	var conflicts []conflictRecord
	if typeConflict != nil {
		conflicts = append(conflicts, *typeConflict)
	}

	out := omtsf.Node{ID: id, Type: nodeType}
	out.Name = mergeOptional("name", pluck(group, func(n omtsf.Node) *string { return n.Name }), sources, &conflicts)
	out.Jurisdiction = mergeOptional("jurisdiction", pluck(group, func(n omtsf.Node) *omtsf.CountryCode { return n.Jurisdiction }), sources, &conflicts)
	out.Status = mergeOptional("status", pluck(group, func(n omtsf.Node) *string { return n.Status }), sources, &conflicts)
	out.Operator = mergeOptional("operator", pluck(group, func(n omtsf.Node) *string { return n.Operator }), sources, &conflicts)
	out.Address = mergeOptional("address", pluck(group, func(n omtsf.Node) *string { return n.Address }), sources, &conflicts)
	out.Geo = mergeOptional("geo", pluck(group, func(n omtsf.Node) *omtsf.GeoPoint { return n.Geo }), sources, &conflicts)
	out.CommodityCode = mergeOptional("commodity_code", pluck(group, func(n omtsf.Node) *string { return n.CommodityCode }), sources, &conflicts)
	out.Unit = mergeOptional("unit", pluck(group, func(n omtsf.Node) *string { return n.Unit }), sources, &conflicts)
	out.Role = mergeOptional("role", pluck(group, func(n omtsf.Node) *string { return n.Role }), sources, &conflicts)
	out.AttestationStatus = mergeOptional("attestation_status", pluck(group, func(n omtsf.Node) *omtsf.AttestationStatus { return n.AttestationStatus }), sources, &conflicts)
	out.AttestationOutcome = mergeOptional("attestation_outcome", pluck(group, func(n omtsf.Node) *omtsf.AttestationOutcome { return n.AttestationOutcome }), sources, &conflicts)
	out.Standard = mergeOptional("standard", pluck(group, func(n omtsf.Node) *string { return n.Standard }), sources, &conflicts)
	out.Issuer = mergeOptional("issuer", pluck(group, func(n omtsf.Node) *string { return n.Issuer }), sources, &conflicts)
	out.RiskSeverity = mergeOptional("risk_severity", pluck(group, func(n omtsf.Node) *omtsf.RiskSeverity { return n.RiskSeverity }), sources, &conflicts)
	out.RiskLikelihood = mergeOptional("risk_likelihood", pluck(group, func(n omtsf.Node) *omtsf.RiskLikelihood { return n.RiskLikelihood }), sources, &conflicts)
	out.Volume = mergeOptional("volume", pluck(group, func(n omtsf.Node) *float64 { return n.Volume }), sources, &conflicts)
	out.ConsolidationBasis = mergeOptional("consolidation_basis", pluck(group, func(n omtsf.Node) *omtsf.ConsolidationBasis { return n.ConsolidationBasis }), sources, &conflicts)
	out.EmissionFactorSource = mergeOptional("emission_factor_source", pluck(group, func(n omtsf.Node) *omtsf.EmissionFactorSource { return n.EmissionFactorSource }), sources, &conflicts)
	out.CO2eKg = mergeOptional("co2e_kg", pluck(group, func(n omtsf.Node) *float64 { return n.CO2eKg }), sources, &conflicts)
	out.InstallationID = mergeOptional("installation_id", pluck(group, func(n omtsf.Node) *string { return n.InstallationID }), sources, &conflicts)

	for _, n := range group {
		if n.DataQuality != nil && out.DataQuality == nil {
			out.DataQuality = n.DataQuality
		}
	}

	out.Identifiers = unionIdentifiers(group)
	out.Labels = unionLabels(group)
	out.Extra = mergeExtra(group, conflicts)

	return out, len(conflicts)
}

// mergeNodeType picks the first known type among the group members
// (falling back to the first member's type when none is known),
// recording a conflict when two members disagree on a known type.
func mergeNodeType(group []omtsf.Node, sources []string) (omtsf.NodeType, *conflictRecord) {
	first := group[0].Type
	for _, n := range group {
		if n.Type.IsKnown() {
			first = n.Type
			break
		}
	}
	disagree := false
	var values []any
	for _, n := range group {
		values = append(values, n.Type.String())
		if n.Type.IsKnown() && n.Type.String() != first.String() {
			disagree = true
		}
	}
	if !disagree {
		return first, nil
	}
	return first, &conflictRecord{Field: "type", Sources: append([]string(nil), sources...), Values: values}
}

// pluck extracts one optional field from every member of a group.
func pluck[T any](group []omtsf.Node, get func(omtsf.Node) *T) []*T {
	out := make([]*T, len(group))
	for i, n := range group {
		out[i] = get(n)
	}
	return out
}

// mergeOptional returns the agreed value of a scalar optional field
// across a group, or the first member's value with a recorded conflict
// when two non-nil values disagree.
func mergeOptional[T comparable](field string, values []*T, sources []string, conflicts *[]conflictRecord) *T {
	var first *T
	disagree := false
	var srcs []string
	var vals []any
	for i, v := range values {
		if v == nil {
			continue
		}
		srcs = append(srcs, sources[i])
		vals = append(vals, *v)
		if first == nil {
			first = v
			continue
		}
		if *v != *first {
			disagree = true
		}
	}
	if disagree {
		*conflicts = append(*conflicts, conflictRecord{Field: field, Sources: srcs, Values: vals})
	}
	return first
}

// unionIdentifiers merges every member's identifiers by canonical key,
// preserving distinct scheme/value/authority triples and the first
// member's casing when two identifiers share a canonical key.
func unionIdentifiers(group []omtsf.Node) []omtsf.Identifier {
	seen := make(map[string]bool)
	var out []omtsf.Identifier
	for _, n := range group {
		for _, id := range n.Identifiers {
			dedupeKey := id.Scheme + "\x00" + id.Value
			if key, ok := identity.Normalize(id); ok {
				dedupeKey = string(key)
			}
			if seen[dedupeKey] {
				continue
			}
			seen[dedupeKey] = true
			out = append(out, id)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Scheme != out[j].Scheme {
			return out[i].Scheme < out[j].Scheme
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func unionLabels(group []omtsf.Node) []omtsf.Label {
	seen := make(map[omtsf.Label]bool)
	var out []omtsf.Label
	for _, n := range group {
		for _, l := range n.Labels {
			if seen[l] {
				continue
			}
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// mergeExtra unions every member's Extra map (first-member-wins on key
// collision) and attaches the recorded conflicts under "_conflicts".
func mergeExtra(group []omtsf.Node, conflicts []conflictRecord) *omtsf.Extra {
	out := omtsf.NewExtra()
	for i := len(group) - 1; i >= 0; i-- {
		if group[i].Extra == nil {
			continue
		}
		for _, k := range group[i].Extra.Keys() {
			v, _ := group[i].Extra.Get(k)
			out.Set(k, v)
		}
	}
	if len(conflicts) > 0 {
		_ = out.SetValue("_conflicts", conflicts)
	}
	return out
}
