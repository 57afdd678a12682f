package merge

import (
	"sort"
	"strconv"
	"strings"

	"github.com/omtsf/omtsf-go"
	"github.com/omtsf/omtsf-go/identity"
	"github.com/omtsf/omtsf-go/unionfind"
)

// edgeIdentityFields mirrors the diff engine's type-specific identity
// properties, used here to decide whether two rewritten edges denote the
// same relationship and so collapse to one.
var edgeIdentityFields = map[string][]string{
	omtsf.EdgeTypeSupplies:            {"commodity"},
	omtsf.EdgeTypeOwnership:           {"percentage"},
	omtsf.EdgeTypeBeneficialOwnership: {"percentage"},
	omtsf.EdgeTypeTolls:               {"service_type"},
	omtsf.EdgeTypeBrokers:             {"service_type"},
	omtsf.EdgeTypeDistributes:         {"volume"},
}

type edgeSignature struct {
	source, target omtsf.NodeID
	edgeType       string
	identityProps  string
}

// mergeEdges rewrites every input edge's endpoints to their component's
// canonical NodeID and drops duplicates sharing the same (source, target,
// type) and identity-bearing properties, keeping the first occurrence in
// file order.
func mergeEdges(files []omtsf.File, uf *unionfind.UnionFind, canonicalID map[int]omtsf.NodeID, totalNodes int) []omtsf.Edge {
	nodeIndex := make(map[omtsf.NodeID]int, totalNodes)
	offset := 0
	for _, f := range files {
		for i, n := range f.Nodes {
			nodeIndex[n.ID] = offset + i
		}
		offset += len(f.Nodes)
	}

	canonicalOf := func(id omtsf.NodeID) omtsf.NodeID {
		gi, ok := nodeIndex[id]
		if !ok {
			return id
		}
		rep := uf.Find(gi)
		if cid, ok := canonicalID[rep]; ok {
			return cid
		}
		return id
	}

	seen := make(map[edgeSignature]bool)
	var out []omtsf.Edge
	for _, f := range files {
		for _, e := range f.Edges {
			rewritten := e
			rewritten.Source = canonicalOf(e.Source)
			rewritten.Target = canonicalOf(e.Target)

			sig := edgeSignature{
				source:        rewritten.Source,
				target:        rewritten.Target,
				edgeType:      rewritten.Type.String(),
				identityProps: edgeIdentityKey(rewritten),
			}
			if seen[sig] {
				continue
			}
			seen[sig] = true
			out = append(out, rewritten)
		}
	}
	return out
}

// edgeIdentityKey combines an edge's canonical identifier set with its
// type-specific identity-bearing properties into one comparable string.
func edgeIdentityKey(e omtsf.Edge) string {
	var idKeys []string
	for _, id := range e.Identifiers {
		if key, ok := identity.Normalize(id); ok {
			idKeys = append(idKeys, string(key))
		}
	}
	sort.Strings(idKeys)

	parts := []string{strings.Join(idKeys, ",")}
	for _, field := range edgeIdentityFields[e.Type.String()] {
		if v, ok := edgePropertyValue(e.Properties, field); ok {
			parts = append(parts, field+"="+v)
		}
	}
	return strings.Join(parts, "|")
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
