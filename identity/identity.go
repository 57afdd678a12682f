// Package identity maps heterogeneous external identifiers (LEI, DUNS,
// GLN, VAT, national-registry) to a canonical comparison key, honouring
// the exclusion rules and temporal-compatibility check that let two nodes
// in two different files be recognised as the same legal entity.
package identity

import (
	"sort"
	"strings"

	"github.com/omtsf/omtsf-go"
)

// CanonicalID is an opaque string of the form
// "{scheme}:{value}[@{authority}]" produced by Normalize.
type CanonicalID string

// authorityRequiredSchemes lists schemes whose canonical key includes the
// authority suffix, appended only when the scheme requires authority
// disambiguation to avoid colliding distinct registries.
var authorityRequiredSchemes = map[string]bool{
	"nat-reg": true,
}

// upcaseValueSchemes lists schemes whose canonical value is uppercased.
var upcaseValueSchemes = map[string]bool{
	"lei":  true,
	"duns": true,
	"gln":  true,
}

// Normalize computes the CanonicalID for id. The boolean is false when id
// is excluded from the canonical index entirely (scheme "internal", an
// annulled LEI, or an authority-less nat-reg identifier), true otherwise.
func Normalize(id omtsf.Identifier) (CanonicalID, bool) {
	scheme := strings.ToLower(id.Scheme)
	if scheme == "internal" {
		return "", false
	}
	if scheme == "lei" {
		if status, ok := id.EntityStatus(); ok && status == "ANNULLED" {
			return "", false
		}
	}
	if scheme == "nat-reg" && (id.Authority == nil || strings.TrimSpace(*id.Authority) == "") {
		return "", false
	}

	value := strings.TrimSpace(id.Value)
	if scheme == "vat" {
		value = normalizeVAT(value)
	} else if upcaseValueSchemes[scheme] {
		value = strings.ToUpper(value)
	}

	key := scheme + ":" + value
	if authorityRequiredSchemes[scheme] && id.Authority != nil {
		key += "@" + strings.ToLower(strings.TrimSpace(*id.Authority))
	}
	return CanonicalID(key), true
}

// normalizeVAT uppercases the two-letter country prefix of a VAT value,
// leaving the remainder as supplied.
func normalizeVAT(value string) string {
	if len(value) < 2 {
		return value
	}
	prefix := strings.ToUpper(value[:2])
	return prefix + value[2:]
}

// Compatible reports whether two identifiers with equal canonical keys
// are temporally compatible: a.ValidTo is absent or "no expiry", or
// b.ValidFrom is absent, or a.ValidTo >= b.ValidFrom.
func Compatible(a, b omtsf.Identifier) bool {
	if !a.ValidTo.Present || a.ValidTo.IsInfinite() {
		return true
	}
	if b.ValidFrom == nil {
		return true
	}
	return !a.ValidTo.Value.Before(*b.ValidFrom)
}

// Match reports whether two identifiers denote the same canonical key and
// are temporally compatible in both directions.
func Match(a, b omtsf.Identifier) bool {
	keyA, okA := Normalize(a)
	keyB, okB := Normalize(b)
	if !okA || !okB || keyA != keyB {
		return false
	}
	return Compatible(a, b) && Compatible(b, a)
}

// Index maps a CanonicalID to every node index in a file whose
// identifiers normalize to it (excluded identifiers contribute no entry).
type Index map[CanonicalID][]int

// BuildIndex constructs a canonical index across nodes, recording each
// node's position (its slice index) under every canonical key any of its
// non-excluded identifiers produce.
func BuildIndex(nodes []omtsf.Node) Index {
	idx := make(Index)
	for i, n := range nodes {
		for _, id := range n.Identifiers {
			key, ok := Normalize(id)
			if !ok {
				continue
			}
			idx[key] = appendUnique(idx[key], i)
		}
	}
	return idx
}

func appendUnique(s []int, v int) []int {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}

// SortedKeys returns the index's canonical keys in deterministic
// (lexicographic) order, for callers that must iterate it reproducibly.
func (idx Index) SortedKeys() []CanonicalID {
	keys := make([]CanonicalID, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// IdentifiersMatch implements the diff engine's full matching predicate
// between two identifiers belonging to candidate nodes: equal scheme,
// trimmed-equal value, authority equal (case-insensitively) or both
// absent, and temporally compatible.
func IdentifiersMatch(a, b omtsf.Identifier) bool {
	if !strings.EqualFold(a.Scheme, b.Scheme) {
		return false
	}
	if strings.TrimSpace(a.Value) != strings.TrimSpace(b.Value) {
		return false
	}
	if !authorityEqual(a.Authority, b.Authority) {
		return false
	}
	return Compatible(a, b) && Compatible(b, a)
}

func authorityEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return strings.EqualFold(*a, *b)
}

// HasMatchingPair reports whether na and nb share at least one pair of
// identifiers satisfying the full IdentifiersMatch predicate — the
// candidate-verification step used by both the diff and merge engines
// after an index lookup narrows to nodes sharing a canonical key.
func HasMatchingPair(na, nb omtsf.Node) bool {
	for _, ia := range na.Identifiers {
		keyA, okA := Normalize(ia)
		if !okA {
			continue
		}
		for _, ib := range nb.Identifiers {
			keyB, okB := Normalize(ib)
			if !okB || keyA != keyB {
				continue
			}
			if IdentifiersMatch(ia, ib) {
				return true
			}
		}
	}
	return false
}

// CanonicalIDsForNode returns the sorted, deduplicated set of canonical
// keys for a node's non-excluded identifiers — used to build the boundary
// reference hash input during redaction.
func CanonicalIDsForNode(n omtsf.Node) []CanonicalID {
	seen := make(map[CanonicalID]bool)
	var out []CanonicalID
	for _, id := range n.Identifiers {
		key, ok := Normalize(id)
		if !ok {
			continue
		}
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
