// Package merge implements an N-file merge engine: canonical grouping via
// the same identity closure the diff engine uses, scalar-property
// conflict recording, identifier/label set-union, and merge-metadata
// synthesis.
package merge

import (
	"sort"
	"time"

	"github.com/omtsf/omtsf-go"
	"github.com/omtsf/omtsf-go/identity"
	"github.com/omtsf/omtsf-go/unionfind"
)

// Options configures a Merge run. Now and Salt let the caller supply the
// wall-clock reading and/or a pre-generated salt so the engine's own
// logic stays a pure function of its inputs; a zero Salt triggers
// omtsf.GenerateFileSalt, the core's one sanctioned entropy source.
type Options struct {
	Now         time.Time
	Salt        omtsf.FileSalt
	SourceNames []string
}

// Output is the result of a successful Merge.
type Output struct {
	File          omtsf.File
	ConflictCount int
}

// Merge combines N files into one, unioning nodes that share a canonical
// identifier (or a NodeID, as a fallback) into single canonical nodes,
// rewriting edge endpoints accordingly, and recording any scalar-property
// disagreement as a conflict rather than failing.
func Merge(files []omtsf.File, opts Options) (*Output, error) {
	if len(files) == 0 {
		return nil, &Error{Kind: EmptyInput}
	}
	for i := 1; i < len(files); i++ {
		if files[i].OMTSFVersion.Major != files[0].OMTSFVersion.Major {
			return nil, &Error{Kind: IncompatibleMajorVersion,
				A: files[0].OMTSFVersion.String(), B: files[i].OMTSFVersion.String()}
		}
	}

	var allNodes []omtsf.Node
	var originFile []int
	for fi, f := range files {
		for _, n := range f.Nodes {
			allNodes = append(allNodes, n)
			originFile = append(originFile, fi)
		}
	}

	uf := unionByIdentity(allNodes)
	unionByNodeID(uf, allNodes)

	components := uf.Components()
	repOrder := orderedRepresentatives(components, allNodes)

	canonicalID := make(map[int]omtsf.NodeID, len(repOrder))
	var mergedNodes []omtsf.Node
	conflictCount := 0
	for _, rep := range repOrder {
		members := sortedMembers(components[rep])
		node, conflicts := synthesizeNode(allNodes, originFile, members, opts.SourceNames)
		canonicalID[rep] = node.ID
		for _, m := range members {
			canonicalID[m] = node.ID
		}
		conflictCount += conflicts
		mergedNodes = append(mergedNodes, node)
	}

	mergedEdges := mergeEdges(files, uf, canonicalID, len(allNodes))

	salt := opts.Salt
	if salt == "" {
		var err error
		salt, err = omtsf.GenerateFileSalt()
		if err != nil {
			return nil, err
		}
	}

	out := files[0]
	out.Nodes = mergedNodes
	out.Edges = mergedEdges
	out.FileSalt = salt
	out.SnapshotDate = omtsf.CalendarDateFromTime(opts.Now)
	out.Extra = out.Extra.Clone()
	out.Extra.SetValue("merge_metadata", mergeMetadata(files, opts, conflictCount))

	return &Output{File: out, ConflictCount: conflictCount}, nil
}

// unionByIdentity unions every pair of nodes across the combined list
// whose identifiers satisfy identity.HasMatchingPair, restricted to
// candidates sharing a canonical key.
func unionByIdentity(nodes []omtsf.Node) *unionfind.UnionFind {
	uf := unionfind.New(len(nodes))
	idx := identity.BuildIndex(nodes)
	for _, key := range idx.SortedKeys() {
		members := idx[key]
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				if identity.HasMatchingPair(nodes[members[i]], nodes[members[j]]) {
					uf.Union(members[i], members[j])
				}
			}
		}
	}
	return uf
}

// unionByNodeID is a fallback union pass: any two nodes sharing a NodeID
// string are unioned, whatever their canonical identifiers say.
func unionByNodeID(uf *unionfind.UnionFind, nodes []omtsf.Node) {
	byID := make(map[omtsf.NodeID][]int)
	for i, n := range nodes {
		byID[n.ID] = append(byID[n.ID], i)
	}
	for _, members := range byID {
		for i := 1; i < len(members); i++ {
			uf.Union(members[0], members[i])
		}
	}
}

// orderedRepresentatives returns each component's representative, sorted
// by the lexicographically smallest member NodeID in that component —
// the same key used to name the canonical node, so component processing
// order is itself deterministic.
func orderedRepresentatives(components map[int][]int, nodes []omtsf.Node) []int {
	type entry struct {
		rep   int
		minID omtsf.NodeID
	}
	entries := make([]entry, 0, len(components))
	for rep, members := range components {
		min := nodes[members[0]].ID
		for _, m := range members[1:] {
			if nodes[m].ID < min {
				min = nodes[m].ID
			}
		}
		entries = append(entries, entry{rep: rep, minID: min})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].minID != entries[j].minID {
			return entries[i].minID < entries[j].minID
		}
		return entries[i].rep < entries[j].rep
	})
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.rep
	}
	return out
}

func sortedMembers(members []int) []int {
	out := append([]int(nil), members...)
	sort.Ints(out)
	return out
}

func mergeMetadata(files []omtsf.File, opts Options, conflicts int) map[string]any {
	names := opts.SourceNames
	if len(names) != len(files) {
		names = make([]string, len(files))
		for i := range files {
			names[i] = files[i].SnapshotDate.String()
		}
	}
	return map[string]any{
		"source_files":   names,
		"merged_at":      opts.Now.UTC().Format(time.RFC3339),
		"conflict_count": conflicts,
	}
}
