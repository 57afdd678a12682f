package merge_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	omtsf "github.com/omtsf/omtsf-go"
	"github.com/omtsf/omtsf-go/merge"
)

func orgFile(id omtsf.NodeID, lei, status string) omtsf.File {
	ident := omtsf.Identifier{Scheme: "lei", Value: lei}
	if status != "" {
		ident.Extra = omtsf.NewExtra()
		_ = ident.Extra.SetValue("entity_status", status)
	}
	return omtsf.File{
		OMTSFVersion: omtsf.SemVer{Major: 1},
		Nodes: []omtsf.Node{
			{ID: id, Type: omtsf.NewNodeType("organization"), Identifiers: []omtsf.Identifier{ident}},
		},
	}
}

// An annulled LEI does not merge two otherwise-distinct nodes.
func TestMerge_AnnulledLEIExcluded(t *testing.T) {
	a := orgFile("org-a", "5493006MHB84DD0ZWV18", "ANNULLED")
	b := orgFile("org-b", "5493006MHB84DD0ZWV18", "ANNULLED")

	out, err := merge.Merge([]omtsf.File{a, b}, merge.Options{Now: time.Unix(0, 0)})
	require.NoError(t, err)
	assert.Len(t, out.File.Nodes, 2)
}

// Merging a file with itself yields the same node set.
func TestMerge_Absorptive(t *testing.T) {
	f := orgFile("org-a", "5493006MHB84DD0ZWV18", "")
	out, err := merge.Merge([]omtsf.File{f, f}, merge.Options{Now: time.Unix(0, 0)})
	require.NoError(t, err)
	require.Len(t, out.File.Nodes, 1)
	assert.Equal(t, 0, out.ConflictCount)
}

// The same two files merge to the same node set regardless of input
// order, up to conflict-record source order.
func TestMerge_OrderIndependent(t *testing.T) {
	a := orgFile("org-a", "5493006MHB84DD0ZWV18", "")
	b := orgFile("org-b", "5493006MHB84DD0ZWV18", "")

	out1, err := merge.Merge([]omtsf.File{a, b}, merge.Options{Now: time.Unix(0, 0)})
	require.NoError(t, err)
	out2, err := merge.Merge([]omtsf.File{b, a}, merge.Options{Now: time.Unix(0, 0)})
	require.NoError(t, err)

	require.Len(t, out1.File.Nodes, 1)
	require.Len(t, out2.File.Nodes, 1)
	assert.Equal(t, out1.File.Nodes[0].ID, out2.File.Nodes[0].ID)
}

func TestMerge_ScalarConflictRecorded(t *testing.T) {
	nameA, nameB := "Acme Corp", "Acme Corporation"
	a := orgFile("org-a", "5493006MHB84DD0ZWV18", "")
	a.Nodes[0].Name = &nameA
	b := orgFile("org-b", "5493006MHB84DD0ZWV18", "")
	b.Nodes[0].Name = &nameB

	out, err := merge.Merge([]omtsf.File{a, b}, merge.Options{Now: time.Unix(0, 0)})
	require.NoError(t, err)
	require.Len(t, out.File.Nodes, 1)
	assert.Equal(t, 1, out.ConflictCount)
	assert.Equal(t, 1, out.File.Extra.Len()) // merge_metadata only, conflicts live on the node
}

func TestMerge_EdgesRewrittenToCanonicalEndpoints(t *testing.T) {
	a := omtsf.File{
		OMTSFVersion: omtsf.SemVer{Major: 1},
		Nodes: []omtsf.Node{
			{ID: "org-a", Type: omtsf.NewNodeType("organization"),
				Identifiers: []omtsf.Identifier{{Scheme: "lei", Value: "5493006MHB84DD0ZWV18"}}},
			{ID: "fac-a", Type: omtsf.NewNodeType("facility")},
		},
		Edges: []omtsf.Edge{
			{ID: "e1", Type: omtsf.NewEdgeType("operates"), Source: "org-a", Target: "fac-a"},
		},
	}
	b := omtsf.File{
		OMTSFVersion: omtsf.SemVer{Major: 1},
		Nodes: []omtsf.Node{
			{ID: "org-b", Type: omtsf.NewNodeType("organization"),
				Identifiers: []omtsf.Identifier{{Scheme: "lei", Value: "5493006MHB84DD0ZWV18"}}},
		},
	}

	out, err := merge.Merge([]omtsf.File{a, b}, merge.Options{Now: time.Unix(0, 0)})
	require.NoError(t, err)
	require.Len(t, out.File.Edges, 1)
	canonicalOrgID := out.File.Nodes[0].ID
	for _, n := range out.File.Nodes {
		if n.Type.String() == "facility" {
			continue
		}
		canonicalOrgID = n.ID
	}
	assert.Equal(t, canonicalOrgID, out.File.Edges[0].Source)
}

func TestMerge_EmptyInput(t *testing.T) {
	_, err := merge.Merge(nil, merge.Options{})
	require.Error(t, err)
	var merr *merge.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, merge.EmptyInput, merr.Kind)
}

func TestMerge_IncompatibleMajorVersion(t *testing.T) {
	a := omtsf.File{OMTSFVersion: omtsf.SemVer{Major: 1}}
	b := omtsf.File{OMTSFVersion: omtsf.SemVer{Major: 2}}
	_, err := merge.Merge([]omtsf.File{a, b}, merge.Options{})
	require.Error(t, err)
	var merr *merge.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, merge.IncompatibleMajorVersion, merr.Kind)
}
