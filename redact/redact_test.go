package redact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	omtsf "github.com/omtsf/omtsf-go"
	"github.com/omtsf/omtsf-go/redact"
)

func salted(scope *omtsf.DisclosureScope) omtsf.File {
	return omtsf.File{
		OMTSFVersion:    omtsf.SemVer{Major: 1},
		FileSalt:        omtsf.FileSalt("aa00000000000000000000000000000000000000000000000000000000aa"),
		DisclosureScope: scope,
		Nodes: []omtsf.Node{
			{ID: "org-1", Type: omtsf.NewNodeType("organization"),
				Identifiers: []omtsf.Identifier{{Scheme: "lei", Value: "5493006MHB84DD0ZWV18"}}},
			{ID: "person-1", Type: omtsf.NewNodeType("person")},
		},
		Edges: []omtsf.Edge{
			{ID: "e1", Type: omtsf.NewEdgeType("beneficial_ownership"), Source: "org-1", Target: "person-1"},
		},
	}
}

func TestRedact_PublicOmitsPersonAndBeneficialOwnership(t *testing.T) {
	f := salted(nil)
	out, err := redact.Redact(&f, redact.Options{
		Target:    omtsf.ScopePublic,
		RetainIDs: map[omtsf.NodeID]bool{"org-1": true},
	})
	require.NoError(t, err)

	var sawOrg, sawPerson bool
	for _, n := range out.Nodes {
		if n.ID == "org-1" {
			sawOrg = true
		}
		if n.Type.Is("person") {
			sawPerson = true
		}
	}
	assert.True(t, sawOrg)
	assert.False(t, sawPerson)
	assert.Empty(t, out.Edges)
	require.NotNil(t, out.DisclosureScope)
	assert.Equal(t, omtsf.ScopePublic, *out.DisclosureScope)
}

func TestRedact_NonRetainedNodeReplacedWithBoundaryRef(t *testing.T) {
	f := salted(nil)
	out, err := redact.Redact(&f, redact.Options{Target: omtsf.ScopeInternal})
	require.NoError(t, err)

	var personStub *omtsf.Node
	for i := range out.Nodes {
		if out.Nodes[i].ID != "org-1" {
			personStub = &out.Nodes[i]
		}
	}
	require.NotNil(t, personStub)
	assert.True(t, personStub.Type.Is("boundary_ref"))
	require.Len(t, personStub.Identifiers, 1)
	assert.Equal(t, "opaque", personStub.Identifiers[0].Scheme)
}

// Identical salts produce identical boundary-reference hashes.
func TestRedact_BoundaryStability(t *testing.T) {
	f1 := salted(nil)
	f2 := salted(nil)

	out1, err := redact.Redact(&f1, redact.Options{Target: omtsf.ScopePublic})
	require.NoError(t, err)
	out2, err := redact.Redact(&f2, redact.Options{Target: omtsf.ScopePublic})
	require.NoError(t, err)

	orgHash1 := findBoundaryHash(t, out1.Nodes, "org-1")
	orgHash2 := findBoundaryHash(t, out2.Nodes, "org-1")
	assert.Equal(t, orgHash1, orgHash2)
}

// Different salts yield different boundary-reference hashes.
func TestRedact_BoundaryUnlinkability(t *testing.T) {
	f1 := salted(nil)
	f2 := salted(nil)
	f2.FileSalt = omtsf.FileSalt("bb00000000000000000000000000000000000000000000000000000000bb")

	out1, err := redact.Redact(&f1, redact.Options{Target: omtsf.ScopePublic})
	require.NoError(t, err)
	out2, err := redact.Redact(&f2, redact.Options{Target: omtsf.ScopePublic})
	require.NoError(t, err)

	orgHash1 := findBoundaryHash(t, out1.Nodes, "org-1")
	orgHash2 := findBoundaryHash(t, out2.Nodes, "org-1")
	assert.NotEqual(t, orgHash1, orgHash2)
}

func findBoundaryHash(t *testing.T, nodes []omtsf.Node, originalID omtsf.NodeID) string {
	t.Helper()
	for _, n := range nodes {
		if n.Type.Is("boundary_ref") {
			return n.Identifiers[0].Value
		}
	}
	t.Fatalf("no boundary_ref node found for %s", originalID)
	return ""
}

func TestRedact_ScopeViolation(t *testing.T) {
	scope := omtsf.ScopePublic
	f := salted(&scope)
	_, err := redact.Redact(&f, redact.Options{Target: omtsf.ScopeInternal})
	require.Error(t, err)
	var rerr *redact.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, redact.ScopeViolation, rerr.Kind)
}

func TestRedact_IdentifierSensitivityFiltering(t *testing.T) {
	restricted := omtsf.SensitivityRestricted
	confidential := omtsf.SensitivityConfidential
	f := omtsf.File{
		OMTSFVersion: omtsf.SemVer{Major: 1},
		FileSalt:     omtsf.FileSalt("aa00000000000000000000000000000000000000000000000000000000aa"),
		Nodes: []omtsf.Node{
			{ID: "org-1", Type: omtsf.NewNodeType("organization"), Identifiers: []omtsf.Identifier{
				{Scheme: "lei", Value: "A", Sensitivity: &restricted},
				{Scheme: "vat", Value: "B", Sensitivity: &confidential},
			}},
		},
	}
	out, err := redact.Redact(&f, redact.Options{
		Target:    omtsf.ScopePublic,
		RetainIDs: map[omtsf.NodeID]bool{"org-1": true},
	})
	require.NoError(t, err)
	require.Len(t, out.Nodes, 1)
	assert.Empty(t, out.Nodes[0].Identifiers)
}
