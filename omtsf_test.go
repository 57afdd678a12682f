package omtsf_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	omtsf "github.com/omtsf/omtsf-go"
)

func TestParseSemVer_RoundTripsThroughString(t *testing.T) {
	v, err := omtsf.ParseSemVer("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, omtsf.SemVer{Major: 1, Minor: 2, Patch: 3}, v)
	assert.Equal(t, "1.2.3", v.String())
}

func TestParseSemVer_RejectsMalformed(t *testing.T) {
	_, err := omtsf.ParseSemVer("1.2")
	assert.Error(t, err)
	var pe *omtsf.InvalidPrimitiveError
	assert.ErrorAs(t, err, &pe)
}

func TestSemVer_CompareOrdersByComponent(t *testing.T) {
	assert.Equal(t, -1, omtsf.SemVer{Major: 1}.Compare(omtsf.SemVer{Major: 2}))
	assert.Equal(t, 0, omtsf.SemVer{Major: 1, Minor: 2}.Compare(omtsf.SemVer{Major: 1, Minor: 2}))
	assert.Equal(t, 1, omtsf.SemVer{Major: 1, Minor: 3}.Compare(omtsf.SemVer{Major: 1, Minor: 2}))
}

func TestParseCalendarDate_RejectsOutOfRangeMonth(t *testing.T) {
	_, err := omtsf.ParseCalendarDate("2026-13-01")
	assert.Error(t, err)
}

func TestCalendarDate_BeforeAfter(t *testing.T) {
	a := omtsf.CalendarDate{Year: 2026, Month: 1, Day: 1}
	b := omtsf.CalendarDate{Year: 2026, Month: 2, Day: 1}
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(b))
}

func TestParseFileSalt_RequiresSixtyFourHexChars(t *testing.T) {
	_, err := omtsf.ParseFileSalt("deadbeef")
	assert.Error(t, err)

	salt, err := omtsf.GenerateFileSalt()
	require.NoError(t, err)
	parsed, err := omtsf.ParseFileSalt(string(salt))
	require.NoError(t, err)
	assert.Equal(t, salt, parsed)
}

func TestFileSalt_SaltBytesRoundTrips(t *testing.T) {
	salt, err := omtsf.GenerateFileSalt()
	require.NoError(t, err)
	b, err := salt.SaltBytes()
	require.NoError(t, err)
	assert.Len(t, b, 32)
}

func TestParseNodeID_RejectsEmptyAndTooLong(t *testing.T) {
	_, err := omtsf.ParseNodeID("")
	assert.Error(t, err)

	_, err = omtsf.ParseNodeID(string(make([]byte, 129)))
	assert.Error(t, err)

	id, err := omtsf.ParseNodeID("org-1")
	require.NoError(t, err)
	assert.Equal(t, omtsf.NodeID("org-1"), id)
}

func TestNodeType_UnknownStringBecomesExtension(t *testing.T) {
	known := omtsf.NewNodeType("organization")
	assert.True(t, known.IsKnown())
	assert.Equal(t, "organization", known.String())

	ext := omtsf.NewNodeType("vessel")
	assert.False(t, ext.IsKnown())
	assert.Equal(t, "vessel", ext.String())
}

func TestExtra_KeysAreSortedRegardlessOfInsertionOrder(t *testing.T) {
	e := omtsf.NewExtra()
	e.Set("zeta", json.RawMessage(`1`))
	e.Set("alpha", json.RawMessage(`2`))
	e.Set("mu", json.RawMessage(`3`))
	assert.Equal(t, []string{"alpha", "mu", "zeta"}, e.Keys())
}

func TestExtra_GetValueRoundTrips(t *testing.T) {
	e := omtsf.NewExtra()
	require.NoError(t, e.SetValue("count", 42))
	var n int
	ok, err := e.GetValue("count", &n)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, n)
}

func TestExtra_EqualIgnoresJSONWhitespace(t *testing.T) {
	a := omtsf.NewExtra()
	a.Set("x", json.RawMessage(`{"a":1,"b":2}`))
	b := omtsf.NewExtra()
	b.Set("x", json.RawMessage(`{ "a" : 1, "b" : 2 }`))
	assert.True(t, a.Equal(b))
}

func TestOptionalDate_ThreeStatesRoundTrip(t *testing.T) {
	absent := omtsf.Absent()
	raw, emit, err := absent.MarshalJSONField()
	require.NoError(t, err)
	assert.False(t, emit)
	assert.Nil(t, raw)

	noExpiry := omtsf.NoExpiry()
	raw, emit, err = noExpiry.MarshalJSONField()
	require.NoError(t, err)
	assert.True(t, emit)
	assert.Equal(t, "null", string(raw))

	d := omtsf.CalendarDate{Year: 2030, Month: 1, Day: 1}
	on := omtsf.On(d)
	raw, emit, err = on.MarshalJSONField()
	require.NoError(t, err)
	assert.True(t, emit)
	assert.JSONEq(t, `"2030-01-01"`, string(raw))
	assert.True(t, on.IsInfinite() == false)
	assert.True(t, noExpiry.IsInfinite())
}

func TestOptionalDate_UnmarshalDistinguishesAbsentFromNull(t *testing.T) {
	absent, err := omtsf.UnmarshalOptionalDate(nil, false)
	require.NoError(t, err)
	assert.False(t, absent.Present)

	null, err := omtsf.UnmarshalOptionalDate(json.RawMessage("null"), true)
	require.NoError(t, err)
	assert.True(t, null.Present)
	assert.True(t, null.Null)

	present, err := omtsf.UnmarshalOptionalDate(json.RawMessage(`"2030-01-01"`), true)
	require.NoError(t, err)
	assert.True(t, present.Present)
	assert.False(t, present.Null)
	assert.Equal(t, 2030, present.Value.Year)
}

func TestFile_JSONRoundTripPreservesExtraAndOptionalFields(t *testing.T) {
	extra := omtsf.NewExtra()
	require.NoError(t, extra.SetValue("custom_field", "custom_value"))

	seq := int64(7)
	f := omtsf.File{
		OMTSFVersion: omtsf.SemVer{Major: 1, Minor: 0, Patch: 0},
		SnapshotDate: omtsf.CalendarDate{Year: 2026, Month: 7, Day: 31},
		FileSalt:     omtsf.FileSalt("deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"),
		Nodes: []omtsf.Node{
			{ID: "org-1", Type: omtsf.NewNodeType("organization")},
		},
		Edges:            nil,
		SnapshotSequence: &seq,
		Extra:            extra,
	}

	data, err := json.Marshal(f)
	require.NoError(t, err)

	var decoded omtsf.File
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, f.OMTSFVersion, decoded.OMTSFVersion)
	assert.Equal(t, f.SnapshotDate, decoded.SnapshotDate)
	assert.Equal(t, f.FileSalt, decoded.FileSalt)
	require.Len(t, decoded.Nodes, 1)
	assert.Equal(t, omtsf.NodeID("org-1"), decoded.Nodes[0].ID)
	require.NotNil(t, decoded.SnapshotSequence)
	assert.Equal(t, int64(7), *decoded.SnapshotSequence)

	var customValue string
	ok, err := decoded.Extra.GetValue("custom_field", &customValue)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "custom_value", customValue)

	// edges omitted entirely from the struct still round-trip as an
	// empty array, never null, since the wire format requires the key.
	assert.NotNil(t, decoded.Edges)
	assert.Empty(t, decoded.Edges)
}

func TestFile_NodeByID(t *testing.T) {
	f := omtsf.File{
		Nodes: []omtsf.Node{
			{ID: "a", Type: omtsf.NewNodeType("organization")},
			{ID: "b", Type: omtsf.NewNodeType("facility")},
		},
	}
	n, ok := f.NodeByID("b")
	require.True(t, ok)
	assert.Equal(t, omtsf.NodeID("b"), n.ID)

	_, ok = f.NodeByID("missing")
	assert.False(t, ok)
}

func TestEdge_PropertiesDefaultToEmptyObjectOnWire(t *testing.T) {
	e := omtsf.Edge{ID: "e1", Type: omtsf.NewEdgeType("supplies"), Source: "a", Target: "b"}
	data, err := json.Marshal(e)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))
	assert.JSONEq(t, "{}", string(m["properties"]))
}

func TestNode_DataQualityExtraFieldRoundTrips(t *testing.T) {
	raw := []byte(`{
		"id": "org-1",
		"type": "organization",
		"data_quality": {
			"source": "customs-declaration",
			"assessed_by": "third-party-auditor"
		}
	}`)

	var n omtsf.Node
	require.NoError(t, json.Unmarshal(raw, &n))
	require.NotNil(t, n.DataQuality)
	require.NotNil(t, n.DataQuality.Source)
	assert.Equal(t, "customs-declaration", *n.DataQuality.Source)

	var assessedBy string
	ok, err := n.DataQuality.Extra.GetValue("assessed_by", &assessedBy)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "third-party-auditor", assessedBy)

	data, err := json.Marshal(n)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))
	var dq map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(m["data_quality"], &dq))
	assert.JSONEq(t, `"third-party-auditor"`, string(dq["assessed_by"]))
}

func TestEdgeProperties_DataQualityExtraFieldRoundTrips(t *testing.T) {
	raw := []byte(`{
		"data_quality": {
			"confidence": "high",
			"reviewed_at": "2026-07-31"
		}
	}`)

	var p omtsf.EdgeProperties
	require.NoError(t, json.Unmarshal(raw, &p))
	require.NotNil(t, p.DataQuality)

	var reviewedAt string
	ok, err := p.DataQuality.Extra.GetValue("reviewed_at", &reviewedAt)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2026-07-31", reviewedAt)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded omtsf.EdgeProperties
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.DataQuality)
	var roundTripped string
	ok, err = decoded.DataQuality.Extra.GetValue("reviewed_at", &roundTripped)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2026-07-31", roundTripped)
}

func TestEdgeProperties_ValidToAbsentVsNullRoundTrip(t *testing.T) {
	p := omtsf.EdgeProperties{ValidTo: omtsf.NoExpiry()}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded omtsf.EdgeProperties
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.ValidTo.Present)
	assert.True(t, decoded.ValidTo.Null)

	var bare omtsf.EdgeProperties
	data, err = json.Marshal(bare)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.ValidTo.Present)
}
