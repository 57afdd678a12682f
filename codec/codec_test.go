package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	omtsf "github.com/omtsf/omtsf-go"
	"github.com/omtsf/omtsf-go/codec"
)

func sampleFile() *omtsf.File {
	seq := int64(42)
	return &omtsf.File{
		OMTSFVersion: omtsf.SemVer{Major: 1},
		SnapshotDate: omtsf.CalendarDate{Year: 2026, Month: 1, Day: 1},
		FileSalt:     omtsf.FileSalt("aa00000000000000000000000000000000000000000000000000000000aa"),
		Nodes: []omtsf.Node{
			{ID: "org-1", Type: omtsf.NewNodeType("organization"),
				Identifiers: []omtsf.Identifier{{Scheme: "lei", Value: "5493006MHB84DD0ZWV18"}}},
			{ID: "fac-1", Type: omtsf.NewNodeType("facility")},
		},
		Edges: []omtsf.Edge{
			{ID: "e1", Type: omtsf.NewEdgeType("operates"), Source: "org-1", Target: "fac-1"},
		},
		SnapshotSequence: &seq,
	}
}

func TestSniff_AllThreeEncodings(t *testing.T) {
	jsonBytes, err := codec.EncodeJSON(sampleFile())
	require.NoError(t, err)
	enc, err := codec.Sniff(jsonBytes)
	require.NoError(t, err)
	assert.Equal(t, codec.Json, enc)

	cborBytes, err := codec.EncodeCBOR(sampleFile())
	require.NoError(t, err)
	enc, err = codec.Sniff(cborBytes)
	require.NoError(t, err)
	assert.Equal(t, codec.Cbor, enc)

	zstdBytes, err := codec.CompressZstd(jsonBytes, 1)
	require.NoError(t, err)
	enc, err = codec.Sniff(zstdBytes)
	require.NoError(t, err)
	assert.Equal(t, codec.Zstd, enc)
}

func TestSniff_Unrecognized(t *testing.T) {
	_, err := codec.Sniff([]byte("not a valid omts file at all"))
	require.Error(t, err)
	var uerr *codec.UnrecognizedEncodingError
	assert.ErrorAs(t, err, &uerr)
}

// JSON round-trips a File semantically: field values survive, including
// the Extra map and optional-pointer fields.
func TestJSON_RoundTrip(t *testing.T) {
	f := sampleFile()
	data, err := codec.EncodeJSON(f)
	require.NoError(t, err)
	got, err := codec.DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, f.Nodes[0].ID, got.Nodes[0].ID)
	assert.Equal(t, f.Nodes[0].Identifiers[0].Value, got.Nodes[0].Identifiers[0].Value)
	require.NotNil(t, got.SnapshotSequence)
	assert.Equal(t, *f.SnapshotSequence, *got.SnapshotSequence)
}

// CBOR round-trips through the self-describing-tag wrapper and
// preserves the same field values as the JSON encoding.
func TestCBOR_RoundTrip(t *testing.T) {
	f := sampleFile()
	data, err := codec.EncodeCBOR(f)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xD9, 0xD9, 0xF7}, data[:3])

	got, err := codec.DecodeCBOR(data)
	require.NoError(t, err)
	assert.Equal(t, f.Nodes[0].ID, got.Nodes[0].ID)
	assert.Equal(t, f.Nodes[0].Identifiers[0].Value, got.Nodes[0].Identifiers[0].Value)
	require.NotNil(t, got.SnapshotSequence)
	assert.EqualValues(t, *f.SnapshotSequence, *got.SnapshotSequence)
}

// CBOR decoding must also accept input without the self-describing tag.
func TestCBOR_DecodeWithoutTag(t *testing.T) {
	f := sampleFile()
	data, err := codec.EncodeCBOR(f)
	require.NoError(t, err)
	untagged := data[3:]
	got, err := codec.DecodeCBOR(untagged)
	require.NoError(t, err)
	assert.Equal(t, f.Nodes[0].ID, got.Nodes[0].ID)
}

// zstd framing is transparent to ParseOMTS regardless of the inner
// encoding, and the returned Encoding reports the inner one.
func TestParseOMTS_ZstdWrappedJSON(t *testing.T) {
	f := sampleFile()
	jsonBytes, err := codec.EncodeJSON(f)
	require.NoError(t, err)
	wrapped, err := codec.CompressZstd(jsonBytes, 1)
	require.NoError(t, err)

	got, enc, err := codec.ParseOMTS(wrapped, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, codec.Json, enc)
	assert.Equal(t, f.Nodes[0].ID, got.Nodes[0].ID)
}

func TestParseOMTS_ZstdWrappedCBOR(t *testing.T) {
	f := sampleFile()
	cborBytes, err := codec.EncodeCBOR(f)
	require.NoError(t, err)
	wrapped, err := codec.CompressZstd(cborBytes, 1)
	require.NoError(t, err)

	got, enc, err := codec.ParseOMTS(wrapped, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, codec.Cbor, enc)
	assert.Equal(t, f.Nodes[0].ID, got.Nodes[0].ID)
}

func TestParseOMTS_PlainJSON(t *testing.T) {
	f := sampleFile()
	jsonBytes, err := codec.EncodeJSON(f)
	require.NoError(t, err)
	got, enc, err := codec.ParseOMTS(jsonBytes, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, codec.Json, enc)
	assert.Equal(t, f.Nodes[0].ID, got.Nodes[0].ID)
}

// Decompression must refuse to exceed the caller's declared cap.
func TestDecompressZstd_OversizedRejected(t *testing.T) {
	big := make([]byte, 10000)
	wrapped, err := codec.CompressZstd(big, 1)
	require.NoError(t, err)

	_, err = codec.DecompressZstd(wrapped, 100)
	require.Error(t, err)
	var derr *codec.DecompressError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, codec.Oversized, derr.Kind)
}

func TestDecompressZstd_WithinCapSucceeds(t *testing.T) {
	small := []byte("hello omtsf")
	wrapped, err := codec.CompressZstd(small, 1)
	require.NoError(t, err)

	out, err := codec.DecompressZstd(wrapped, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, small, out)
}
