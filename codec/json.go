package codec

import (
	"bytes"
	"encoding/json"

	"github.com/omtsf/omtsf-go"
)

// EncodeJSON renders f as compact JSON, using the types' own
// MarshalJSON implementations for Extra and OptionalDate fidelity.
func EncodeJSON(f *omtsf.File) ([]byte, error) {
	return json.Marshal(f)
}

// EncodeJSONIndent renders f as indented JSON for human-facing output.
func EncodeJSONIndent(f *omtsf.File) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DecodeJSON parses data as a File. Unknown fields at every nesting
// level are preserved in Extra by the types' own UnmarshalJSON
// implementations rather than rejected or silently dropped.
func DecodeJSON(data []byte) (*omtsf.File, error) {
	var f omtsf.File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
