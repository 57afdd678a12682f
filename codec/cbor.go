package codec

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/omtsf/omtsf-go"
)

// EncodeCBOR renders f as a self-describing CBOR item (tag 55799,
// encoded as the raw prefix D9 D9 F7 per RFC 8949 §3.4.6).
//
// The File is first marshaled to JSON, then the JSON value tree is
// re-decoded into a generic any and handed to the CBOR encoder. Routing
// through JSON this way means numeric types round-trip through JSON's
// number type in both directions, and reuses every type's existing
// MarshalJSON/UnmarshalJSON logic instead of duplicating Extra/OptionalDate
// handling for a second wire format.
func EncodeCBOR(f *omtsf.File) ([]byte, error) {
	jsonBytes, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(jsonBytes, &generic); err != nil {
		return nil, err
	}
	body, err := cbor.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("codec: cbor encode: %w", err)
	}
	out := make([]byte, 0, len(cborSelfDescribeTag)+len(body))
	out = append(out, cborSelfDescribeTag...)
	out = append(out, body...)
	return out, nil
}

// DecodeCBOR parses data as a CBOR-encoded File, accepting but not
// requiring the self-describing tag prefix.
func DecodeCBOR(data []byte) (*omtsf.File, error) {
	data = stripSelfDescribeTag(data)
	// Decode maps as map[string]any so the value tree can be re-marshaled
	// to JSON; the library default, map[any]any, is rejected by json.Marshal.
	dm, err := cbor.DecOptions{DefaultMapType: reflect.TypeOf(map[string]any(nil))}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("codec: cbor decode: %w", err)
	}
	var generic any
	if err := dm.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("codec: cbor decode: %w", err)
	}
	jsonBytes, err := json.Marshal(generic)
	if err != nil {
		return nil, err
	}
	var f omtsf.File
	if err := json.Unmarshal(jsonBytes, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func stripSelfDescribeTag(data []byte) []byte {
	if hasPrefix(data, cborSelfDescribeTag) {
		return data[len(cborSelfDescribeTag):]
	}
	return data
}
