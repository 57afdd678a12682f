// Package codec implements the three OMTSF wire encodings (JSON, CBOR,
// and zstd-compressed framing over either) and the sniffing logic that
// tells them apart without an out-of-band content-type.
package codec

import (
	"github.com/klauspost/compress/zstd"

	"github.com/omtsf/omtsf-go"
)

// ParseOMTS decodes bytes of unknown encoding into a File, transparently
// unwrapping at most one layer of zstd framing. maxDecompressedBytes
// bounds the size of a zstd-decompressed payload; it is ignored when the
// input isn't zstd-framed. The returned Encoding is the innermost
// encoding actually used to decode the File (Json or Cbor; zstd is a
// framing layer, never itself the returned encoding of the payload it
// decompressed to).
func ParseOMTS(data []byte, maxDecompressedBytes int64) (*omtsf.File, Encoding, error) {
	enc, err := Sniff(data)
	if err != nil {
		return nil, 0, err
	}
	if enc == Zstd {
		inner, err := DecompressZstd(data, maxDecompressedBytes)
		if err != nil {
			return nil, 0, err
		}
		innerEnc, err := Sniff(inner)
		if err != nil {
			return nil, 0, err
		}
		f, err := decodeByEncoding(inner, innerEnc)
		return f, innerEnc, err
	}
	f, err := decodeByEncoding(data, enc)
	return f, enc, err
}

func decodeByEncoding(data []byte, enc Encoding) (*omtsf.File, error) {
	switch enc {
	case Json:
		return DecodeJSON(data)
	case Cbor:
		return DecodeCBOR(data)
	default:
		return nil, &UnrecognizedEncodingError{FirstBytes: data}
	}
}

// Encode renders f in the given encoding, optionally zstd-compressing
// the result when compress is true.
func Encode(f *omtsf.File, enc Encoding, compress bool) ([]byte, error) {
	var body []byte
	var err error
	switch enc {
	case Json:
		body, err = EncodeJSON(f)
	case Cbor:
		body, err = EncodeCBOR(f)
	default:
		return nil, &UnrecognizedEncodingError{}
	}
	if err != nil {
		return nil, err
	}
	if !compress {
		return body, nil
	}
	return CompressZstd(body, zstd.SpeedDefault)
}
