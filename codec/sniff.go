package codec

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

var cborSelfDescribeTag = []byte{0xD9, 0xD9, 0xF7}

// Sniff classifies the leading bytes of data as one of the three wire
// encodings, without looking past the outermost container. It does not
// decompress zstd frames — callers that need the encoding underneath a
// zstd frame call Sniff again on the decompressed bytes.
func Sniff(data []byte) (Encoding, error) {
	if hasPrefix(data, zstdMagic) {
		return Zstd, nil
	}
	if hasPrefix(data, cborSelfDescribeTag) {
		return Cbor, nil
	}
	i := 0
	for i < len(data) && isJSONWhitespace(data[i]) {
		i++
	}
	if i < len(data) && data[i] == '{' {
		return Json, nil
	}
	return 0, &UnrecognizedEncodingError{FirstBytes: data}
}

func hasPrefix(data, prefix []byte) bool {
	if len(data) < len(prefix) {
		return false
	}
	for i, b := range prefix {
		if data[i] != b {
			return false
		}
	}
	return true
}

func isJSONWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}
