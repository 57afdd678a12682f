package codec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
)

// CompressZstd wraps data in a zstd frame at the given level, following
// the encoder/EncodeAll idiom.
func CompressZstd(data []byte, level zstd.EncoderLevel) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, err
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, make([]byte, 0, len(data))), nil
}

// DecompressZstd unwraps a zstd frame, refusing to return more than
// maxDecompressedBytes of output. A frame's declared content size is
// attacker-controlled, so the cap is enforced by streaming the decoder
// through a limited reader instead of trusting DecodeAll to stop early.
func DecompressZstd(data []byte, maxDecompressedBytes int64) ([]byte, error) {
	decoder, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecompressError{Kind: Corrupt, Err: err}
	}
	defer decoder.Close()

	limited := io.LimitReader(decoder, maxDecompressedBytes+1)
	out, err := io.ReadAll(limited)
	if err != nil {
		return nil, &DecompressError{Kind: Corrupt, Err: err}
	}
	if int64(len(out)) > maxDecompressedBytes {
		return nil, &DecompressError{Kind: Oversized}
	}
	return out, nil
}
