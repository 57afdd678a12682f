package omtsf

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// EntropyError reports a failure to obtain cryptographically secure
// random bytes from the OS CSPRNG.
type EntropyError struct {
	Cause error
}

func (e *EntropyError) Error() string {
	return fmt.Sprintf("omtsf: entropy source unavailable: %v", e.Cause)
}

func (e *EntropyError) Unwrap() error { return e.Cause }

// GenerateFileSalt produces a fresh FileSalt from 32 CSPRNG-sourced bytes.
// This is the only process-wide resource the core touches besides the
// caller's own File values.
func GenerateFileSalt() (FileSalt, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", &EntropyError{Cause: err}
	}
	return FileSalt(hex.EncodeToString(buf)), nil
}

// SaltBytes decodes a FileSalt back into its 32 underlying bytes.
func (s FileSalt) SaltBytes() ([]byte, error) {
	b, err := hex.DecodeString(string(s))
	if err != nil {
		return nil, &InvalidPrimitiveError{Field: "file_salt", Value: string(s), Reason: err.Error()}
	}
	return b, nil
}
