// Package encoding provides optional character-set codecs for PK2 entry
// names, beyond the identity UTF-8 codec built into the core package.
package encoding

import (
	"bytes"

	"golang.org/x/text/encoding/korean"
)

const maxNameBytes = 81

// invalidNameError is returned when a string cannot be represented in
// EUC-KR or exceeds the format's 81-byte name limit.
type invalidNameError struct {
	reason string
}

func (e *invalidNameError) Error() string { return "pk2/encoding: " + e.reason }

// EUCKR is the legacy Korean single/double-byte encoding used by the
// original Silkroad Online client for directory entry names.
type EUCKR struct{}

// NewEUCKR returns a Codec that encodes/decodes entry names as EUC-KR.
func NewEUCKR() EUCKR { return EUCKR{} }

// Encode converts s to EUC-KR bytes, rejecting strings with characters the
// encoding cannot represent or whose encoded length exceeds 81 bytes.
func (EUCKR) Encode(s string) ([]byte, error) {
	enc := korean.EUCKR.NewEncoder()
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil, &invalidNameError{reason: "string is not representable in EUC-KR"}
	}
	if len(out) > maxNameBytes {
		return nil, &invalidNameError{reason: "encoded name exceeds 81 bytes"}
	}
	if bytes.IndexByte(out, 0) >= 0 {
		return nil, &invalidNameError{reason: "encoded name contains a NUL byte"}
	}
	return out, nil
}

// Decode converts EUC-KR bytes back to a UTF-8 string, substituting
// U+FFFD for any malformed byte sequence rather than failing.
func (EUCKR) Decode(b []byte) string {
	dec := korean.EUCKR.NewDecoder()
	out, err := dec.Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}
