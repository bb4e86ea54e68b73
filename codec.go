package pk2

import "encoding/binary"

// Fixed-width little-endian scalar readers/writers for the format's scalar
// fields. Every multi-byte value in a PK2 archive is little-endian.

func getUint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func putUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

func getUint64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
func putUint64(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }

func getFileTime(b []byte) FileTime { return FileTime(getUint64(b)) }
func putFileTime(b []byte, v FileTime) { putUint64(b, uint64(v)) }

// getFixedString decodes a NUL-padded fixed-width byte buffer, trimming at
// the first NUL (or returning the full buffer if unterminated).
func getFixedString(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}

// putFixedString writes s into buf, which must be at least len(s) bytes;
// the remainder of buf (if any) is zero-filled. A name exactly as long as
// buf fills it completely and carries no terminator.
func putFixedString(buf []byte, s []byte) {
	for i := range buf {
		buf[i] = 0
	}
	copy(buf, s)
}
