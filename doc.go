// Package pk2 reads and writes the PK2 archive format, the single-file
// virtual filesystem used by Silkroad Online.
//
// A PK2 archive is a random-access container: its directory tree, file
// metadata and file payloads all live in one stream. Directory metadata is
// obfuscated with a salted, little-endian variant of Blowfish keyed from a
// user-supplied secret; file payloads are never encrypted.
//
// The package is sans-I/O: it operates against the Stream interface rather
// than assuming an *os.File, so callers can back an archive with a real
// file, an in-memory buffer, or a memory map.
package pk2
