package pk2

// Stream is the abstract seekable byte stream the core operates against.
// Implementations may be backed by an *os.File, an in-memory buffer, or a
// memory map; the core never assumes anything more than this contract.
type Stream interface {
	// ReadAt reads len(buf) bytes starting at offset. It follows the same
	// contract as io.ReaderAt.
	ReadAt(buf []byte, offset int64) (int, error)

	// WriteAt writes buf starting at offset, growing the stream if
	// necessary. It follows the same contract as io.WriterAt.
	WriteAt(buf []byte, offset int64) (int, error)

	// Len returns the current length of the stream in bytes.
	Len() (int64, error)

	// Append writes buf to the end of the stream and returns the offset at
	// which it was written.
	Append(buf []byte) (int64, error)

	// Truncate grows or shrinks the stream to exactly newLen bytes.
	Truncate(newLen int64) error
}
