package pk2

import (
	"fmt"
	"io"
)

// File is a read/write/seek handle over a file's byte range. Handles take
// the archive's guard only for each access to the archive (a read handle's
// Read, or a write handle's Flush) instead of holding it for the handle's
// lifetime; a write handle's Read, Write and Seek touch only its buffer.
type File struct {
	archive  *Archive
	path     string
	position int64 // stream offset of the payload's first byte (read handles only)
	size     int64 // current payload length
	offset   int64 // read/write/seek cursor, relative to the payload start

	writeData []byte // non-nil only for a handle opened for write; the buffered payload
	dirty     bool
	closed    bool
}

// OpenFile resolves path and returns a read-only handle over its payload.
func (a *Archive) OpenFile(path string) (*File, error) {
	var f *File
	err := a.g.withRead(func() error {
		_, _, entry, err := a.index.resolve(path, a.codec)
		if err != nil {
			return err
		}
		if !entry.IsFile() {
			return lookupErr("IsADirectory", path)
		}
		f = &File{archive: a, path: path, position: int64(entry.Position), size: int64(entry.Size)}
		return nil
	})
	return f, err
}

// CreateFileHandle returns a write handle for path. The handle starts with
// an empty buffer (an existing file's payload is not loaded into it), and
// writes, reads, and seeks all operate against that buffer. The archive is
// only touched on Flush or Close, and only if something was written: the
// buffer then becomes the file's whole content via CreateFile, which
// creates path (and any missing intermediate directories) or overwrites
// the existing file.
func (a *Archive) CreateFileHandle(path string) (*File, error) {
	return &File{archive: a, path: path, writeData: []byte{}}, nil
}

// Read reads up to len(b) bytes starting at the handle's current offset.
// On a write handle this reads back whatever has been buffered so far.
func (fl *File) Read(b []byte) (int, error) {
	if fl.writeData != nil {
		if fl.offset >= int64(len(fl.writeData)) {
			return 0, io.EOF
		}
		n := copy(b, fl.writeData[fl.offset:])
		fl.offset += int64(n)
		return n, nil
	}
	if fl.offset >= fl.size {
		return 0, io.EOF
	}
	n := len(b)
	remaining := fl.size - fl.offset
	if int64(n) > remaining {
		n = int(remaining)
	}
	var err error
	err = fl.archive.g.withRead(func() error {
		read, rerr := fl.archive.stream.ReadAt(b[:n], fl.position+fl.offset)
		n = read
		return rerr
	})
	fl.offset += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

// Write writes p into the handle's internal buffer at the current offset,
// growing the buffer if the write extends past its current end, and
// advances the offset past the written bytes. The archive is not touched
// until Flush or Close.
func (fl *File) Write(p []byte) (int, error) {
	if fl.writeData == nil {
		return 0, fmt.Errorf("pk2: file opened for read is not writable")
	}
	end := fl.offset + int64(len(p))
	if end > int64(len(fl.writeData)) {
		grown := make([]byte, end)
		copy(grown, fl.writeData)
		fl.writeData = grown
	}
	n := copy(fl.writeData[fl.offset:end], p)
	fl.offset += int64(n)
	fl.dirty = true
	return n, nil
}

// Seek sets the read/write cursor, relative to the handle's current
// contents (the archived payload for a read handle, the buffered payload
// for a write handle).
func (fl *File) Seek(offset int64, whence int) (int64, error) {
	size := fl.size
	if fl.writeData != nil {
		size = int64(len(fl.writeData))
	}
	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekEnd:
		newOffset = size + offset
	case io.SeekCurrent:
		newOffset = fl.offset + offset
	default:
		return fl.offset, fmt.Errorf("pk2: invalid whence %d", whence)
	}
	if newOffset < 0 {
		return fl.offset, fmt.Errorf("pk2: cannot seek before start of file")
	}
	fl.offset = newOffset
	return fl.offset, nil
}

// Flush persists a write handle's buffered payload to the archive: an
// in-place rewrite if it fits within the original capacity, otherwise a
// freshly appended region. It is a no-op on a read handle or an
// already-flushed write handle.
func (fl *File) Flush() error {
	if fl.writeData == nil || !fl.dirty {
		return nil
	}
	if err := fl.archive.CreateFile(fl.path, fl.writeData); err != nil {
		return err
	}
	fl.dirty = false
	return nil
}

// Close flushes any buffered write and marks the handle closed, so a later
// Close returns nil without flushing again; Read, Write and Seek do not
// check this mark. Per the
// buffered-write-handle design note, the flush attempt always runs even
// though its error return is the only signal a caller gets if Close is
// reached via a deferred call.
func (fl *File) Close() error {
	if fl.closed {
		return nil
	}
	fl.closed = true
	return fl.Flush()
}
