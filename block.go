package pk2

// blockPayloadBytes is the on-disk size of a directory block: the unit of
// directory storage and the unit of encryption.
const blockPayloadBytes = 2560

// BlockOffset is the stream offset of one block within a chain.
type BlockOffset int64

// PackBlock is one 2560-byte directory block: entriesPerBlock fixed-width
// slots, decrypted in memory.
type PackBlock struct {
	Entries [entriesPerBlock]*PackEntry
}

// newEmptyBlock returns a block of all-empty entries, the shape written by
// Allocate chain and Extend chain before any name is installed.
func newEmptyBlock() *PackBlock {
	b := &PackBlock{}
	for i := range b.Entries {
		b.Entries[i] = emptyEntry()
	}
	return b
}

// encode serializes the block to its plaintext 2560-byte on-disk form. The
// caller is responsible for running the cipher over the result when the
// archive is encrypted.
func (b *PackBlock) encode() []byte {
	buf := make([]byte, blockPayloadBytes)
	for i, e := range b.Entries {
		e.encode(buf[i*entrySize : (i+1)*entrySize])
	}
	return buf
}

// decodeBlock parses a plaintext 2560-byte buffer (already decrypted, if
// the archive is encrypted) into a PackBlock.
func decodeBlock(buf []byte) (*PackBlock, error) {
	if len(buf) != blockPayloadBytes {
		return nil, headerErr("ShortRead", len(buf))
	}
	b := &PackBlock{}
	for i := 0; i < entriesPerBlock; i++ {
		entry, err := decodeEntry(buf[i*entrySize:(i+1)*entrySize], i == lastEntrySlot)
		if err != nil {
			return nil, err
		}
		b.Entries[i] = entry
	}
	return b, nil
}

// nextBlock returns the offset of the next block in the chain, or 0 if
// this is the terminal block. Only the last slot ever carries this value.
func (b *PackBlock) nextBlock() uint64 {
	return b.Entries[lastEntrySlot].NextBlock
}

// setNextBlock links this block to the next one in the chain.
func (b *PackBlock) setNextBlock(offset uint64) {
	b.Entries[lastEntrySlot].NextBlock = offset
}
