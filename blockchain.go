package pk2

import "github.com/bits-and-blooms/bitset"

// ChainOffset is the stream offset of a chain's first block — the stable
// identity of a directory chain, used as the key into the ChainIndex.
type ChainOffset int64

// EntryRef locates one entry within a chain: its block index (position in
// the chain's block slice) and slot index (0..entriesPerBlock-1).
type EntryRef struct {
	BlockIndex int
	SlotIndex  int
}

// PackBlockChain is the ordered list of blocks belonging to one directory,
// plus a per-block occupancy bitmap that makes first_empty_slot O(1)
// amortized instead of a full rescan after every mutation.
type PackBlockChain struct {
	Offset       ChainOffset
	blocks       []*PackBlock
	occupied     []*bitset.BitSet // occupied[i] has entriesPerBlock bits for blocks[i]
	blockOffsets []int64          // stream offset of blocks[i]; blockOffsets[0] == int64(Offset)
}

// newBlockChain wraps a freshly loaded sequence of blocks for chainOffset,
// building the occupancy bitmap from their current contents. blockOffsets
// gives the stream offset of each block in order.
func newBlockChain(chainOffset ChainOffset, blocks []*PackBlock, blockOffsets []int64) *PackBlockChain {
	c := &PackBlockChain{Offset: chainOffset, blocks: blocks, blockOffsets: blockOffsets}
	for _, b := range blocks {
		c.occupied = append(c.occupied, occupancyOf(b))
	}
	return c
}

func occupancyOf(b *PackBlock) *bitset.BitSet {
	bs := bitset.New(entriesPerBlock)
	for i, e := range b.Entries {
		if !e.IsEmpty() {
			bs.Set(uint(i))
		}
	}
	return bs
}

// BlockCount returns the number of blocks currently in the chain.
func (c *PackBlockChain) BlockCount() int { return len(c.blocks) }

// Block returns the block at the given index within the chain.
func (c *PackBlockChain) Block(i int) *PackBlock { return c.blocks[i] }

// entries iterates all entries in the chain in block/slot order, yielding
// a ref alongside each non-nil entry.
func (c *PackBlockChain) entries() []struct {
	Ref   EntryRef
	Entry *PackEntry
} {
	var out []struct {
		Ref   EntryRef
		Entry *PackEntry
	}
	for bi, b := range c.blocks {
		for si, e := range b.Entries {
			out = append(out, struct {
				Ref   EntryRef
				Entry *PackEntry
			}{EntryRef{bi, si}, e})
		}
	}
	return out
}

// findByName performs a linear scan over non-empty entries and returns the
// first whose decoded storage-encoding name bytes equal name.
func (c *PackBlockChain) findByName(name []byte) (EntryRef, *PackEntry, bool) {
	for bi, b := range c.blocks {
		for si, e := range b.Entries {
			if e.IsEmpty() {
				continue
			}
			if bytesEqual(e.Name, name) {
				return EntryRef{bi, si}, e, true
			}
		}
	}
	return EntryRef{}, nil, false
}

// firstEmptySlot returns the ref of the first kind-0 entry in the chain,
// or ok=false if every block is full.
func (c *PackBlockChain) firstEmptySlot() (EntryRef, bool) {
	for bi, occ := range c.occupied {
		if si, ok := occ.NextClear(0); ok && si < entriesPerBlock {
			return EntryRef{bi, int(si)}, true
		}
	}
	return EntryRef{}, false
}

// selfRef returns the "." entry: slot 0 of the chain's first block.
func (c *PackBlockChain) selfRef() *PackEntry { return c.blocks[0].Entries[0] }

// parentRef returns the ".." entry: slot 1 of the chain's first block.
func (c *PackBlockChain) parentRef() *PackEntry { return c.blocks[0].Entries[1] }

// setEntry installs e at ref and keeps the occupancy bitmap in sync. The
// slot's next_block link is carried over onto e, so replacing the entry in
// a block's last slot does not unlink the rest of the chain.
func (c *PackBlockChain) setEntry(ref EntryRef, e *PackEntry) {
	e.NextBlock = c.blocks[ref.BlockIndex].Entries[ref.SlotIndex].NextBlock
	c.blocks[ref.BlockIndex].Entries[ref.SlotIndex] = e
	if e.IsEmpty() {
		c.occupied[ref.BlockIndex].Clear(uint(ref.SlotIndex))
	} else {
		c.occupied[ref.BlockIndex].Set(uint(ref.SlotIndex))
	}
}

// appendBlock extends the in-memory chain with a newly allocated block,
// its occupancy bitmap, and its stream offset; it does not itself touch
// the stream.
func (c *PackBlockChain) appendBlock(b *PackBlock, streamOffset int64) {
	c.blocks = append(c.blocks, b)
	c.occupied = append(c.occupied, occupancyOf(b))
	c.blockOffsets = append(c.blockOffsets, streamOffset)
}

// isEmptyDirectory reports whether every slot besides "." and ".." (slots
// 0 and 1 of block 0) is empty, the precondition for Delete directory.
func (c *PackBlockChain) isEmptyDirectory() bool {
	for bi, b := range c.blocks {
		for si, e := range b.Entries {
			if bi == 0 && si < 2 {
				continue
			}
			if !e.IsEmpty() {
				return false
			}
		}
	}
	return true
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
