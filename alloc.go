package pk2

import "github.com/sirupsen/logrus"

// allocateChain appends a freshly initialized single block at the end of
// the stream, installs "." pointing at it and ".." pointing at
// parentOffset (or, for the root chain, where parentOffset is 0, at the
// chain itself), registers it in the index under its own
// offset, and returns it. This implements both "Create new"'s root-chain
// setup and "Create directory"'s child-chain setup.
func (a *Archive) allocateChain(parentOffset ChainOffset, now FileTime) (*PackBlockChain, error) {
	block := newEmptyBlock()
	offset, err := a.appendBlock(block)
	if err != nil {
		return nil, err
	}
	chainOffset := ChainOffset(offset)
	self := parentOffset
	if self == 0 {
		self = chainOffset // the root is its own parent
	}
	block.Entries[0] = &PackEntry{Kind: entryKindDir, Name: []byte("."), Position: uint64(chainOffset), CreateTime: now, ModifyTime: now, AccessTime: now}
	block.Entries[1] = &PackEntry{Kind: entryKindDir, Name: []byte(".."), Position: uint64(self), CreateTime: now, ModifyTime: now, AccessTime: now}
	chain := newBlockChain(chainOffset, []*PackBlock{block}, []int64{offset})
	a.index.Put(chain)
	if err := a.writeBlock(chainOffset, 0, block); err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{"offset": chainOffset}).Debug("allocated chain")
	return chain, nil
}

// extendChain allocates a new block at the end of the stream, links it
// from the chain's current terminal block, and appends it in memory.
func (a *Archive) extendChain(chain *PackBlockChain) error {
	last := chain.Block(chain.BlockCount() - 1)
	newBlock := newEmptyBlock()
	newOffset, err := a.appendBlock(newBlock)
	if err != nil {
		return err
	}
	last.setNextBlock(uint64(newOffset))
	if err := a.writeBlock(chain.Offset, chain.BlockCount()-1, last); err != nil {
		return err
	}
	chain.appendBlock(newBlock, newOffset)
	a.log.WithFields(logrus.Fields{"chain": chain.Offset, "newBlock": newOffset}).Debug("extended chain")
	return nil
}

// appendBlock writes a single plaintext block's encrypted-or-plain bytes to
// the end of the stream and returns the stream offset it landed at.
func (a *Archive) appendBlock(b *PackBlock) (int64, error) {
	plain := b.encode()
	payload := plain
	if a.cipher != nil {
		payload = a.cipher.encryptECB(plain)
	}
	return a.stream.Append(payload)
}

// writeBlock re-encodes and rewrites block index bi of chain in place,
// running the cipher over the whole 2560-byte block if the archive is
// encrypted; there is no partial-block encryption.
func (a *Archive) writeBlock(chainOffset ChainOffset, bi int, b *PackBlock) error {
	offset := a.blockStreamOffset(chainOffset, bi)
	plain := b.encode()
	payload := plain
	if a.cipher != nil {
		payload = a.cipher.encryptECB(plain)
	}
	_, err := a.stream.WriteAt(payload, offset)
	return err
}

// blockStreamOffset returns the stream offset of block index bi within the
// chain identified by chainOffset.
func (a *Archive) blockStreamOffset(chainOffset ChainOffset, bi int) int64 {
	chain, ok := a.index.Get(chainOffset)
	if !ok {
		panic("pk2: blockStreamOffset on unindexed chain")
	}
	return chain.blockOffsets[bi]
}

// allocatePayload appends data to the end of the stream unencrypted (file
// payloads never go through the cipher) and returns the offset it landed
// at.
func (a *Archive) allocatePayload(data []byte) (int64, error) {
	return a.stream.Append(data)
}
