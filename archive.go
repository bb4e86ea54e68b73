package pk2

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultKey is the key used by the original Silkroad Online client when
// no archive-specific secret is configured.
const DefaultKey = "169841"

// Options configures Open and Create.
type Options struct {
	// Key is the user secret used to derive the directory-block cipher.
	// For Create, a nil or empty Key creates a plaintext (unencrypted)
	// archive. For Open, the header decides whether the archive is
	// encrypted, and a nil or empty Key falls back to DefaultKey.
	Key []byte
	// Codec converts entry names between UTF-8 and the archive's native
	// encoding. NewIdentityCodec() is used if nil.
	Codec Codec
	// Log receives structured Debug-level tracing of allocation and
	// mutation activity. logrus.StandardLogger() is used if nil.
	Log *logrus.Logger
}

func (o Options) withDefaults() Options {
	if o.Codec == nil {
		o.Codec = NewIdentityCodec()
	}
	if o.Log == nil {
		o.Log = logrus.StandardLogger()
	}
	return o
}

// Archive is an open PK2 handle: the guarded stream plus the in-memory
// chain index built from it.
type Archive struct {
	stream Stream
	cipher *blowfishCipher // nil for a plaintext archive
	codec  Codec
	index  *ChainIndex
	g      guard
	log    *logrus.Logger
}

// Open reads an existing archive's header, validates the user key if the
// archive is encrypted, and builds the chain index by transitive
// discovery from the root.
func Open(stream Stream, opts Options) (*Archive, error) {
	opts = opts.withDefaults()
	headerBuf := make([]byte, headerSize)
	if _, err := stream.ReadAt(headerBuf, 0); err != nil {
		return nil, headerErr("ShortRead", err)
	}
	header, err := decodeHeader(headerBuf)
	if err != nil {
		return nil, err
	}
	a := &Archive{stream: stream, codec: opts.Codec, log: opts.Log}
	if header.Encrypted {
		key := opts.Key
		if len(key) == 0 {
			key = []byte(DefaultKey)
		}
		cipher := newBlowfishCipher(key)
		if !cipher.checkUserKey(header.Verify[:]) {
			return nil, headerErr("InvalidKey", nil)
		}
		a.cipher = cipher
	}
	index, err := a.loadChainIndex()
	if err != nil {
		return nil, err
	}
	a.index = index
	a.log.WithField("encrypted", header.Encrypted).Debug("opened archive")
	return a, nil
}

// Create initializes a brand-new archive on stream: a zero-initialized
// header with signature/version/encrypted/verify set, and a single-block
// root chain at offset 256 with "." and ".." self-referencing it.
func Create(stream Stream, opts Options) (*Archive, error) {
	opts = opts.withDefaults()
	a := &Archive{stream: stream, codec: opts.Codec, log: opts.Log, index: newChainIndex()}

	header := &PackHeader{}
	if len(opts.Key) > 0 {
		header.Encrypted = true
		a.cipher = newBlowfishCipher(opts.Key)
		copy(header.Verify[:], a.cipher.verifyBlock())
	}
	headerBuf := make([]byte, headerSize)
	header.encode(headerBuf)
	if _, err := stream.Append(headerBuf); err != nil {
		return nil, err
	}

	now := NewFileTime(time.Now())
	if _, err := a.allocateChain(0, now); err != nil {
		return nil, err
	}
	a.log.WithField("encrypted", header.Encrypted).Debug("created archive")
	return a, nil
}

// loadChainIndex performs a transitive-discovery walk: start at the root,
// load its blocks, enumerate its directory entries, and recurse into each
// one not already indexed.
func (a *Archive) loadChainIndex() (*ChainIndex, error) {
	index := newChainIndex()
	var visit func(offset ChainOffset) error
	visit = func(offset ChainOffset) error {
		if index.Has(offset) {
			return nil
		}
		chain, err := a.readChain(offset)
		if err != nil {
			return err
		}
		index.Put(chain)
		for _, item := range chain.entries() {
			if item.Entry.IsDir() && item.Ref != (EntryRef{0, 0}) && item.Ref != (EntryRef{0, 1}) {
				if err := visit(ChainOffset(item.Entry.Position)); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := visit(ChainOffset(rootChainOffset)); err != nil {
		return nil, err
	}
	return index, nil
}

// readChain reads every block of the chain starting at offset, following
// next_block pointers until a terminal block (next_block == 0).
func (a *Archive) readChain(offset ChainOffset) (*PackBlockChain, error) {
	var blocks []*PackBlock
	var blockOffsets []int64
	cur := int64(offset)
	for {
		raw := make([]byte, blockPayloadBytes)
		if _, err := a.stream.ReadAt(raw, cur); err != nil {
			return nil, headerErr("ShortRead", err)
		}
		plain := raw
		if a.cipher != nil {
			plain = a.cipher.decryptECB(raw)
		}
		block, err := decodeBlock(plain)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
		blockOffsets = append(blockOffsets, cur)
		next := block.nextBlock()
		if next == 0 {
			break
		}
		cur = int64(next)
	}
	return newBlockChain(offset, blocks, blockOffsets), nil
}
