package pk2

const (
	entryKindEmpty = 0
	entryKindDir   = 1
	entryKindFile  = 2

	entryNameLen = 81

	// entrySize is the on-disk width of one directory slot. 20 entries of
	// this size exactly fill a 2560-byte block (20*128 = 2560); every
	// entry carries its own next_block field (zero except in the last
	// slot of a block), rather than the block reserving it separately.
	entrySize = 128

	entriesPerBlock = blockPayloadBytes / entrySize // 20
	lastEntrySlot   = entriesPerBlock - 1

	offEntryKind       = 0
	offEntryName       = 1
	offEntryAccessTime = offEntryName + entryNameLen
	offEntryCreateTime = offEntryAccessTime + 8
	offEntryModifyTime = offEntryCreateTime + 8
	offEntryPosition   = offEntryModifyTime + 8
	offEntrySize       = offEntryPosition + 8
	offEntryNextBlock  = offEntrySize + 4
	offEntryPadding    = offEntryNextBlock + 8
)

// PackEntry is a single 128-byte directory slot: empty, a file, or a
// subdirectory reference.
type PackEntry struct {
	Kind       byte // entryKindEmpty, entryKindDir, or entryKindFile
	Name       []byte
	AccessTime FileTime
	CreateTime FileTime
	ModifyTime FileTime
	Position   uint64 // file payload offset, or child chain offset for a directory
	Size       uint32 // file payload length; always 0 for directory/empty
	NextBlock  uint64 // nonzero only in a block's last slot, linking to the chain's next block
}

// IsEmpty reports whether the slot holds no entry.
func (e *PackEntry) IsEmpty() bool { return e.Kind == entryKindEmpty }

// IsDir reports whether the slot is a subdirectory reference.
func (e *PackEntry) IsDir() bool { return e.Kind == entryKindDir }

// IsFile reports whether the slot is a file.
func (e *PackEntry) IsFile() bool { return e.Kind == entryKindFile }

// encode writes e into buf, which must be exactly entrySize bytes.
func (e *PackEntry) encode(buf []byte) {
	if len(buf) != entrySize {
		panic("pk2: entry buffer must be 128 bytes")
	}
	for i := range buf {
		buf[i] = 0
	}
	buf[offEntryKind] = e.Kind
	putFixedString(buf[offEntryName:offEntryName+entryNameLen], e.Name)
	putFileTime(buf[offEntryAccessTime:offEntryAccessTime+8], e.AccessTime)
	putFileTime(buf[offEntryCreateTime:offEntryCreateTime+8], e.CreateTime)
	putFileTime(buf[offEntryModifyTime:offEntryModifyTime+8], e.ModifyTime)
	putUint64(buf[offEntryPosition:offEntryPosition+8], e.Position)
	putUint32(buf[offEntrySize:offEntrySize+4], e.Size)
	putUint64(buf[offEntryNextBlock:offEntryNextBlock+8], e.NextBlock)
}

// decodeEntry parses buf, which must be exactly entrySize bytes, into a
// PackEntry. isLastSlot selects whether a nonzero next_block is allowed
// (only slot 19 of a block may carry one).
func decodeEntry(buf []byte, isLastSlot bool) (*PackEntry, error) {
	if len(buf) != entrySize {
		return nil, headerErr("ShortRead", len(buf))
	}
	kind := buf[offEntryKind]
	if kind != entryKindEmpty && kind != entryKindDir && kind != entryKindFile {
		return nil, formatErr("InvalidEntryKind", kind)
	}
	// A name that fills all entryNameLen bytes carries no NUL terminator
	// by construction (there's no room for one) — see namecodec.go's
	// 81-byte boundary case — so an absent NUL cannot be distinguished
	// from that valid case and is not treated as NameNotTerminated here.
	nameField := buf[offEntryName : offEntryName+entryNameLen]
	name := append([]byte(nil), getFixedString(nameField)...)
	nextBlock := getUint64(buf[offEntryNextBlock : offEntryNextBlock+8])
	if !isLastSlot && nextBlock != 0 {
		return nil, formatErr("InvalidNextBlock", nextBlock)
	}
	return &PackEntry{
		Kind:       kind,
		Name:       name,
		AccessTime: getFileTime(buf[offEntryAccessTime : offEntryAccessTime+8]),
		CreateTime: getFileTime(buf[offEntryCreateTime : offEntryCreateTime+8]),
		ModifyTime: getFileTime(buf[offEntryModifyTime : offEntryModifyTime+8]),
		Position:   getUint64(buf[offEntryPosition : offEntryPosition+8]),
		Size:       getUint32(buf[offEntrySize : offEntrySize+4]),
		NextBlock:  nextBlock,
	}, nil
}

// emptyEntry returns a zero-value PackEntry for an unoccupied slot.
func emptyEntry() *PackEntry {
	return &PackEntry{Kind: entryKindEmpty}
}
