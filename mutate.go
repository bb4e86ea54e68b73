package pk2

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ensureDirChain walks components from the root, creating any directory
// that does not yet exist (mkdir -p semantics), and returns the chain for
// the full path. It never creates the final component as a file.
func (a *Archive) ensureDirChain(components []string, now FileTime) (*PackBlockChain, error) {
	chain := a.index.Root()
	for _, comp := range components {
		encoded, err := a.codec.Encode(comp)
		if err != nil {
			return nil, err
		}
		_, entry, ok := chain.findByName(encoded)
		if ok {
			if !entry.IsDir() {
				return nil, lookupErr("NotADirectory", comp)
			}
			child, ok := a.index.Get(ChainOffset(entry.Position))
			if !ok {
				return nil, lookupErr("NotFound", comp)
			}
			chain = child
			continue
		}
		child, err := a.createDirEntry(chain, encoded, now)
		if err != nil {
			return nil, err
		}
		chain = child
	}
	return chain, nil
}

// createDirEntry allocates a new chain, installs a directory entry named
// name in parent pointing at it, and returns the new chain.
func (a *Archive) createDirEntry(parent *PackBlockChain, name []byte, now FileTime) (*PackBlockChain, error) {
	child, err := a.allocateChain(parent.Offset, now)
	if err != nil {
		return nil, err
	}
	entry := &PackEntry{Kind: entryKindDir, Name: name, Position: uint64(child.Offset), CreateTime: now, ModifyTime: now, AccessTime: now}
	if err := a.insertEntry(parent, entry); err != nil {
		return nil, err
	}
	return child, nil
}

// insertEntry places entry in the first empty slot of chain, extending the
// chain by one block first if it is full.
func (a *Archive) insertEntry(chain *PackBlockChain, entry *PackEntry) error {
	ref, ok := chain.firstEmptySlot()
	if !ok {
		if err := a.extendChain(chain); err != nil {
			return err
		}
		ref, ok = chain.firstEmptySlot()
		if !ok {
			panic("pk2: chain still full immediately after extendChain")
		}
	}
	chain.setEntry(ref, entry)
	return a.writeBlock(chain.Offset, ref.BlockIndex, chain.Block(ref.BlockIndex))
}

// resolveParent splits path into (parent directory chain, base name),
// creating any missing intermediate directories.
func (a *Archive) resolveParent(path string, now FileTime) (*PackBlockChain, string, error) {
	components, err := splitPath(path)
	if err != nil {
		return nil, "", err
	}
	parent, err := a.ensureDirChain(components[:len(components)-1], now)
	if err != nil {
		return nil, "", err
	}
	return parent, components[len(components)-1], nil
}

// Mkdir creates path and any missing intermediate directories. It
// succeeds silently if path already exists as a directory and fails with
// AlreadyExists if it exists as a file.
func (a *Archive) Mkdir(path string) error {
	return a.g.withWrite(func() error {
		now := NewFileTime(time.Now())
		components, err := splitPath(path)
		if err != nil {
			return err
		}
		parent, err := a.ensureDirChain(components[:len(components)-1], now)
		if err != nil {
			return err
		}
		name, err := a.codec.Encode(components[len(components)-1])
		if err != nil {
			return err
		}
		if _, existing, ok := parent.findByName(name); ok {
			if existing.IsDir() {
				return nil
			}
			return lookupErr("AlreadyExists", path)
		}
		_, err = a.createDirEntry(parent, name, now)
		if err != nil {
			return err
		}
		a.log.WithField("path", path).Debug("mkdir")
		return nil
	})
}

// CreateFile creates path with the given payload, overwriting an existing
// file of the same name or allocating a fresh entry if none exists.
// Intermediate directories are created as needed.
func (a *Archive) CreateFile(path string, data []byte) error {
	return a.g.withWrite(func() error {
		now := NewFileTime(time.Now())
		parent, base, err := a.resolveParent(path, now)
		if err != nil {
			return err
		}
		name, err := a.codec.Encode(base)
		if err != nil {
			return err
		}
		ref, existing, ok := parent.findByName(name)
		if ok {
			if existing.IsDir() {
				return lookupErr("IsADirectory", path)
			}
			return a.overwriteFile(parent, ref, existing, data, now)
		}
		position, err := a.allocatePayload(data)
		if err != nil {
			return err
		}
		entry := &PackEntry{
			Kind: entryKindFile, Name: name, Position: uint64(position), Size: uint32(len(data)),
			CreateTime: now, ModifyTime: now, AccessTime: now,
		}
		if err := a.insertEntry(parent, entry); err != nil {
			return err
		}
		a.log.WithFields(logrus.Fields{"path": path, "size": len(data)}).Debug("created file")
		return nil
	})
}

// overwriteFile implements the "Create file / open for write" overwrite
// path: an in-place rewrite when data fits within the existing payload
// capacity, or a fresh appended region when it doesn't.
func (a *Archive) overwriteFile(parent *PackBlockChain, ref EntryRef, existing *PackEntry, data []byte, now FileTime) error {
	if uint32(len(data)) <= existing.Size {
		if _, err := a.stream.WriteAt(data, int64(existing.Position)); err != nil {
			return err
		}
		existing.Size = uint32(len(data))
	} else {
		position, err := a.allocatePayload(data)
		if err != nil {
			return err
		}
		existing.Position = uint64(position)
		existing.Size = uint32(len(data))
	}
	existing.ModifyTime = now
	parent.setEntry(ref, existing)
	return a.writeBlock(parent.Offset, ref.BlockIndex, parent.Block(ref.BlockIndex))
}

// DeleteFile removes the file at path. The payload region is abandoned,
// never reclaimed (deliberate fragmentation; see Repack).
func (a *Archive) DeleteFile(path string) error {
	return a.g.withWrite(func() error {
		chain, ref, entry, err := a.index.resolve(path, a.codec)
		if err != nil {
			return err
		}
		if !entry.IsFile() {
			return lookupErr("IsADirectory", path)
		}
		return a.clearEntry(chain, ref, path)
	})
}

// RemoveDir removes the empty directory at path, failing with
// DirectoryNotEmpty if it contains anything besides "." and "..".
func (a *Archive) RemoveDir(path string) error {
	return a.g.withWrite(func() error {
		chain, ref, entry, err := a.index.resolve(path, a.codec)
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return lookupErr("NotADirectory", path)
		}
		child, ok := a.index.Get(ChainOffset(entry.Position))
		if !ok {
			return lookupErr("NotFound", path)
		}
		if !child.isEmptyDirectory() {
			return lookupErr("DirectoryNotEmpty", path)
		}
		return a.clearEntry(chain, ref, path)
	})
}

// clearEntry flips an entry's slot to empty in place and rewrites the
// containing block.
func (a *Archive) clearEntry(chain *PackBlockChain, ref EntryRef, path string) error {
	chain.setEntry(ref, emptyEntry())
	if err := a.writeBlock(chain.Offset, ref.BlockIndex, chain.Block(ref.BlockIndex)); err != nil {
		return err
	}
	a.log.WithField("path", path).Debug("deleted entry")
	return nil
}

// Rename moves the entry at oldPath to newPath within the same parent
// directory (cross-directory rename is not supported by this façade).
func (a *Archive) Rename(oldPath, newPath string) error {
	return a.g.withWrite(func() error {
		now := NewFileTime(time.Now())
		oldComponents, err := splitPath(oldPath)
		if err != nil {
			return err
		}
		newComponents, err := splitPath(newPath)
		if err != nil {
			return err
		}
		oldParent, err := a.ensureDirChain(oldComponents[:len(oldComponents)-1], now)
		if err != nil {
			return err
		}
		newParent, err := a.ensureDirChain(newComponents[:len(newComponents)-1], now)
		if err != nil {
			return err
		}
		if oldParent.Offset != newParent.Offset {
			return lookupErr("InvalidPath", newPath)
		}
		oldName, err := a.codec.Encode(oldComponents[len(oldComponents)-1])
		if err != nil {
			return err
		}
		newName, err := a.codec.Encode(newComponents[len(newComponents)-1])
		if err != nil {
			return err
		}
		ref, entry, ok := oldParent.findByName(oldName)
		if !ok {
			return lookupErr("NotFound", oldPath)
		}
		if _, _, exists := oldParent.findByName(newName); exists {
			return lookupErr("AlreadyExists", newPath)
		}
		entry.Name = newName
		entry.ModifyTime = now
		oldParent.setEntry(ref, entry)
		if err := a.writeBlock(oldParent.Offset, ref.BlockIndex, oldParent.Block(ref.BlockIndex)); err != nil {
			return err
		}
		a.log.WithFields(logrus.Fields{"old": oldPath, "new": newPath}).Debug("renamed entry")
		return nil
	})
}
