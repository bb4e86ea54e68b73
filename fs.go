package pk2

import (
	"os"
	"time"
)

// FileInfo describes one directory entry: name, kind, size and times,
// shaped like os.FileInfo but trimmed to what the format actually carries.
type FileInfo struct {
	name       string
	isDir      bool
	size       int64
	modTime    time.Time
	accessTime time.Time
	createTime time.Time
}

func (fi FileInfo) Name() string       { return fi.name }
func (fi FileInfo) Size() int64        { return fi.size }
func (fi FileInfo) IsDir() bool        { return fi.isDir }
func (fi FileInfo) ModTime() time.Time { return fi.modTime }
func (fi FileInfo) AccessTime() time.Time { return fi.accessTime }
func (fi FileInfo) CreateTime() time.Time { return fi.createTime }
func (fi FileInfo) Mode() os.FileMode {
	if fi.isDir {
		return os.ModeDir | 0o555
	}
	return 0o444
}
func (fi FileInfo) Sys() interface{} { return nil }

func infoFromEntry(name string, e *PackEntry) FileInfo {
	return FileInfo{
		name:       name,
		isDir:      e.IsDir(),
		size:       int64(e.Size),
		modTime:    e.ModifyTime.Time(),
		accessTime: e.AccessTime.Time(),
		createTime: e.CreateTime.Time(),
	}
}

// Stat resolves path and returns its FileInfo.
func (a *Archive) Stat(path string) (FileInfo, error) {
	var info FileInfo
	err := a.g.withRead(func() error {
		_, _, entry, err := a.index.resolve(path, a.codec)
		if err != nil {
			return err
		}
		info = infoFromEntry(a.codec.Decode(entry.Name), entry)
		return nil
	})
	return info, err
}

// ReadDir lists the contents of the directory at path, skipping empty
// slots and the "." / ".." self-references.
func (a *Archive) ReadDir(path string) ([]FileInfo, error) {
	var out []FileInfo
	err := a.g.withRead(func() error {
		chain, err := a.index.resolveDir(path, a.codec)
		if err != nil {
			return err
		}
		for _, item := range chain.entries() {
			e := item.Entry
			if e.IsEmpty() {
				continue
			}
			if item.Ref.BlockIndex == 0 && item.Ref.SlotIndex < 2 {
				continue // "." and ".."
			}
			out = append(out, infoFromEntry(a.codec.Decode(e.Name), e))
		}
		return nil
	})
	return out, err
}

// ReadFile resolves path and returns its entire payload.
func (a *Archive) ReadFile(path string) ([]byte, error) {
	var data []byte
	err := a.g.withRead(func() error {
		_, _, entry, err := a.index.resolve(path, a.codec)
		if err != nil {
			return err
		}
		if !entry.IsFile() {
			return lookupErr("IsADirectory", path)
		}
		buf := make([]byte, entry.Size)
		if entry.Size == 0 {
			data = buf
			return nil
		}
		if _, err := a.stream.ReadAt(buf, int64(entry.Position)); err != nil {
			return err
		}
		data = buf
		return nil
	})
	return data, err
}
