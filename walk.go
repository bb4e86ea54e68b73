package pk2

import "path"

// WalkFunc is called for each entry visited by WalkDir. Returning an error
// stops the walk and propagates the error to WalkDir's caller.
type WalkFunc func(path string, info FileInfo) error

// WalkDir recursively visits every entry under root (root itself is not
// visited), in the order ReadDir returns them, descending into
// subdirectories depth-first. It is built on top of ReadDir rather than
// touching the chain index directly, so it takes and releases the guard
// once per directory rather than once for the whole walk.
func (a *Archive) WalkDir(root string, fn WalkFunc) error {
	entries, err := a.ReadDir(root)
	if err != nil {
		return err
	}
	for _, info := range entries {
		childPath := path.Join(root, info.Name())
		if err := fn(childPath, info); err != nil {
			return err
		}
		if info.IsDir() {
			if err := a.WalkDir(childPath, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
