package pk2

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestCreateAndReopenRoundTrip(t *testing.T) {
	stream := NewMemoryStream(nil)
	a, err := Create(stream, Options{Key: []byte(DefaultKey)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := a.CreateFile("/foo.txt", []byte("hello")); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}

	reopened, err := Open(stream, Options{Key: []byte(DefaultKey)})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := reopened.ReadFile("/foo.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("read back %q, want %q", data, "hello")
	}
}

func TestNestedDirectoriesCreateThreeChains(t *testing.T) {
	stream := NewMemoryStream(nil)
	a, err := Create(stream, Options{Key: []byte(DefaultKey)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	payload := bytes.Repeat([]byte{0xAB}, 10000)
	if err := a.CreateFile("/a/b/c.bin", payload); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if got := len(a.index.chains); got != 3 {
		t.Fatalf("chain index has %d chains, want 3 (root, a, b)", got)
	}
	data, err := a.ReadFile("/a/b/c.bin")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("read back mismatch")
	}
}

func TestChainExtendsOnTwentyFirstEntry(t *testing.T) {
	stream := NewMemoryStream(nil)
	a, err := Create(stream, Options{Key: []byte(DefaultKey)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < 21; i++ {
		name := "/f" + pad2(i)
		if err := a.CreateFile(name, nil); err != nil {
			t.Fatalf("CreateFile(%s): %v", name, err)
		}
	}
	root := a.index.Root()
	if root.BlockCount() != 2 {
		t.Fatalf("root block count = %d, want 2", root.BlockCount())
	}
	_, ref, _, err := a.index.resolve("/f20", a.codec)
	if err != nil {
		t.Fatalf("resolve /f20: %v", err)
	}
	// Block 0's first two slots hold "." and "..", leaving 18 free slots
	// for f00..f17; f18 and f19 take the first two slots of block 1, so
	// f20 (the 21st file created) lands at block 1, slot 2.
	if ref.BlockIndex != 1 || ref.SlotIndex != 2 {
		t.Fatalf("/f20 landed at %+v, want block 1 slot 2", ref)
	}
}

func TestDeleteThenCreateReusesSlot(t *testing.T) {
	stream := NewMemoryStream(nil)
	a, err := Create(stream, Options{Key: []byte(DefaultKey)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < 21; i++ {
		if err := a.CreateFile("/f"+pad2(i), nil); err != nil {
			t.Fatalf("CreateFile: %v", err)
		}
	}
	_, f10Ref, _, err := a.index.resolve("/f10", a.codec)
	if err != nil {
		t.Fatalf("resolve /f10: %v", err)
	}
	if err := a.DeleteFile("/f10"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if err := a.CreateFile("/g", []byte("x")); err != nil {
		t.Fatalf("CreateFile /g: %v", err)
	}
	_, gRef, entry, err := a.index.resolve("/g", a.codec)
	if err != nil {
		t.Fatalf("resolve /g: %v", err)
	}
	if !entry.IsFile() {
		t.Fatalf("/g is not a file")
	}
	if gRef != f10Ref {
		t.Fatalf("/g landed at %+v, want the slot vacated by /f10 (%+v)", gRef, f10Ref)
	}
}

func TestOverwriteGrowsIntoNewRegion(t *testing.T) {
	stream := NewMemoryStream(nil)
	a, err := Create(stream, Options{Key: []byte(DefaultKey)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := a.CreateFile("/foo.txt", []byte("hello")); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	_, _, before, err := a.index.resolve("/foo.txt", a.codec)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	beforePos := before.Position

	if err := a.CreateFile("/foo.txt", []byte("0123456789")); err != nil {
		t.Fatalf("CreateFile overwrite: %v", err)
	}
	_, _, after, err := a.index.resolve("/foo.txt", a.codec)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if after.Position == beforePos {
		t.Fatalf("expected a new payload region after growing beyond original capacity")
	}
	data, err := a.ReadFile("/foo.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "0123456789" {
		t.Fatalf("read back %q, want %q", data, "0123456789")
	}
}

func TestWrongKeyRejected(t *testing.T) {
	stream := NewMemoryStream(nil)
	if _, err := Create(stream, Options{Key: []byte(DefaultKey)}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := Open(stream, Options{Key: []byte("wrong")})
	if err == nil {
		t.Fatalf("expected InvalidKey")
	}
	var hErr *HeaderError
	if !errors.As(err, &hErr) || hErr.Kind != "InvalidKey" {
		t.Fatalf("expected InvalidKey HeaderError, got %v", err)
	}
}

func TestDeleteOnlyEntryLeavesChainWithDotDot(t *testing.T) {
	stream := NewMemoryStream(nil)
	a, err := Create(stream, Options{Key: []byte(DefaultKey)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := a.Mkdir("/d"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := a.CreateFile("/d/only.txt", []byte("x")); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if err := a.DeleteFile("/d/only.txt"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if err := a.RemoveDir("/d"); err != nil {
		t.Fatalf("RemoveDir should succeed once empty: %v", err)
	}
}

func TestRemoveDirNotEmpty(t *testing.T) {
	stream := NewMemoryStream(nil)
	a, err := Create(stream, Options{Key: []byte(DefaultKey)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := a.CreateFile("/d/only.txt", []byte("x")); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if err := a.RemoveDir("/d"); err == nil {
		t.Fatalf("expected DirectoryNotEmpty")
	}
}

func TestZeroByteFileReadsEOFImmediately(t *testing.T) {
	stream := NewMemoryStream(nil)
	a, err := Create(stream, Options{Key: []byte(DefaultKey)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := a.CreateFile("/empty.bin", nil); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	f, err := a.OpenFile("/empty.bin")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	buf := make([]byte, 16)
	n, err := f.Read(buf)
	if n != 0 || err == nil {
		t.Fatalf("Read on empty file = (%d, %v), want (0, EOF)", n, err)
	}
}

func pad2(i int) string {
	return fmt.Sprintf("%02d", i)
}
