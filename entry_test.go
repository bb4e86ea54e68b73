package pk2

import (
	"testing"

	"github.com/go-test/deep"
)

func TestEntryRoundTrip(t *testing.T) {
	e := &PackEntry{
		Kind:       entryKindFile,
		Name:       []byte("hello.txt"),
		AccessTime: 1,
		CreateTime: 2,
		ModifyTime: 3,
		Position:   4096,
		Size:       5,
	}
	buf := make([]byte, entrySize)
	e.encode(buf)
	got, err := decodeEntry(buf, false)
	if err != nil {
		t.Fatalf("decodeEntry: %v", err)
	}
	if diff := deep.Equal(e, got); diff != nil {
		t.Fatalf("round trip mismatch: %v", diff)
	}
}

func TestEntryRejectsInvalidKind(t *testing.T) {
	buf := make([]byte, entrySize)
	buf[offEntryKind] = 7
	if _, err := decodeEntry(buf, false); err == nil {
		t.Fatalf("expected an error for kind=7")
	} else if fe, ok := err.(*FormatError); !ok || fe.Kind != "InvalidEntryKind" {
		t.Fatalf("expected InvalidEntryKind, got %v", err)
	}
}

func TestEntryRejectsNextBlockInNonTerminalSlot(t *testing.T) {
	e := emptyEntry()
	e.NextBlock = 2560
	buf := make([]byte, entrySize)
	e.encode(buf)
	if _, err := decodeEntry(buf, false); err == nil {
		t.Fatalf("expected InvalidNextBlock for a non-terminal slot")
	}
}

func TestEntryAllowsNextBlockInTerminalSlot(t *testing.T) {
	e := emptyEntry()
	e.NextBlock = 2560
	buf := make([]byte, entrySize)
	e.encode(buf)
	got, err := decodeEntry(buf, true)
	if err != nil {
		t.Fatalf("decodeEntry: %v", err)
	}
	if got.NextBlock != 2560 {
		t.Fatalf("NextBlock = %d, want 2560", got.NextBlock)
	}
}

func TestEntry81ByteNameRoundTripsWithoutTerminator(t *testing.T) {
	name := make([]byte, entryNameLen)
	for i := range name {
		name[i] = 'a'
	}
	e := &PackEntry{Kind: entryKindFile, Name: name, Size: 1}
	buf := make([]byte, entrySize)
	e.encode(buf)
	got, err := decodeEntry(buf, false)
	if err != nil {
		t.Fatalf("decodeEntry on an 81-byte name: %v", err)
	}
	if string(got.Name) != string(name) {
		t.Fatalf("decoded name = %q, want 81 a's", got.Name)
	}
}

func TestEntryNameLengthBoundary(t *testing.T) {
	codec := NewIdentityCodec()
	name81 := make([]byte, 81)
	for i := range name81 {
		name81[i] = 'a'
	}
	if _, err := codec.Encode(string(name81)); err != nil {
		t.Fatalf("81-byte name should be accepted: %v", err)
	}
	name82 := append(name81, 'a')
	if _, err := codec.Encode(string(name82)); err == nil {
		t.Fatalf("82-byte name should be rejected")
	}
}
