package pk2

import (
	"io"
	"testing"
)

func TestMemoryStreamAppendAndReadAt(t *testing.T) {
	s := NewMemoryStream(nil)
	off, err := s.Append([]byte("abc"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if off != 0 {
		t.Fatalf("first append offset = %d, want 0", off)
	}
	off2, err := s.Append([]byte("def"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if off2 != 3 {
		t.Fatalf("second append offset = %d, want 3", off2)
	}
	buf := make([]byte, 6)
	if _, err := s.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(buf) != "abcdef" {
		t.Fatalf("ReadAt = %q, want %q", buf, "abcdef")
	}
}

func TestMemoryStreamReadAtPastEndReturnsEOF(t *testing.T) {
	s := NewMemoryStream([]byte("abc"))
	buf := make([]byte, 4)
	_, err := s.ReadAt(buf, 10)
	if err != io.EOF {
		t.Fatalf("ReadAt past end = %v, want io.EOF", err)
	}
}

func TestMemoryStreamWriteAtGrowsBuffer(t *testing.T) {
	s := NewMemoryStream(nil)
	if _, err := s.WriteAt([]byte("xyz"), 10); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	length, err := s.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if length != 13 {
		t.Fatalf("Len = %d, want 13", length)
	}
}

func TestMemoryStreamTruncate(t *testing.T) {
	s := NewMemoryStream([]byte("abcdef"))
	if err := s.Truncate(3); err != nil {
		t.Fatalf("Truncate shrink: %v", err)
	}
	if string(s.Bytes()) != "abc" {
		t.Fatalf("Bytes = %q, want %q", s.Bytes(), "abc")
	}
	if err := s.Truncate(5); err != nil {
		t.Fatalf("Truncate grow: %v", err)
	}
	if len(s.Bytes()) != 5 {
		t.Fatalf("Bytes length = %d, want 5", len(s.Bytes()))
	}
}
