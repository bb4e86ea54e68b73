package encoding

import "testing"

func TestEUCKRRoundTrip(t *testing.T) {
	c := NewEUCKR()
	encoded, err := c.Encode("hello")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := c.Decode(encoded); got != "hello" {
		t.Fatalf("Decode(Encode(%q)) = %q", "hello", got)
	}
}

func TestEUCKRRejectsOverlongName(t *testing.T) {
	c := NewEUCKR()
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := c.Encode(string(long)); err == nil {
		t.Fatalf("expected an error for a name over 81 bytes")
	}
}

func TestEUCKRDecodeReplacesMalformedBytes(t *testing.T) {
	c := NewEUCKR()
	malformed := []byte{0xFF, 0xFF, 0x41}
	got := c.Decode(malformed)
	if got == "" {
		t.Fatalf("expected a non-empty replacement decode, got empty string")
	}
}
