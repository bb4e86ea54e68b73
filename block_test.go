package pk2

import "testing"

func TestBlockRoundTrip(t *testing.T) {
	b := newEmptyBlock()
	b.Entries[2] = &PackEntry{Kind: entryKindFile, Name: []byte("a.txt"), Size: 3, Position: 1000}
	b.setNextBlock(5120)

	raw := b.encode()
	if len(raw) != blockPayloadBytes {
		t.Fatalf("encoded block length = %d, want %d", len(raw), blockPayloadBytes)
	}
	got, err := decodeBlock(raw)
	if err != nil {
		t.Fatalf("decodeBlock: %v", err)
	}
	if got.nextBlock() != 5120 {
		t.Fatalf("nextBlock = %d, want 5120", got.nextBlock())
	}
	if !got.Entries[2].IsFile() || string(got.Entries[2].Name) != "a.txt" {
		t.Fatalf("entry 2 mismatch: %+v", got.Entries[2])
	}
}

func TestBlockCipherRoundTrip(t *testing.T) {
	c := newBlowfishCipher([]byte(DefaultKey))
	b := newEmptyBlock()
	b.Entries[0] = &PackEntry{Kind: entryKindDir, Name: []byte("."), Position: 256}
	plain := b.encode()
	cipherText := c.encryptECB(plain)
	roundTripped := c.encryptECB(c.decryptECB(cipherText))
	for i := range cipherText {
		if cipherText[i] != roundTripped[i] {
			t.Fatalf("decrypt/re-encrypt mismatch at byte %d", i)
		}
	}
}
