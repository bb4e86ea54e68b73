package pk2

import "testing"

func TestCipherRoundTrip(t *testing.T) {
	c := newBlowfishCipher([]byte("169841"))
	block := make([]byte, 2560)
	for i := range block {
		block[i] = byte(i * 7)
	}
	enc := c.encryptECB(block)
	dec := c.decryptECB(enc)
	for i := range block {
		if dec[i] != block[i] {
			t.Fatalf("round trip mismatch at byte %d: got %#x want %#x", i, dec[i], block[i])
		}
	}
}

func TestCipherVerifyBlock(t *testing.T) {
	c := newBlowfishCipher([]byte("169841"))
	verify := c.verifyBlock()
	if len(verify) != 16 {
		t.Fatalf("verify block length = %d, want 16", len(verify))
	}
	if !c.checkUserKey(verify) {
		t.Fatalf("checkUserKey rejected the verify block produced by the same cipher")
	}
}

func TestCipherWrongKeyRejected(t *testing.T) {
	right := newBlowfishCipher([]byte("169841"))
	wrong := newBlowfishCipher([]byte("wrong"))
	verify := right.verifyBlock()
	if wrong.checkUserKey(verify) {
		t.Fatalf("checkUserKey accepted a verify block encrypted under a different key")
	}
}

func TestDeriveKeyClampsTo56Bytes(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = byte(i)
	}
	derived := deriveKey(long)
	if len(derived) != 56 {
		t.Fatalf("derived key length = %d, want 56", len(derived))
	}
}
