package pk2

import "encoding/binary"

// blockSize is the Blowfish block size in bytes.
const blockSize = 8

// pk2Salt is XOR'd cyclically into the user key before the key schedule
// runs. It is fixed by the format, not configurable.
var pk2Salt = [10]byte{0x03, 0xF8, 0xE4, 0x44, 0x88, 0x99, 0x3F, 0x64, 0xFE, 0x35}

// checkPlaintext is encrypted under the derived key and stored in the
// header's verify field; decrypting it back out is how Open confirms the
// user supplied the right key.
var checkPlaintext = [16]byte{
	0xB6, 0x0B, 0xCB, 0xFB, 0xCC, 0x28, 0xCA, 0x29,
	0x01, 0xCB, 0x0B, 0x0B, 0x11, 0xCD, 0x02, 0xCD,
}

// blowfishCipher is a little-endian variant of Blowfish: every 4-byte load
// or store into the Feistel round uses LittleEndian rather than the
// standard BigEndian. P-array and S-boxes are the unmodified standard
// Blowfish constants; only the byte order applied around them differs.
type blowfishCipher struct {
	p [18]uint32
	s [4][256]uint32
}

// deriveKey XORs userKey cyclically against pk2Salt, as PK2 key derivation
// requires, and clamps the result to Blowfish's 56-byte maximum key size.
func deriveKey(userKey []byte) []byte {
	n := len(userKey)
	if n > 56 {
		n = 56
	}
	derived := make([]byte, n)
	for i := 0; i < n; i++ {
		derived[i] = userKey[i] ^ pk2Salt[i%len(pk2Salt)]
	}
	return derived
}

// newBlowfishCipher builds a cipher from a user key, applying PK2's salted
// key derivation before running the standard Blowfish key schedule.
func newBlowfishCipher(userKey []byte) *blowfishCipher {
	c := &blowfishCipher{}
	c.p = blowfishP
	c.s[0] = blowfishS0
	c.s[1] = blowfishS1
	c.s[2] = blowfishS2
	c.s[3] = blowfishS3
	c.expandKey(deriveKey(userKey))
	return c
}

func (c *blowfishCipher) expandKey(key []byte) {
	j := 0
	for i := 0; i < 18; i++ {
		var data uint32
		for k := 0; k < 4; k++ {
			data |= uint32(key[j%len(key)]) << (8 * uint(k))
			j++
		}
		c.p[i] ^= data
	}

	var l, r uint32
	for i := 0; i < 18; i += 2 {
		l, r = c.encryptBlock(l, r)
		c.p[i] = l
		c.p[i+1] = r
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 256; j += 2 {
			l, r = c.encryptBlock(l, r)
			c.s[i][j] = l
			c.s[i][j+1] = r
		}
	}
}

func (c *blowfishCipher) feistel(x uint32) uint32 {
	a := (x >> 24) & 0xFF
	b := (x >> 16) & 0xFF
	d := (x >> 8) & 0xFF
	e := x & 0xFF
	return ((c.s[0][a] + c.s[1][b]) ^ c.s[2][d]) + c.s[3][e]
}

func (c *blowfishCipher) encryptBlock(left, right uint32) (uint32, uint32) {
	for i := 0; i < 16; i++ {
		left ^= c.p[i]
		right ^= c.feistel(left)
		left, right = right, left
	}
	left, right = right, left
	right ^= c.p[16]
	left ^= c.p[17]
	return left, right
}

func (c *blowfishCipher) decryptBlock(left, right uint32) (uint32, uint32) {
	for i := 17; i > 1; i-- {
		left ^= c.p[i]
		right ^= c.feistel(left)
		left, right = right, left
	}
	left, right = right, left
	right ^= c.p[1]
	left ^= c.p[0]
	return left, right
}

// encryptECB encrypts src as a sequence of independent 8-byte chunks,
// little-endian word order, and returns the ciphertext. len(src) must be a
// multiple of blockSize.
func (c *blowfishCipher) encryptECB(src []byte) []byte {
	dst := make([]byte, len(src))
	for off := 0; off < len(src); off += blockSize {
		left := binary.LittleEndian.Uint32(src[off : off+4])
		right := binary.LittleEndian.Uint32(src[off+4 : off+8])
		left, right = c.encryptBlock(left, right)
		binary.LittleEndian.PutUint32(dst[off:off+4], left)
		binary.LittleEndian.PutUint32(dst[off+4:off+8], right)
	}
	return dst
}

// decryptECB is the inverse of encryptECB.
func (c *blowfishCipher) decryptECB(src []byte) []byte {
	dst := make([]byte, len(src))
	for off := 0; off < len(src); off += blockSize {
		left := binary.LittleEndian.Uint32(src[off : off+4])
		right := binary.LittleEndian.Uint32(src[off+4 : off+8])
		left, right = c.decryptBlock(left, right)
		binary.LittleEndian.PutUint32(dst[off:off+4], left)
		binary.LittleEndian.PutUint32(dst[off+4:off+8], right)
	}
	return dst
}

// verifyBlock returns the Blowfish-ECB encryption of the fixed CHECK
// plaintext, stored in the header's verify field.
func (c *blowfishCipher) verifyBlock() []byte {
	return c.encryptECB(checkPlaintext[:])
}

// checkUserKey reports whether verify decrypts back to the fixed CHECK
// plaintext under this cipher's key.
func (c *blowfishCipher) checkUserKey(verify []byte) bool {
	if len(verify) != len(checkPlaintext) {
		return false
	}
	got := c.decryptECB(verify)
	for i := range got {
		if got[i] != checkPlaintext[i] {
			return false
		}
	}
	return true
}
