package pk2

// Codec converts between UTF-8 display strings and the archive's native
// name-byte encoding. Identity is built in here; EUC-KR lives in the
// encoding subpackage so that pulling in golang.org/x/text is opt-in.
type Codec interface {
	// Encode converts s to storage bytes, at most 81 long. It returns
	// InvalidName if s cannot be represented.
	Encode(s string) ([]byte, error)
	// Decode converts storage bytes back to a display string. It never
	// fails: codecs that cannot represent a byte substitute U+FFFD.
	Decode(b []byte) string
}

// identityCodec is a pass-through UTF-8 codec: storage bytes are exactly
// the UTF-8 bytes of the string.
type identityCodec struct{}

// NewIdentityCodec returns the built-in UTF-8 pass-through Codec.
func NewIdentityCodec() Codec { return identityCodec{} }

func (identityCodec) Encode(s string) ([]byte, error) {
	b := []byte(s)
	if len(b) > entryNameLen {
		return nil, formatErr("InvalidName", s)
	}
	for _, c := range b {
		if c == 0 {
			return nil, formatErr("InvalidName", s)
		}
	}
	return b, nil
}

func (identityCodec) Decode(b []byte) string {
	return string(b)
}
