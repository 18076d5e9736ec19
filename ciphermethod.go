package cryptostream

import "fmt"

// CipherMethod is the IV state machine a transformer consults before every
// block operation and updates after it. CBCMethod and CTRMethod are the two
// variants; there is no deeper hierarchy because the capability set is
// small and fixed.
type CipherMethod interface {
	// CurrentIV returns the 16-byte value to use for the next block
	// operation.
	CurrentIV() [BlockSize]byte

	// OpenSSLName identifies the cipher/mode pair, e.g. "aes-256-cbc". This
	// is also the dispatch key the AES primitive switches on.
	OpenSSLName() string

	// RequiresPadding reports whether the mode needs PKCS#7 padding on its
	// final block (true for CBC, false for CTR).
	RequiresPadding() bool

	// KeySizeBits returns the declared key size: 128 or 256.
	KeySizeBits() int

	// Update advances the IV state using the ciphertext block just
	// produced or consumed.
	Update(block []byte)

	// Seek repositions the IV state. Only a narrow set of (offset, whence)
	// combinations is legal; everything else returns a *LogicError.
	Seek(offset int64, whence Whence) error

	// Clone returns an independent copy sharing no mutable state, so an
	// encrypter and decrypter can start from the same initial IV without
	// aliasing each other's updates.
	Clone() CipherMethod
}

// NewCipherMethod constructs the CipherMethod for suite, seeded with iv.
// iv must be exactly BlockSize bytes.
func NewCipherMethod(suite CipherSuite, iv []byte) (CipherMethod, error) {
	if suite.isCTR() {
		return NewCTRMethod(iv, suite.KeySizeBits())
	}
	switch suite {
	case CipherAES128CBC, CipherAES256CBC:
		return NewCBCMethod(iv, suite.KeySizeBits())
	default:
		return nil, ErrUnsupportedCipher
	}
}

func checkIV(iv []byte) error {
	if len(iv) != BlockSize {
		return &ValidationError{
			Field:   "iv",
			Value:   len(iv),
			Message: fmt.Sprintf("IV must be exactly %d bytes, got %d", BlockSize, len(iv)),
		}
	}
	return nil
}

// CBCMethod implements CipherMethod for AES-CBC: the current IV is always
// the most recently produced or consumed ciphertext block.
type CBCMethod struct {
	initial [BlockSize]byte
	current [BlockSize]byte
	keyBits int
}

// NewCBCMethod constructs a CBCMethod. keyBits must be 128 or 256.
func NewCBCMethod(iv []byte, keyBits int) (*CBCMethod, error) {
	if err := checkIV(iv); err != nil {
		return nil, err
	}
	if keyBits != 128 && keyBits != 256 {
		return nil, &ValidationError{Field: "keyBits", Value: keyBits, Message: "CBC supports 128 or 256-bit keys"}
	}
	m := &CBCMethod{keyBits: keyBits}
	copy(m.initial[:], iv)
	m.current = m.initial
	return m, nil
}

func (m *CBCMethod) CurrentIV() [BlockSize]byte { return m.current }

func (m *CBCMethod) OpenSSLName() string {
	return fmt.Sprintf("aes-%d-cbc", m.keyBits)
}

func (m *CBCMethod) RequiresPadding() bool { return true }

func (m *CBCMethod) KeySizeBits() int { return m.keyBits }

// Update sets the current IV to the last block of ciphertext produced or
// consumed: CBC's only state is the previous ciphertext block.
func (m *CBCMethod) Update(block []byte) {
	if len(block) < BlockSize {
		return
	}
	copy(m.current[:], block[len(block)-BlockSize:])
}

// Seek supports only (0, SeekStart), which resets the IV to its initial
// value. CBC's state is purely the previous ciphertext block, so arbitrary
// reseek would require replaying from the start — callers that need that
// should rewind the whole transformer instead.
func (m *CBCMethod) Seek(offset int64, whence Whence) error {
	if offset == 0 && whence == SeekStart {
		m.current = m.initial
		return nil
	}
	return NewLogicError("seek", fmt.Sprintf("CBC only supports Seek(0, SeekStart), got Seek(%d, %s)", offset, whence))
}

func (m *CBCMethod) Clone() CipherMethod {
	c := *m
	return &c
}

// CTRMethod implements CipherMethod for AES-CTR: the IV is a 128-bit
// big-endian counter incremented by one for every block produced or
// consumed. There is no reserved nonce prefix — the whole 16 bytes
// participate in the increment, carry included.
type CTRMethod struct {
	initial [BlockSize]byte
	current [BlockSize]byte
	keyBits int
}

// NewCTRMethod constructs a CTRMethod. keyBits must be 128 or 256.
func NewCTRMethod(iv []byte, keyBits int) (*CTRMethod, error) {
	if err := checkIV(iv); err != nil {
		return nil, err
	}
	if keyBits != 128 && keyBits != 256 {
		return nil, &ValidationError{Field: "keyBits", Value: keyBits, Message: "CTR supports 128 or 256-bit keys"}
	}
	m := &CTRMethod{keyBits: keyBits}
	copy(m.initial[:], iv)
	m.current = m.initial
	return m, nil
}

func (m *CTRMethod) CurrentIV() [BlockSize]byte { return m.current }

func (m *CTRMethod) OpenSSLName() string {
	return fmt.Sprintf("aes-%d-ctr", m.keyBits)
}

func (m *CTRMethod) RequiresPadding() bool { return false }

func (m *CTRMethod) KeySizeBits() int { return m.keyBits }

// Update advances the counter by ceil(len(block)/BlockSize) increments.
func (m *CTRMethod) Update(block []byte) {
	blocks := (len(block) + BlockSize - 1) / BlockSize
	incrementCounter(&m.current, uint64(blocks))
}

// Seek supports (0, SeekStart) — reset to the initial IV — and
// (n, SeekCurrent) where n is a non-negative multiple of BlockSize,
// advancing the counter by n/BlockSize blocks. Negative CUR offsets and any
// use of SeekEnd are logic errors at this layer; a transformer that wants
// to seek backward recomputes from SeekStart instead (see EncryptingStream.Seek).
func (m *CTRMethod) Seek(offset int64, whence Whence) error {
	switch whence {
	case SeekStart:
		if offset != 0 {
			return NewLogicError("seek", fmt.Sprintf("CTR only supports Seek(0, SeekStart), got offset %d", offset))
		}
		m.current = m.initial
		return nil
	case SeekCurrent:
		if offset < 0 {
			return NewLogicError("seek", "CTR cipher method cannot seek backward directly; negative CUR offsets must be resolved by the caller")
		}
		if offset%BlockSize != 0 {
			return NewLogicError("seek", fmt.Sprintf("CTR CUR seek offset must be a multiple of %d, got %d", BlockSize, offset))
		}
		incrementCounter(&m.current, uint64(offset/BlockSize))
		return nil
	default:
		return NewLogicError("seek", fmt.Sprintf("CTR does not support %s", whence))
	}
}

func (m *CTRMethod) Clone() CipherMethod {
	c := *m
	return &c
}

// incrementCounter adds n to iv, treated as a 128-bit big-endian integer,
// with carry propagating across all 16 bytes; there is no reserved nonce
// prefix.
func incrementCounter(iv *[BlockSize]byte, n uint64) {
	carry := n
	for i := BlockSize - 1; i >= 0 && carry > 0; i-- {
		sum := uint64(iv[i]) + carry
		iv[i] = byte(sum)
		carry = sum >> 8
	}
}
