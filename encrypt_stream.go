package cryptostream

import "fmt"

// EncryptingStream reads plaintext from a source ByteStream and presents
// the resulting ciphertext as a ByteStream of its own. The concatenation of
// everything read from an EncryptingStream with no intervening Seek always
// equals a one-shot encryption of the whole source, regardless of how the
// reads are chunked.
type EncryptingStream struct {
	source     ByteStream
	key        []byte
	method     CipherMethod
	buffer     []byte
	finalized  bool
	returned   int64
	blockIndex int64
}

// NewEncryptingStream builds a CipherMethod for suite/iv and wraps source.
func NewEncryptingStream(source ByteStream, key []byte, suite CipherSuite, iv []byte) (*EncryptingStream, error) {
	method, err := NewCipherMethod(suite, iv)
	if err != nil {
		return nil, err
	}
	return NewEncryptingStreamWithMethod(source, key, method)
}

// NewEncryptingStreamWithMethod wraps source using an already-constructed
// CipherMethod. The stream takes ownership of method; pass method.Clone()
// if the caller needs to retain the original (e.g. to build a matching
// DecryptingStream from the same initial IV).
func NewEncryptingStreamWithMethod(source ByteStream, key []byte, method CipherMethod) (*EncryptingStream, error) {
	if len(key) != method.KeySizeBits()/8 {
		return nil, &ValidationError{
			Field:   "key",
			Value:   len(key),
			Message: fmt.Sprintf("key must be %d bytes for %s, got %d", method.KeySizeBits()/8, method.OpenSSLName(), len(key)),
		}
	}
	return &EncryptingStream{source: source, key: key, method: method}, nil
}

// produceBlock reads one more plaintext block from the source and appends
// its ciphertext to the buffer, or finalizes the stream when the source is
// exhausted.
func (s *EncryptingStream) produceBlock() error {
	if s.finalized {
		return nil
	}

	plain, err := s.source.Read(BlockSize)
	if err != nil {
		return NewIOError("read", s.source.Tell(), err)
	}

	iv := s.method.CurrentIV()

	if len(plain) == BlockSize {
		out, err := aesEncryptBlock(s.method.OpenSSLName(), s.key, iv[:], plain, false)
		if err != nil {
			return &EncryptionFailedError{BlockIndex: s.blockIndex, Message: err.Error(), Err: err}
		}
		s.buffer = append(s.buffer, out...)
		s.method.Update(out)
		s.blockIndex++
		return nil
	}

	// Short (or empty) read: the source is exhausted. Produce the final
	// block, padded if the method requires it.
	pad := s.method.RequiresPadding()
	out, err := aesEncryptBlock(s.method.OpenSSLName(), s.key, iv[:], plain, pad)
	if err != nil {
		return &EncryptionFailedError{BlockIndex: s.blockIndex, Message: err.Error(), Err: err}
	}
	s.buffer = append(s.buffer, out...)
	if len(out) > 0 {
		s.method.Update(out)
	}
	s.finalized = true
	return nil
}

func (s *EncryptingStream) Read(n int) ([]byte, error) {
	if n < 0 {
		return nil, NewLogicError("read", "negative read size")
	}
	for len(s.buffer) < n && !s.finalized {
		if err := s.produceBlock(); err != nil {
			return nil, err
		}
	}
	take := n
	if take > len(s.buffer) {
		take = len(s.buffer)
	}
	out := s.buffer[:take]
	s.buffer = s.buffer[take:]
	s.returned += int64(take)
	return out, nil
}

func (s *EncryptingStream) EOF() bool { return s.finalized && len(s.buffer) == 0 }

func (s *EncryptingStream) Rewind() error {
	_, err := s.Seek(0, SeekStart)
	return err
}

// Seek supports (0, SeekStart) unconditionally (provided the source is
// seekable) and, for CTR cipher methods only, (offset, SeekCurrent) for any
// offset whose resulting absolute position is non-negative. CUR seeks are
// realized as a full reset plus a discard-read to the target position,
// which also makes sub-block and negative CUR seeks into already-produced
// data work for free: that data is deterministically reproducible from the
// initial IV.
func (s *EncryptingStream) Seek(offset int64, whence Whence) (int64, error) {
	switch whence {
	case SeekStart:
		if offset != 0 {
			return s.returned, NewLogicError("seek", "encrypting stream only supports Seek(0, SeekStart)")
		}
		if !s.source.IsSeekable() {
			return s.returned, NewLogicError("seek", "source is not seekable")
		}
		if err := s.source.Rewind(); err != nil {
			return s.returned, NewIOError("seek", 0, err)
		}
		if err := s.method.Seek(0, SeekStart); err != nil {
			return s.returned, err
		}
		s.buffer = nil
		s.finalized = false
		s.returned = 0
		s.blockIndex = 0
		return 0, nil

	case SeekCurrent:
		if s.method.RequiresPadding() {
			return s.returned, NewLogicError("seek", "CUR seek is only supported for non-padded (CTR) cipher methods")
		}
		target := s.returned + offset
		if target < 0 {
			return s.returned, NewLogicError("seek", "resulting position would be negative")
		}
		if _, err := s.Seek(0, SeekStart); err != nil {
			return s.returned, err
		}
		const discardChunk = 1 << 20
		for s.returned < target {
			want := target - s.returned
			if want > discardChunk {
				want = discardChunk
			}
			data, err := s.Read(int(want))
			if err != nil {
				return s.returned, err
			}
			if len(data) == 0 {
				break // ran off the end of the source before reaching target
			}
		}
		return s.returned, nil

	default:
		return s.returned, NewLogicError("seek", fmt.Sprintf("unsupported whence %s", whence))
	}
}

func (s *EncryptingStream) Tell() int64 { return s.returned }

// GetSize returns the ciphertext size implied by the source's size, or
// false if the source size is unknown: ⌈(n+1)/16⌉·16 for padded modes, n
// unchanged for CTR.
func (s *EncryptingStream) GetSize() (int64, bool) {
	size, known := s.source.GetSize()
	if !known {
		return 0, false
	}
	if s.method.RequiresPadding() {
		blocks := (size + 1 + BlockSize - 1) / BlockSize
		return blocks * BlockSize, true
	}
	return size, true
}

func (s *EncryptingStream) IsSeekable() bool { return s.source.IsSeekable() }

func (s *EncryptingStream) IsWritable() bool { return false }

func (s *EncryptingStream) GetContents() ([]byte, error) { return drainToEOF(s) }
