package cryptostream

import "fmt"

// DecryptingStream reads ciphertext from a source ByteStream and presents
// the recovered plaintext as a ByteStream of its own. For padding-requiring
// cipher methods it keeps a one-block lookahead so it can tell the final
// ciphertext block from a middle one before asking the AES primitive to
// strip padding — padding must be stripped exactly once, and only from the
// last block.
type DecryptingStream struct {
	source        ByteStream
	key           []byte
	method        CipherMethod
	buffer        []byte
	lookahead     []byte
	haveLookahead bool
	finalized     bool
	returned      int64
	blockIndex    int64
}

// NewDecryptingStream builds a CipherMethod for suite/iv and wraps source.
func NewDecryptingStream(source ByteStream, key []byte, suite CipherSuite, iv []byte) (*DecryptingStream, error) {
	method, err := NewCipherMethod(suite, iv)
	if err != nil {
		return nil, err
	}
	return NewDecryptingStreamWithMethod(source, key, method)
}

// NewDecryptingStreamWithMethod wraps source using an already-constructed
// CipherMethod, taking ownership of it.
func NewDecryptingStreamWithMethod(source ByteStream, key []byte, method CipherMethod) (*DecryptingStream, error) {
	if len(key) != method.KeySizeBits()/8 {
		return nil, &ValidationError{
			Field:   "key",
			Value:   len(key),
			Message: fmt.Sprintf("key must be %d bytes for %s, got %d", method.KeySizeBits()/8, method.OpenSSLName(), len(key)),
		}
	}
	return &DecryptingStream{source: source, key: key, method: method}, nil
}

func (s *DecryptingStream) produceBlock() error {
	if s.finalized {
		return nil
	}
	if s.method.RequiresPadding() {
		return s.producePaddedBlock()
	}
	return s.produceStreamBlock()
}

// producePaddedBlock implements the one-block lookahead decrypt loop for
// CBC. It strips PKCS#7 padding only once it has confirmed, by reading one
// block further, that the current block is the last one in the stream.
func (s *DecryptingStream) producePaddedBlock() error {
	var current []byte
	if s.haveLookahead {
		current = s.lookahead
		s.lookahead = nil
		s.haveLookahead = false
	} else {
		c, err := s.source.Read(BlockSize)
		if err != nil {
			return NewIOError("read", s.source.Tell(), err)
		}
		current = c
	}

	if len(current) == 0 {
		s.finalized = true
		return nil
	}
	if len(current) != BlockSize {
		return &DecryptionFailedError{
			BlockIndex: s.blockIndex,
			Message:    fmt.Sprintf("ciphertext truncated mid-block: got %d bytes", len(current)),
		}
	}

	next, err := s.source.Read(BlockSize)
	if err != nil {
		return NewIOError("read", s.source.Tell(), err)
	}

	iv := s.method.CurrentIV()

	if len(next) == BlockSize {
		out, err := aesDecryptBlock(s.method.OpenSSLName(), s.key, iv[:], current, false)
		if err != nil {
			return &DecryptionFailedError{BlockIndex: s.blockIndex, Message: err.Error(), Err: err}
		}
		s.buffer = append(s.buffer, out...)
		s.method.Update(current)
		s.blockIndex++
		s.lookahead = next
		s.haveLookahead = true
		return nil
	}
	if len(next) != 0 {
		return &DecryptionFailedError{
			BlockIndex: s.blockIndex + 1,
			Message:    fmt.Sprintf("ciphertext truncated mid-block: got %d trailing bytes", len(next)),
		}
	}

	out, err := aesDecryptBlock(s.method.OpenSSLName(), s.key, iv[:], current, true)
	if err != nil {
		return &DecryptionFailedError{BlockIndex: s.blockIndex, Message: err.Error(), Err: err}
	}
	s.buffer = append(s.buffer, out...)
	s.method.Update(current)
	s.finalized = true
	return nil
}

// produceStreamBlock implements decryption for non-padded (CTR) methods:
// no lookahead is needed since there is no padding to disambiguate.
func (s *DecryptingStream) produceStreamBlock() error {
	chunk, err := s.source.Read(BlockSize)
	if err != nil {
		return NewIOError("read", s.source.Tell(), err)
	}
	if len(chunk) == 0 {
		s.finalized = true
		return nil
	}
	iv := s.method.CurrentIV()
	out, err := aesDecryptBlock(s.method.OpenSSLName(), s.key, iv[:], chunk, false)
	if err != nil {
		return &DecryptionFailedError{BlockIndex: s.blockIndex, Message: err.Error(), Err: err}
	}
	s.buffer = append(s.buffer, out...)
	s.method.Update(chunk)
	s.blockIndex++
	if len(chunk) < BlockSize {
		s.finalized = true
	}
	return nil
}

func (s *DecryptingStream) Read(n int) ([]byte, error) {
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

func (s *DecryptingStream) EOF() bool { return s.finalized && len(s.buffer) == 0 }

func (s *DecryptingStream) Rewind() error {
	_, err := s.Seek(0, SeekStart)
	return err
}

// Seek supports only (0, SeekStart). Callers needing arbitrary positioning
// must wrap this stream in a bounded/positional adapter.
func (s *DecryptingStream) Seek(offset int64, whence Whence) (int64, error) {
	if offset != 0 || whence != SeekStart {
		return s.returned, NewLogicError("seek", "decrypting stream only supports Seek(0, SeekStart)")
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
	s.lookahead = nil
	s.haveLookahead = false
	s.finalized = false
	s.returned = 0
	s.blockIndex = 0
	return 0, nil
}

func (s *DecryptingStream) Tell() int64 { return s.returned }

// GetSize returns false when the cipher method requires padding, since the
// final plaintext length is not known without decrypting the last block;
// otherwise it passes the source's size through unchanged.
func (s *DecryptingStream) GetSize() (int64, bool) {
	if s.method.RequiresPadding() {
		return 0, false
	}
	return s.source.GetSize()
}

func (s *DecryptingStream) IsSeekable() bool { return s.source.IsSeekable() }

func (s *DecryptingStream) IsWritable() bool { return false }

func (s *DecryptingStream) GetContents() ([]byte, error) { return drainToEOF(s) }
