package cryptostream

import "hash"

// HashingStream is a transparent pass-through: reads are forwarded to the
// source unchanged, while every byte read also feeds a running (optionally
// keyed) digest. The digest is finalized and handed to a completion
// callback exactly once, the first time a read comes up short with the
// source at EOF.
type HashingStream struct {
	source     ByteStream
	algorithm  string
	hmacKey    []byte
	ctx        hash.Hash
	digest     []byte
	called     bool
	onComplete func([]byte)
	returned   int64
}

// NewHashingStream computes an unkeyed digest of everything read from
// source using algorithm ("sha256", "sha512", "sha3-256", or "sha3-512").
func NewHashingStream(source ByteStream, algorithm string) (*HashingStream, error) {
	return NewHMACHashingStream(source, algorithm, nil)
}

// NewHMACHashingStream computes a keyed (HMAC) digest when hmacKey is
// non-empty, otherwise behaves like NewHashingStream.
func NewHMACHashingStream(source ByteStream, algorithm string, hmacKey []byte) (*HashingStream, error) {
	ctx, err := newHashContext(algorithm, hmacKey)
	if err != nil {
		return nil, &ValidationError{Field: "algorithm", Value: algorithm, Message: err.Error()}
	}
	return &HashingStream{source: source, algorithm: algorithm, hmacKey: hmacKey, ctx: ctx}, nil
}

// OnComplete registers fn to be called with the digest exactly once, on the
// first Read that comes up short with the source at EOF. Re-registering replaces the previous
// callback; a Rewind lets it fire again on the next pass.
func (s *HashingStream) OnComplete(fn func([]byte)) { s.onComplete = fn }

// GetHash returns the cached digest, or nil if no Read has yet come up
// short with the source at EOF.
func (s *HashingStream) GetHash() []byte {
	if !s.called {
		return nil
	}
	return append([]byte(nil), s.digest...)
}

func (s *HashingStream) Read(n int) ([]byte, error) {
	if n < 0 {
		return nil, NewLogicError("read", "negative read size")
	}
	data, err := s.source.Read(n)
	if err != nil {
		return nil, NewIOError("read", s.source.Tell(), err)
	}
	if len(data) > 0 {
		s.ctx.Write(data)
	}
	if len(data) < n && s.source.EOF() && !s.called {
		s.digest = s.ctx.Sum(nil)
		s.called = true
		if s.onComplete != nil {
			s.onComplete(s.digest)
		}
	}
	s.returned += int64(len(data))
	return data, nil
}

func (s *HashingStream) EOF() bool { return s.source.EOF() }

func (s *HashingStream) Rewind() error {
	if !s.source.IsSeekable() {
		return NewLogicError("seek", "source is not seekable")
	}
	if err := s.source.Rewind(); err != nil {
		return NewIOError("seek", 0, err)
	}
	ctx, err := newHashContext(s.algorithm, s.hmacKey)
	if err != nil {
		return err
	}
	s.ctx = ctx
	s.digest = nil
	s.called = false
	s.returned = 0
	return nil
}

// Seek supports only (0, SeekStart); any other combination is a logic
// error, the same contract DecryptingStream honors.
func (s *HashingStream) Seek(offset int64, whence Whence) (int64, error) {
	if offset != 0 || whence != SeekStart {
		return s.returned, NewLogicError("seek", "hashing stream only supports Seek(0, SeekStart)")
	}
	if err := s.Rewind(); err != nil {
		return s.returned, err
	}
	return 0, nil
}

func (s *HashingStream) Tell() int64 { return s.returned }

// GetSize passes the source's size through unchanged: a HashingStream
// neither grows nor shrinks what it reads.
func (s *HashingStream) GetSize() (int64, bool) { return s.source.GetSize() }

func (s *HashingStream) IsSeekable() bool { return s.source.IsSeekable() }

func (s *HashingStream) IsWritable() bool { return false }

func (s *HashingStream) GetContents() ([]byte, error) { return drainToEOF(s) }
