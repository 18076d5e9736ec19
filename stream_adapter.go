package cryptostream

import (
	"fmt"
	"io"
)

// MemoryStream is a ByteStream backed by an in-memory byte slice. It is
// fully seekable and its size is always known; it is the reference
// ByteStream used throughout this package's tests and is a reasonable
// choice for small payloads in real code too.
type MemoryStream struct {
	data []byte
	pos  int64
}

// NewMemoryStream wraps data as a ByteStream. data is not copied; callers
// must not mutate it while the stream is in use.
func NewMemoryStream(data []byte) *MemoryStream {
	return &MemoryStream{data: data}
}

func (s *MemoryStream) Read(n int) ([]byte, error) {
	if n < 0 {
		return nil, NewLogicError("read", "negative read size")
	}
	if s.pos >= int64(len(s.data)) {
		return []byte{}, nil
	}
	end := s.pos + int64(n)
	if end > int64(len(s.data)) {
		end = int64(len(s.data))
	}
	out := s.data[s.pos:end]
	s.pos = end
	return out, nil
}

func (s *MemoryStream) EOF() bool { return s.pos >= int64(len(s.data)) }

func (s *MemoryStream) Rewind() error {
	_, err := s.Seek(0, SeekStart)
	return err
}

func (s *MemoryStream) Seek(offset int64, whence Whence) (int64, error) {
	var newPos int64
	switch whence {
	case SeekStart:
		newPos = offset
	case SeekCurrent:
		newPos = s.pos + offset
	case SeekEnd:
		newPos = int64(len(s.data)) + offset
	default:
		return s.pos, NewLogicError("seek", fmt.Sprintf("unknown whence %d", whence))
	}
	if newPos < 0 {
		return s.pos, NewLogicError("seek", "resulting position is negative")
	}
	s.pos = newPos
	return s.pos, nil
}

func (s *MemoryStream) Tell() int64 { return s.pos }

func (s *MemoryStream) GetSize() (int64, bool) { return int64(len(s.data)), true }

func (s *MemoryStream) IsSeekable() bool { return true }

func (s *MemoryStream) IsWritable() bool { return false }

func (s *MemoryStream) GetContents() ([]byte, error) {
	if err := s.Rewind(); err != nil {
		return nil, err
	}
	return s.Read(len(s.data))
}

// ReaderStream adapts any io.ReadSeeker (typically *os.File) to ByteStream.
// size/knownSize let the caller supply the total length up front (e.g. from
// os.Stat) without this type having to special-case *os.File.
type ReaderStream struct {
	r         io.ReadSeeker
	size      int64
	knownSize bool
	pos       int64
	eof       bool
}

// NewReaderStream wraps r. If knownSize is false, size is ignored and
// GetSize reports unknown.
func NewReaderStream(r io.ReadSeeker, size int64, knownSize bool) *ReaderStream {
	return &ReaderStream{r: r, size: size, knownSize: knownSize}
}

func (s *ReaderStream) Read(n int) ([]byte, error) {
	if n < 0 {
		return nil, NewLogicError("read", "negative read size")
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(s.r, buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		s.eof = true
		err = nil
	} else if err != nil {
		return nil, NewIOError("read", s.pos, err)
	}
	s.pos += int64(read)
	return buf[:read], nil
}

func (s *ReaderStream) EOF() bool { return s.eof }

func (s *ReaderStream) Rewind() error {
	_, err := s.Seek(0, SeekStart)
	return err
}

func (s *ReaderStream) Seek(offset int64, whence Whence) (int64, error) {
	var w int
	switch whence {
	case SeekStart:
		w = io.SeekStart
	case SeekCurrent:
		w = io.SeekCurrent
	case SeekEnd:
		w = io.SeekEnd
	default:
		return s.pos, NewLogicError("seek", fmt.Sprintf("unknown whence %d", whence))
	}
	pos, err := s.r.Seek(offset, w)
	if err != nil {
		return s.pos, NewIOError("seek", offset, err)
	}
	s.pos = pos
	s.eof = s.knownSize && s.pos >= s.size
	return s.pos, nil
}

func (s *ReaderStream) Tell() int64 { return s.pos }

func (s *ReaderStream) GetSize() (int64, bool) { return s.size, s.knownSize }

func (s *ReaderStream) IsSeekable() bool { return true }

func (s *ReaderStream) IsWritable() bool { return false }

func (s *ReaderStream) GetContents() ([]byte, error) {
	if err := s.Rewind(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(s.r)
	if err != nil {
		return nil, NewIOError("read", s.pos, err)
	}
	s.pos += int64(len(data))
	s.eof = true
	return data, nil
}
