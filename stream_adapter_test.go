package cryptostream

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemoryStream_ReadAndEOF(t *testing.T) {
	s := NewMemoryStream([]byte("hello world"))
	chunk, err := s.Read(5)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(chunk) != "hello" {
		t.Fatalf("Read(5) = %q, want %q", chunk, "hello")
	}
	if s.EOF() {
		t.Fatalf("EOF() = true after partial read")
	}
	rest, err := s.Read(100)
	if err != nil {
		t.Fatalf("Read(100): %v", err)
	}
	if string(rest) != " world" {
		t.Fatalf("Read(100) = %q, want %q", rest, " world")
	}
	if !s.EOF() {
		t.Fatalf("EOF() = false after full read")
	}
}

func TestMemoryStream_SeekAndTell(t *testing.T) {
	s := NewMemoryStream([]byte("0123456789"))
	if pos, err := s.Seek(3, SeekStart); err != nil || pos != 3 {
		t.Fatalf("Seek(3, SeekStart) = (%d, %v), want (3, nil)", pos, err)
	}
	if s.Tell() != 3 {
		t.Fatalf("Tell() = %d, want 3", s.Tell())
	}
	if pos, err := s.Seek(2, SeekCurrent); err != nil || pos != 5 {
		t.Fatalf("Seek(2, SeekCurrent) = (%d, %v), want (5, nil)", pos, err)
	}
	if pos, err := s.Seek(-1, SeekEnd); err != nil || pos != 9 {
		t.Fatalf("Seek(-1, SeekEnd) = (%d, %v), want (9, nil)", pos, err)
	}
	if _, err := s.Seek(-100, SeekStart); !IsLogicError(err) {
		t.Fatalf("Seek(-100, SeekStart) = %v, want LogicError", err)
	}
}

func TestMemoryStream_GetSizeAndContents(t *testing.T) {
	data := []byte("the payload")
	s := NewMemoryStream(data)
	size, known := s.GetSize()
	if !known || size != int64(len(data)) {
		t.Fatalf("GetSize() = (%d, %v), want (%d, true)", size, known, len(data))
	}
	if _, err := s.Read(4); err != nil {
		t.Fatalf("Read: %v", err)
	}
	contents, err := s.GetContents()
	if err != nil {
		t.Fatalf("GetContents: %v", err)
	}
	if !bytes.Equal(contents, data) {
		t.Fatalf("GetContents() = %q, want %q (should ignore prior position)", contents, data)
	}
}

func TestMemoryStream_Capabilities(t *testing.T) {
	s := NewMemoryStream(nil)
	if !s.IsSeekable() {
		t.Fatalf("IsSeekable() = false, want true")
	}
	if s.IsWritable() {
		t.Fatalf("IsWritable() = true, want false")
	}
}

func TestReaderStream_Conformance(t *testing.T) {
	data := "the payload, read through an io.ReadSeeker"
	r := strings.NewReader(data)
	s := NewReaderStream(r, int64(len(data)), true)

	chunk, err := s.Read(3)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(chunk) != "the" {
		t.Fatalf("Read(3) = %q, want %q", chunk, "the")
	}
	if s.Tell() != 3 {
		t.Fatalf("Tell() = %d, want 3", s.Tell())
	}

	contents, err := s.GetContents()
	if err != nil {
		t.Fatalf("GetContents: %v", err)
	}
	if string(contents) != data {
		t.Fatalf("GetContents() = %q, want %q", contents, data)
	}
	if !s.EOF() {
		t.Fatalf("EOF() = false after GetContents")
	}

	if err := s.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	if s.Tell() != 0 {
		t.Fatalf("Tell() after rewind = %d, want 0", s.Tell())
	}
}

func TestReaderStream_UnknownSize(t *testing.T) {
	r := strings.NewReader("no size given")
	s := NewReaderStream(r, 0, false)
	if _, known := s.GetSize(); known {
		t.Fatalf("GetSize() known = true, want false")
	}
}
