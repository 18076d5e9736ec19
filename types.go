package cryptostream

import "fmt"

// BlockSize is the AES block size in bytes, fixed regardless of key size.
const BlockSize = 16

// Whence selects the reference point for a Seek call, mirroring io.Seeker's
// constants but kept local so ByteStream does not have to import io.
type Whence int

const (
	SeekStart Whence = iota
	SeekCurrent
	SeekEnd
)

func (w Whence) String() string {
	switch w {
	case SeekStart:
		return "SET"
	case SeekCurrent:
		return "CUR"
	case SeekEnd:
		return "END"
	default:
		return fmt.Sprintf("Whence(%d)", int(w))
	}
}

// ByteStream is the byte-granular, rewindable, optionally-seekable source or
// sink that every transformer in this package consumes and, in turn,
// implements. The engine only ever calls this small surface, never assumes
// anything about what backs it.
//
// Read may return fewer than n bytes; it returns an empty, non-nil-error
// slice once the stream is exhausted. GetSize reports false when the total
// size cannot be known in advance (e.g. an unbounded network source, or a
// decrypting stream whose cipher method requires padding).
type ByteStream interface {
	// Read returns up to n bytes. A short read that is not accompanied by
	// an error means the stream is now at EOF.
	Read(n int) ([]byte, error)

	// EOF reports whether the stream has been fully consumed.
	EOF() bool

	// Rewind is equivalent to Seek(0, SeekStart).
	Rewind() error

	// Seek repositions the stream. Not every implementation supports every
	// whence; unsupported combinations return a *LogicError.
	Seek(offset int64, whence Whence) (int64, error)

	// Tell returns the number of bytes read (or, for a generated stream,
	// produced and returned to the caller) so far.
	Tell() int64

	// GetSize returns the total size of the stream and whether it is known.
	GetSize() (size int64, known bool)

	// IsSeekable reports whether Seek can be called at all.
	IsSeekable() bool

	// IsWritable always reports false for every stream in this package;
	// writeable streams are a Non-goal.
	IsWritable() bool

	// GetContents reads the stream to EOF and returns everything read.
	GetContents() ([]byte, error)
}

// CipherSuite names one of the four AES configurations this package
// supports: two key sizes crossed with the two supported modes.
type CipherSuite uint8

const (
	CipherAES128CBC CipherSuite = iota
	CipherAES256CBC
	CipherAES128CTR
	CipherAES256CTR
)

// OpenSSLName returns the conventional "aes-{keysize}-{mode}" identifier,
// which doubles as the dispatch key for the AES primitive in primitive.go.
func (c CipherSuite) OpenSSLName() string {
	switch c {
	case CipherAES128CBC:
		return "aes-128-cbc"
	case CipherAES256CBC:
		return "aes-256-cbc"
	case CipherAES128CTR:
		return "aes-128-ctr"
	case CipherAES256CTR:
		return "aes-256-ctr"
	default:
		return "unknown"
	}
}

func (c CipherSuite) String() string { return c.OpenSSLName() }

// KeySizeBits returns the declared key size for this suite: 128 or 256.
func (c CipherSuite) KeySizeBits() int {
	switch c {
	case CipherAES128CBC, CipherAES128CTR:
		return 128
	case CipherAES256CBC, CipherAES256CTR:
		return 256
	default:
		return 0
	}
}

// RequiresPadding reports whether this suite's mode needs PKCS#7 padding
// (true for CBC, false for CTR).
func (c CipherSuite) RequiresPadding() bool {
	switch c {
	case CipherAES128CBC, CipherAES256CBC:
		return true
	default:
		return false
	}
}

// isCTR reports whether this suite uses counter mode.
func (c CipherSuite) isCTR() bool {
	return c == CipherAES128CTR || c == CipherAES256CTR
}
