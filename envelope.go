package cryptostream

import (
	"encoding/binary"
	"fmt"
	"io"
)

// envelopeMagic identifies an envelope header; it has no cryptographic
// purpose, it just lets ReadEnvelope reject a file that obviously isn't one
// of these before it tries to interpret the rest of the header.
const envelopeMagic uint32 = 0x43525354 // "CRST"

const envelopeVersion uint8 = 1

// envelopeHeaderSize is magic(4) + version(1) + suite(1) + iv(BlockSize).
const envelopeHeaderSize = 4 + 1 + 1 + BlockSize

// WriteEnvelope writes a small self-describing header — magic, format
// version, cipher suite, and IV — ahead of a ciphertext, so a reader who
// only has the key can recover enough to construct a matching
// DecryptingStream without being told the suite or IV out of band.
//
// The envelope carries no MAC: it authenticates nothing, and a corrupted or
// adversarially modified envelope is only ever caught by the padding and
// length checks DecryptingStream already performs. Callers who need
// tamper-evidence must layer one on themselves (e.g. an HMAC over the whole
// envelope plus ciphertext, verified before any byte is decrypted).
func WriteEnvelope(w io.Writer, suite CipherSuite, iv []byte) error {
	if len(iv) != BlockSize {
		return &ValidationError{Field: "iv", Value: len(iv), Message: fmt.Sprintf("iv must be %d bytes, got %d", BlockSize, len(iv))}
	}
	header := make([]byte, 0, envelopeHeaderSize)
	header = binary.BigEndian.AppendUint32(header, envelopeMagic)
	header = append(header, envelopeVersion, byte(suite))
	header = append(header, iv...)
	if _, err := w.Write(header); err != nil {
		return NewIOError("write", 0, err)
	}
	return nil
}

// ReadEnvelope reads and validates a header written by WriteEnvelope,
// returning the cipher suite and IV it described. The reader is left
// positioned at the start of the ciphertext.
func ReadEnvelope(r io.Reader) (CipherSuite, []byte, error) {
	header := make([]byte, envelopeHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, NewIOError("read", 0, err)
	}
	magic := binary.BigEndian.Uint32(header[0:4])
	if magic != envelopeMagic {
		return 0, nil, &ValidationError{Field: "magic", Value: magic, Message: "not a cryptostream envelope"}
	}
	version := header[4]
	if version != envelopeVersion {
		return 0, nil, &ValidationError{Field: "version", Value: version, Message: fmt.Sprintf("unsupported envelope version %d", version)}
	}
	suite := CipherSuite(header[5])
	if suite > CipherAES256CTR {
		return 0, nil, &ValidationError{Field: "suite", Value: header[5], Message: "unknown cipher suite id"}
	}
	iv := append([]byte(nil), header[6:6+BlockSize]...)
	return suite, iv, nil
}
