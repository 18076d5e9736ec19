package cryptostream

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"regexp"
	"strconv"
)

// cipherNamePattern matches the "aes-{128,256}-{cbc,ctr}" identifiers that
// CipherMethod.OpenSSLName produces. The AES primitive dispatches on this
// string rather than on the CipherMethod type, so a cipher method that
// reports a malformed name (e.g. in a test double) fails here exactly the
// way an external primitive would reject an unrecognized algorithm.
var cipherNamePattern = regexp.MustCompile(`^aes-(128|256)-(cbc|ctr)$`)

func parseCipherName(name string) (keyBytes int, mode string, err error) {
	m := cipherNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, "", fmt.Errorf("unrecognized cipher name %q", name)
	}
	bits, _ := strconv.Atoi(m[1])
	return bits / 8, m[2], nil
}

// aesEncryptBlock is the AES primitive's encrypt half: a single-shot call
// over raw (unpadded, non-base64) bytes. pad, when true, PKCS#7-pads data
// to a single output block before encrypting — callers request this only
// for the final block of a padding-requiring mode. With pad false, data
// must already be a multiple of BlockSize for CBC; CTR accepts any length,
// padded or not, since it never pads.
func aesEncryptBlock(cipherName string, key, iv, data []byte, pad bool) ([]byte, error) {
	keyBytes, mode, err := parseCipherName(cipherName)
	if err != nil {
		return nil, err
	}
	if len(key) != keyBytes {
		return nil, fmt.Errorf("key length mismatch for %s: want %d bytes, got %d", cipherName, keyBytes, len(key))
	}
	if len(iv) != BlockSize {
		return nil, fmt.Errorf("IV length mismatch: want %d bytes, got %d", BlockSize, len(iv))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	switch mode {
	case "cbc":
		plain := data
		if pad {
			plain = pkcs7Pad(data, BlockSize)
		} else if len(data)%BlockSize != 0 {
			return nil, fmt.Errorf("CBC block input must be a multiple of %d bytes, got %d", BlockSize, len(data))
		}
		out := make([]byte, len(plain))
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, plain)
		return out, nil
	case "ctr":
		out := make([]byte, len(data))
		cipher.NewCTR(block, iv).XORKeyStream(out, data)
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported mode %q", mode)
	}
}

// aesDecryptBlock is the AES primitive's decrypt half. unpad, when true,
// strips and validates PKCS#7 padding from the decrypted output — callers
// request this only for the final block of a padding-requiring mode. An
// invalid pad byte is the primitive's one integrity signal in CBC mode;
// CTR has none and will "successfully" decrypt any input.
func aesDecryptBlock(cipherName string, key, iv, data []byte, unpad bool) ([]byte, error) {
	keyBytes, mode, err := parseCipherName(cipherName)
	if err != nil {
		return nil, err
	}
	if len(key) != keyBytes {
		return nil, fmt.Errorf("key length mismatch for %s: want %d bytes, got %d", cipherName, keyBytes, len(key))
	}
	if len(iv) != BlockSize {
		return nil, fmt.Errorf("IV length mismatch: want %d bytes, got %d", BlockSize, len(iv))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	switch mode {
	case "cbc":
		if len(data)%BlockSize != 0 || len(data) == 0 {
			return nil, fmt.Errorf("CBC block input must be a non-empty multiple of %d bytes, got %d", BlockSize, len(data))
		}
		out := make([]byte, len(data))
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)
		if unpad {
			return pkcs7Unpad(out, BlockSize)
		}
		return out, nil
	case "ctr":
		out := make([]byte, len(data))
		cipher.NewCTR(block, iv).XORKeyStream(out, data)
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported mode %q", mode)
	}
}

// pkcs7Pad appends N bytes of value N to reach the next multiple of
// blockSize. An input that already sits on a block boundary, including the
// empty input, is padded with one full block.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - (len(data) % blockSize)
	out := make([]byte, len(data)+padding)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(padding)
	}
	return out
}

// pkcs7Unpad removes and validates PKCS#7 padding, rejecting anything whose
// trailing bytes are not a consistent, in-range pad run.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded data length %d", len(data))
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, fmt.Errorf("invalid padding length %d", padLen)
	}
	for i := len(data) - padLen; i < len(data); i++ {
		if data[i] != byte(padLen) {
			return nil, fmt.Errorf("invalid padding byte at position %d", i)
		}
	}
	return data[:len(data)-padLen], nil
}
