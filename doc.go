// Package cryptostream provides streaming transformers that turn a
// byte-granular, seekable source into AES-encrypted, AES-decrypted, or
// hashed output without ever materializing the whole payload in memory.
//
// # Overview
//
// Three transformers wrap a ByteStream and present a ByteStream themselves:
//
//   - EncryptingStream reads plaintext from a source and emits ciphertext.
//   - DecryptingStream reads ciphertext from a source and emits plaintext,
//     stripping PKCS#7 padding on the final block when the cipher method
//     requires it.
//   - HashingStream is a transparent pass-through that accumulates a
//     (optionally keyed) digest and hands it to a callback on EOF.
//
// The two AES transformers are driven by a CipherMethod, a small state machine that owns
// the current IV and knows how to advance it after each block:
//
//   - CBCMethod chains each ciphertext block into the next block's IV.
//     It requires PKCS#7 padding and only supports resetting to its
//     initial IV; there is no cheap way to reseek CBC state.
//   - CTRMethod treats its IV as a 128-bit big-endian counter and
//     increments it by the number of blocks produced. Because the
//     keystream for block k depends only on IV+k, CTR is addressable at
//     block granularity.
//
// # Basic usage
//
//	src := cryptostream.NewMemoryStream(plaintext)
//	method, _ := cryptostream.NewCipherMethod(cryptostream.CipherAES256CTR, iv)
//	enc, _ := cryptostream.NewEncryptingStreamWithMethod(src, key, method)
//
//	ciphertext, _ := enc.GetContents()
//
// # Constant memory
//
// Each transformer's internal buffer is sized by the read request: a
// Read(n) call produces about n bytes into it (rounded up to whole blocks,
// plus one lookahead block for CBC decryption), alongside one 16-byte IV.
// Reading an N-byte payload through a bounded read window therefore uses
// memory that depends on the window, not on N.
//
// # Error handling
//
// Caller misuse (a 15-byte IV at construction, an unsupported seek) returns a
// *ValidationError or *LogicError. A primitive failure — most commonly an
// invalid PKCS#7 pad byte on CBC decryption — returns *DecryptionFailedError
// or *EncryptionFailedError. Errors from the underlying ByteStream are
// surfaced unchanged, wrapped only with the operation and offset that
// triggered them.
//
// # Non-goals
//
// This package does not implement authenticated modes (GCM/CCM), key
// derivation or rotation, random IV generation policy, parallel block
// processing, in-place transformation, or writeable streams. Callers that
// need authentication should run a HashingStream with an HMAC key over the
// ciphertext, or use an AEAD mode directly from crypto/cipher.
package cryptostream
