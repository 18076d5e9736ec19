package cryptostream

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"
)

// hashConstructors maps an algorithm name to a fresh hash.Hash factory.
// sha3-256/sha3-512 come from golang.org/x/crypto, already part of this
// module's dependency tree, so HashingStream gets algorithm variety without
// introducing a new module dependency.
var hashConstructors = map[string]func() hash.Hash{
	"sha256":   sha256.New,
	"sha512":   sha512.New,
	"sha3-256": sha3.New256,
	"sha3-512": sha3.New512,
}

// newHashContext returns a fresh hash.Hash for alg, or an HMAC hash.Hash
// (from hmac.New) keyed with key when key is non-empty.
func newHashContext(alg string, key []byte) (hash.Hash, error) {
	ctor, ok := hashConstructors[alg]
	if !ok {
		return nil, fmt.Errorf("unsupported hash algorithm %q", alg)
	}
	if len(key) > 0 {
		return hmac.New(ctor, key), nil
	}
	return ctor(), nil
}
