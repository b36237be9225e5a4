package caps

import (
	"crypto/sha1" //nolint:gosec // sha-1 is required for interoperability
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// hashFuncs maps wire hash algorithm names to constructors. The names
// follow the cryptographic hash function registry used on the wire.
var hashFuncs = map[string]func() hash.Hash{
	"sha-1":   sha1.New,
	"sha-224": sha256.New224,
	"sha-256": sha256.New,
	"sha-384": sha512.New384,
	"sha-512": sha512.New,
	"sha3-256": func() hash.Hash {
		return sha3.New256()
	},
	"sha3-512": func() hash.Hash {
		return sha3.New512()
	},
	"blake2b-256": func() hash.Hash {
		h, _ := blake2b.New256(nil)
		return h
	},
	"blake2b-512": func() hash.Hash {
		h, _ := blake2b.New512(nil)
		return h
	},
}

// Supported reports whether algo names a hash algorithm this package can
// compute. Advertisements with unsupported algorithms are declined
// silently: no probe is issued and no cache entry is created.
func Supported(algo string) bool {
	_, ok := hashFuncs[algo]
	return ok
}

// newHash returns a new hash instance for algo, or ok=false for an
// unsupported name.
func newHash(algo string) (hash.Hash, bool) {
	fn, ok := hashFuncs[algo]
	if !ok {
		return nil, false
	}
	return fn(), true
}
