// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package digest

import (
	"fmt"
	"strings"
)

// Algorithm is a Merkle-Damgard hash algorithm.
type Algorithm int

const (
	// MD5 is the MD5 algorithm.  It is broken, and only provided for
	// interoperability.
	MD5 Algorithm = iota + 1

	// SHA1 is the SHA-1 algorithm.
	SHA1

	// SHA224 is the SHA-224 algorithm.
	SHA224

	// SHA256 is the SHA-256 algorithm.
	SHA256

	// SHA384 is the SHA-384 algorithm.
	SHA384

	// SHA512 is the SHA-512 algorithm.
	SHA512

	// SHA512_224 is the SHA-512/224 algorithm.
	SHA512_224

	// SHA512_256 is the SHA-512/256 algorithm.
	SHA512_256

	maxAlgorithm
)

type algorithmInfo struct {
	name      string
	size      int
	blockSize int
}

var algorithms = [maxAlgorithm]algorithmInfo{
	MD5:        {"md5", 16, 64},
	SHA1:       {"sha1", 20, 64},
	SHA224:     {"sha224", 28, 64},
	SHA256:     {"sha256", 32, 64},
	SHA384:     {"sha384", 48, 128},
	SHA512:     {"sha512", 64, 128},
	SHA512_224: {"sha512-224", 28, 128},
	SHA512_256: {"sha512-256", 32, 128},
}

// Algorithms returns every supported algorithm.
func Algorithms() []Algorithm {
	ret := make([]Algorithm, 0, maxAlgorithm-1)
	for a := MD5; a < maxAlgorithm; a++ {
		ret = append(ret, a)
	}
	return ret
}

// Valid returns true iff a is a supported algorithm.
func (a Algorithm) Valid() bool {
	return a >= MD5 && a < maxAlgorithm
}

// Size returns the digest length in bytes.
func (a Algorithm) Size() int {
	if !a.Valid() {
		return 0
	}
	return algorithms[a].size
}

// BlockSize returns the block length in bytes.
func (a Algorithm) BlockSize() int {
	if !a.Valid() {
		return 0
	}
	return algorithms[a].blockSize
}

func (a Algorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithms[a].name
}

func normalizeName(s string) string {
	return strings.NewReplacer("-", "", "_", "", "/", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// ParseAlgorithm parses an algorithm name such as "sha256", "SHA-256" or
// "sha512/256".
func ParseAlgorithm(s string) (Algorithm, error) {
	n := normalizeName(s)
	for _, a := range Algorithms() {
		if normalizeName(algorithms[a].name) == n {
			return a, nil
		}
	}
	return 0, newUnknownAlgorithmError(s)
}
