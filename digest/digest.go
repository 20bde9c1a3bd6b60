// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package digest implements the MD5, SHA-1 and SHA-2 hash functions as a
// single Merkle-Damgard engine over the registered compression backends.
package digest

import (
	"errors"
	"fmt"
	"hash"

	goerrors "github.com/agilira/go-errors"

	"gitlab.com/yawning/oxicrypt.git"
	"gitlab.com/yawning/oxicrypt.git/internal/api"
	"gitlab.com/yawning/oxicrypt.git/internal/generic"
)

// ErrUnknownAlgorithm is the error returned for an unsupported algorithm.
var ErrUnknownAlgorithm = errors.New("digest: unknown algorithm")

// ErrCodeUnknownAlgorithm is the code of the rich error wrapped with
// ErrUnknownAlgorithm.
const ErrCodeUnknownAlgorithm = "DIGEST_UNKNOWN_ALGORITHM"

func newUnknownAlgorithmError(v interface{}) error {
	richErr := goerrors.New(ErrCodeUnknownAlgorithm, fmt.Sprintf("unknown algorithm %v", v))
	return fmt.Errorf("%w: %w", ErrUnknownAlgorithm, richErr)
}

// Context is a streaming hash context.
//
// Write and Update absorb data.  Finish writes the digest and leaves the
// context finished, so that Update panics until Reset.  Sum does not modify
// the context.
type Context interface {
	hash.Hash

	// Update absorbs p.
	Update(p []byte)

	// Finish writes the digest into the first Size() bytes of out, or
	// returns oxicrypt.ErrBufferTooSmall without writing anything.
	Finish(out []byte) error

	// Algorithm returns the algorithm.
	Algorithm() Algorithm

	// Backend returns the backend running the compression function.
	Backend() oxicrypt.Backend

	// Clone returns an independent copy of the context.
	Clone() Context
}

var factories = map[oxicrypt.Backend]api.DigestFactory{
	oxicrypt.Generic: generic.Digest,
}

// New returns a reset context for alg on backend.  oxicrypt.Auto selects
// the process default.
func New(alg Algorithm, backend oxicrypt.Backend) (Context, error) {
	return newContext(oxicrypt.DefaultRegistry, alg, backend)
}

func newContext(reg *oxicrypt.Registry, alg Algorithm, backend oxicrypt.Backend) (Context, error) {
	b, f, err := resolveFactory(reg, alg, backend)
	if err != nil {
		return nil, err
	}
	return newAlgorithm(alg, b, f), nil
}

// resolveFactory validates alg and backend and returns the compression
// functions that will serve them.
func resolveFactory(reg *oxicrypt.Registry, alg Algorithm, backend oxicrypt.Backend) (oxicrypt.Backend, api.DigestFactory, error) {
	if !alg.Valid() {
		return oxicrypt.Auto, nil, newUnknownAlgorithmError(alg)
	}

	b, err := reg.Resolve(oxicrypt.FamilyDigest, backend)
	if err != nil {
		return oxicrypt.Auto, nil, err
	}
	f := factories[b]
	if f == nil {
		return oxicrypt.Auto, nil, fmt.Errorf("%w: no digest kernels for %s", oxicrypt.ErrUnsupportedBackend, b)
	}
	return b, f, nil
}

func newAlgorithm(alg Algorithm, b oxicrypt.Backend, f api.DigestFactory) Context {
	switch alg {
	case MD5:
		return newEngine(alg, b, &md5Params, f.MD5)
	case SHA1:
		return newEngine(alg, b, &sha1Params, f.SHA1)
	case SHA224:
		return newEngine(alg, b, &sha224Params, f.SHA256)
	case SHA256:
		return newEngine(alg, b, &sha256Params, f.SHA256)
	case SHA384:
		return newEngine(alg, b, &sha384Params, f.SHA512)
	case SHA512:
		return newEngine(alg, b, &sha512Params, f.SHA512)
	case SHA512_224:
		return newEngine(alg, b, &sha512_224Params, f.SHA512)
	default: // SHA512_256
		return newEngine(alg, b, &sha512_256Params, f.SHA512)
	}
}

// Oneshot hashes data with alg on the default backend, writing the digest
// into out.
func Oneshot(alg Algorithm, data, out []byte) error {
	if alg.Valid() && len(out) < alg.Size() {
		return oxicrypt.NewBufferTooSmallError("digest output", alg.Size(), len(out))
	}

	ctx, err := New(alg, oxicrypt.Auto)
	if err != nil {
		return err
	}
	ctx.Update(data)
	return ctx.Finish(out)
}

// Sum returns the digest of data with alg on the default backend.
func Sum(alg Algorithm, data []byte) ([]byte, error) {
	ctx, err := New(alg, oxicrypt.Auto)
	if err != nil {
		return nil, err
	}
	ctx.Update(data)
	return ctx.Sum(nil), nil
}

// NewFunc returns a constructor suitable for APIs that take func() hash.Hash,
// such as crypto/hmac or the x/crypto key derivation functions.
// The backend is resolved once, every hash it returns runs on it.
func NewFunc(alg Algorithm, backend oxicrypt.Backend) (func() hash.Hash, error) {
	return newFunc(oxicrypt.DefaultRegistry, alg, backend)
}

func newFunc(reg *oxicrypt.Registry, alg Algorithm, backend oxicrypt.Backend) (func() hash.Hash, error) {
	b, f, err := resolveFactory(reg, alg, backend)
	if err != nil {
		return nil, err
	}
	return func() hash.Hash {
		return newAlgorithm(alg, b, f)
	}, nil
}
