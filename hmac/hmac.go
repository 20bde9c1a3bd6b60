// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package hmac implements HMAC (RFC 2104) over the digest engine.
package hmac

import (
	"crypto/subtle"
	"hash"

	"gitlab.com/yawning/slice.git"

	"gitlab.com/yawning/oxicrypt.git"
	"gitlab.com/yawning/oxicrypt.git/digest"
)

const (
	ipad = 0x36
	opad = 0x5c

	maxBlockSize  = 128
	maxDigestSize = 64
)

// Context is a keyed HMAC context.  A Context with no key set uses the
// empty key.
type Context struct {
	inner digest.Context

	// key is the block length derived key.
	key [maxBlockSize]byte

	started  bool
	finished bool
}

var _ hash.Hash = (*Context)(nil)

// New returns an HMAC context for alg on backend.  Key derivation and both
// nested digests run on the same backend.
func New(alg digest.Algorithm, backend oxicrypt.Backend) (*Context, error) {
	inner, err := digest.New(alg, backend)
	if err != nil {
		return nil, err
	}
	return &Context{
		inner: inner,
	}, nil
}

// NewWithKey is New followed by SetKey.
func NewWithKey(alg digest.Algorithm, backend oxicrypt.Backend, key []byte) (*Context, error) {
	c, err := New(alg, backend)
	if err != nil {
		return nil, err
	}
	c.SetKey(key)
	return c, nil
}

// Algorithm returns the underlying hash algorithm.
func (c *Context) Algorithm() digest.Algorithm {
	return c.inner.Algorithm()
}

// Backend returns the backend of the underlying hash.
func (c *Context) Backend() oxicrypt.Backend {
	return c.inner.Backend()
}

// Size returns the MAC length in bytes.
func (c *Context) Size() int {
	return c.inner.Size()
}

// BlockSize returns the block length of the underlying hash.
func (c *Context) BlockSize() int {
	return c.inner.BlockSize()
}

// SetKey derives the block length key from key and starts a new message.
// Keys longer than the block length are hashed first.
func (c *Context) SetKey(key []byte) {
	bs := c.inner.BlockSize()

	clear(c.key[:])
	if len(key) > bs {
		c.inner.Reset()
		c.inner.Update(key)
		_ = c.inner.Finish(c.key[:])
	} else {
		copy(c.key[:], key)
	}

	c.Reset()
}

// Reset starts a new message under the same key.
func (c *Context) Reset() {
	c.started = false
	c.finished = false
}

func (c *Context) begin() {
	var pad [maxBlockSize]byte

	bs := c.inner.BlockSize()
	for i := 0; i < bs; i++ {
		pad[i] = c.key[i] ^ ipad
	}
	c.inner.Reset()
	c.inner.Update(pad[:bs])
	c.started = true

	clear(pad[:])
}

// Update absorbs p.
func (c *Context) Update(p []byte) {
	if c.finished {
		panic("hmac: Update after Finish")
	}
	if !c.started {
		c.begin()
	}
	c.inner.Update(p)
}

// Write absorbs p.  It never returns an error.
func (c *Context) Write(p []byte) (int, error) {
	c.Update(p)
	return len(p), nil
}

// Finish writes the MAC into the first Size() bytes of out, or returns
// oxicrypt.ErrBufferTooSmall without writing anything.  Repeated calls
// return the same MAC until Reset or SetKey.
func (c *Context) Finish(out []byte) error {
	sz := c.inner.Size()
	if len(out) < sz {
		return oxicrypt.NewBufferTooSmallError("mac output", sz, len(out))
	}
	if c.finished {
		return c.inner.Finish(out)
	}
	if !c.started {
		c.begin()
	}

	var (
		inner [maxDigestSize]byte
		pad   [maxBlockSize]byte
	)
	_ = c.inner.Finish(inner[:])

	bs := c.inner.BlockSize()
	for i := 0; i < bs; i++ {
		pad[i] = c.key[i] ^ opad
	}
	c.inner.Reset()
	c.inner.Update(pad[:bs])
	c.inner.Update(inner[:sz])
	c.finished = true

	clear(inner[:])
	clear(pad[:])

	return c.inner.Finish(out)
}

// Sum appends the MAC of the data written so far to b.  It does not modify
// the context.
func (c *Context) Sum(b []byte) []byte {
	ret, out := slice.ForAppend(b, c.inner.Size())

	d := c.Clone()
	_ = d.Finish(out)
	d.wipe()

	return ret
}

// Clone returns an independent copy of the context, key included.
func (c *Context) Clone() *Context {
	d := *c
	d.inner = c.inner.Clone()
	return &d
}

// Wipe clears the derived key.  The context must be keyed again before use.
func (c *Context) Wipe() {
	c.wipe()
	c.inner.Reset()
	c.Reset()
}

func (c *Context) wipe() {
	clear(c.key[:])
}

// Oneshot computes the MAC of data under key with alg, on the default
// backend, into out.
func Oneshot(alg digest.Algorithm, key, data, out []byte) error {
	if alg.Valid() && len(out) < alg.Size() {
		return oxicrypt.NewBufferTooSmallError("mac output", alg.Size(), len(out))
	}

	c, err := NewWithKey(alg, oxicrypt.Auto, key)
	if err != nil {
		return err
	}
	defer c.Wipe()

	c.Update(data)
	return c.Finish(out)
}

// Equal compares two MACs in constant time.
func Equal(mac1, mac2 []byte) bool {
	return subtle.ConstantTimeCompare(mac1, mac2) == 1
}
