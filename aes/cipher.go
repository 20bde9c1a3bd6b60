// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package aes

import (
	"crypto/cipher"

	"gitlab.com/yawning/oxicrypt.git"
)

// Cipher is a keyed AES instance implementing cipher.Block.
type Cipher struct {
	engine *Engine
	enc    []byte
	dec    []byte
}

var _ cipher.Block = (*Cipher)(nil)

// NewCipher creates a cipher.Block keyed with key, on the default backend.
// The key class is selected by the key length.
func NewCipher(key []byte) (*Cipher, error) {
	return NewCipherWithBackend(key, oxicrypt.Auto)
}

// NewCipherWithBackend creates a cipher.Block keyed with key, on backend.
func NewCipherWithBackend(key []byte, backend oxicrypt.Backend) (*Cipher, error) {
	class, err := KeyClassForKeySize(len(key))
	if err != nil {
		return nil, err
	}
	e, err := New(class, backend)
	if err != nil {
		return nil, err
	}

	c := &Cipher{
		engine: e,
		enc:    make([]byte, class.ScheduleSize()),
		dec:    make([]byte, class.ScheduleSize()),
	}
	e.kernel.ExpandKey(c.enc, key)
	copy(c.dec, c.enc)
	e.kernel.InvertKey(c.dec)

	return c, nil
}

// Engine returns the engine backing the cipher.
func (c *Cipher) Engine() *Engine {
	return c.engine
}

// BlockSize returns the AES block size in bytes.
func (c *Cipher) BlockSize() int {
	return BlockSize
}

// Encrypt encrypts the first block of src into dst.  dst and src may
// overlap entirely.
func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes: input not full block")
	}
	if len(dst) < BlockSize {
		panic("aes: output not full block")
	}
	c.engine.kernel.Encrypt1(c.enc, dst[:BlockSize], src[:BlockSize])
}

// Decrypt decrypts the first block of src into dst.  dst and src may
// overlap entirely.
func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes: input not full block")
	}
	if len(dst) < BlockSize {
		panic("aes: output not full block")
	}
	c.engine.kernel.Decrypt1(c.dec, dst[:BlockSize], src[:BlockSize])
}

// Reset clears the key schedules.  The cipher must not be used afterwards.
func (c *Cipher) Reset() {
	for i := range c.enc {
		c.enc[i] = 0
	}
	for i := range c.dec {
		c.dec[i] = 0
	}
}
