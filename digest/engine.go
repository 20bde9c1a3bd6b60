// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package digest

import (
	"encoding/binary"
	"math/bits"

	"gitlab.com/yawning/slice.git"

	"gitlab.com/yawning/oxicrypt.git"
)

const maxBlockSize = 128

type word interface {
	~uint32 | ~uint64
}

// params are the constants of one algorithm.
type params[W word] struct {
	iv        [8]W
	wordSize  int
	size      int
	blockSize int

	// lenSize is the width of the trailing message length field.
	lenSize      int
	littleEndian bool
}

var (
	md5Params = params[uint32]{
		iv:           [8]uint32{0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476},
		wordSize:     4,
		size:         16,
		blockSize:    64,
		lenSize:      8,
		littleEndian: true,
	}
	sha1Params = params[uint32]{
		iv:        [8]uint32{0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476, 0xc3d2e1f0},
		wordSize:  4,
		size:      20,
		blockSize: 64,
		lenSize:   8,
	}
	sha224Params = params[uint32]{
		iv:        [8]uint32{0xc1059ed8, 0x367cd507, 0x3070dd17, 0xf70e5939, 0xffc00b31, 0x68581511, 0x64f98fa7, 0xbefa4fa4},
		wordSize:  4,
		size:      28,
		blockSize: 64,
		lenSize:   8,
	}
	sha256Params = params[uint32]{
		iv:        [8]uint32{0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a, 0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19},
		wordSize:  4,
		size:      32,
		blockSize: 64,
		lenSize:   8,
	}
	sha384Params = params[uint64]{
		iv: [8]uint64{
			0xcbbb9d5dc1059ed8, 0x629a292a367cd507, 0x9159015a3070dd17, 0x152fecd8f70e5939,
			0x67332667ffc00b31, 0x8eb44a8768581511, 0xdb0c2e0d64f98fa7, 0x47b5481dbefa4fa4,
		},
		wordSize:  8,
		size:      48,
		blockSize: 128,
		lenSize:   16,
	}
	sha512Params = params[uint64]{
		iv: [8]uint64{
			0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
			0x510e527fade682d1, 0x9b05688c2b3e6c1f, 0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
		},
		wordSize:  8,
		size:      64,
		blockSize: 128,
		lenSize:   16,
	}
	sha512_224Params = params[uint64]{
		iv: [8]uint64{
			0x8c3d37c819544da2, 0x73e1996689dcd4d6, 0x1dfab7ae32ff9c82, 0x679dd514582f9fcf,
			0x0f6d2b697bd44da8, 0x77e36f7304c48942, 0x3f9d85a86a1d36c8, 0x1112e6ad91d692a1,
		},
		wordSize:  8,
		size:      28,
		blockSize: 128,
		lenSize:   16,
	}
	sha512_256Params = params[uint64]{
		iv: [8]uint64{
			0x22312194fc2bf72c, 0x9f555fa3c84c64c2, 0x2393b86b6f53b151, 0x963877195940eabd,
			0x96283ee2a88effe3, 0xbe5e1e2553863992, 0x2b0199fc2c85b8aa, 0x0eb72ddc81c52ca2,
		},
		wordSize:  8,
		size:      32,
		blockSize: 128,
		lenSize:   16,
	}
)

// engine is the streaming Merkle-Damgard construction over a compression
// function.
type engine[W word] struct {
	alg      Algorithm
	backend  oxicrypt.Backend
	p        *params[W]
	compress func(h *[8]W, p []byte)

	h    [8]W
	buf  [maxBlockSize]byte
	nbuf int

	// lenLo/lenHi count the compressed bytes, as a 128 bit integer.
	lenLo, lenHi uint64

	finished bool
}

func newEngine[W word](alg Algorithm, backend oxicrypt.Backend, p *params[W], compress func(*[8]W, []byte)) *engine[W] {
	e := &engine[W]{
		alg:      alg,
		backend:  backend,
		p:        p,
		compress: compress,
	}
	e.Reset()
	return e
}

func (e *engine[W]) Algorithm() Algorithm {
	return e.alg
}

func (e *engine[W]) Backend() oxicrypt.Backend {
	return e.backend
}

func (e *engine[W]) Size() int {
	return e.p.size
}

func (e *engine[W]) BlockSize() int {
	return e.p.blockSize
}

func (e *engine[W]) Reset() {
	e.h = e.p.iv
	clear(e.buf[:])
	e.nbuf = 0
	e.lenLo, e.lenHi = 0, 0
	e.finished = false
}

func (e *engine[W]) addLen(n int) {
	var carry uint64
	e.lenLo, carry = bits.Add64(e.lenLo, uint64(n), 0)
	e.lenHi += carry
}

func (e *engine[W]) Write(p []byte) (int, error) {
	e.Update(p)
	return len(p), nil
}

func (e *engine[W]) Update(p []byte) {
	if e.finished {
		panic("digest: Update after Finish")
	}

	bs := e.p.blockSize
	if e.nbuf > 0 {
		n := copy(e.buf[e.nbuf:bs], p)
		e.nbuf += n
		p = p[n:]
		if e.nbuf == bs {
			e.compress(&e.h, e.buf[:bs])
			e.addLen(bs)
			e.nbuf = 0
		}
	}
	if len(p) >= bs {
		n := len(p) - len(p)%bs
		e.compress(&e.h, p[:n])
		e.addLen(n)
		p = p[n:]
	}
	if len(p) > 0 {
		e.nbuf = copy(e.buf[:bs], p)
	}
}

// Finish writes the digest to out.  The context is not reset: further
// calls return the same digest, and Update panics until Reset.
func (e *engine[W]) Finish(out []byte) error {
	if len(out) < e.p.size {
		return oxicrypt.NewBufferTooSmallError("digest output", e.p.size, len(out))
	}

	if !e.finished {
		e.pad()
		e.finished = true
	}
	e.serialize(out[:e.p.size])

	return nil
}

func (e *engine[W]) pad() {
	bs, ls := e.p.blockSize, e.p.lenSize

	lo, carry := bits.Add64(e.lenLo, uint64(e.nbuf), 0)
	hi := e.lenHi + carry
	hi, lo = hi<<3|lo>>61, lo<<3

	e.buf[e.nbuf] = 0x80
	e.nbuf++
	if e.nbuf > bs-ls {
		clear(e.buf[e.nbuf:bs])
		e.compress(&e.h, e.buf[:bs])
		e.nbuf = 0
	}
	clear(e.buf[e.nbuf : bs-ls])

	switch {
	case e.p.littleEndian:
		binary.LittleEndian.PutUint64(e.buf[bs-8:], lo)
	case ls == 16:
		binary.BigEndian.PutUint64(e.buf[bs-16:], hi)
		binary.BigEndian.PutUint64(e.buf[bs-8:], lo)
	default:
		binary.BigEndian.PutUint64(e.buf[bs-8:], lo)
	}
	e.compress(&e.h, e.buf[:bs])

	clear(e.buf[:])
	e.nbuf = 0
}

func (e *engine[W]) serialize(out []byte) {
	var tmp [64]byte

	ws := e.p.wordSize
	for i, w := range e.h {
		b := tmp[i*ws:]
		switch {
		case ws == 8:
			binary.BigEndian.PutUint64(b, uint64(w))
		case e.p.littleEndian:
			binary.LittleEndian.PutUint32(b, uint32(w))
		default:
			binary.BigEndian.PutUint32(b, uint32(w))
		}
	}
	copy(out, tmp[:e.p.size])
	clear(tmp[:])
}

func (e *engine[W]) Sum(b []byte) []byte {
	ret, out := slice.ForAppend(b, e.p.size)

	d := *e
	_ = d.Finish(out)
	d.zero()

	return ret
}

func (e *engine[W]) Clone() Context {
	d := *e
	return &d
}

func (e *engine[W]) zero() {
	clear(e.h[:])
	clear(e.buf[:])
}
