// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package generic

import (
	"encoding/binary"

	"gitlab.com/yawning/oxicrypt.git/internal/api"
)

type aesFactory struct{}

func (f *aesFactory) Name() string {
	return "generic"
}

func (f *aesFactory) New(rounds int) api.AESKernel {
	return &aesKernel{
		rounds: rounds,
	}
}

// aesKernel is the lookup table AES implementation.  It is fast, but it is
// not constant time.
type aesKernel struct {
	rounds int
}

func rotw(w uint32) uint32 {
	return w<<8 | w>>24
}

func subw(w uint32) uint32 {
	return uint32(sbox0[w>>24])<<24 |
		uint32(sbox0[w>>16&0xff])<<16 |
		uint32(sbox0[w>>8&0xff])<<8 |
		uint32(sbox0[w&0xff])
}

func rk(sched []byte, i int) uint32 {
	return binary.BigEndian.Uint32(sched[4*i:])
}

func (k *aesKernel) ExpandKey(sched, key []byte) {
	var w [60]uint32

	nk := k.rounds - 6
	n := 4 * (k.rounds + 1)
	for i := 0; i < nk; i++ {
		w[i] = binary.BigEndian.Uint32(key[4*i:])
	}
	for i := nk; i < n; i++ {
		t := w[i-1]
		if i%nk == 0 {
			t = subw(rotw(t)) ^ uint32(powx[i/nk-1])<<24
		} else if nk > 6 && i%nk == 4 {
			t = subw(t)
		}
		w[i] = w[i-nk] ^ t
	}
	for i := 0; i < n; i++ {
		binary.BigEndian.PutUint32(sched[4*i:], w[i])
	}

	for i := range w {
		w[i] = 0
	}
}

func (k *aesKernel) InvertKey(sched []byte) {
	for i := 4; i < 4*k.rounds; i++ {
		x := rk(sched, i)
		x = td0[sbox0[x>>24]] ^ td1[sbox0[x>>16&0xff]] ^ td2[sbox0[x>>8&0xff]] ^ td3[sbox0[x&0xff]]
		binary.BigEndian.PutUint32(sched[4*i:], x)
	}
}

func (k *aesKernel) Encrypt1(sched, dst, src []byte) {
	_, _ = src[15], dst[15]

	s0 := binary.BigEndian.Uint32(src[0:4]) ^ rk(sched, 0)
	s1 := binary.BigEndian.Uint32(src[4:8]) ^ rk(sched, 1)
	s2 := binary.BigEndian.Uint32(src[8:12]) ^ rk(sched, 2)
	s3 := binary.BigEndian.Uint32(src[12:16]) ^ rk(sched, 3)

	var t0, t1, t2, t3 uint32
	for r := 1; r < k.rounds; r++ {
		t0 = te0[s0>>24] ^ te1[s1>>16&0xff] ^ te2[s2>>8&0xff] ^ te3[s3&0xff] ^ rk(sched, 4*r)
		t1 = te0[s1>>24] ^ te1[s2>>16&0xff] ^ te2[s3>>8&0xff] ^ te3[s0&0xff] ^ rk(sched, 4*r+1)
		t2 = te0[s2>>24] ^ te1[s3>>16&0xff] ^ te2[s0>>8&0xff] ^ te3[s1&0xff] ^ rk(sched, 4*r+2)
		t3 = te0[s3>>24] ^ te1[s0>>16&0xff] ^ te2[s1>>8&0xff] ^ te3[s2&0xff] ^ rk(sched, 4*r+3)
		s0, s1, s2, s3 = t0, t1, t2, t3
	}

	// Last round omits MixColumns.
	o := 4 * k.rounds
	t0 = uint32(sbox0[s0>>24])<<24 | uint32(sbox0[s1>>16&0xff])<<16 | uint32(sbox0[s2>>8&0xff])<<8 | uint32(sbox0[s3&0xff])
	t1 = uint32(sbox0[s1>>24])<<24 | uint32(sbox0[s2>>16&0xff])<<16 | uint32(sbox0[s3>>8&0xff])<<8 | uint32(sbox0[s0&0xff])
	t2 = uint32(sbox0[s2>>24])<<24 | uint32(sbox0[s3>>16&0xff])<<16 | uint32(sbox0[s0>>8&0xff])<<8 | uint32(sbox0[s1&0xff])
	t3 = uint32(sbox0[s3>>24])<<24 | uint32(sbox0[s0>>16&0xff])<<16 | uint32(sbox0[s1>>8&0xff])<<8 | uint32(sbox0[s2&0xff])

	binary.BigEndian.PutUint32(dst[0:4], t0^rk(sched, o))
	binary.BigEndian.PutUint32(dst[4:8], t1^rk(sched, o+1))
	binary.BigEndian.PutUint32(dst[8:12], t2^rk(sched, o+2))
	binary.BigEndian.PutUint32(dst[12:16], t3^rk(sched, o+3))
}

func (k *aesKernel) Decrypt1(sched, dst, src []byte) {
	_, _ = src[15], dst[15]

	// The decryption schedule keeps encryption order, so walk it backwards.
	o := 4 * k.rounds
	s0 := binary.BigEndian.Uint32(src[0:4]) ^ rk(sched, o)
	s1 := binary.BigEndian.Uint32(src[4:8]) ^ rk(sched, o+1)
	s2 := binary.BigEndian.Uint32(src[8:12]) ^ rk(sched, o+2)
	s3 := binary.BigEndian.Uint32(src[12:16]) ^ rk(sched, o+3)

	var t0, t1, t2, t3 uint32
	for r := k.rounds - 1; r > 0; r-- {
		t0 = td0[s0>>24] ^ td1[s3>>16&0xff] ^ td2[s2>>8&0xff] ^ td3[s1&0xff] ^ rk(sched, 4*r)
		t1 = td0[s1>>24] ^ td1[s0>>16&0xff] ^ td2[s3>>8&0xff] ^ td3[s2&0xff] ^ rk(sched, 4*r+1)
		t2 = td0[s2>>24] ^ td1[s1>>16&0xff] ^ td2[s0>>8&0xff] ^ td3[s3&0xff] ^ rk(sched, 4*r+2)
		t3 = td0[s3>>24] ^ td1[s2>>16&0xff] ^ td2[s1>>8&0xff] ^ td3[s0&0xff] ^ rk(sched, 4*r+3)
		s0, s1, s2, s3 = t0, t1, t2, t3
	}

	t0 = uint32(sbox1[s0>>24])<<24 | uint32(sbox1[s3>>16&0xff])<<16 | uint32(sbox1[s2>>8&0xff])<<8 | uint32(sbox1[s1&0xff])
	t1 = uint32(sbox1[s1>>24])<<24 | uint32(sbox1[s0>>16&0xff])<<16 | uint32(sbox1[s3>>8&0xff])<<8 | uint32(sbox1[s2&0xff])
	t2 = uint32(sbox1[s2>>24])<<24 | uint32(sbox1[s1>>16&0xff])<<16 | uint32(sbox1[s0>>8&0xff])<<8 | uint32(sbox1[s3&0xff])
	t3 = uint32(sbox1[s3>>24])<<24 | uint32(sbox1[s2>>16&0xff])<<16 | uint32(sbox1[s1>>8&0xff])<<8 | uint32(sbox1[s0&0xff])

	binary.BigEndian.PutUint32(dst[0:4], t0^rk(sched, 0))
	binary.BigEndian.PutUint32(dst[4:8], t1^rk(sched, 1))
	binary.BigEndian.PutUint32(dst[8:12], t2^rk(sched, 2))
	binary.BigEndian.PutUint32(dst[12:16], t3^rk(sched, 3))
}

// The table implementation has no lanes, so the batched forms are loops.

func (k *aesKernel) encryptN(sched, dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		off := i * api.BlockSize
		k.Encrypt1(sched, dst[off:off+api.BlockSize], src[off:off+api.BlockSize])
	}
}

func (k *aesKernel) decryptN(sched, dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		off := i * api.BlockSize
		k.Decrypt1(sched, dst[off:off+api.BlockSize], src[off:off+api.BlockSize])
	}
}

func (k *aesKernel) Encrypt2(sched, dst, src []byte) { k.encryptN(sched, dst, src, 2) }
func (k *aesKernel) Encrypt4(sched, dst, src []byte) { k.encryptN(sched, dst, src, 4) }
func (k *aesKernel) Encrypt8(sched, dst, src []byte) { k.encryptN(sched, dst, src, 8) }
func (k *aesKernel) Decrypt2(sched, dst, src []byte) { k.decryptN(sched, dst, src, 2) }
func (k *aesKernel) Decrypt4(sched, dst, src []byte) { k.decryptN(sched, dst, src, 4) }
func (k *aesKernel) Decrypt8(sched, dst, src []byte) { k.decryptN(sched, dst, src, 8) }
