// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package generic

import "math/bits"

// The lookup tables are derived from GF(2^8) arithmetic at init time.
//
// te0[x] is the MixColumns column for S(x) in row 0, as the big endian word
// (2*S(x), S(x), S(x), 3*S(x)); te1..te3 are byte rotations of te0.  td0..td3
// are the same construction for InvMixColumns over the inverse S-box.
var (
	sbox0 [256]byte
	sbox1 [256]byte

	te0, te1, te2, te3 [256]uint32
	td0, td1, td2, td3 [256]uint32

	// powx[i] is x^i in GF(2^8), the key expansion round constants.
	powx [16]byte
)

// mul multiplies a and b in GF(2^8) modulo x^8 + x^4 + x^3 + x + 1.
func mul(a, b uint32) uint32 {
	var p uint32
	for b != 0 {
		if b&1 != 0 {
			p ^= a
		}
		a <<= 1
		if a&0x100 != 0 {
			a ^= 0x11b
		}
		b >>= 1
	}
	return p
}

func init() {
	// p walks every non-zero element as successive powers of 3, and q
	// tracks its inverse, so the affine transform of q is S(p).
	p, q := uint8(1), uint8(1)
	for {
		if p&0x80 != 0 {
			p ^= (p << 1) ^ 0x1b
		} else {
			p ^= p << 1
		}

		q ^= q << 1
		q ^= q << 2
		q ^= q << 4
		if q&0x80 != 0 {
			q ^= 0x09
		}

		x := q ^ bits.RotateLeft8(q, 1) ^ bits.RotateLeft8(q, 2) ^ bits.RotateLeft8(q, 3) ^ bits.RotateLeft8(q, 4)
		sbox0[p] = x ^ 0x63

		if p == 1 {
			break
		}
	}
	sbox0[0] = 0x63

	for i := 0; i < 256; i++ {
		sbox1[sbox0[i]] = byte(i)
	}

	for i := 0; i < 256; i++ {
		s := uint32(sbox0[i])
		w := mul(s, 2)<<24 | s<<16 | s<<8 | mul(s, 3)
		te0[i] = w
		te1[i] = bits.RotateLeft32(w, -8)
		te2[i] = bits.RotateLeft32(w, -16)
		te3[i] = bits.RotateLeft32(w, -24)

		s = uint32(sbox1[i])
		w = mul(s, 0xe)<<24 | mul(s, 0x9)<<16 | mul(s, 0xd)<<8 | mul(s, 0xb)
		td0[i] = w
		td1[i] = bits.RotateLeft32(w, -8)
		td2[i] = bits.RotateLeft32(w, -16)
		td3[i] = bits.RotateLeft32(w, -24)
	}

	x := uint32(1)
	for i := range powx {
		powx[i] = byte(x)
		x = mul(x, 2)
	}
}
