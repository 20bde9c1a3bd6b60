// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package bitsliced provides a constant time AES implementation built on the
// 64 bit bitsliced circuit, which processes four blocks per pass.
package bitsliced

import (
	"encoding/binary"

	"gitlab.com/yawning/bsaes.git/ct64"

	"gitlab.com/yawning/oxicrypt.git/internal/api"
)

// AES is the bitsliced AES factory.
var AES api.AESFactory = &aesFactory{}

type aesFactory struct{}

func (f *aesFactory) Name() string {
	return "bitsliced"
}

func (f *aesFactory) New(rounds int) api.AESKernel {
	return &aesKernel{
		rounds: rounds,
	}
}

// aesKernel keeps no key material, the orthogonalized round keys are derived
// from the byte schedule on every call.
type aesKernel struct {
	rounds int
}

var rcon = [10]uint32{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36}

// subWord applies the S-box to each byte of w, through the circuit.
func subWord(w uint32) uint32 {
	var (
		q [8]uint64
		b [api.BlockSize]byte
	)

	binary.BigEndian.PutUint32(b[:], w)
	ct64.Load4xU32(&q, b[:])
	ct64.Sbox(&q)
	ct64.Store4xU32(b[:], &q)
	w = binary.BigEndian.Uint32(b[:])

	memwipeU64(q[:])
	memwipe(b[:])

	return w
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
			t = subWord(t<<8|t>>24) ^ rcon[i/nk-1]<<24
		} else if nk > 6 && i%nk == 4 {
			t = subWord(t)
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
	var q [8]uint64

	for r := 1; r < k.rounds; r++ {
		rk := sched[r*api.BlockSize : (r+1)*api.BlockSize]
		ct64.Load4xU32(&q, rk)
		ct64.InvMixColumns(&q)
		ct64.Store4xU32(rk, &q)
	}

	memwipeU64(q[:])
}

// orthoSchedule converts the byte schedule into the circuit's round key
// representation.
func (k *aesKernel) orthoSchedule(skey *[120]uint64, sched []byte) {
	for r := 0; r <= k.rounds; r++ {
		ct64.RkeyOrtho(skey[r*8:], sched[r*api.BlockSize:])
	}
}

func (k *aesKernel) encrypt(q *[8]uint64, skey []uint64) {
	ct64.AddRoundKey(q, skey[0:])
	for r := 1; r < k.rounds; r++ {
		ct64.Sbox(q)
		ct64.ShiftRows(q)
		ct64.MixColumns(q)
		ct64.AddRoundKey(q, skey[r*8:])
	}
	ct64.Sbox(q)
	ct64.ShiftRows(q)
	ct64.AddRoundKey(q, skey[k.rounds*8:])
}

// decrypt is the equivalent inverse cipher, over a schedule that went
// through InvertKey.
func (k *aesKernel) decrypt(q *[8]uint64, skey []uint64) {
	ct64.AddRoundKey(q, skey[k.rounds*8:])
	for r := k.rounds - 1; r > 0; r-- {
		ct64.InvSbox(q)
		ct64.InvShiftRows(q)
		ct64.InvMixColumns(q)
		ct64.AddRoundKey(q, skey[r*8:])
	}
	ct64.InvSbox(q)
	ct64.InvShiftRows(q)
	ct64.AddRoundKey(q, skey[0:])
}

func (k *aesKernel) Encrypt1(sched, dst, src []byte) {
	var (
		skey [120]uint64
		q    [8]uint64
	)

	k.orthoSchedule(&skey, sched)
	ct64.Load4xU32(&q, src)
	k.encrypt(&q, skey[:])
	ct64.Store4xU32(dst, &q)

	memwipeU64(q[:])
	memwipeU64(skey[:])
}

func (k *aesKernel) Decrypt1(sched, dst, src []byte) {
	var (
		skey [120]uint64
		q    [8]uint64
	)

	k.orthoSchedule(&skey, sched)
	ct64.Load4xU32(&q, src)
	k.decrypt(&q, skey[:])
	ct64.Store4xU32(dst, &q)

	memwipeU64(q[:])
	memwipeU64(skey[:])
}

// Two blocks share a pass with two zero blocks, whose output is discarded.

func (k *aesKernel) Encrypt2(sched, dst, src []byte) {
	k.run2(sched, dst, src, k.encrypt)
}

func (k *aesKernel) Decrypt2(sched, dst, src []byte) {
	k.run2(sched, dst, src, k.decrypt)
}

func (k *aesKernel) Encrypt4(sched, dst, src []byte) {
	k.run4(sched, dst, src, 1, k.encrypt)
}

func (k *aesKernel) Decrypt4(sched, dst, src []byte) {
	k.run4(sched, dst, src, 1, k.decrypt)
}

func (k *aesKernel) Encrypt8(sched, dst, src []byte) {
	k.run4(sched, dst, src, 2, k.encrypt)
}

func (k *aesKernel) Decrypt8(sched, dst, src []byte) {
	k.run4(sched, dst, src, 2, k.decrypt)
}

func (k *aesKernel) run2(sched, dst, src []byte, fn func(*[8]uint64, []uint64)) {
	var (
		skey    [120]uint64
		q       [8]uint64
		zero    [api.BlockSize]byte
		discard [2 * api.BlockSize]byte
	)

	k.orthoSchedule(&skey, sched)
	ct64.Load16xU32(&q, src[0:16], src[16:32], zero[:], zero[:])
	fn(&q, skey[:])
	ct64.Store16xU32(dst[0:16], dst[16:32], discard[0:16], discard[16:32], &q)

	memwipeU64(q[:])
	memwipeU64(skey[:])
	memwipe(discard[:])
}

func (k *aesKernel) run4(sched, dst, src []byte, passes int, fn func(*[8]uint64, []uint64)) {
	var (
		skey [120]uint64
		q    [8]uint64
	)

	k.orthoSchedule(&skey, sched)
	for i := 0; i < passes; i++ {
		s, d := src[i*64:(i+1)*64], dst[i*64:(i+1)*64]
		ct64.Load16xU32(&q, s[0:16], s[16:32], s[32:48], s[48:64])
		fn(&q, skey[:])
		ct64.Store16xU32(d[0:16], d[16:32], d[32:48], d[48:64], &q)
	}

	memwipeU64(q[:])
	memwipeU64(skey[:])
}

func memwipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func memwipeU64(b []uint64) {
	for i := range b {
		b[i] = 0
	}
}
