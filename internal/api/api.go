// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package api provides the abstract kernel interfaces implemented by each
// backend.
package api

// BlockSize is the AES block size in bytes.
const BlockSize = 16

// ScheduleSize returns the size of an expanded AES key schedule in bytes for
// the given number of rounds.
func ScheduleSize(rounds int) int {
	return (rounds + 1) * BlockSize
}

// AESFactory is an AESKernel factory.
type AESFactory interface {
	// Name returns the name of the implementation.
	Name() string

	// New returns the kernel for the key class with the given number of
	// rounds (10, 12 or 14).
	New(rounds int) AESKernel
}

// AESKernel is the set of AES transforms for one key class.
//
// Kernels do not validate their arguments: schedules are exactly
// ScheduleSize(rounds) bytes, keys are exactly 4*(rounds-6) bytes, and the
// N block variants read and write exactly N*BlockSize bytes.  dst and src
// may be the same slice, but must not otherwise overlap.
//
// Every implementation produces identical schedules in FIPS-197 byte order,
// so a schedule may be produced by one kernel and consumed by another.
type AESKernel interface {
	// ExpandKey expands key into an encryption schedule.
	ExpandKey(sched, key []byte)

	// InvertKey converts an encryption schedule into a decryption schedule
	// in place, by applying InvMixColumns to the inner round keys.
	InvertKey(sched []byte)

	Encrypt1(sched, dst, src []byte)
	Encrypt2(sched, dst, src []byte)
	Encrypt4(sched, dst, src []byte)
	Encrypt8(sched, dst, src []byte)

	// The decryption variants take a schedule produced by InvertKey.
	Decrypt1(sched, dst, src []byte)
	Decrypt2(sched, dst, src []byte)
	Decrypt4(sched, dst, src []byte)
	Decrypt8(sched, dst, src []byte)
}

// DigestFactory provides the Merkle-Damgard compression functions of one
// backend.  Each function compresses every whole block of p into h, and
// ignores trailing partial blocks.
type DigestFactory interface {
	// Name returns the name of the implementation.
	Name() string

	// MD5 compresses 64 byte blocks into h[0:4].
	MD5(h *[8]uint32, p []byte)

	// SHA1 compresses 64 byte blocks into h[0:5].
	SHA1(h *[8]uint32, p []byte)

	// SHA256 compresses 64 byte blocks into h, for SHA-224 and SHA-256.
	SHA256(h *[8]uint32, p []byte)

	// SHA512 compresses 128 byte blocks into h, for SHA-384, SHA-512,
	// SHA-512/224 and SHA-512/256.
	SHA512(h *[8]uint64, p []byte)
}
