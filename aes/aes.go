// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package aes implements the AES block cipher over the registered backends.
//
// Key schedules are plain byte slices owned by the caller.  An Engine binds
// one backend to one key class, holds no key material, and is safe for
// concurrent use.  Schedules are interchangeable between backends.
package aes

import (
	"fmt"

	"gitlab.com/yawning/oxicrypt.git"
	"gitlab.com/yawning/oxicrypt.git/internal/api"
	"gitlab.com/yawning/oxicrypt.git/internal/bitsliced"
	"gitlab.com/yawning/oxicrypt.git/internal/generic"
	"gitlab.com/yawning/oxicrypt.git/internal/hardware"
)

// BlockSize is the AES block size in bytes.
const BlockSize = api.BlockSize

// KeyClass is an AES key size.
type KeyClass int

const (
	// AES128 is AES with a 128 bit key.
	AES128 KeyClass = 16

	// AES192 is AES with a 192 bit key.
	AES192 KeyClass = 24

	// AES256 is AES with a 256 bit key.
	AES256 KeyClass = 32
)

// KeyClassForKeySize returns the key class for a raw key of n bytes.
func KeyClassForKeySize(n int) (KeyClass, error) {
	switch c := KeyClass(n); c {
	case AES128, AES192, AES256:
		return c, nil
	}
	return 0, oxicrypt.NewInvalidKeyLengthError(0, n)
}

// KeySize returns the raw key size in bytes.
func (c KeyClass) KeySize() int {
	return int(c)
}

// Rounds returns the number of rounds.
func (c KeyClass) Rounds() int {
	return int(c)/4 + 6
}

// ScheduleSize returns the expanded key schedule size in bytes.
func (c KeyClass) ScheduleSize() int {
	return api.ScheduleSize(c.Rounds())
}

func (c KeyClass) valid() bool {
	return c == AES128 || c == AES192 || c == AES256
}

func (c KeyClass) String() string {
	if !c.valid() {
		return fmt.Sprintf("KeyClass(%d)", int(c))
	}
	return fmt.Sprintf("AES-%d", 8*int(c))
}

var factories = map[oxicrypt.Backend]api.AESFactory{
	oxicrypt.Generic:   generic.AES,
	oxicrypt.Bitsliced: bitsliced.AES,
}

func init() {
	if hardware.AES != nil {
		factories[oxicrypt.AESNI] = hardware.AES
	}
}

// Engine is an AES implementation bound to one key class and one backend.
type Engine struct {
	class   KeyClass
	backend oxicrypt.Backend
	kernel  api.AESKernel
}

// New returns the engine for class and backend.  oxicrypt.Auto selects the
// process default.  Requesting a backend that is not available fails with
// oxicrypt.ErrUnsupportedBackend, there is no fallback.
func New(class KeyClass, backend oxicrypt.Backend) (*Engine, error) {
	return newEngine(oxicrypt.DefaultRegistry, class, backend)
}

func newEngine(reg *oxicrypt.Registry, class KeyClass, backend oxicrypt.Backend) (*Engine, error) {
	if !class.valid() {
		return nil, oxicrypt.NewInvalidKeyLengthError(0, int(class))
	}

	b, err := reg.Resolve(oxicrypt.FamilyAES, backend)
	if err != nil {
		return nil, err
	}
	factory := factories[b]
	if factory == nil {
		return nil, fmt.Errorf("%w: no aes kernel for %s", oxicrypt.ErrUnsupportedBackend, b)
	}

	return &Engine{
		class:   class,
		backend: b,
		kernel:  factory.New(class.Rounds()),
	}, nil
}

// KeyClass returns the key class of the engine.
func (e *Engine) KeyClass() KeyClass {
	return e.class
}

// Backend returns the backend that executes the engine's operations.
func (e *Engine) Backend() oxicrypt.Backend {
	return e.backend
}

// checkSchedule returns sched truncated to ScheduleSize(), the length the
// kernels expect.
func (e *Engine) checkSchedule(sched []byte) ([]byte, error) {
	sz := e.class.ScheduleSize()
	if len(sched) < sz {
		return nil, oxicrypt.NewBufferTooSmallError("key schedule", sz, len(sched))
	}
	return sched[:sz], nil
}

// checkBlocks returns sched and the leading n blocks of blocks, truncated to
// the kernel lengths.
func (e *Engine) checkBlocks(sched, blocks []byte, n int) ([]byte, []byte, error) {
	sched, err := e.checkSchedule(sched)
	if err != nil {
		return nil, nil, err
	}
	sz := n * BlockSize
	if len(blocks) < sz {
		return nil, nil, oxicrypt.NewBufferTooSmallError("blocks", sz, len(blocks))
	}
	return sched, blocks[:sz], nil
}

// ExpandKey expands key into the encryption schedule sched, which must be
// at least ScheduleSize() bytes.
func (e *Engine) ExpandKey(sched, key []byte) error {
	if len(key) != e.class.KeySize() {
		return oxicrypt.NewInvalidKeyLengthError(e.class.KeySize(), len(key))
	}
	sched, err := e.checkSchedule(sched)
	if err != nil {
		return err
	}

	e.kernel.ExpandKey(sched, key)

	return nil
}

// InvertKey converts the encryption schedule sched into a decryption
// schedule in place.  Decryption requires an inverted schedule on every
// backend.
func (e *Engine) InvertKey(sched []byte) error {
	sched, err := e.checkSchedule(sched)
	if err != nil {
		return err
	}

	e.kernel.InvertKey(sched)

	return nil
}

// NewEncryptSchedule allocates and expands an encryption schedule.
func (e *Engine) NewEncryptSchedule(key []byte) ([]byte, error) {
	sched := make([]byte, e.class.ScheduleSize())
	if err := e.ExpandKey(sched, key); err != nil {
		return nil, err
	}
	return sched, nil
}

// NewDecryptSchedule allocates, expands and inverts a decryption schedule.
func (e *Engine) NewDecryptSchedule(key []byte) ([]byte, error) {
	sched, err := e.NewEncryptSchedule(key)
	if err != nil {
		return nil, err
	}
	e.kernel.InvertKey(sched)
	return sched, nil
}

// Encrypt encrypts the first block of block in place.
func (e *Engine) Encrypt(sched, block []byte) error {
	sched, b, err := e.checkBlocks(sched, block, 1)
	if err != nil {
		return err
	}
	e.kernel.Encrypt1(sched, b, b)
	return nil
}

// Decrypt decrypts the first block of block in place, with a decryption
// schedule.
func (e *Engine) Decrypt(sched, block []byte) error {
	sched, b, err := e.checkBlocks(sched, block, 1)
	if err != nil {
		return err
	}
	e.kernel.Decrypt1(sched, b, b)
	return nil
}

// Encrypt2 encrypts the first 2 blocks of blocks in place, each
// independently.
func (e *Engine) Encrypt2(sched, blocks []byte) error {
	sched, b, err := e.checkBlocks(sched, blocks, 2)
	if err != nil {
		return err
	}
	e.kernel.Encrypt2(sched, b, b)
	return nil
}

// Encrypt4 encrypts the first 4 blocks of blocks in place, each
// independently.
func (e *Engine) Encrypt4(sched, blocks []byte) error {
	sched, b, err := e.checkBlocks(sched, blocks, 4)
	if err != nil {
		return err
	}
	e.kernel.Encrypt4(sched, b, b)
	return nil
}

// Encrypt8 encrypts the first 8 blocks of blocks in place, each
// independently.
func (e *Engine) Encrypt8(sched, blocks []byte) error {
	sched, b, err := e.checkBlocks(sched, blocks, 8)
	if err != nil {
		return err
	}
	e.kernel.Encrypt8(sched, b, b)
	return nil
}

// Decrypt2 decrypts the first 2 blocks of blocks in place.
func (e *Engine) Decrypt2(sched, blocks []byte) error {
	sched, b, err := e.checkBlocks(sched, blocks, 2)
	if err != nil {
		return err
	}
	e.kernel.Decrypt2(sched, b, b)
	return nil
}

// Decrypt4 decrypts the first 4 blocks of blocks in place.
func (e *Engine) Decrypt4(sched, blocks []byte) error {
	sched, b, err := e.checkBlocks(sched, blocks, 4)
	if err != nil {
		return err
	}
	e.kernel.Decrypt4(sched, b, b)
	return nil
}

// Decrypt8 decrypts the first 8 blocks of blocks in place.
func (e *Engine) Decrypt8(sched, blocks []byte) error {
	sched, b, err := e.checkBlocks(sched, blocks, 8)
	if err != nil {
		return err
	}
	e.kernel.Decrypt8(sched, b, b)
	return nil
}
