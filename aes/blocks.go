// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package aes

import "gitlab.com/yawning/oxicrypt.git"

// EncryptBlocks encrypts every block of blocks in place, each independently
// (ECB), using the widest kernels that fit.
func (e *Engine) EncryptBlocks(sched, blocks []byte) error {
	sched, err := e.checkWalk(sched, blocks)
	if err != nil {
		return err
	}
	e.walk(sched, blocks, e.kernel.Encrypt8, e.kernel.Encrypt4, e.kernel.Encrypt2, e.kernel.Encrypt1)
	return nil
}

// DecryptBlocks decrypts every block of blocks in place with a decryption
// schedule.
func (e *Engine) DecryptBlocks(sched, blocks []byte) error {
	sched, err := e.checkWalk(sched, blocks)
	if err != nil {
		return err
	}
	e.walk(sched, blocks, e.kernel.Decrypt8, e.kernel.Decrypt4, e.kernel.Decrypt2, e.kernel.Decrypt1)
	return nil
}

func (e *Engine) checkWalk(sched, blocks []byte) ([]byte, error) {
	sched, err := e.checkSchedule(sched)
	if err != nil {
		return nil, err
	}
	if len(blocks)%BlockSize != 0 {
		return nil, oxicrypt.NewInvalidBlockLengthError(BlockSize, len(blocks))
	}
	return sched, nil
}

type blockFn func(sched, dst, src []byte)

func (e *Engine) walk(sched, blocks []byte, fn8, fn4, fn2, fn1 blockFn) {
	for len(blocks) >= 8*BlockSize {
		b := blocks[:8*BlockSize]
		fn8(sched, b, b)
		blocks = blocks[8*BlockSize:]
	}
	if len(blocks) >= 4*BlockSize {
		b := blocks[:4*BlockSize]
		fn4(sched, b, b)
		blocks = blocks[4*BlockSize:]
	}
	if len(blocks) >= 2*BlockSize {
		b := blocks[:2*BlockSize]
		fn2(sched, b, b)
		blocks = blocks[2*BlockSize:]
	}
	if len(blocks) > 0 {
		fn1(sched, blocks, blocks)
	}
}
