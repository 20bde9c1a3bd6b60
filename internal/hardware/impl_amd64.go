// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

//go:build amd64 && !noasm

package hardware

import "gitlab.com/yawning/oxicrypt.git/internal/api"

//go:noescape
func expandKeyAESNI(nr int, key, xk *byte)

//go:noescape
func invertKeyAESNI(nr int, xk *byte)

//go:noescape
func encrypt1AESNI(nr int, xk, dst, src *byte)

//go:noescape
func encrypt2AESNI(nr int, xk, dst, src *byte)

//go:noescape
func encrypt4AESNI(nr int, xk, dst, src *byte)

//go:noescape
func encrypt8AESNI(nr int, xk, dst, src *byte)

//go:noescape
func decrypt1AESNI(nr int, xk, dst, src *byte)

//go:noescape
func decrypt2AESNI(nr int, xk, dst, src *byte)

//go:noescape
func decrypt4AESNI(nr int, xk, dst, src *byte)

//go:noescape
func decrypt8AESNI(nr int, xk, dst, src *byte)

type aesniFactory struct{}

func (f *aesniFactory) Name() string {
	return "aesni"
}

func (f *aesniFactory) New(rounds int) api.AESKernel {
	return &aesniKernel{
		rounds: rounds,
	}
}

type aesniKernel struct {
	rounds int
}

func (k *aesniKernel) ExpandKey(sched, key []byte) {
	expandKeyAESNI(k.rounds, &key[0], &sched[0])
}

func (k *aesniKernel) InvertKey(sched []byte) {
	invertKeyAESNI(k.rounds, &sched[0])
}

func (k *aesniKernel) Encrypt1(sched, dst, src []byte) {
	_, _ = dst[15], src[15]
	encrypt1AESNI(k.rounds, &sched[0], &dst[0], &src[0])
}

func (k *aesniKernel) Encrypt2(sched, dst, src []byte) {
	_, _ = dst[31], src[31]
	encrypt2AESNI(k.rounds, &sched[0], &dst[0], &src[0])
}

func (k *aesniKernel) Encrypt4(sched, dst, src []byte) {
	_, _ = dst[63], src[63]
	encrypt4AESNI(k.rounds, &sched[0], &dst[0], &src[0])
}

func (k *aesniKernel) Encrypt8(sched, dst, src []byte) {
	_, _ = dst[127], src[127]
	encrypt8AESNI(k.rounds, &sched[0], &dst[0], &src[0])
}

func (k *aesniKernel) Decrypt1(sched, dst, src []byte) {
	_, _ = dst[15], src[15]
	decrypt1AESNI(k.rounds, &sched[0], &dst[0], &src[0])
}

func (k *aesniKernel) Decrypt2(sched, dst, src []byte) {
	_, _ = dst[31], src[31]
	decrypt2AESNI(k.rounds, &sched[0], &dst[0], &src[0])
}

func (k *aesniKernel) Decrypt4(sched, dst, src []byte) {
	_, _ = dst[63], src[63]
	decrypt4AESNI(k.rounds, &sched[0], &dst[0], &src[0])
}

func (k *aesniKernel) Decrypt8(sched, dst, src []byte) {
	_, _ = dst[127], src[127]
	decrypt8AESNI(k.rounds, &sched[0], &dst[0], &src[0])
}

func init() {
	AES = &aesniFactory{}
}
