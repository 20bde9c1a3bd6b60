// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package kerneltest cross-checks AES kernels against a reference kernel.
package kerneltest

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/yawning/oxicrypt.git/internal/api"
)

var rounds = []int{10, 12, 14}

func randomBytes(t *testing.T, n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err, "Generate random bytes")
	return b
}

// CompareAES checks that every operation of f matches ref, both out of
// place and in place, for every key size.
func CompareAES(t *testing.T, ref, f api.AESFactory) {
	for _, nr := range rounds {
		refK, k := ref.New(nr), f.New(nr)
		keyLen := (nr - 6) * 4
		schedLen := api.ScheduleSize(nr)

		for i := 0; i < 8; i++ {
			key := randomBytes(t, keyLen)

			refSched, sched := make([]byte, schedLen), make([]byte, schedLen)
			refK.ExpandKey(refSched, key)
			k.ExpandKey(sched, key)
			require.Equal(t, refSched, sched, "%s ExpandKey() - %d rounds", f.Name(), nr)

			refInv, inv := append([]byte{}, refSched...), append([]byte{}, sched...)
			refK.InvertKey(refInv)
			k.InvertKey(inv)
			require.Equal(t, refInv, inv, "%s InvertKey() - %d rounds", f.Name(), nr)

			for _, n := range []int{1, 2, 4, 8} {
				src := randomBytes(t, n*api.BlockSize)

				expected := make([]byte, len(src))
				encrypt(refK, n)(refSched, expected, src)

				dst := make([]byte, len(src))
				encrypt(k, n)(sched, dst, src)
				require.Equal(t, expected, dst, "%s Encrypt%d() - %d rounds", f.Name(), n, nr)

				buf := append([]byte{}, src...)
				encrypt(k, n)(sched, buf, buf)
				require.Equal(t, expected, buf, "%s Encrypt%d() - in place", f.Name(), n)

				decrypt(k, n)(inv, dst, expected)
				require.Equal(t, src, dst, "%s Decrypt%d() - %d rounds", f.Name(), n, nr)

				decrypt(k, n)(inv, buf, buf)
				require.Equal(t, src, buf, "%s Decrypt%d() - in place", f.Name(), n)
			}
		}
	}
}

func encrypt(k api.AESKernel, n int) func(sched, dst, src []byte) {
	switch n {
	case 1:
		return k.Encrypt1
	case 2:
		return k.Encrypt2
	case 4:
		return k.Encrypt4
	default:
		return k.Encrypt8
	}
}

func decrypt(k api.AESKernel, n int) func(sched, dst, src []byte) {
	switch n {
	case 1:
		return k.Decrypt1
	case 2:
		return k.Decrypt2
	case 4:
		return k.Decrypt4
	default:
		return k.Decrypt8
	}
}
