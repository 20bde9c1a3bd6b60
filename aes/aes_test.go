// Copryright (C) 2019 Yawning Angel
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package aes

import (
	"bytes"
	stdaes "crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/xts"

	"gitlab.com/yawning/oxicrypt.git"
)

var keyClasses = []KeyClass{AES128, AES192, AES256}

func availableBackends() []oxicrypt.Backend {
	return oxicrypt.Available(oxicrypt.FamilyAES).Backends()
}

func mustUnhex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func randomBytes(t testing.TB, n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err, "Generate random bytes")
	return b
}

func TestKeyClass(t *testing.T) {
	require := require.New(t)

	for _, v := range []struct {
		class                 KeyClass
		keySize, sched, round int
	}{
		{AES128, 16, 176, 10},
		{AES192, 24, 208, 12},
		{AES256, 32, 240, 14},
	} {
		require.Equal(v.keySize, v.class.KeySize(), "%s KeySize()", v.class)
		require.Equal(v.sched, v.class.ScheduleSize(), "%s ScheduleSize()", v.class)
		require.Equal(v.round, v.class.Rounds(), "%s Rounds()", v.class)

		c, err := KeyClassForKeySize(v.keySize)
		require.NoError(err, "KeyClassForKeySize(%d)", v.keySize)
		require.Equal(v.class, c)
	}

	_, err := KeyClassForKeySize(20)
	require.ErrorIs(err, oxicrypt.ErrInvalidKeyLength, "KeyClassForKeySize(20)")
	require.Equal("AES-192", AES192.String())
}

func TestKnownAnswers(t *testing.T) {
	for _, b := range availableBackends() {
		t.Run("Impl_"+b.String(), func(t *testing.T) {
			doTestKnownAnswers(t, b)
		})
	}
}

func doTestKnownAnswers(t *testing.T, backend oxicrypt.Backend) {
	require := require.New(t)

	// FIPS-197 Appendix C.
	plaintext := mustUnhex("00112233445566778899aabbccddeeff")
	for _, v := range []struct {
		class      KeyClass
		key        string
		ciphertext string
	}{
		{AES128, "000102030405060708090a0b0c0d0e0f", "69c4e0d86a7b0430d8cdb78070b4c55a"},
		{AES192, "000102030405060708090a0b0c0d0e0f1011121314151617", "dda97ca4864cdfe06eaf70a0ec0d7191"},
		{AES256, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f", "8ea2b7ca516745bfeafc49904b496089"},
	} {
		e, err := New(v.class, backend)
		require.NoError(err, "New(%s)", v.class)
		require.Equal(backend, e.Backend(), "Backend()")
		require.Equal(v.class, e.KeyClass(), "KeyClass()")

		sched, err := e.NewEncryptSchedule(mustUnhex(v.key))
		require.NoError(err, "NewEncryptSchedule(%s)", v.class)

		block := append([]byte{}, plaintext...)
		require.NoError(e.Encrypt(sched, block), "Encrypt(%s)", v.class)
		require.Equal(v.ciphertext, hex.EncodeToString(block), "Encrypt(%s)", v.class)

		require.NoError(e.InvertKey(sched), "InvertKey(%s)", v.class)
		require.NoError(e.Decrypt(sched, block), "Decrypt(%s)", v.class)
		require.Equal(plaintext, block, "Decrypt(%s)", v.class)
	}

	// FIPS-197 Appendix A, the final round key of each expansion.
	for _, v := range []struct {
		class KeyClass
		key   string
		last  string
	}{
		{AES128, "2b7e151628aed2a6abf7158809cf4f3c", "d014f9a8c9ee2589e13f0cc8b6630ca6"},
		{AES192, "8e73b0f7da0e6452c810f32b809079e562f8ead2522c6b7b", "e98ba06f448c773c8ecc720401002202"},
		{AES256, "603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4", "fe4890d1e6188d0b046df344706c631e"},
	} {
		e, err := New(v.class, backend)
		require.NoError(err, "New(%s)", v.class)

		key := mustUnhex(v.key)
		sched, err := e.NewEncryptSchedule(key)
		require.NoError(err, "NewEncryptSchedule(%s)", v.class)
		require.Equal(key, sched[:len(key)], "ExpandKey(%s) - raw key prefix", v.class)
		require.Equal(v.last, hex.EncodeToString(sched[len(sched)-BlockSize:]), "ExpandKey(%s) - last round key", v.class)

		// Inversion leaves the first and last round keys alone.
		dec := append([]byte{}, sched...)
		require.NoError(e.InvertKey(dec), "InvertKey(%s)", v.class)
		require.Equal(sched[:BlockSize], dec[:BlockSize], "InvertKey(%s) - first round key", v.class)
		require.Equal(sched[len(sched)-BlockSize:], dec[len(dec)-BlockSize:], "InvertKey(%s) - last round key", v.class)
		require.NotEqual(sched, dec, "InvertKey(%s) - inner round keys", v.class)
	}
}

func TestAgainstStdlib(t *testing.T) {
	for _, b := range availableBackends() {
		t.Run("Impl_"+b.String(), func(t *testing.T) {
			doTestAgainstStdlib(t, b)
		})
	}
}

func doTestAgainstStdlib(t *testing.T, backend oxicrypt.Backend) {
	require := require.New(t)

	for _, class := range keyClasses {
		e, err := New(class, backend)
		require.NoError(err, "New(%s)", class)

		for i := 0; i < 16; i++ {
			key := randomBytes(t, class.KeySize())
			ref, err := stdaes.NewCipher(key)
			require.NoError(err, "crypto/aes NewCipher()")

			// 15 blocks exercises the 8, 4, 2 and 1 block kernels.
			plaintext := randomBytes(t, 15*BlockSize)
			expected := make([]byte, len(plaintext))
			for off := 0; off < len(plaintext); off += BlockSize {
				ref.Encrypt(expected[off:], plaintext[off:])
			}

			sched, err := e.NewEncryptSchedule(key)
			require.NoError(err, "NewEncryptSchedule()")
			buf := append([]byte{}, plaintext...)
			require.NoError(e.EncryptBlocks(sched, buf), "EncryptBlocks()")
			require.Equal(expected, buf, "EncryptBlocks() - %s", class)

			dsched, err := e.NewDecryptSchedule(key)
			require.NoError(err, "NewDecryptSchedule()")
			require.NoError(e.DecryptBlocks(dsched, buf), "DecryptBlocks()")
			require.Equal(plaintext, buf, "DecryptBlocks() - %s", class)
		}
	}
}

func TestBatchEquivalence(t *testing.T) {
	for _, b := range availableBackends() {
		t.Run("Impl_"+b.String(), func(t *testing.T) {
			doTestBatchEquivalence(t, b)
		})
	}
}

func doTestBatchEquivalence(t *testing.T, backend oxicrypt.Backend) {
	require := require.New(t)

	type batchFn func(e *Engine, sched, blocks []byte) error
	encFns := map[int]batchFn{
		2: (*Engine).Encrypt2,
		4: (*Engine).Encrypt4,
		8: (*Engine).Encrypt8,
	}
	decFns := map[int]batchFn{
		2: (*Engine).Decrypt2,
		4: (*Engine).Decrypt4,
		8: (*Engine).Decrypt8,
	}

	for _, class := range keyClasses {
		e, err := New(class, backend)
		require.NoError(err, "New(%s)", class)

		key := randomBytes(t, class.KeySize())
		esched, err := e.NewEncryptSchedule(key)
		require.NoError(err, "NewEncryptSchedule()")
		dsched, err := e.NewDecryptSchedule(key)
		require.NoError(err, "NewDecryptSchedule()")

		for _, n := range []int{2, 4, 8} {
			blocks := randomBytes(t, n*BlockSize)

			single := append([]byte{}, blocks...)
			for off := 0; off < len(single); off += BlockSize {
				require.NoError(e.Encrypt(esched, single[off:off+BlockSize]), "Encrypt()")
			}
			batched := append([]byte{}, blocks...)
			require.NoError(encFns[n](e, esched, batched), "Encrypt%d()", n)
			require.Equal(single, batched, "Encrypt%d() - %s", n, class)

			for off := 0; off < len(single); off += BlockSize {
				require.NoError(e.Decrypt(dsched, single[off:off+BlockSize]), "Decrypt()")
			}
			require.NoError(decFns[n](e, dsched, batched), "Decrypt%d()", n)
			require.Equal(single, batched, "Decrypt%d() - %s", n, class)
			require.Equal(blocks, batched, "Decrypt%d() - round trip", n)
		}

		// Only the leading blocks are touched.
		buf := randomBytes(t, 9*BlockSize)
		tail := append([]byte{}, buf[8*BlockSize:]...)
		require.NoError(e.Encrypt8(esched, buf), "Encrypt8() - oversized")
		require.Equal(tail, buf[8*BlockSize:], "Encrypt8() - trailing block untouched")
	}
}

func TestBackendAgreement(t *testing.T) {
	require := require.New(t)

	backends := availableBackends()
	for _, class := range keyClasses {
		key := randomBytes(t, class.KeySize())
		plaintext := randomBytes(t, 11*BlockSize)

		ref, err := New(class, oxicrypt.Generic)
		require.NoError(err, "New(generic)")
		refEnc, err := ref.NewEncryptSchedule(key)
		require.NoError(err, "generic NewEncryptSchedule()")
		refDec, err := ref.NewDecryptSchedule(key)
		require.NoError(err, "generic NewDecryptSchedule()")
		refCt := append([]byte{}, plaintext...)
		require.NoError(ref.EncryptBlocks(refEnc, refCt), "generic EncryptBlocks()")

		for _, b := range backends {
			e, err := New(class, b)
			require.NoError(err, "New(%s)", b)

			enc, err := e.NewEncryptSchedule(key)
			require.NoError(err, "%s NewEncryptSchedule()", b)
			require.Equal(refEnc, enc, "%s ExpandKey() - %s", b, class)
			dec, err := e.NewDecryptSchedule(key)
			require.NoError(err, "%s NewDecryptSchedule()", b)
			require.Equal(refDec, dec, "%s InvertKey() - %s", b, class)

			// Schedules are portable, so use the generic ones.
			ct := append([]byte{}, plaintext...)
			require.NoError(e.EncryptBlocks(refEnc, ct), "%s EncryptBlocks()", b)
			require.Equal(refCt, ct, "%s EncryptBlocks() - %s", b, class)
			require.NoError(e.DecryptBlocks(refDec, ct), "%s DecryptBlocks()", b)
			require.Equal(plaintext, ct, "%s DecryptBlocks() - %s", b, class)
		}
	}
}

func TestErrors(t *testing.T) {
	require := require.New(t)

	e, err := New(AES128, oxicrypt.Generic)
	require.NoError(err, "New()")

	sched := make([]byte, AES128.ScheduleSize())
	err = e.ExpandKey(sched, make([]byte, 15))
	require.ErrorIs(err, oxicrypt.ErrInvalidKeyLength, "ExpandKey() - short key")
	err = e.ExpandKey(sched, make([]byte, 32))
	require.ErrorIs(err, oxicrypt.ErrInvalidKeyLength, "ExpandKey() - AES-256 key")
	require.Equal(make([]byte, len(sched)), sched, "ExpandKey() - no partial write")

	err = e.ExpandKey(sched[:AES128.ScheduleSize()-1], make([]byte, 16))
	require.ErrorIs(err, oxicrypt.ErrBufferTooSmall, "ExpandKey() - short schedule")
	require.ErrorIs(e.InvertKey(sched[:100]), oxicrypt.ErrBufferTooSmall, "InvertKey() - short schedule")

	require.NoError(e.ExpandKey(sched, randomBytes(t, 16)), "ExpandKey()")

	block := randomBytes(t, BlockSize-1)
	orig := append([]byte{}, block...)
	require.ErrorIs(e.Encrypt(sched, block), oxicrypt.ErrBufferTooSmall, "Encrypt() - short block")
	require.Equal(orig, block, "Encrypt() - no partial write")
	require.ErrorIs(e.Decrypt(sched, block), oxicrypt.ErrBufferTooSmall, "Decrypt() - short block")
	require.ErrorIs(e.Encrypt(sched[:16], make([]byte, 16)), oxicrypt.ErrBufferTooSmall, "Encrypt() - short schedule")

	blocks := make([]byte, 7*BlockSize)
	require.ErrorIs(e.Encrypt8(sched, blocks), oxicrypt.ErrBufferTooSmall, "Encrypt8() - 7 blocks")
	require.ErrorIs(e.Decrypt4(sched, blocks[:3*BlockSize]), oxicrypt.ErrBufferTooSmall, "Decrypt4() - 3 blocks")
	require.ErrorIs(e.Encrypt2(sched, blocks[:BlockSize]), oxicrypt.ErrBufferTooSmall, "Encrypt2() - 1 block")
	require.Equal(make([]byte, len(blocks)), blocks, "batched - no partial write")

	require.ErrorIs(e.EncryptBlocks(sched, blocks[:17]), oxicrypt.ErrInvalidBlockLength, "EncryptBlocks() - partial block")
	require.NoError(e.EncryptBlocks(sched, nil), "EncryptBlocks() - empty")

	_, err = New(KeyClass(20), oxicrypt.Generic)
	require.ErrorIs(err, oxicrypt.ErrInvalidKeyLength, "New() - invalid key class")
}

func TestOversizedSchedule(t *testing.T) {
	for _, b := range availableBackends() {
		t.Run("Impl_"+b.String(), func(t *testing.T) {
			doTestOversizedSchedule(t, b)
		})
	}
}

func doTestOversizedSchedule(t *testing.T, backend oxicrypt.Backend) {
	require := require.New(t)

	for _, class := range keyClasses {
		e, err := New(class, backend)
		require.NoError(err, "New(%s)", class)

		key := randomBytes(t, class.KeySize())
		exact, err := e.NewEncryptSchedule(key)
		require.NoError(err, "NewEncryptSchedule()")

		// Trailing bytes past ScheduleSize() are neither read nor written.
		trailer := randomBytes(t, 2*BlockSize)
		big := append(make([]byte, class.ScheduleSize()), trailer...)
		require.NoError(e.ExpandKey(big, key), "ExpandKey() - oversized")
		require.Equal(exact, big[:class.ScheduleSize()], "ExpandKey() - oversized")
		require.Equal(trailer, big[class.ScheduleSize():], "ExpandKey() - trailer untouched")

		blocks := randomBytes(t, 8*BlockSize)
		expected := append([]byte{}, blocks...)
		require.NoError(e.Encrypt8(exact, expected), "Encrypt8()")
		got := append([]byte{}, blocks...)
		require.NoError(e.Encrypt8(big, got), "Encrypt8() - oversized")
		require.Equal(expected, got, "Encrypt8() - oversized")

		require.NoError(e.InvertKey(big), "InvertKey() - oversized")
		require.Equal(trailer, big[class.ScheduleSize():], "InvertKey() - trailer untouched")
		require.NoError(e.DecryptBlocks(big, got), "DecryptBlocks() - oversized")
		require.Equal(blocks, got, "DecryptBlocks() - oversized")
	}
}

func TestUnsupportedBackend(t *testing.T) {
	require := require.New(t)

	// A CPU without AES-NI, regardless of the machine running the test.
	bare := oxicrypt.NewRegistry(func() oxicrypt.Capabilities { return 0 })

	e, err := newEngine(bare, AES128, oxicrypt.AESNI)
	require.ErrorIs(err, oxicrypt.ErrUnsupportedBackend, "newEngine(aesni) - no AES-NI")
	require.Nil(e, "newEngine(aesni) - no engine")

	e, err = newEngine(bare, AES256, oxicrypt.Auto)
	require.NoError(err, "newEngine(auto) - no AES-NI")
	require.NotEqual(oxicrypt.AESNI, e.Backend(), "newEngine(auto) - no AES-NI")

	_, err = New(AES128, oxicrypt.Backend(99))
	require.ErrorIs(err, oxicrypt.ErrUnsupportedBackend, "New() - unknown backend")
}

func TestCipher(t *testing.T) {
	for _, b := range availableBackends() {
		t.Run("Impl_"+b.String(), func(t *testing.T) {
			doTestCipher(t, b)
		})
	}
}

func doTestCipher(t *testing.T, backend oxicrypt.Backend) {
	require := require.New(t)

	for _, class := range keyClasses {
		key := randomBytes(t, class.KeySize())
		c, err := NewCipherWithBackend(key, backend)
		require.NoError(err, "NewCipherWithBackend()")
		require.Equal(BlockSize, c.BlockSize(), "BlockSize()")
		require.Equal(backend, c.Engine().Backend(), "Engine().Backend()")

		ref, err := stdaes.NewCipher(key)
		require.NoError(err, "crypto/aes NewCipher()")

		src := randomBytes(t, BlockSize)
		dst, expected := make([]byte, BlockSize), make([]byte, BlockSize)
		c.Encrypt(dst, src)
		ref.Encrypt(expected, src)
		require.Equal(expected, dst, "Encrypt()")

		// In place.
		c.Decrypt(dst, dst)
		require.Equal(src, dst, "Decrypt() - in place")

		require.Panics(func() { c.Encrypt(dst, src[:BlockSize-1]) }, "Encrypt() - short src")
		require.Panics(func() { c.Decrypt(dst[:1], src) }, "Decrypt() - short dst")

		// Modes built on cipher.Block work unchanged.
		iv := randomBytes(t, BlockSize)
		msg := randomBytes(t, 5*BlockSize)
		ours, theirs := make([]byte, len(msg)), make([]byte, len(msg))
		cipher.NewCBCEncrypter(c, iv).CryptBlocks(ours, msg)
		cipher.NewCBCEncrypter(ref, iv).CryptBlocks(theirs, msg)
		require.Equal(theirs, ours, "CBC encrypt")
		cipher.NewCBCDecrypter(c, iv).CryptBlocks(ours, ours)
		require.Equal(msg, ours, "CBC decrypt")

		c.Reset()
	}

	_, err := NewCipherWithBackend(make([]byte, 17), backend)
	require.ErrorIs(err, oxicrypt.ErrInvalidKeyLength, "NewCipherWithBackend() - bad key")
}

func TestXTSInterop(t *testing.T) {
	require := require.New(t)

	key := randomBytes(t, 2*AES256.KeySize())
	ref, err := xts.NewCipher(stdaes.NewCipher, key)
	require.NoError(err, "xts.NewCipher(crypto/aes)")

	sector := randomBytes(t, 512)
	expected := make([]byte, len(sector))
	ref.Encrypt(expected, sector, 42)

	for _, b := range availableBackends() {
		newBlock := func(k []byte) (cipher.Block, error) {
			return NewCipherWithBackend(k, b)
		}
		c, err := xts.NewCipher(newBlock, key)
		require.NoError(err, "xts.NewCipher(%s)", b)

		out := make([]byte, len(sector))
		c.Encrypt(out, sector, 42)
		require.Equal(expected, out, "xts Encrypt() - %s", b)
		c.Decrypt(out, out, 42)
		require.True(bytes.Equal(sector, out), "xts Decrypt() - %s", b)
	}
}

func BenchmarkAES(b *testing.B) {
	for _, backend := range availableBackends() {
		for _, class := range keyClasses {
			for _, n := range []int{1, 8, 256} {
				name := fmt.Sprintf("%s_%s_%d", class, backend, n*BlockSize)
				b.Run(name+"_Encrypt", func(b *testing.B) { doBenchmarkAES(b, class, backend, n, false) })
				b.Run(name+"_Decrypt", func(b *testing.B) { doBenchmarkAES(b, class, backend, n, true) })
			}
		}
	}
}

func doBenchmarkAES(b *testing.B, class KeyClass, backend oxicrypt.Backend, n int, decrypt bool) {
	b.StopTimer()
	b.SetBytes(int64(n * BlockSize))

	e, err := New(class, backend)
	if err != nil {
		b.Fatal(err)
	}
	key := randomBytes(b, class.KeySize())
	sched, err := e.NewEncryptSchedule(key)
	if err != nil {
		b.Fatal(err)
	}
	fn := e.EncryptBlocks
	if decrypt {
		_ = e.InvertKey(sched)
		fn = e.DecryptBlocks
	}
	buf := randomBytes(b, n*BlockSize)

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if err := fn(sched, buf); err != nil {
			b.Fatal(err)
		}
	}
}
