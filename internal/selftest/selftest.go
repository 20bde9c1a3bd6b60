// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package selftest checks every available backend against known answers.
package selftest

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"gitlab.com/yawning/oxicrypt.git"
	"gitlab.com/yawning/oxicrypt.git/aes"
	"gitlab.com/yawning/oxicrypt.git/digest"
	"gitlab.com/yawning/oxicrypt.git/hmac"
)

// Result is the outcome of one check.
type Result struct {
	Name    string
	Backend oxicrypt.Backend
	Err     error
}

// Passed returns true iff the check passed.
func (r *Result) Passed() bool {
	return r.Err == nil
}

type aesVector struct {
	class      aes.KeyClass
	key        string
	plaintext  string
	ciphertext string
}

// FIPS-197 Appendix C.
var aesVectors = []aesVector{
	{aes.AES128, "000102030405060708090a0b0c0d0e0f", "00112233445566778899aabbccddeeff", "69c4e0d86a7b0430d8cdb78070b4c55a"},
	{aes.AES192, "000102030405060708090a0b0c0d0e0f1011121314151617", "00112233445566778899aabbccddeeff", "dda97ca4864cdfe06eaf70a0ec0d7191"},
	{aes.AES256, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f", "00112233445566778899aabbccddeeff", "8ea2b7ca516745bfeafc49904b496089"},
}

var digestVectors = map[digest.Algorithm]string{
	digest.MD5:        "900150983cd24fb0d6963f7d28e17f72",
	digest.SHA1:       "a9993e364706816aba3e25717850c26c9cd0d89d",
	digest.SHA224:     "23097d223405d8228642a477bda255b32aadbce4bda0b3f7e36c9da7",
	digest.SHA256:     "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
	digest.SHA384:     "cb00753f45a35e8bb5a03d699ac65007272c32ab0eded1631a8b605a43ff5bed8086072ba1e7cc2358baeca134c825a7",
	digest.SHA512:     "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
	digest.SHA512_224: "4634270f707b6a54daae7530460842e20e37ed265ceee9a43e8924aa",
	digest.SHA512_256: "53048e2681941ef99b2e29b76b4c7dabe4c2d0c634fc6d46e0e2f13107e7af23",
}

// RFC 4231 test case 2.
const (
	hmacKey  = "Jefe"
	hmacData = "what do ya want for nothing?"
	hmacMAC  = "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843"
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Run runs every check on every available backend.
func Run() []Result {
	return run(oxicrypt.DefaultRegistry)
}

func run(reg *oxicrypt.Registry) []Result {
	var results []Result

	for _, b := range reg.Available(oxicrypt.FamilyAES).Backends() {
		for _, v := range aesVectors {
			results = append(results, Result{
				Name:    v.class.String(),
				Backend: b,
				Err:     checkAES(b, &v),
			})
		}
	}

	for _, b := range reg.Available(oxicrypt.FamilyDigest).Backends() {
		for _, alg := range digest.Algorithms() {
			results = append(results, Result{
				Name:    alg.String(),
				Backend: b,
				Err:     checkDigest(b, alg),
			})
		}
		results = append(results, Result{
			Name:    "hmac-sha256",
			Backend: b,
			Err:     checkHMAC(b),
		})
	}

	return results
}

func checkAES(b oxicrypt.Backend, v *aesVector) error {
	e, err := aes.New(v.class, b)
	if err != nil {
		return err
	}

	sched, err := e.NewEncryptSchedule(mustHex(v.key))
	if err != nil {
		return err
	}
	block := mustHex(v.plaintext)
	if err = e.Encrypt(sched, block); err != nil {
		return err
	}
	if want := mustHex(v.ciphertext); !bytes.Equal(block, want) {
		return fmt.Errorf("encrypt: got %x, want %x", block, want)
	}

	if err = e.InvertKey(sched); err != nil {
		return err
	}
	if err = e.Decrypt(sched, block); err != nil {
		return err
	}
	if want := mustHex(v.plaintext); !bytes.Equal(block, want) {
		return fmt.Errorf("decrypt: got %x, want %x", block, want)
	}

	return nil
}

func checkDigest(b oxicrypt.Backend, alg digest.Algorithm) error {
	ctx, err := digest.New(alg, b)
	if err != nil {
		return err
	}
	ctx.Update([]byte("abc"))

	out := make([]byte, alg.Size())
	if err = ctx.Finish(out); err != nil {
		return err
	}
	if want := mustHex(digestVectors[alg]); !bytes.Equal(out, want) {
		return fmt.Errorf("got %x, want %x", out, want)
	}
	return nil
}

func checkHMAC(b oxicrypt.Backend) error {
	c, err := hmac.NewWithKey(digest.SHA256, b, []byte(hmacKey))
	if err != nil {
		return err
	}
	c.Update([]byte(hmacData))

	out := make([]byte, c.Size())
	if err = c.Finish(out); err != nil {
		return err
	}
	if want := mustHex(hmacMAC); !hmac.Equal(out, want) {
		return fmt.Errorf("got %x, want %x", out, want)
	}
	return nil
}
