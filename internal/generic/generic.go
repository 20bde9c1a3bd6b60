// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package generic provides the portable implementations.
package generic

import "gitlab.com/yawning/oxicrypt.git/internal/api"

var (
	// AES is the lookup table AES factory.
	AES api.AESFactory = &aesFactory{}

	// Digest is the portable compression function factory.
	Digest api.DigestFactory = &digestFactory{}
)

type digestFactory struct{}

func (f *digestFactory) Name() string {
	return "generic"
}

func (f *digestFactory) MD5(h *[8]uint32, p []byte) {
	blockMD5(h, p)
}

func (f *digestFactory) SHA1(h *[8]uint32, p []byte) {
	blockSHA1(h, p)
}

func (f *digestFactory) SHA256(h *[8]uint32, p []byte) {
	blockSHA256(h, p)
}

func (f *digestFactory) SHA512(h *[8]uint64, p []byte) {
	blockSHA512(h, p)
}
