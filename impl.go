// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package oxicrypt provides the backend registry shared by the AES, digest
// and HMAC packages.
//
// Every primitive has several implementations that produce identical output.
// The registry answers which of them are compiled into the binary, which of
// them the running CPU supports, and which one is the fastest.
package oxicrypt

import (
	"fmt"
	"strings"

	"gitlab.com/yawning/oxicrypt.git/internal/hardware"
)

// Family is a primitive family.
type Family int

const (
	// FamilyAES is the AES block cipher.
	FamilyAES Family = iota

	// FamilyDigest is the Merkle-Damgard hash family (MD5, SHA-1, SHA-2).
	FamilyDigest
)

func (f Family) String() string {
	switch f {
	case FamilyAES:
		return "aes"
	case FamilyDigest:
		return "digest"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// Families returns all primitive families.
func Families() []Family {
	return []Family{FamilyAES, FamilyDigest}
}

// Backend identifies an implementation strategy.
type Backend uint8

const (
	// Auto requests the process default backend for the family.  It is
	// never returned by the registry.
	Auto Backend = iota

	// Generic is the portable implementation.  It is always available.
	Generic

	// Bitsliced is the constant time portable AES implementation.
	Bitsliced

	// AESNI is the AES-NI accelerated implementation (amd64).
	AESNI

	maxBackend
)

var backendNames = [maxBackend]string{
	Auto:      "auto",
	Generic:   "generic",
	Bitsliced: "bitsliced",
	AESNI:     "aesni",
}

func (b Backend) String() string {
	if b < maxBackend {
		return backendNames[b]
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// ParseBackend parses a backend name, as returned by Backend.String.
func ParseBackend(s string) (Backend, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Auto, nil
	}
	for i, name := range backendNames {
		if s == name {
			return Backend(i), nil
		}
	}
	return Auto, newUnknownBackendError(s)
}

// BackendSet is a set of backends.
type BackendSet uint32

// SetOf returns the set containing the provided backends.
func SetOf(backends ...Backend) BackendSet {
	var s BackendSet
	for _, b := range backends {
		s |= 1 << b
	}
	return s
}

// Has returns true iff b is a member of the set.
func (s BackendSet) Has(b Backend) bool {
	return b < maxBackend && s&(1<<b) != 0
}

// Len returns the number of backends in the set.
func (s BackendSet) Len() int {
	var n int
	for b := Generic; b < maxBackend; b++ {
		if s.Has(b) {
			n++
		}
	}
	return n
}

// Backends returns the members of the set in identifier order.
func (s BackendSet) Backends() []Backend {
	var ret []Backend
	for b := Generic; b < maxBackend; b++ {
		if s.Has(b) {
			ret = append(ret, b)
		}
	}
	return ret
}

func (s BackendSet) String() string {
	var names []string
	for _, b := range s.Backends() {
		names = append(names, b.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// preference lists the backends of each family, fastest first.
var preference = map[Family][]Backend{
	FamilyAES:    {AESNI, Generic, Bitsliced},
	FamilyDigest: {Generic},
}

// requires lists the CPU capabilities each non-generic backend needs.
var requires = map[Backend]Capabilities{
	AESNI: CapX86AES,
}

func compiledSet(f Family) BackendSet {
	switch f {
	case FamilyAES:
		s := SetOf(Generic, Bitsliced)
		if hardware.AES != nil {
			s |= SetOf(AESNI)
		}
		return s
	case FamilyDigest:
		return SetOf(Generic)
	default:
		return 0
	}
}
