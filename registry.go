// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package oxicrypt

import (
	"strings"
	"sync"

	"golang.org/x/sys/cpu"
)

// Capabilities is a bitmask of CPU features relevant to the backends.
type Capabilities uint64

// CapX86AES is the x86 AES-NI instruction set, required by AESNI.
const CapX86AES Capabilities = 1 << 0

var capNames = []string{
	"x86-aes",
}

// Has returns true iff every capability in c2 is present in c.
func (c Capabilities) Has(c2 Capabilities) bool {
	return c&c2 == c2
}

func (c Capabilities) String() string {
	var names []string
	for i, name := range capNames {
		if c&(1<<uint(i)) != 0 {
			names = append(names, name)
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Probe reports the capabilities of the running CPU.
type Probe func() Capabilities

// DetectCapabilities probes the running CPU.
func DetectCapabilities() Capabilities {
	var c Capabilities
	if cpu.X86.HasAES {
		c |= CapX86AES
	}
	return c
}

// Registry maps primitive families to backends.  The CPU is probed once,
// on the first query, and the result never changes afterwards.
type Registry struct {
	probe Probe

	once sync.Once
	caps Capabilities
}

// NewRegistry creates a registry that uses probe for capability detection.
// A nil probe is equivalent to DetectCapabilities.
func NewRegistry(probe Probe) *Registry {
	if probe == nil {
		probe = DetectCapabilities
	}
	return &Registry{
		probe: probe,
	}
}

// DefaultRegistry is the process wide registry.
var DefaultRegistry = NewRegistry(DetectCapabilities)

// Capabilities returns the cached CPU capabilities.
func (r *Registry) Capabilities() Capabilities {
	r.once.Do(func() {
		r.caps = r.probe()
	})
	return r.caps
}

// Compiled returns the backends compiled into this binary for f.
func (r *Registry) Compiled(f Family) BackendSet {
	return compiledSet(f)
}

// Available returns the backends for f that are compiled in and supported by
// the running CPU.  Generic is always a member.
func (r *Registry) Available(f Family) BackendSet {
	caps := r.Capabilities()

	var s BackendSet
	for _, b := range compiledSet(f).Backends() {
		if caps.Has(requires[b]) {
			s |= SetOf(b)
		}
	}
	return s
}

// IsAvailable returns true iff b is usable for f.
func (r *Registry) IsAvailable(f Family, b Backend) bool {
	return r.Available(f).Has(b)
}

// FastestStatic returns the best backend for f compiled into this binary,
// without consulting the CPU.
func (r *Registry) FastestStatic(f Family) Backend {
	return fastestOf(f, compiledSet(f))
}

// FastestDynamic returns the best backend for f that the running CPU
// supports.
func (r *Registry) FastestDynamic(f Family) Backend {
	return fastestOf(f, r.Available(f))
}

// Require returns nil iff b is usable for f.  It never substitutes another
// backend.
func (r *Registry) Require(f Family, b Backend) error {
	switch {
	case b == Auto || b >= maxBackend:
		return newUnsupportedBackendError(f, b, "unknown backend")
	case !compiledSet(f).Has(b):
		return newUnsupportedBackendError(f, b, "not compiled in")
	case !r.IsAvailable(f, b):
		return newUnsupportedBackendError(f, b, "not supported by this CPU")
	}
	return nil
}

// Resolve maps Auto to the process default for f, and validates any other
// backend with Require.
func (r *Registry) Resolve(f Family, b Backend) (Backend, error) {
	if b == Auto {
		if d := configuredDefault(f); d != Auto && r.IsAvailable(f, d) {
			return d, nil
		}
		return r.FastestDynamic(f), nil
	}
	if err := r.Require(f, b); err != nil {
		return Auto, err
	}
	return b, nil
}

func fastestOf(f Family, s BackendSet) Backend {
	for _, b := range preference[f] {
		if s.Has(b) {
			return b
		}
	}
	return Generic
}

// Available returns the usable backends for f on the default registry.
func Available(f Family) BackendSet {
	return DefaultRegistry.Available(f)
}

// IsAvailable returns true iff b is usable for f on the default registry.
func IsAvailable(f Family, b Backend) bool {
	return DefaultRegistry.IsAvailable(f, b)
}

// FastestStatic returns the best compiled in backend for f.
func FastestStatic(f Family) Backend {
	return DefaultRegistry.FastestStatic(f)
}

// FastestDynamic returns the best backend for f on the running CPU.
func FastestDynamic(f Family) Backend {
	return DefaultRegistry.FastestDynamic(f)
}

// Require validates b for f against the default registry.
func Require(f Family, b Backend) error {
	return DefaultRegistry.Require(f, b)
}

// Resolve resolves b for f against the default registry.
func Resolve(f Family, b Backend) (Backend, error) {
	return DefaultRegistry.Resolve(f, b)
}
