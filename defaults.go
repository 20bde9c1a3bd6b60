// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package oxicrypt

import (
	"fmt"
	"sync"

	goerrors "github.com/agilira/go-errors"
)

// Defaults are the backends used when a caller asks for Auto.  Auto fields
// mean "fastest available".
type Defaults struct {
	AES    Backend
	Digest Backend
}

func (d *Defaults) get(f Family) Backend {
	switch f {
	case FamilyAES:
		return d.AES
	case FamilyDigest:
		return d.Digest
	}
	return Auto
}

var (
	defaultsLock sync.RWMutex
	defaults     *Defaults
)

// Configure sets the process defaults.  It validates every non-Auto entry
// against DefaultRegistry and succeeds at most once per process.
func Configure(d Defaults) error {
	for _, f := range Families() {
		if b := d.get(f); b != Auto {
			if err := Require(f, b); err != nil {
				return err
			}
		}
	}

	defaultsLock.Lock()
	defer defaultsLock.Unlock()

	if defaults != nil {
		richErr := goerrors.New(ErrCodeAlreadyConfigured, fmt.Sprintf("defaults already set to aes=%s digest=%s", defaults.AES, defaults.Digest))
		return fmt.Errorf("%w: %w", ErrAlreadyConfigured, richErr)
	}
	defaults = &d

	return nil
}

// Default returns the backend used for f when Auto is requested.
func Default(f Family) Backend {
	b, _ := DefaultRegistry.Resolve(f, Auto)
	return b
}

func configuredDefault(f Family) Backend {
	defaultsLock.RLock()
	defer defaultsLock.RUnlock()

	if defaults == nil {
		return Auto
	}
	return defaults.get(f)
}
