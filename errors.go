// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

package oxicrypt

import (
	"errors"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

var (
	// ErrUnsupportedBackend is the error returned when a requested backend
	// is unknown, not compiled in, or not supported by the running CPU.
	ErrUnsupportedBackend = errors.New("oxicrypt: unsupported backend")

	// ErrBufferTooSmall is the error returned when a caller supplied buffer
	// is shorter than required.  Nothing is written when it is returned.
	ErrBufferTooSmall = errors.New("oxicrypt: buffer too small")

	// ErrInvalidKeyLength is the error returned when a raw key does not
	// match the key class.
	ErrInvalidKeyLength = errors.New("oxicrypt: invalid key length")

	// ErrInvalidBlockLength is the error returned when a buffer is not a
	// multiple of the cipher block size.
	ErrInvalidBlockLength = errors.New("oxicrypt: input not a multiple of the block size")

	// ErrAlreadyConfigured is the error returned when the process defaults
	// are configured more than once.
	ErrAlreadyConfigured = errors.New("oxicrypt: defaults already configured")
)

// Error codes attached to the rich errors.
const (
	ErrCodeUnsupportedBackend = "OXICRYPT_UNSUPPORTED_BACKEND"
	ErrCodeBufferTooSmall     = "OXICRYPT_BUFFER_TOO_SMALL"
	ErrCodeInvalidKeyLength   = "OXICRYPT_INVALID_KEY_LENGTH"
	ErrCodeInvalidBlockLength = "OXICRYPT_INVALID_BLOCK_LENGTH"
	ErrCodeAlreadyConfigured  = "OXICRYPT_ALREADY_CONFIGURED"
)

func newUnsupportedBackendError(f Family, b Backend, reason string) error {
	richErr := goerrors.New(ErrCodeUnsupportedBackend, fmt.Sprintf("%s backend %s: %s", f, b, reason))
	return fmt.Errorf("%w: %w", ErrUnsupportedBackend, richErr)
}

func newUnknownBackendError(name string) error {
	richErr := goerrors.New(ErrCodeUnsupportedBackend, fmt.Sprintf("unknown backend name %q", name))
	return fmt.Errorf("%w: %w", ErrUnsupportedBackend, richErr)
}

// NewBufferTooSmallError returns an ErrBufferTooSmall describing which
// buffer was too short.
func NewBufferTooSmallError(what string, want, got int) error {
	richErr := goerrors.New(ErrCodeBufferTooSmall, fmt.Sprintf("%s: need %d bytes, have %d", what, want, got))
	return fmt.Errorf("%w: %w", ErrBufferTooSmall, richErr)
}

// NewInvalidKeyLengthError returns an ErrInvalidKeyLength.
func NewInvalidKeyLengthError(want, got int) error {
	var msg string
	if want > 0 {
		msg = fmt.Sprintf("need a %d byte key, have %d", want, got)
	} else {
		msg = fmt.Sprintf("no key class has %d byte keys", got)
	}
	richErr := goerrors.New(ErrCodeInvalidKeyLength, msg)
	return fmt.Errorf("%w: %w", ErrInvalidKeyLength, richErr)
}

// NewInvalidBlockLengthError returns an ErrInvalidBlockLength.
func NewInvalidBlockLengthError(blockSize, got int) error {
	richErr := goerrors.New(ErrCodeInvalidBlockLength, fmt.Sprintf("%d bytes is not a multiple of %d", got, blockSize))
	return fmt.Errorf("%w: %w", ErrInvalidBlockLength, richErr)
}
