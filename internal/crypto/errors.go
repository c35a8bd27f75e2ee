package crypto

import "errors"

var (
	// ErrNoPassphrase is returned when a sealed payload arrives but no
	// passphrase is configured.
	ErrNoPassphrase = errors.New("sealed payload but no passphrase configured")

	// ErrMalformedHeader is returned for an encrypted key header that cannot
	// be decoded or unwrapped.
	ErrMalformedHeader = errors.New("malformed encrypted key header")

	// ErrDecrypt is returned when the authentication tag does not match.
	ErrDecrypt = errors.New("decryption failed")
)
