package crypto

import (
	"encoding/base64"
	"fmt"
)

// NewSealer returns a [Sealer] keyed by passphrase and salt. With an empty
// passphrase updates pass through unchanged.
func NewSealer(passphrase, salt string) Sealer {
	if passphrase == "" {
		return passThrough{}
	}
	return newAEADSealer(newKeyChain(), passphrase, salt)
}

func newAEADSealer(k keyChain, passphrase, salt string) *aeadSealer {
	return &aeadSealer{kek: k.deriveKEK(passphrase, []byte(salt))}
}

type aeadSealer struct {
	kek []byte
}

func (s *aeadSealer) Seal(plain []byte, header *string) ([]byte, *string, error) {
	var (
		dek []byte
		err error
	)

	if header != nil {
		dek, err = s.unwrap(*header)
		if err != nil {
			return nil, nil, err
		}
	} else {
		if dek, err = generateDEK(); err != nil {
			return nil, nil, fmt.Errorf("generate content key: %w", err)
		}
		wrapped, err := sealBytes(s.kek, dek)
		if err != nil {
			return nil, nil, fmt.Errorf("wrap content key: %w", err)
		}
		h := base64.StdEncoding.EncodeToString(wrapped)
		header = &h
	}

	sealed, err := sealBytes(dek, plain)
	if err != nil {
		return nil, nil, fmt.Errorf("seal update: %w", err)
	}
	return sealed, header, nil
}

func (s *aeadSealer) Open(sealed []byte, header *string) ([]byte, error) {
	if header == nil {
		return sealed, nil
	}

	dek, err := s.unwrap(*header)
	if err != nil {
		return nil, err
	}
	return openBytes(dek, sealed)
}

func (s *aeadSealer) unwrap(header string) ([]byte, error) {
	wrapped, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	dek, err := openBytes(s.kek, wrapped)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	return dek, nil
}

type passThrough struct{}

func (passThrough) Seal(plain []byte, _ *string) ([]byte, *string, error) {
	return plain, nil, nil
}

func (passThrough) Open(sealed []byte, header *string) ([]byte, error) {
	if header != nil {
		return nil, ErrNoPassphrase
	}
	return sealed, nil
}
