package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap Argon2 parameters keep the tests fast
func testSealer(passphrase string) *aeadSealer {
	k := keyChain{argonTime: 1, argonMemory: 64, argonThreads: 1, argonKeyLen: 32}
	return newAEADSealer(k, passphrase, "salt-salt-salt-1")
}

func TestAEADSealer_SealOpen(t *testing.T) {
	s := testSealer("pw")

	sealed, header, err := s.Seal([]byte("update"), nil)
	require.NoError(t, err)
	require.NotNil(t, header)
	assert.NotEqual(t, []byte("update"), sealed)

	plain, err := s.Open(sealed, header)
	require.NoError(t, err)
	assert.Equal(t, []byte("update"), plain)
}

func TestAEADSealer_ReusesHeader(t *testing.T) {
	s := testSealer("pw")

	_, header, err := s.Seal([]byte("v1"), nil)
	require.NoError(t, err)

	sealed, again, err := s.Seal([]byte("v2"), header)
	require.NoError(t, err)
	assert.Equal(t, *header, *again)

	plain, err := s.Open(sealed, again)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), plain)
}

func TestAEADSealer_OtherDeviceSamePassphrase(t *testing.T) {
	a := testSealer("pw")
	b := testSealer("pw")

	sealed, header, err := a.Seal([]byte("shared"), nil)
	require.NoError(t, err)

	plain, err := b.Open(sealed, header)
	require.NoError(t, err)
	assert.Equal(t, []byte("shared"), plain)
}

func TestAEADSealer_WrongPassphrase(t *testing.T) {
	sealed, header, err := testSealer("pw").Seal([]byte("x"), nil)
	require.NoError(t, err)

	_, err = testSealer("other").Open(sealed, header)
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestAEADSealer_BadHeader(t *testing.T) {
	bad := "%%%"
	_, _, err := testSealer("pw").Seal([]byte("x"), &bad)
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestAEADSealer_OpenUnsealed(t *testing.T) {
	plain, err := testSealer("pw").Open([]byte("raw"), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), plain)
}

func TestPassThrough(t *testing.T) {
	s := NewSealer("", "")

	sealed, header, err := s.Seal([]byte("raw"), nil)
	require.NoError(t, err)
	assert.Nil(t, header)
	assert.Equal(t, []byte("raw"), sealed)

	h := "x"
	_, err = s.Open([]byte("raw"), &h)
	assert.ErrorIs(t, err, ErrNoPassphrase)
}
