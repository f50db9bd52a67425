package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvault/internal/config"
)

var testKey = hex.EncodeToString(bytes.Repeat([]byte{0xab}, 32))

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := NewEngine(config.EncryptionConfig{SecretKey: testKey, Algorithm: "aes-256-cbc"})
	require.NoError(t, err)
	return eng
}

func TestNewEngine_ConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.EncryptionConfig
		wantErr error
	}{
		{
			name:    "missing key",
			cfg:     config.EncryptionConfig{Algorithm: "aes-256-cbc"},
			wantErr: ErrKeyNotConfigured,
		},
		{
			name:    "key not hex",
			cfg:     config.EncryptionConfig{SecretKey: "not-hex!"},
			wantErr: ErrInvalidKeySize,
		},
		{
			name:    "key too short",
			cfg:     config.EncryptionConfig{SecretKey: "deadbeef"},
			wantErr: ErrInvalidKeySize,
		},
		{
			name:    "unknown algorithm",
			cfg:     config.EncryptionConfig{SecretKey: testKey, Algorithm: "rot13"},
			wantErr: ErrUnsupportedAlgo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := NewEngine(tt.cfg)
			assert.Nil(t, eng)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEngine_SealOpenRoundTrip(t *testing.T) {
	eng := newTestEngine(t)

	payloads := [][]byte{
		[]byte("hello world"),
		{},
		bytes.Repeat([]byte{0x00}, 16),   // exactly one block
		bytes.Repeat([]byte{0x7f}, 1000), // matches the upload scenario size
	}

	for _, p := range payloads {
		ciphertext, iv, err := eng.Seal(p)
		require.NoError(t, err)
		assert.Len(t, iv, IVLength)
		assert.NotEqual(t, p, ciphertext)

		got, err := eng.Open(ciphertext, iv)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestEngine_SealGeneratesFreshIV(t *testing.T) {
	eng := newTestEngine(t)

	_, iv1, err := eng.Seal([]byte("same input"))
	require.NoError(t, err)
	_, iv2, err := eng.Seal([]byte("same input"))
	require.NoError(t, err)

	assert.NotEqual(t, iv1, iv2)
}

func TestEngine_OpenFailures(t *testing.T) {
	eng := newTestEngine(t)

	ciphertext, iv, err := eng.Seal([]byte("secret payload"))
	require.NoError(t, err)

	t.Run("iv length mismatch", func(t *testing.T) {
		_, err := eng.Open(ciphertext, iv[:8])
		assert.ErrorIs(t, err, ErrInvalidIV)
	})

	t.Run("truncated ciphertext", func(t *testing.T) {
		_, err := eng.Open(ciphertext[:len(ciphertext)-3], iv)
		assert.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("corrupted ciphertext", func(t *testing.T) {
		corrupt := append([]byte(nil), ciphertext...)
		corrupt[len(corrupt)-1] ^= 0xff
		_, err := eng.Open(corrupt, iv)
		assert.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("wrong key", func(t *testing.T) {
		otherKey := hex.EncodeToString(bytes.Repeat([]byte{0x11}, 32))
		other, err := NewEngine(config.EncryptionConfig{SecretKey: otherKey})
		require.NoError(t, err)
		got, err := other.Open(ciphertext, iv)
		// A wrong key almost always trips the padding check; on the rare
		// accidental valid padding it must still not yield the plaintext.
		if err == nil {
			assert.NotEqual(t, []byte("secret payload"), got)
		} else {
			assert.ErrorIs(t, err, ErrDecrypt)
		}
	})
}

func TestDigest(t *testing.T) {
	// SHA-256 is deterministic for identical bytes.
	assert.Equal(t, Digest([]byte("abc")), Digest([]byte("abc")))
	assert.NotEqual(t, Digest([]byte("abc")), Digest([]byte("abd")))

	// Known vector for the empty input.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Digest(nil))
}

func TestDigest_StableAcrossSeal(t *testing.T) {
	eng := newTestEngine(t)
	payload := []byte("content to hash before sealing")

	before := Digest(payload)
	ciphertext, iv, err := eng.Seal(payload)
	require.NoError(t, err)

	got, err := eng.Open(ciphertext, iv)
	require.NoError(t, err)
	assert.Equal(t, before, Digest(got))
}
