package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"docvault/internal/config"
)

// Package crypto implements the at-rest encryption engine: AES-256-CBC with
// PKCS#7 padding and a per-call random IV, plus SHA-256 content digests.
// The key is process-wide static configuration loaded once at startup; it is
// never per-document.

const (
	// IVLength is the AES block size; every sealed payload carries exactly one
	// IV of this length.
	IVLength = aes.BlockSize

	keyLength = 32 // AES-256
)

var (
	ErrKeyNotConfigured = errors.New("encryption secret key is not configured")
	ErrInvalidKeySize   = errors.New("encryption secret key must be 32 bytes of hex")
	ErrUnsupportedAlgo  = errors.New("unsupported encryption algorithm")
	ErrInvalidIV        = errors.New("invalid iv length")
	ErrDecrypt          = errors.New("decryption failed")
)

// KeyProvider supplies the symmetric key material. Externalizing it keeps the
// engine's call contract stable if per-tenant or per-document keys are
// introduced later.
type KeyProvider interface {
	Key() ([]byte, error)
}

// StaticKeyProvider returns a fixed key decoded from hex-encoded configuration.
type StaticKeyProvider struct {
	hexKey string
}

func NewStaticKeyProvider(hexKey string) *StaticKeyProvider {
	return &StaticKeyProvider{hexKey: hexKey}
}

func (p *StaticKeyProvider) Key() ([]byte, error) {
	if p.hexKey == "" {
		return nil, ErrKeyNotConfigured
	}
	key, err := hex.DecodeString(p.hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeySize, err)
	}
	if len(key) != keyLength {
		return nil, ErrInvalidKeySize
	}
	return key, nil
}

// Engine seals and opens document payloads with a single process-wide key.
// Safe for concurrent use.
type Engine struct {
	key []byte
}

// NewEngine builds an Engine from configuration. A missing key, malformed key,
// or unknown algorithm is a configuration error and must prevent service start.
func NewEngine(cfg config.EncryptionConfig) (*Engine, error) {
	if cfg.Algorithm != "" && cfg.Algorithm != "aes-256-cbc" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgo, cfg.Algorithm)
	}
	return NewEngineWithProvider(NewStaticKeyProvider(cfg.SecretKey))
}

// NewEngineWithProvider builds an Engine from an explicit key provider.
func NewEngineWithProvider(kp KeyProvider) (*Engine, error) {
	key, err := kp.Key()
	if err != nil {
		return nil, err
	}
	return &Engine{key: key}, nil
}

// Seal encrypts plaintext under a freshly generated random IV and returns the
// ciphertext together with the IV.
func (e *Engine) Seal(plaintext []byte) (ciphertext, iv []byte, err error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, nil, err
	}

	iv = make([]byte, IVLength)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("generate iv: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, iv, nil
}

// Open decrypts ciphertext produced by Seal. Corrupt ciphertext or a wrong key
// surfaces as ErrDecrypt; this is a permanent condition, never retried.
func (e *Engine) Open(ciphertext, iv []byte) ([]byte, error) {
	if len(iv) != IVLength {
		return nil, ErrInvalidIV
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrDecrypt
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return pkcs7Unpad(plaintext, aes.BlockSize)
}

// Digest returns the hex SHA-256 of content. Used purely as an integrity
// reference, never as a secret.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrDecrypt
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize {
		return nil, ErrDecrypt
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrDecrypt
		}
	}
	return data[:len(data)-padLen], nil
}
