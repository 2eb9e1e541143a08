package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// Sealer encrypts and decrypts records for one scope.
// It is safe for concurrent use.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives the scope key from masterKey and prepares AES-256-GCM.
func NewSealer(masterKey []byte, scope string) (*Sealer, error) {
	if len(masterKey) != KeySize {
		return nil, ErrInvalidMasterKey
	}
	if scope == "" {
		return nil, ErrEmptyScope
	}

	key, err := deriveKey(masterKey, scope)
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	return &Sealer{aead: aead}, nil
}

// Seal returns nonce + ciphertext + tag.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize+s.aead.Overhead() {
		return nil, ErrInvalidCiphertext
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return plaintext, nil
}
