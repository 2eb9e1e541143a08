package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required size of the master key and of derived keys.
	KeySize = 32

	// saltInfo separates keys derived here from any other HKDF use of the same master key.
	saltInfo = "hrportal-credentials-v1"
)

// GenerateKey returns a random master key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return key, nil
}

// ParseKey decodes a base64 (standard or URL alphabet) master key.
func ParseKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		key, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return nil, errors.Join(ErrInvalidMasterKey, err)
		}
	}
	if len(key) != KeySize {
		return nil, ErrInvalidMasterKey
	}
	return key, nil
}

// EncodeKey renders a master key in the form accepted by ParseKey.
func EncodeKey(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}

// deriveKey derives the scope key. The caller clears it after use.
func deriveKey(masterKey []byte, scope string) ([]byte, error) {
	r := hkdf.New(sha256.New, masterKey, []byte(scope), []byte(saltInfo))

	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(r, derived); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return derived, nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
