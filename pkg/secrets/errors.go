package secrets

import "errors"

var (
	ErrInvalidMasterKey    = errors.New("secrets.invalid_master_key")
	ErrEmptyScope          = errors.New("secrets.empty_scope")
	ErrEncryptionFailed    = errors.New("secrets.encryption_failed")
	ErrDecryptionFailed    = errors.New("secrets.decryption_failed")
	ErrInvalidCiphertext   = errors.New("secrets.invalid_ciphertext")
	ErrKeyDerivationFailed = errors.New("secrets.key_derivation_failed")
)
