// Package secrets seals small records at rest, such as the persisted
// credential pair of the HR portal.
//
// A Sealer derives a 32-byte key from a master key and a scope label using
// HKDF-SHA-256, then protects data with AES-256-GCM. The nonce is prepended
// to the ciphertext so a sealed blob is self-contained. Different scopes (for
// example two CLI profiles) never share a derived key.
//
// # Usage
//
//	master, _ := secrets.GenerateKey()
//	sealer, err := secrets.NewSealer(master, "profile:default")
//	if err != nil {
//	    // handle error
//	}
//
//	blob, err := sealer.Seal([]byte(`{"access_token":"..."}`))
//	plain, err := sealer.Open(blob)
//
// # Error Handling
//
// Failures wrap a package sentinel such as ErrEncryptionFailed or
// ErrInvalidCiphertext; match them with errors.Is.
package secrets
