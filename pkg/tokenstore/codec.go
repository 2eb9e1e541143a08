package tokenstore

import (
	"encoding/json"
	"errors"

	"github.com/dmitrymomot/hrportal/pkg/identity"
	"github.com/dmitrymomot/hrportal/pkg/secrets"
)

// SchemaVersion is the version written into every record.
// Records without a version predate versioning and are read as version 1.
const SchemaVersion = 1

// Codec converts entries to bytes and back.
type Codec interface {
	Encode(entry Entry) ([]byte, error)
	Decode(data []byte) (Entry, error)
}

type record struct {
	Version      int            `json:"version"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *identity.User `json:"user,omitempty"`
}

// JSONCodec writes the plaintext versioned envelope.
type JSONCodec struct{}

func (JSONCodec) Encode(entry Entry) ([]byte, error) {
	return json.Marshal(record{
		Version:      SchemaVersion,
		AccessToken:  entry.AccessToken,
		RefreshToken: entry.RefreshToken,
		User:         entry.User,
	})
}

func (JSONCodec) Decode(data []byte) (Entry, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Entry{}, errors.Join(ErrCorruptRecord, err)
	}
	if rec.Version > SchemaVersion {
		return Entry{}, ErrUnsupportedVersion
	}

	entry := Entry{
		Credentials: identity.Credentials{AccessToken: rec.AccessToken, RefreshToken: rec.RefreshToken},
		User:        rec.User,
	}
	if entry.Credentials.Empty() && entry.User == nil {
		return Entry{}, nil
	}
	if !entry.Present() {
		return Entry{}, ErrCorruptRecord
	}
	return entry, nil
}

// SealedCodec encrypts the JSON envelope.
type SealedCodec struct {
	sealer *secrets.Sealer
}

// NewSealedCodec derives a per-profile key from masterKey.
func NewSealedCodec(masterKey []byte, profile string) (*SealedCodec, error) {
	sealer, err := secrets.NewSealer(masterKey, "profile:"+profile)
	if err != nil {
		return nil, err
	}
	return &SealedCodec{sealer: sealer}, nil
}

func (c *SealedCodec) Encode(entry Entry) ([]byte, error) {
	plain, err := JSONCodec{}.Encode(entry)
	if err != nil {
		return nil, err
	}
	return c.sealer.Seal(plain)
}

func (c *SealedCodec) Decode(data []byte) (Entry, error) {
	plain, err := c.sealer.Open(data)
	if err != nil {
		return Entry{}, err
	}
	return JSONCodec{}.Decode(plain)
}
