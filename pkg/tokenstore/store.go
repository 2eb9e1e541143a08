package tokenstore

import (
	"context"

	"github.com/dmitrymomot/hrportal/pkg/identity"
)

// Entry is the persisted triple.
type Entry struct {
	identity.Credentials
	User *identity.User
}

// Present reports whether the entry carries a complete credential pair and a user.
func (e Entry) Present() bool {
	return e.Credentials.Complete() && e.User != nil
}

// validate enforces the all-or-nothing rule for writes.
func (e Entry) validate() error {
	if !e.Credentials.Complete() {
		return ErrIncompleteCredentials
	}
	if e.User == nil {
		return ErrMissingUser
	}
	return nil
}

// clone detaches the user pointer from the caller's copy.
func (e Entry) clone() Entry {
	e.User = e.User.Clone()
	return e
}

// Store persists one Entry.
type Store interface {
	// Get returns the stored entry, or the zero Entry when nothing is stored.
	Get(ctx context.Context) (Entry, error)

	// Set replaces the stored entry. Incomplete entries are rejected and nothing is written.
	Set(ctx context.Context, entry Entry) error

	// Clear removes the stored entry. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
