// Package tokenstore persists the credential pair and the serialized user of
// the current login so that a new process can restore the session without
// asking for the password again.
//
// The Store interface has three operations: Get, Set and Clear. Set replaces
// the whole record at once and refuses incomplete credential pairs, so at rest
// the store either holds nothing or a complete (access, refresh, user) triple.
// A partial record found on read is treated as corrupt: it is removed and
// reported as empty.
//
// Back-ends:
//
//   - MemoryStore: process memory, used in tests and ephemeral portals.
//   - FileStore: a single file written atomically (temp file + rename).
//   - RedisStore: a single key, shared between portal replicas.
//
// File and Redis stores serialize through a Codec. JSONCodec writes a
// versioned JSON envelope; SealedCodec additionally encrypts it with a key
// derived by package secrets.
//
//	store, err := tokenstore.NewFileStore(path, tokenstore.WithCodec(codec))
//	if err != nil {
//	    // handle error
//	}
//	entry, err := store.Get(ctx)
//	if entry.Present() {
//	    // restore session
//	}
package tokenstore
