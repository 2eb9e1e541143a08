// Package session is the single source of truth for who is logged in.
//
// A Manager reconciles the credentials persisted in the token store with the
// in-memory session state. It moves through three states:
//
//	Initializing --start--> Authenticated   (store holds a complete triple)
//	Initializing --start--> Anonymous       (store empty or unreadable)
//	Anonymous    --login--> Authenticated
//	Authenticated --logout / failed refresh--> Anonymous
//
// Start performs the one-time startup check. It reads the store only: a
// persisted session is adopted without asking the server, so the first
// decision is fast and may be stale. Verify asks the server explicitly.
//
// Operations are serialized; Snapshot is cheap and safe to call from any
// goroutine, including HTTP handlers.
//
//	mgr := session.New(client, store, session.WithLogger(log))
//	defer mgr.Close()
//	if err := mgr.Start(ctx); err != nil {
//	    return err
//	}
//	if _, err := mgr.Login(ctx, email, password); err != nil {
//	    fmt.Println(apiclient.Message(err))
//	}
//
// Logout always ends Anonymous with an empty store and never reports a
// network failure. A failed refresh ends the session the same way and
// returns ErrSessionTerminated.
package session
