// Package apiclient is the single point of outbound HTTP communication with
// the HR backend.
//
// Every request except POST /auth/login carries the stored access token as a
// bearer credential. The auth calls (Login, Logout, RefreshAccessToken) keep
// the token store in step with the server: login writes the full triple,
// refresh rotates both tokens and keeps the user, logout always clears the
// store last, whatever the network said.
//
// A failed refresh is fatal to the session. The store is cleared, hooks
// registered with OnSessionTerminated fire, and the returned error matches
// ErrSessionTerminated.
//
// Resource groups are thin CRUD pass-throughs:
//
//	client, err := apiclient.New(store, apiclient.WithBaseURL("https://hr.example.com/api"))
//	if err != nil {
//	    return err
//	}
//	employees, err := client.Employees().List(ctx, apiclient.Filter{"department": "7"})
//
// A 401 on a resource call is returned as is unless WithAutoRefresh is set;
// then the client refreshes once and replays the request once.
//
// # Errors
//
// Non-2xx responses are returned as *Error, which unwraps to a status sentinel
// (ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict, ErrValidation,
// ErrServer). Transport failures and timeouts match ErrNetwork.
package apiclient
