package session

import (
	"errors"

	"github.com/dmitrymomot/hrportal/pkg/apiclient"
)

var (
	ErrNotStarted       = errors.New("session.not_started")
	ErrAlreadyStarted   = errors.New("session.already_started")
	ErrNotAuthenticated = errors.New("session.not_authenticated")

	// ErrSessionTerminated is shared with apiclient so a termination reported
	// by either layer matches the same sentinel.
	ErrSessionTerminated = apiclient.ErrSessionTerminated
)
