package session

import (
	"time"

	"github.com/dmitrymomot/hrportal/pkg/identity"
	"github.com/dmitrymomot/hrportal/pkg/rbac"
	"github.com/dmitrymomot/hrportal/pkg/statemachine"
)

// State is the session lifecycle state.
type State string

const (
	StateInitializing  State = "initializing"
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

func (s State) String() string { return string(s) }

type event string

const (
	evRestore   event = "restore"
	evNoSession event = "no_session"
	evLogin     event = "login"
	evLogout    event = "logout"
	evRefresh   event = "refresh"
	evProfile   event = "profile_update"
	evTerminate event = "terminate"
)

// lifecycle lists every permitted transition. Nothing returns to
// Initializing.
var lifecycle = []statemachine.Transition[State, event]{
	{From: StateInitializing, To: StateAuthenticated, Event: evRestore},
	{From: StateInitializing, To: StateAnonymous, Event: evNoSession},
	{From: StateAnonymous, To: StateAuthenticated, Event: evLogin},
	{From: StateAuthenticated, To: StateAuthenticated, Event: evLogin},
	{From: StateAuthenticated, To: StateAnonymous, Event: evLogout},
	{From: StateAnonymous, To: StateAnonymous, Event: evLogout},
	{From: StateAuthenticated, To: StateAuthenticated, Event: evRefresh},
	{From: StateAnonymous, To: StateAuthenticated, Event: evRefresh},
	{From: StateAuthenticated, To: StateAuthenticated, Event: evProfile},
	{From: StateAuthenticated, To: StateAnonymous, Event: evTerminate},
	{From: StateAnonymous, To: StateAnonymous, Event: evTerminate},
}

// Snapshot is an immutable view of the session at one instant.
type Snapshot struct {
	State           State
	User            *identity.User
	IsAuthenticated bool
	IsLoading       bool
	AccessExpiresAt time.Time // zero when unknown
}

// HasPermission reports whether the snapshot's user satisfies any of the
// required roles. Admin satisfies everything; no user satisfies nothing.
func (s Snapshot) HasPermission(required ...rbac.Role) bool {
	if !s.IsAuthenticated || s.User == nil {
		return false
	}
	return rbac.HasPermission(s.User.Role, required...)
}

// Can reports whether the snapshot's user holds capability c.
func (s Snapshot) Can(c rbac.Capability) bool {
	if !s.IsAuthenticated || s.User == nil {
		return false
	}
	return rbac.Can(s.User.Role, c)
}
