package guard

import (
	"github.com/dmitrymomot/hrportal/pkg/rbac"
	"github.com/dmitrymomot/hrportal/pkg/session"
)

// Decision is the outcome of evaluating a request against the session.
type Decision int

const (
	Loading Decision = iota
	RedirectLogin
	RedirectHome
	Allow
)

func (d Decision) String() string {
	switch d {
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	case Allow:
		return "allow"
	}
	return "unknown"
}

// Decide maps a session snapshot and an optional role requirement to a
// decision. It has no side effects.
func Decide(s session.Snapshot, required ...rbac.Role) Decision {
	switch {
	case s.IsLoading:
		return Loading
	case !s.IsAuthenticated || s.User == nil:
		return RedirectLogin
	case len(required) > 0 && !s.HasPermission(required...):
		return RedirectHome
	default:
		return Allow
	}
}
