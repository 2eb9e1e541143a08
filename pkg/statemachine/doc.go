// Package statemachine implements a small, deterministic finite state machine
// with typed states and events.
//
// Each (state, event) pair maps to at most one target state. Fire looks the
// pair up, runs the transition actions and commits the new state; listeners
// are notified after the commit, outside the lock, so they may read the
// machine freely.
//
//	const (
//	    Idle    = "idle"
//	    Running = "running"
//	)
//
//	m := statemachine.MustNew[string, string](Idle,
//	    statemachine.WithTransition[string, string](Idle, Running, "start"),
//	)
//
//	if _, err := m.Fire(ctx, "start"); err != nil {
//	    if statemachine.IsNoTransitionAvailableError(err) {
//	        // event not valid in the current state
//	    }
//	}
//
// Actions run before the state changes; an error from any action aborts the
// transition and leaves the machine where it was. Reads (Current, Can) take a
// read lock only.
package statemachine
