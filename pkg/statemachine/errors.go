package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrNoTransition        = errors.New("statemachine.no_transition")
	ErrDuplicateTransition = errors.New("statemachine.duplicate_transition")
	ErrActionFailed        = errors.New("statemachine.action_failed")
)

// ErrNoTransitionAvailable indicates the event is not valid in the current state.
type ErrNoTransitionAvailable struct {
	State string
	Event string
}

func NewErrNoTransitionAvailable[S, E comparable](state S, event E) *ErrNoTransitionAvailable {
	return &ErrNoTransitionAvailable{State: fmt.Sprint(state), Event: fmt.Sprint(event)}
}

func (e *ErrNoTransitionAvailable) Error() string {
	return fmt.Sprintf("no transition from state %q on event %q", e.State, e.Event)
}

func (e *ErrNoTransitionAvailable) Is(target error) bool {
	return target == ErrNoTransition
}

// NewErrDuplicateTransition reports a second registration for the same state and event.
func NewErrDuplicateTransition[S, E comparable](state S, event E) error {
	return fmt.Errorf("%w: state %q event %q", ErrDuplicateTransition, fmt.Sprint(state), fmt.Sprint(event))
}

func IsNoTransitionAvailableError(err error) bool {
	var e *ErrNoTransitionAvailable
	return errors.As(err, &e)
}
