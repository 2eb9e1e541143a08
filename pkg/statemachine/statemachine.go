package statemachine

import (
	"context"
	"errors"
	"sync"
)

// Transition describes one committed or candidate state change.
type Transition[S, E comparable] struct {
	From  S
	To    S
	Event E
}

// Action executes side effects before a transition is committed.
// Returning an error prevents the transition.
type Action[S, E comparable] func(ctx context.Context, t Transition[S, E]) error

// Listener observes committed transitions.
type Listener[S, E comparable] func(ctx context.Context, t Transition[S, E])

type edge[S, E comparable] struct {
	to      S
	actions []Action[S, E]
}

// Machine is a thread-safe state machine.
type Machine[S, E comparable] struct {
	mu        sync.RWMutex
	current   S
	table     map[S]map[E]edge[S, E]
	listeners []Listener[S, E]
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Can reports whether event has a transition from the current state.
func (m *Machine[S, E]) Can(event E) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.table[m.current][event]
	return ok
}

// Fire applies event to the current state and returns the committed transition.
func (m *Machine[S, E]) Fire(ctx context.Context, event E) (Transition[S, E], error) {
	m.mu.Lock()
	e, ok := m.table[m.current][event]
	if !ok {
		err := NewErrNoTransitionAvailable(m.current, event)
		m.mu.Unlock()
		return Transition[S, E]{}, err
	}

	t := Transition[S, E]{From: m.current, To: e.to, Event: event}
	for _, action := range e.actions {
		if err := action(ctx, t); err != nil {
			m.mu.Unlock()
			return Transition[S, E]{}, errors.Join(ErrActionFailed, err)
		}
	}
	m.current = e.to
	listeners := m.listeners
	m.mu.Unlock()

	for _, l := range listeners {
		l(ctx, t)
	}
	return t, nil
}

func (m *Machine[S, E]) addTransition(from, to S, event E, actions []Action[S, E]) error {
	if _, ok := m.table[from][event]; ok {
		return NewErrDuplicateTransition(from, event)
	}
	if m.table[from] == nil {
		m.table[from] = make(map[E]edge[S, E])
	}
	m.table[from][event] = edge[S, E]{to: to, actions: actions}
	return nil
}
