package statemachine

import "fmt"

// Option configures a machine during construction.
type Option[S, E comparable] func(*Machine[S, E]) error

// New creates a machine in initial state.
func New[S, E comparable](initial S, opts ...Option[S, E]) (*Machine[S, E], error) {
	m := &Machine[S, E]{
		current: initial,
		table:   make(map[S]map[E]edge[S, E]),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is like New but panics on a configuration error.
func MustNew[S, E comparable](initial S, opts ...Option[S, E]) *Machine[S, E] {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("statemachine: %v", err))
	}
	return m
}

// WithTransition registers from --event--> to. Nil actions are skipped.
func WithTransition[S, E comparable](from, to S, event E, actions ...Action[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) error {
		var kept []Action[S, E]
		for _, a := range actions {
			if a != nil {
				kept = append(kept, a)
			}
		}
		return m.addTransition(from, to, event, kept)
	}
}

// WithTransitions registers several action-less transitions at once.
func WithTransitions[S, E comparable](transitions ...Transition[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) error {
		for i, t := range transitions {
			if err := m.addTransition(t.From, t.To, t.Event, nil); err != nil {
				return fmt.Errorf("transition[%d]: %w", i, err)
			}
		}
		return nil
	}
}

// WithListener registers a callback invoked after every committed transition.
func WithListener[S, E comparable](l Listener[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) error {
		if l != nil {
			m.listeners = append(m.listeners, l)
		}
		return nil
	}
}
