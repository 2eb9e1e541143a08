package session

import "log/slog"

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithObserver registers fn to be called after every committed state change.
func WithObserver(fn func(from, to Snapshot)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.observers = append(m.observers, fn)
		}
	}
}
