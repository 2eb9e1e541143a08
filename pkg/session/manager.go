package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/identity"
	"github.com/dmitrymomot/hrportal/pkg/logger"
	"github.com/dmitrymomot/hrportal/pkg/rbac"
	"github.com/dmitrymomot/hrportal/pkg/statemachine"
	"github.com/dmitrymomot/hrportal/pkg/tokenstore"
)

// AuthAPI is the part of the API client the session depends on.
// *apiclient.Client implements it.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*identity.User, error)
	Logout(ctx context.Context) error
	RefreshAccessToken(ctx context.Context) error
	Me(ctx context.Context) (*identity.User, error)
	UpdateProfile(ctx context.Context, update apiclient.ProfileUpdate) (*identity.User, error)
	Register(ctx context.Context, req apiclient.RegisterRequest) error
	ForgotPassword(ctx context.Context, email string) error
}

// terminationNotifier is implemented by API clients that can report a
// session they terminated on their own, e.g. during an automatic refresh.
type terminationNotifier interface {
	OnSessionTerminated(fn apiclient.TerminationHook) (remove func())
}

// Manager owns the session state.
type Manager struct {
	api       AuthAPI
	store     tokenstore.Store
	log       *slog.Logger
	observers []func(from, to Snapshot)

	// opMu serializes operations end to end, network calls included.
	opMu sync.Mutex

	// mu guards the fields below; it is never held across I/O.
	mu        sync.RWMutex
	machine   *statemachine.Machine[State, event]
	user      *identity.User
	accessExp time.Time

	removeHook func()
}

// New creates a manager in the Initializing state. Call Start once before
// any other operation.
func New(api AuthAPI, store tokenstore.Store, opts ...Option) *Manager {
	m := &Manager{
		api:        api,
		store:      store,
		log:        logger.Discard(),
		removeHook: func() {},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("session"))
	m.machine = statemachine.MustNew(StateInitializing,
		statemachine.WithTransitions(lifecycle...),
		statemachine.WithListener(m.logTransition),
	)

	if n, ok := api.(terminationNotifier); ok {
		m.removeHook = n.OnSessionTerminated(m.onTerminated)
	}
	return m
}

// Close detaches the manager from the API client.
func (m *Manager) Close() {
	m.removeHook()
}

// Snapshot returns the current session view.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	state := m.machine.Current()
	return Snapshot{
		State:           state,
		User:            m.user.Clone(),
		IsAuthenticated: state == StateAuthenticated,
		IsLoading:       state == StateInitializing,
		AccessExpiresAt: m.accessExp,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	return m.machine.Current()
}

// HasPermission reports whether the current user satisfies any of required.
func (m *Manager) HasPermission(required ...rbac.Role) bool {
	return m.Snapshot().HasPermission(required...)
}

// Can reports whether the current user holds capability c.
func (m *Manager) Can(c rbac.Capability) bool {
	return m.Snapshot().Can(c)
}

// Start performs the one-time startup check against the token store. It
// never touches the network. When the store cannot be read the session starts
// Anonymous and the record is left in place: it may belong to a newer format
// or the backend may be briefly unavailable. Corrupt records are removed by
// the store itself.
func (m *Manager) Start(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if m.machine.Current() != StateInitializing {
		return ErrAlreadyStarted
	}

	entry, err := m.store.Get(ctx)
	if err != nil {
		m.log.WarnContext(ctx, "stored credentials unreadable, starting anonymous", logger.Error(err))
		return m.apply(ctx, evNoSession, nil, time.Time{})
	}

	if !entry.Present() {
		return m.apply(ctx, evNoSession, nil, time.Time{})
	}

	exp, _ := entry.AccessExpiresAt()
	return m.apply(ctx, evRestore, entry.User, exp)
}

// Login authenticates with the server. On failure the state is unchanged and
// the server error is returned for display.
func (m *Manager) Login(ctx context.Context, email, password string) (*identity.User, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.requireStarted(); err != nil {
		return nil, err
	}

	user, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.log.InfoContext(ctx, "login failed", logger.Error(err))
		return nil, err
	}

	if err := m.apply(ctx, evLogin, user, m.storedExpiry(ctx)); err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

// Logout ends the session. Local cleanup is unconditional: the store is
// cleared and the state becomes Anonymous whatever the server answered.
// Calling Logout while Anonymous is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.requireStarted(); err != nil {
		return err
	}

	if err := m.api.Logout(ctx); err != nil {
		m.log.WarnContext(ctx, "server logout failed", logger.Error(err))
	}
	clearErr := m.store.Clear(ctx)

	if err := m.apply(ctx, evLogout, nil, time.Time{}); err != nil {
		return errors.Join(err, clearErr)
	}
	return clearErr
}

// Refresh rotates the token pair. Any failure terminates the session and
// returns an error matching ErrSessionTerminated.
func (m *Manager) Refresh(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.requireStarted(); err != nil {
		return err
	}

	if err := m.api.RefreshAccessToken(ctx); err != nil {
		return m.terminate(ctx, err)
	}

	entry, err := m.store.Get(ctx)
	if err != nil || !entry.Present() {
		if err == nil {
			err = tokenstore.ErrIncompleteCredentials
		}
		return m.terminate(ctx, err)
	}

	exp, _ := entry.AccessExpiresAt()
	return m.apply(ctx, evRefresh, entry.User, exp)
}

// Verify asks the server who the stored credentials belong to. A 401 ends
// the session; other failures are returned and leave the session as is.
func (m *Manager) Verify(ctx context.Context) (*identity.User, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.requireAuthenticated(); err != nil {
		return nil, err
	}

	user, err := m.api.Me(ctx)
	if errors.Is(err, apiclient.ErrUnauthorized) || errors.Is(err, ErrSessionTerminated) {
		return nil, m.terminate(ctx, err)
	}
	if err != nil {
		return nil, err
	}

	if err := m.replaceStoredUser(ctx, user); err != nil {
		return nil, err
	}
	if err := m.apply(ctx, evProfile, user, m.currentExpiry()); err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

// UpdateProfile saves the profile and replaces the session user wholesale.
func (m *Manager) UpdateProfile(ctx context.Context, update apiclient.ProfileUpdate) (*identity.User, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.requireAuthenticated(); err != nil {
		return nil, err
	}

	user, err := m.api.UpdateProfile(ctx, update)
	if errors.Is(err, ErrSessionTerminated) {
		return nil, m.terminate(ctx, err)
	}
	if err != nil {
		return nil, err
	}

	if err := m.apply(ctx, evProfile, user, m.currentExpiry()); err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

// Register creates an account without logging in.
func (m *Manager) Register(ctx context.Context, req apiclient.RegisterRequest) error {
	return m.api.Register(ctx, req)
}

// ForgotPassword requests a password reset mail.
func (m *Manager) ForgotPassword(ctx context.Context, email string) error {
	return m.api.ForgotPassword(ctx, email)
}

// terminate forces the Anonymous state after an unrecoverable auth failure.
func (m *Manager) terminate(ctx context.Context, cause error) error {
	if err := m.store.Clear(ctx); err != nil {
		m.log.ErrorContext(ctx, "failed to clear token store", logger.Error(err))
	}
	if err := m.apply(ctx, evTerminate, nil, time.Time{}); err != nil {
		m.log.ErrorContext(ctx, "failed to terminate session", logger.Error(err))
	}
	m.log.WarnContext(ctx, "session terminated", logger.Error(cause))

	if errors.Is(cause, ErrSessionTerminated) {
		return cause
	}
	return errors.Join(ErrSessionTerminated, cause)
}

// logTransition runs inside apply with mu held; it must not read session
// fields guarded by mu.
func (m *Manager) logTransition(ctx context.Context, t statemachine.Transition[State, event]) {
	level := slog.LevelInfo
	if t.From == t.To {
		level = slog.LevelDebug
	}
	m.log.Log(ctx, level, "session state changed",
		logger.Transition(t.From.String(), t.To.String()),
		slog.String("event", string(t.Event)),
	)
}

// onTerminated follows a termination performed by the API client. It may run
// while an operation holds opMu, so it only takes mu.
func (m *Manager) onTerminated(ctx context.Context, cause error) {
	if !m.machine.Can(evTerminate) {
		return
	}
	if err := m.apply(ctx, evTerminate, nil, time.Time{}); err != nil {
		m.log.ErrorContext(ctx, "failed to follow session termination", logger.Error(err))
	}
}

// apply fires ev and installs user atomically with the new state.
func (m *Manager) apply(ctx context.Context, ev event, user *identity.User, exp time.Time) error {
	m.mu.Lock()
	before := m.snapshotLocked()
	if _, err := m.machine.Fire(ctx, ev); err != nil {
		m.mu.Unlock()
		return err
	}
	m.user = user.Clone()
	m.accessExp = exp
	if m.machine.Current() != StateAuthenticated {
		m.user = nil
		m.accessExp = time.Time{}
	}
	after := m.snapshotLocked()
	m.mu.Unlock()

	for _, fn := range m.observers {
		fn(before, after)
	}
	return nil
}

func (m *Manager) requireStarted() error {
	if m.machine.Current() == StateInitializing {
		return ErrNotStarted
	}
	return nil
}

func (m *Manager) requireAuthenticated() error {
	switch m.machine.Current() {
	case StateInitializing:
		return ErrNotStarted
	case StateAnonymous:
		return ErrNotAuthenticated
	}
	return nil
}

func (m *Manager) storedExpiry(ctx context.Context) time.Time {
	entry, err := m.store.Get(ctx)
	if err != nil {
		return time.Time{}
	}
	exp, _ := entry.AccessExpiresAt()
	return exp
}

func (m *Manager) currentExpiry() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessExp
}

func (m *Manager) replaceStoredUser(ctx context.Context, user *identity.User) error {
	entry, err := m.store.Get(ctx)
	if err != nil || !entry.Present() {
		return err
	}
	entry.User = user
	return m.store.Set(ctx, entry)
}
