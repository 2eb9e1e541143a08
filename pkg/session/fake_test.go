package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/identity"
	"github.com/dmitrymomot/hrportal/pkg/rbac"
	"github.com/dmitrymomot/hrportal/pkg/tokenstore"
)

// fakeAPI mimics the API client's effect on the store without a network.
// Failing calls do not clean the store, so the manager's own cleanup is
// what the tests observe.
type fakeAPI struct {
	store tokenstore.Store

	mu         sync.Mutex
	loginUser  *identity.User
	loginErr   error
	logoutErr  error
	refreshErr error
	meUser     *identity.User
	meErr      error
	profileErr error
	calls      map[string]int
}

func newFakeAPI(store tokenstore.Store) *fakeAPI {
	return &fakeAPI{
		store:     store,
		loginUser: &identity.User{ID: "1", Name: "Ana", Role: rbac.RoleAdmin},
		calls:     make(map[string]int),
	}
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*identity.User, error) {
	f.record("login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	err := f.store.Set(ctx, tokenstore.Entry{
		Credentials: identity.Credentials{AccessToken: "t1", RefreshToken: "r1"},
		User:        f.loginUser,
	})
	return f.loginUser.Clone(), err
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.record("logout")
	if f.logoutErr != nil {
		return f.logoutErr
	}
	return f.store.Clear(ctx)
}

func (f *fakeAPI) RefreshAccessToken(ctx context.Context) error {
	f.record("refresh")
	if f.refreshErr != nil {
		return f.refreshErr
	}
	entry, err := f.store.Get(ctx)
	if err != nil {
		return err
	}
	if !entry.Present() {
		return apiclient.ErrNoRefreshToken
	}
	entry.AccessToken += "'"
	entry.RefreshToken += "'"
	return f.store.Set(ctx, entry)
}

func (f *fakeAPI) Me(ctx context.Context) (*identity.User, error) {
	f.record("me")
	return f.meUser.Clone(), f.meErr
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, update apiclient.ProfileUpdate) (*identity.User, error) {
	f.record("profile")
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	entry, err := f.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	user := entry.User.Clone()
	user.Name = update.Name
	entry.User = user
	return user.Clone(), f.store.Set(ctx, entry)
}

func (f *fakeAPI) Register(ctx context.Context, req apiclient.RegisterRequest) error {
	f.record("register")
	return nil
}

func (f *fakeAPI) ForgotPassword(ctx context.Context, email string) error {
	f.record("forgot")
	return nil
}

// brokenStore fails every read.
type brokenStore struct {
	tokenstore.MemoryStore
	cleared int
}

func (b *brokenStore) Get(ctx context.Context) (tokenstore.Entry, error) {
	return tokenstore.Entry{}, errors.New("disk on fire")
}

func (b *brokenStore) Clear(ctx context.Context) error {
	b.cleared++
	return nil
}

func seedStore(t *testing.T, role rbac.Role) *tokenstore.MemoryStore {
	t.Helper()
	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), tokenstore.Entry{
		Credentials: identity.Credentials{AccessToken: "t0", RefreshToken: "r0"},
		User:        &identity.User{ID: "9", Name: "Stored", Role: role},
	}))
	return store
}

func storedEntry(t *testing.T, store tokenstore.Store) tokenstore.Entry {
	t.Helper()
	entry, err := store.Get(context.Background())
	require.NoError(t, err)
	return entry
}
