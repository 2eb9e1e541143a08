package guard_test

import (
	"context"

	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/identity"
)

type stubAPI struct{}

func (stubAPI) Login(context.Context, string, string) (*identity.User, error) {
	return nil, apiclient.ErrUnauthorized
}
func (stubAPI) Logout(context.Context) error             { return nil }
func (stubAPI) RefreshAccessToken(context.Context) error { return apiclient.ErrNoRefreshToken }
func (stubAPI) Me(context.Context) (*identity.User, error) {
	return nil, apiclient.ErrUnauthorized
}
func (stubAPI) UpdateProfile(context.Context, apiclient.ProfileUpdate) (*identity.User, error) {
	return nil, apiclient.ErrUnauthorized
}
func (stubAPI) Register(context.Context, apiclient.RegisterRequest) error { return nil }
func (stubAPI) ForgotPassword(context.Context, string) error              { return nil }
