package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials is the access/refresh token pair. Both values are opaque to the
// client; the pair is created on login, rotated on refresh, deleted on logout.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Complete reports whether both tokens are present. A lone access token or a
// lone refresh token is never a valid resting state.
func (c Credentials) Complete() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}

// Empty reports whether neither token is present.
func (c Credentials) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// AccessExpiresAt returns the exp claim of the access token when it is a JWT.
// The signature is not verified: the value is a hint for scheduling refreshes,
// never an authorization decision.
func (c Credentials) AccessExpiresAt() (time.Time, bool) {
	if c.AccessToken == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.AccessToken, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// AccessExpired reports whether the access token is known to be expired at now.
// Opaque tokens and JWTs without exp are never reported as expired.
func (c Credentials) AccessExpired(now time.Time) bool {
	exp, ok := c.AccessExpiresAt()
	return ok && !now.Before(exp)
}
