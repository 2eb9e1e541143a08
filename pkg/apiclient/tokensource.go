package apiclient

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// TokenSource exposes the stored credentials as an oauth2.TokenSource so the
// access token can be handed to other HTTP clients. Tokens known to be
// expired are refreshed first.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &storeTokenSource{ctx: ctx, c: c}
}

type storeTokenSource struct {
	ctx context.Context
	c   *Client
}

func (s *storeTokenSource) Token() (*oauth2.Token, error) {
	entry, err := s.c.store.Get(s.ctx)
	if err != nil {
		return nil, err
	}
	if !entry.Present() {
		return nil, ErrNotAuthenticated
	}

	if entry.AccessExpired(time.Now()) {
		if err := s.c.refreshAfter(s.ctx, entry.AccessToken); err != nil {
			return nil, err
		}
		if entry, err = s.c.store.Get(s.ctx); err != nil {
			return nil, err
		}
	}

	tok := &oauth2.Token{
		AccessToken:  entry.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: entry.RefreshToken,
	}
	if exp, ok := entry.AccessExpiresAt(); ok {
		tok.Expiry = exp
	}
	return tok, nil
}
