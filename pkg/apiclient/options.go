package apiclient

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API root, e.g. https://hr.example.com/api.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		c.rawBaseURL = raw
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// wrapped, not replaced, so the bearer header is still injected.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Timeouts are reported as ErrNetwork.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithAutoRefresh makes resource calls recover from one 401 by refreshing the
// token pair and replaying the request once. Access tokens known to be
// expired are refreshed before the request is sent.
func WithAutoRefresh() Option {
	return func(c *Client) {
		c.autoRefresh = true
	}
}

// WithRetries retries idempotent reads that failed with a network or 5xx
// error up to n more times. A nil backoff uses exponential backoff.
func WithRetries(n int, b Backoff) Option {
	return func(c *Client) {
		if n < 0 {
			return
		}
		c.retries = n
		if b != nil {
			c.backoff = b
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}
