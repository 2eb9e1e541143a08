package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/hrportal/pkg/logger"
	"github.com/dmitrymomot/hrportal/pkg/tokenstore"
)

const (
	defaultBaseURL   = "http://localhost:3000/api"
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "hrportal/1.0"
	maxBodySize      = 4 << 20
)

// TerminationHook is called after the client cleared the store because the
// session could not be refreshed.
type TerminationHook func(ctx context.Context, cause error)

// Client talks to the HR backend.
type Client struct {
	rawBaseURL  string
	baseURL     *url.URL
	http        *http.Client
	store       tokenstore.Store
	log         *slog.Logger
	timeout     time.Duration
	userAgent   string
	autoRefresh bool
	retries     int
	backoff     Backoff

	// refreshMu serializes refreshes so concurrent 401s rotate the pair once.
	refreshMu sync.Mutex

	hooksMu  sync.Mutex
	hooks    map[uint64]TerminationHook
	nextHook uint64
}

// New creates a client that reads and writes credentials through store.
func New(store tokenstore.Store, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, errors.New("apiclient: nil token store")
	}
	c := &Client{
		rawBaseURL: defaultBaseURL,
		store:      store,
		log:        slog.New(slog.DiscardHandler),
		timeout:    defaultTimeout,
		userAgent:  defaultUserAgent,
		backoff:    defaultBackoff(),
		hooks:      make(map[uint64]TerminationHook),
	}
	for _, opt := range opts {
		opt(c)
	}

	u, err := url.Parse(strings.TrimSuffix(c.rawBaseURL, "/"))
	if err != nil {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.rawBaseURL)
	}
	c.baseURL = u

	var hc http.Client
	if c.http != nil {
		hc = *c.http
	}
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc.Transport = &bearerTransport{next: next, store: store, userAgent: c.userAgent}
	if hc.Timeout == 0 {
		hc.Timeout = c.timeout
	}
	c.http = &hc
	c.log = c.log.With(logger.Component("apiclient"))

	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Store returns the token store the client reads credentials from.
func (c *Client) Store() tokenstore.Store {
	return c.store
}

// OnSessionTerminated registers fn and returns a function that removes it.
func (c *Client) OnSessionTerminated(fn TerminationHook) (remove func()) {
	if fn == nil {
		return func() {}
	}
	c.hooksMu.Lock()
	id := c.nextHook
	c.nextHook++
	c.hooks[id] = fn
	c.hooksMu.Unlock()

	return func() {
		c.hooksMu.Lock()
		delete(c.hooks, id)
		c.hooksMu.Unlock()
	}
}

func (c *Client) terminated(ctx context.Context, cause error) {
	c.hooksMu.Lock()
	hooks := make([]TerminationHook, 0, len(c.hooks))
	for _, h := range c.hooks {
		hooks = append(hooks, h)
	}
	c.hooksMu.Unlock()

	for _, h := range hooks {
		h(ctx, cause)
	}
}

// call performs an authenticated request, applying the auto refresh policy.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if !c.autoRefresh || isSessionFlow(path) {
		return c.send(ctx, method, path, query, in, out)
	}

	used, err := c.ensureFresh(ctx)
	if err != nil {
		return err
	}

	err = c.send(ctx, method, path, query, in, out)
	if !errors.Is(err, ErrUnauthorized) || used == "" {
		// Without credentials a 401 only means "not signed in".
		return err
	}

	c.log.DebugContext(ctx, "access token rejected, refreshing", slog.String("path", path))
	if err := c.refreshAfter(ctx, used); err != nil {
		return err
	}
	return c.send(ctx, method, path, query, in, out)
}

// ensureFresh refreshes a locally known-expired access token and returns the
// token the next request will carry.
func (c *Client) ensureFresh(ctx context.Context) (string, error) {
	entry, err := c.store.Get(ctx)
	if err != nil || !entry.Present() {
		// Let the server reject the unauthenticated request.
		return "", nil
	}
	if !entry.AccessExpired(time.Now()) {
		return entry.AccessToken, nil
	}

	c.log.DebugContext(ctx, "access token expired locally, refreshing")
	if err := c.refreshAfter(ctx, entry.AccessToken); err != nil {
		return "", err
	}
	entry, err = c.store.Get(ctx)
	if err != nil {
		return "", err
	}
	return entry.AccessToken, nil
}

// refreshAfter refreshes unless another caller already rotated away from stale.
func (c *Client) refreshAfter(ctx context.Context, stale string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	entry, err := c.store.Get(ctx)
	if err == nil && entry.AccessToken != "" && entry.AccessToken != stale {
		return nil
	}
	return c.refreshLocked(ctx)
}

// send performs the request, retrying idempotent reads on transient failures.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("apiclient: encode request: %w", err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.retries
	}

	var err error
	for attempt := range attempts {
		if attempt > 0 {
			if werr := sleep(ctx, c.backoff.Delay(attempt)); werr != nil {
				return errors.Join(err, werr)
			}
			c.log.DebugContext(ctx, "retrying request",
				slog.String("method", method),
				slog.String("path", path),
				logger.RetryCount(attempt),
			)
		}
		err = c.roundTrip(ctx, method, path, query, body, out)
		if err == nil || !isRetryable(err) {
			return err
		}
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "request failed",
			slog.String("method", method),
			slog.String("path", path),
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
		return errors.Join(ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return errors.Join(ErrNetwork, err)
	}

	c.log.DebugContext(ctx, "request completed",
		slog.String("method", method),
		slog.String("path", path),
		logger.StatusCode(resp.StatusCode),
		logger.Duration(time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := decodeBody(data, out); err != nil {
		return errors.Join(ErrInvalidResponse, err)
	}
	return nil
}

// envelopeKeys are the only keys allowed next to "data" in a response
// wrapper; anything else means the object itself is the payload.
var envelopeKeys = map[string]bool{
	"data": true, "success": true, "message": true, "status": true,
	"meta": true, "pagination": true, "total": true, "count": true,
}

// decodeBody accepts both {"data": payload, ...} and a bare payload.
func decodeBody(data []byte, out any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err == nil {
		if inner, ok := fields["data"]; ok && isEnvelope(fields) {
			data = inner
		}
	}
	return json.Unmarshal(data, out)
}

func isEnvelope(fields map[string]json.RawMessage) bool {
	for k := range fields {
		if !envelopeKeys[k] {
			return false
		}
	}
	return true
}

// rawInto decodes one payload into several targets.
type rawInto []any

func (r rawInto) UnmarshalJSON(data []byte) error {
	for _, target := range r {
		if err := json.Unmarshal(data, target); err != nil {
			return err
		}
	}
	return nil
}
