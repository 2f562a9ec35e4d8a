// Package api is the outbound HTTP surface of the PlanHub client. A
// single Client wraps every call with bearer-token attachment and a
// one-shot token renewal on 401; endpoint wrappers in the sibling files
// map the REST surface onto typed requests and responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"planhub.org/internal/audit"
	"planhub.org/internal/creds"
	"planhub.org/internal/ids"
	"planhub.org/internal/jwtclaims"
	"planhub.org/internal/obs"
)

const (
	defaultTimeout = 15 * time.Second
	userAgent      = "planhub-client"

	// renewWindow: access tokens expiring this close to now are renewed
	// before the request instead of waiting for the 401 round trip.
	renewWindow = 30 * time.Second
)

// Client is the single outbound-call surface. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	creds   creds.Store
	limiter *rate.Limiter
	now     func() time.Time

	// renewMu serializes token renewal so N concurrent 401s produce at
	// most one refresh call.
	renewMu sync.Mutex

	onSessionExpired func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit throttles outbound calls with a token bucket.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithClock overrides the time source (tests).
func WithClock(fn func() time.Time) Option {
	return func(c *Client) {
		if fn != nil {
			c.now = fn
		}
	}
}

// WithSessionExpiredHook runs fn after a failed renewal purges the
// stored tokens. The CLI uses it to point the user back at login.
func WithSessionExpiredHook(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// New creates a client for the backend at baseURL, reading and writing
// tokens through store.
func New(baseURL string, store creds.Store, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api: base URL is required")
	}
	if store == nil {
		return nil, errors.New("api: credential store is required")
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		creds:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.exec(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.exec(ctx, http.MethodPost, path, body, "application/json", out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.exec(ctx, http.MethodPut, path, body, "application/json", out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.exec(ctx, http.MethodDelete, path, nil, "", nil)
}

// exec performs one logical call: attach credentials, send, renew the
// access token on 401 and resubmit at most once, decode the result.
// The retried flag lives here as a local, not as request mutation.
func (c *Client) exec(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return transportError(path, err)
		}
	}

	// The idempotency key spans both attempts so a renewal-driven
	// resubmission cannot double-apply a mutation.
	idemKey := ""
	if method != http.MethodGet {
		idemKey = uuid.NewString()
	}
	requestID := ids.Request()

	c.maybeRenewEarly(ctx)

	retried := false
	for {
		resp, usedAccess, err := c.send(ctx, method, path, body, contentType, idemKey, requestID)
		if err != nil {
			return transportError(path, err)
		}

		if resp.StatusCode == http.StatusUnauthorized && !retried {
			retried = true
			apiErr := decodeError(path, resp)
			resp.Body.Close()

			renewErr := c.renewAccess(ctx, usedAccess)
			if renewErr == nil {
				continue
			}
			if errors.Is(renewErr, errNoRefresh) {
				// Nothing to renew with: the original failure stands.
				return apiErr
			}
			return renewErr
		}

		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return decodeError(path, resp)
		}
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return transportError(path, fmt.Errorf("decode response: %w", err))
		}
		return nil
	}
}

// send builds and executes a single HTTP attempt, attaching the stored
// access token if one exists. It returns the token it attached so the
// renewal path can tell whether another caller already rotated it.
func (c *Client) send(ctx context.Context, method, path string, body []byte, contentType, idemKey, requestID string) (*http.Response, string, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}

	pair, err := c.creds.Load()
	if err != nil {
		return nil, "", fmt.Errorf("load credentials: %w", err)
	}
	if pair.Access != "" {
		req.Header.Set("Authorization", "Bearer "+pair.Access)
	}

	done := obs.RequestStarted()
	start := c.now()
	resp, err := c.http.Do(req)
	done()
	if err != nil {
		obs.ObserveRequest(method, path, 0, c.now().Sub(start))
		return nil, pair.Access, err
	}
	obs.ObserveRequest(method, path, resp.StatusCode, c.now().Sub(start))
	return resp, pair.Access, nil
}

// maybeRenewEarly renews the access token before a request when it is
// about to expire. Best effort: any failure defers to the 401 path.
func (c *Client) maybeRenewEarly(ctx context.Context) {
	pair, err := c.creds.Load()
	if err != nil || pair.Access == "" || pair.Refresh == "" {
		return
	}
	claims, err := jwtclaims.Peek(pair.Access)
	if err != nil {
		return
	}
	if !claims.ExpiresWithin(c.now(), renewWindow) {
		return
	}
	_ = c.renewAccess(ctx, pair.Access)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// renewAccess exchanges the refresh token for a new access token.
// Serialized: concurrent 401s block here, and whoever enters second
// finds the token already rotated and skips the network call. A
// rejected renewal is fatal to the session: both tokens are purged.
func (c *Client) renewAccess(ctx context.Context, failedAccess string) error {
	c.renewMu.Lock()
	defer c.renewMu.Unlock()

	pair, err := c.creds.Load()
	if err != nil {
		return transportError(refreshPath, fmt.Errorf("load credentials: %w", err))
	}
	if pair.Access != "" && pair.Access != failedAccess {
		obs.ObserveRenewal("skipped")
		return nil
	}
	if pair.Refresh == "" {
		return errNoRefresh
	}

	body, err := json.Marshal(refreshRequest{Refresh: pair.Refresh})
	if err != nil {
		return fmt.Errorf("encode refresh request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-Id", ids.Request())

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		obs.ObserveRequest(http.MethodPost, refreshPath, 0, c.now().Sub(start))
		return c.expireSession(ctx, fmt.Errorf("refresh call: %w", err))
	}
	defer resp.Body.Close()
	obs.ObserveRequest(http.MethodPost, refreshPath, resp.StatusCode, c.now().Sub(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.expireSession(ctx, decodeError(refreshPath, resp))
	}

	var renewed refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&renewed); err != nil {
		return c.expireSession(ctx, fmt.Errorf("decode refresh response: %w", err))
	}
	if renewed.Access == "" {
		return c.expireSession(ctx, errors.New("refresh response missing access token"))
	}
	if err := c.creds.SetAccess(renewed.Access); err != nil {
		return fmt.Errorf("store renewed token: %w", err)
	}
	obs.ObserveRenewal("success")
	_ = audit.Log(ctx, "auth.token.renewed", nil)
	return nil
}

// expireSession purges both tokens and notifies the UI layer that the
// user must authenticate again.
func (c *Client) expireSession(ctx context.Context, cause error) error {
	obs.ObserveRenewal("failure")
	if err := c.creds.Clear(); err != nil {
		obs.Event("auth.credentials.clear.failed", map[string]any{"error": err.Error()})
	}
	_ = audit.Log(ctx, "auth.session.expired", map[string]any{"cause": cause.Error()})
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
	return fmt.Errorf("%w: %v", ErrSessionExpired, cause)
}
