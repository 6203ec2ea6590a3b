// Package client implements the ForceCloud HTTP API: login, organizational
// reference data, test-trial queries, and raw force-time samples. All calls
// are synchronous request-response with no retries; failures surface to the
// caller immediately as wrapped common sentinel errors.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/plyometrics/forcecloud/internal/common"
	"github.com/plyometrics/forcecloud/internal/logging"
)

// Client talks to one regional ForceCloud deployment on behalf of one
// authenticated organization. It is not safe for concurrent use: Login
// mutates the session every other method reads.
type Client struct {
	httpClient *http.Client
	log        logging.Logger
	session    Session

	// baseURLOverride, when set, replaces the region's base URL.
	baseURLOverride string

	// now is a test seam for session-expiry checks.
	now func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests and by
// callers that need custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock replaces the wall clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithBaseURL bypasses region resolution at Login time and talks to the
// given endpoint instead. Used against local or self-hosted deployments.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURLOverride = u }
}

// New returns a Client that must be logged in before use. A nil logger
// falls back to the default slog logger.
func New(log logging.Logger, opts ...Option) *Client {
	if log == nil {
		log = logging.Default()
	}
	c := &Client{
		httpClient: &http.Client{},
		log:        log.With("component", "forcecloud"),
		now:        time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   int64  `json:"expiresAt"`
}

// Login exchanges a refresh token for an access token at the region's token
// endpoint and stores the resulting session. It is the only mutator of
// session state. When the endpoint does not report an explicit expiry, the
// access token's registered exp claim is decoded instead (unverified; the
// client holds no signing key).
func (c *Client) Login(ctx context.Context, refreshToken string, region Region) error {
	if refreshToken == "" {
		return fmt.Errorf("%w: refresh token must not be empty", common.ErrValidation)
	}
	baseURL, err := region.BaseURL()
	if err != nil {
		return err
	}
	if c.baseURLOverride != "" {
		baseURL = c.baseURLOverride
	}

	var tok tokenResponse
	err = c.doRaw(ctx, request{
		method: http.MethodGet,
		base:   baseURL,
		path:   "/token",
		token:  refreshToken,
	}, &tok)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	expiresAt := time.Unix(tok.ExpiresAt, 0)
	if tok.ExpiresAt == 0 {
		expiresAt, err = tokenExpiry(tok.AccessToken)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	c.session = Session{
		AccessToken: tok.AccessToken,
		ExpiresAt:   expiresAt,
		BaseURL:     baseURL,
	}
	c.log.Info(ctx, "logged in",
		"region", string(region),
		"expiresAt", expiresAt.Local().Format(time.RFC1123))
	return nil
}

// tokenExpiry decodes the exp claim from an access token.
func tokenExpiry(accessToken string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: cannot decode access token: %v", common.ErrAuth, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: access token carries no expiry", common.ErrAuth)
	}
	return claims.ExpiresAt.Time, nil
}
