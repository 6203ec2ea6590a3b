package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/plyometrics/forcecloud/internal/common"
)

// request describes one API call. base and token are filled in from the
// session unless the caller (Login) sets them itself.
type request struct {
	method string
	base   string
	path   string
	query  url.Values
	body   any
	token  string
}

// do issues an authenticated request using the current session.
func (c *Client) do(ctx context.Context, req request, out any) error {
	sess, err := c.requireSession()
	if err != nil {
		return err
	}
	req.base = sess.BaseURL
	req.token = sess.AccessToken
	return c.doRaw(ctx, req, out)
}

// doRaw issues the request as described, maps the HTTP status onto the error
// taxonomy, and decodes the JSON body into out when the status is 200.
func (c *Client) doRaw(ctx context.Context, req request, out any) error {
	u := req.base + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Authorization", "Bearer "+req.token)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug(ctx, "api request", "method", req.method, "path", req.path, "requestId", requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.method, req.path, err)
	}
	return nil
}

// statusError maps an HTTP status onto the shared error taxonomy. Every
// endpoint uses the same mapping.
func statusError(code int) error {
	switch code {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: token invalid or expired, call Login again", common.ErrAuth)
	case http.StatusForbidden:
		return fmt.Errorf("%w: missing credential for this resource", common.ErrAuth)
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: contact support", common.ErrServer)
	default:
		return fmt.Errorf("%w: unexpected status %d", common.ErrServer, code)
	}
}
