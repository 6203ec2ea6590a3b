package client

import (
	"fmt"
	"time"

	"github.com/plyometrics/forcecloud/internal/common"
)

// Session holds the authenticated context produced by Login: the access
// token, when it stops being valid, and the resolved regional base URL.
// It is written only by Login and read by every other operation. There is no
// auto-refresh; once expired, the caller must Login again.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	BaseURL     string
}

// Valid reports whether the session exists and has not expired.
func (s Session) Valid(now time.Time) bool {
	return s.AccessToken != "" && now.Before(s.ExpiresAt)
}

// requireSession is called by every operation before touching the network.
func (c *Client) requireSession() (Session, error) {
	if !c.session.Valid(c.now()) {
		return Session{}, fmt.Errorf("%w: session not available or expired, call Login again", common.ErrAuth)
	}
	return c.session, nil
}

// Session returns a copy of the current session state.
func (c *Client) Session() Session { return c.session }
