package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plyometrics/forcecloud/internal/common"
	"github.com/plyometrics/forcecloud/internal/logging"
)

// newLoggedInClient returns a client with a valid session pointed at srv.
func newLoggedInClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c := New(logging.NewNopLogger(), WithHTTPClient(srv.Client()))
	c.session = Session{
		AccessToken: "test-token",
		ExpiresAt:   time.Now().Add(time.Hour),
		BaseURL:     srv.URL,
	}
	return c
}

func TestLogin_StoresSession(t *testing.T) {
	expires := time.Now().Add(30 * time.Minute).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token", r.URL.Path)
		require.Equal(t, "Bearer refresh-123", r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "access-456", ExpiresAt: expires})
	}))
	defer srv.Close()

	c := New(logging.NewNopLogger(), WithHTTPClient(srv.Client()), WithBaseURL(srv.URL))
	require.NoError(t, c.Login(context.Background(), "refresh-123", RegionAmericas))

	sess := c.Session()
	assert.Equal(t, "access-456", sess.AccessToken)
	assert.Equal(t, time.Unix(expires, 0), sess.ExpiresAt)
	assert.Equal(t, srv.URL, sess.BaseURL)
}

func TestLogin_DecodesExpiryFromToken(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := tok.SignedString([]byte("server-side-secret"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: signed})
	}))
	defer srv.Close()

	c := New(logging.NewNopLogger(), WithHTTPClient(srv.Client()), WithBaseURL(srv.URL))
	require.NoError(t, c.Login(context.Background(), "refresh-123", RegionEurope))
	assert.True(t, c.Session().ExpiresAt.Equal(exp))
}

func TestLogin_EmptyRefreshToken(t *testing.T) {
	c := New(logging.NewNopLogger())
	err := c.Login(context.Background(), "", RegionAmericas)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestLogin_UnknownRegion(t *testing.T) {
	c := New(logging.NewNopLogger())
	err := c.Login(context.Background(), "refresh-123", Region("Atlantis"))
	require.ErrorIs(t, err, common.ErrConfig)
}

func TestLogin_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, common.ErrAuth},
		{http.StatusForbidden, common.ErrAuth},
		{http.StatusInternalServerError, common.ErrServer},
	}
	for _, tc := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		c := New(logging.NewNopLogger(), WithHTTPClient(srv.Client()), WithBaseURL(srv.URL))
		err := c.Login(context.Background(), "refresh-123", RegionAmericas)
		require.ErrorIs(t, err, tc.want, "status %d", tc.status)

		// Failed login must not mutate session state.
		assert.False(t, c.Session().Valid(time.Now()))
		srv.Close()
	}
}

func TestOperations_RequireValidSession(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	c := newLoggedInClient(t, srv)
	c.session.ExpiresAt = time.Now().Add(-time.Minute)

	_, err := c.GetTeams(context.Background())
	require.ErrorIs(t, err, common.ErrAuth)
	assert.Contains(t, err.Error(), "call Login again")
	assert.Zero(t, hits, "expired session must not reach the network")
}

func TestSession_ValidAfterLoginExpiredLater(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tokenResponse{
			AccessToken: "access",
			ExpiresAt:   time.Now().Add(time.Hour).Unix(),
		})
	}))
	defer srv.Close()

	c := New(logging.NewNopLogger(), WithHTTPClient(srv.Client()), WithBaseURL(srv.URL))
	require.NoError(t, c.Login(context.Background(), "refresh-123", RegionAmericas))
	assert.True(t, c.Session().Valid(time.Now()))
	assert.False(t, c.Session().Valid(time.Now().Add(2*time.Hour)))
}

func TestParseRegion(t *testing.T) {
	tests := []struct {
		in      string
		want    Region
		wantErr bool
	}{
		{"Americas", RegionAmericas, false},
		{"eu", RegionEurope, false},
		{"apac", RegionAsiaPacific, false},
		{"Dev", RegionDev, false},
		{"mars", "", true},
	}
	for _, tc := range tests {
		got, err := ParseRegion(tc.in)
		if tc.wantErr {
			require.ErrorIs(t, err, common.ErrConfig, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestRegion_DistinctHosts(t *testing.T) {
	seen := map[string]Region{}
	for r := range regionBaseURLs {
		u, err := r.BaseURL()
		require.NoError(t, err)
		if prev, dup := seen[u]; dup {
			t.Fatalf("regions %s and %s share base URL %s", prev, r, u)
		}
		seen[u] = r
	}
}
