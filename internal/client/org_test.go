package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plyometrics/forcecloud/internal/common"
)

func TestGetAthletes_IncludeInactiveParam(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(`{"athletes": [{"id": "a1", "name": "Alex", "active": true}]}`))
	}))
	defer srv.Close()
	c := newLoggedInClient(t, srv)

	athletes, err := c.GetAthletes(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, athletes, 1)
	assert.Empty(t, query)

	_, err = c.GetAthletes(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "includeInactive=true", query)
}

func TestResolveTestTypeID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"testTypes": [
			{"id": "tt1", "name": "Countermovement Jump", "canonicalId": "countermovement-jump"},
			{"id": "tt2", "name": "Squat Jump", "canonicalId": "squat-jump"}
		]}`))
	}))
	defer srv.Close()
	c := newLoggedInClient(t, srv)
	ctx := context.Background()

	id, err := c.ResolveTestTypeID(ctx, "all")
	require.NoError(t, err)
	assert.Empty(t, id, "all resolves to no filter without a network call")

	id, err = c.ResolveTestTypeID(ctx, "Squat Jump")
	require.NoError(t, err)
	assert.Equal(t, "tt2", id)

	id, err = c.ResolveTestTypeID(ctx, "countermovement-jump")
	require.NoError(t, err)
	assert.Equal(t, "tt1", id)

	_, err = c.ResolveTestTypeID(ctx, "Handstand")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestCreateAthletes_SingleVersusBulkPath(t *testing.T) {
	var path string
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ = io.ReadAll(r.Body)
		require.Equal(t, http.MethodPost, r.Method)
		json.NewEncoder(w).Encode(AthleteWriteResult{Accepted: 1})
	}))
	defer srv.Close()
	c := newLoggedInClient(t, srv)
	ctx := context.Background()

	_, err := c.CreateAthletes(ctx, []NewAthlete{{Name: "Alex"}})
	require.NoError(t, err)
	assert.Equal(t, "/athletes", path)
	assert.JSONEq(t, `{"name": "Alex"}`, string(body))

	_, err = c.CreateAthletes(ctx, []NewAthlete{{Name: "Alex"}, {Name: "Bo"}})
	require.NoError(t, err)
	assert.Equal(t, "/athletes/bulk", path)
}

func TestUpdateAthletes_RequiresIDs(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()
	c := newLoggedInClient(t, srv)

	_, err := c.UpdateAthletes(context.Background(), []NewAthlete{{Name: "Alex"}})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, hits)
}

func TestUpdateAthletes_UsesBulkPut(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		json.NewEncoder(w).Encode(AthleteWriteResult{Accepted: 1})
	}))
	defer srv.Close()
	c := newLoggedInClient(t, srv)

	_, err := c.UpdateAthletes(context.Background(), []NewAthlete{{ID: "a1", Name: "Alex"}})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/athletes/bulk", path)
}
