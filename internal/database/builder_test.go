package database

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plyometrics/forcecloud/internal/client"
	"github.com/plyometrics/forcecloud/internal/logging"
	"github.com/plyometrics/forcecloud/internal/storage"
	"github.com/plyometrics/forcecloud/internal/table"
)

type window struct {
	from, to int64
}

// trialJSON builds a minimal raw trial the normalizer accepts.
func trialJSON(id string, ts int64, metric float64) string {
	return fmt.Sprintf(`{
		"id": %q, "active": true, "timestamp": %d, "segment": "CMJ:1",
		"testType": {"id": "tt1", "name": "Countermovement Jump", "canonicalId": "countermovement-jump", "tags": []},
		"athlete": {"id": "a1", "name": "Alex", "active": true, "teams": [], "groups": [], "external": {}},
		"jump_height_m": %g
	}`, id, ts, metric)
}

func testsBody(lastTest, lastSync int64, trials ...string) string {
	body := `{"count": ` + strconv.Itoa(len(trials)) +
		`, "lastTestTime": ` + strconv.FormatInt(lastTest, 10) +
		`, "lastSyncTime": ` + strconv.FormatInt(lastSync, 10) +
		`, "tests": [`
	for i, tr := range trials {
		if i > 0 {
			body += ","
		}
		body += tr
	}
	return body + `]}`
}

func loginHandler(w http.ResponseWriter) {
	json.NewEncoder(w).Encode(map[string]any{
		"accessToken": "access",
		"expiresAt":   time.Now().Add(time.Hour).Unix(),
	})
}

func TestBuild_WalksWindowsAndDeduplicates(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -30)

	var windows []window
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			loginHandler(w)
		case "/tests":
			q := r.URL.Query()
			from, _ := strconv.ParseInt(q.Get("from"), 10, 64)
			to, _ := strconv.ParseInt(q.Get("to"), 10, 64)
			windows = append(windows, window{from, to})

			switch len(windows) {
			case 1:
				// Newest bucket: t1 plus a fresh copy of t2.
				fmt.Fprint(w, testsBody(now.Unix(), now.Unix(),
					trialJSON("t1", now.Add(-24*time.Hour).Unix(), 0.41),
					trialJSON("t2", now.Add(-48*time.Hour).Unix(), 0.39)))
			case 2:
				// Middle bucket: t2 again (stale copy) plus t3.
				fmt.Fprint(w, testsBody(now.Unix(), now.Unix(),
					trialJSON("t2", now.Add(-48*time.Hour).Unix(), 0.10),
					trialJSON("t3", now.AddDate(0, 0, -20).Unix(), 0.33)))
			default:
				// Oldest bucket: legitimately empty.
				fmt.Fprint(w, testsBody(0, 0))
			}
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := client.New(logging.NewNopLogger(), client.WithHTTPClient(srv.Client()), client.WithBaseURL(srv.URL))
	require.NoError(t, c.Login(context.Background(), "refresh", client.RegionDev))

	b := NewBuilder(c, logging.NewNopLogger())
	b.now = func() time.Time { return now }

	out := t.TempDir() + "/tests.csv"
	err := b.Build(context.Background(), BuildOptions{
		StartDate:  start,
		TestType:   "all",
		OutputPath: out,
		Format:     storage.FormatCSV,
		WindowDays: 14,
	})
	require.NoError(t, err)

	// 30 days at 14-day windows: exactly 3 bucketed queries of 14, 14, 2 days.
	require.Len(t, windows, 3)
	assert.Equal(t, window{now.AddDate(0, 0, -14).Unix(), now.Unix()}, windows[0])
	assert.Equal(t, window{now.AddDate(0, 0, -28).Unix(), now.AddDate(0, 0, -14).Unix()}, windows[1])
	assert.Equal(t, window{start.Unix(), now.AddDate(0, 0, -28).Unix()}, windows[2])

	tbl, _, err := storage.Read(context.Background(), out)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 3)

	// No duplicate ids; the newest bucket's copy of t2 wins.
	seen := map[string]table.Row{}
	for _, row := range tbl.Rows {
		id := row["id"].(string)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = row
	}
	assert.Equal(t, 0.39, table.Number(seen["t2"]["jump_height_m"]))

	// Sorted by timestamp, descending.
	for i := 1; i < len(tbl.Rows); i++ {
		assert.GreaterOrEqual(t,
			table.Number(tbl.Rows[i-1]["timestamp"]),
			table.Number(tbl.Rows[i]["timestamp"]))
	}

	// Housekeeping columns carried from the envelope.
	assert.Equal(t, now.Unix(), int64(table.Number(seen["t1"][storage.ColLastSyncTime])))
	assert.Equal(t, now.Unix(), int64(table.Number(seen["t1"][storage.ColLastTestTime])))
}

func TestBuild_SurvivesErrorBuckets(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			loginHandler(w)
		case "/tests":
			calls++
			if calls == 1 {
				// Empty window reports as a zero count, which the
				// client surfaces as not-found.
				fmt.Fprint(w, testsBody(0, 0))
				return
			}
			fmt.Fprint(w, testsBody(now.Unix(), now.Unix(),
				trialJSON("t1", now.AddDate(0, 0, -20).Unix(), 0.41)))
		}
	}))
	defer srv.Close()

	c := client.New(logging.NewNopLogger(), client.WithHTTPClient(srv.Client()), client.WithBaseURL(srv.URL))
	require.NoError(t, c.Login(context.Background(), "refresh", client.RegionDev))

	b := NewBuilder(c, logging.NewNopLogger())
	b.now = func() time.Time { return now }

	out := t.TempDir() + "/tests.csv"
	err := b.Build(context.Background(), BuildOptions{
		StartDate:  now.AddDate(0, 0, -28),
		OutputPath: out,
		Format:     storage.FormatCSV,
		WindowDays: 14,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	tbl, _, err := storage.Read(context.Background(), out)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 1)
}

func TestBuild_ValidatesOptions(t *testing.T) {
	c := client.New(logging.NewNopLogger())
	b := NewBuilder(c, nil)

	err := b.Build(context.Background(), BuildOptions{OutputPath: "x.csv"})
	require.Error(t, err)

	err = b.Build(context.Background(), BuildOptions{StartDate: time.Now().AddDate(0, 0, -1)})
	require.Error(t, err)
}
