package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/plyometrics/forcecloud/internal/common"
	"github.com/plyometrics/forcecloud/internal/table"
)

// TestFilter parameterizes ListTests. Zero times mean "unbounded".
//
// At most one of AthleteID, TypeID, TeamIDs, GroupIDs may be set; the server
// does not combine id filters and the client rejects such requests before any
// network call.
//
// With Sync set, From/To select trials created or modified in the window
// (the incremental filter); otherwise they bound the trial timestamp itself.
type TestFilter struct {
	From time.Time
	To   time.Time
	Sync bool

	// IncludeInactive keeps trials with active == false. The server always
	// returns them; the filter is applied client-side after parsing.
	IncludeInactive bool

	AthleteID string
	TypeID    string
	TeamIDs   []string
	GroupIDs  []string
}

func (f TestFilter) validate() error {
	set := 0
	if f.AthleteID != "" {
		set++
	}
	if f.TypeID != "" {
		set++
	}
	if len(f.TeamIDs) > 0 {
		set++
	}
	if len(f.GroupIDs) > 0 {
		set++
	}
	if set > 1 {
		return fmt.Errorf("%w: at most one of athlete, test type, team, group may be filtered at once", common.ErrValidation)
	}
	return nil
}

func (f TestFilter) query() url.Values {
	q := url.Values{}
	fromKey, toKey := "from", "to"
	if f.Sync {
		fromKey, toKey = "syncFrom", "syncTo"
	}
	if !f.From.IsZero() {
		q.Set(fromKey, strconv.FormatInt(f.From.Unix(), 10))
	}
	if !f.To.IsZero() {
		q.Set(toKey, strconv.FormatInt(f.To.Unix(), 10))
	}
	if f.AthleteID != "" {
		q.Set("athleteId", f.AthleteID)
	}
	if f.TypeID != "" {
		q.Set("testTypeId", f.TypeID)
	}
	if len(f.TeamIDs) > 0 {
		q.Set("teamId", strings.Join(f.TeamIDs, ","))
	}
	if len(f.GroupIDs) > 0 {
		q.Set("groupId", strings.Join(f.GroupIDs, ","))
	}
	return q
}

// TestResult is the flattened outcome of one tests query: one row per trial
// plus the server's watermarks for incremental syncing.
type TestResult struct {
	Table        *table.Table
	LastSyncTime time.Time
	LastTestTime time.Time
}

type testsResponse struct {
	Count        int     `json:"count"`
	Tests        []Trial `json:"tests"`
	LastSyncTime int64   `json:"lastSyncTime"`
	LastTestTime int64   `json:"lastTestTime"`
}

// ListTests is the parameterized trial listing every other bulk operation is
// built on. A query the server reports as empty fails with ErrNotFound
// rather than returning an empty table; the database builder depends on
// treating that as an empty window.
func (c *Client) ListTests(ctx context.Context, filter TestFilter) (*TestResult, error) {
	if err := filter.validate(); err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}

	var resp testsResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/tests", query: filter.query()}, &resp)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	if resp.Count == 0 {
		return nil, fmt.Errorf("list tests: %w: no tests matched the query", common.ErrNotFound)
	}

	tbl := table.New(StructuralColumns()...)
	for i := range resp.Tests {
		tr := &resp.Tests[i]
		if !filter.IncludeInactive && !tr.Active {
			continue
		}
		row, cols := NormalizeTrial(tr)
		tbl.Append(row, cols...)
	}

	result := &TestResult{
		Table:        tbl,
		LastSyncTime: time.Unix(resp.LastSyncTime, 0),
		LastTestTime: time.Unix(resp.LastTestTime, 0),
	}
	c.log.Info(ctx, "tests fetched",
		"count", len(tbl.Rows),
		"lastTestTime", result.LastTestTime.Local().Format(time.RFC1123),
		"lastSyncTime", result.LastSyncTime.Local().Format(time.RFC1123))
	return result, nil
}
