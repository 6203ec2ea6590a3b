package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/plyometrics/forcecloud/internal/common"
)

// Organizational reference-data endpoints. Each is one GET plus light
// reshaping; the response envelopes mirror the wire format.

func (c *Client) GetTeams(ctx context.Context) ([]Team, error) {
	var resp struct {
		Teams []Team `json:"teams"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/teams"}, &resp); err != nil {
		return nil, fmt.Errorf("get teams: %w", err)
	}
	return resp.Teams, nil
}

func (c *Client) GetGroups(ctx context.Context) ([]Group, error) {
	var resp struct {
		Groups []Group `json:"groups"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/groups"}, &resp); err != nil {
		return nil, fmt.Errorf("get groups: %w", err)
	}
	return resp.Groups, nil
}

func (c *Client) GetTags(ctx context.Context) ([]Tag, error) {
	var resp struct {
		Tags []Tag `json:"tags"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/tags"}, &resp); err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	return resp.Tags, nil
}

func (c *Client) GetTestTypes(ctx context.Context) ([]TestType, error) {
	var resp struct {
		TestTypes []TestType `json:"testTypes"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/test_types"}, &resp); err != nil {
		return nil, fmt.Errorf("get test types: %w", err)
	}
	return resp.TestTypes, nil
}

func (c *Client) GetMetrics(ctx context.Context) ([]MetricDefinition, error) {
	var resp struct {
		Metrics []MetricDefinition `json:"metrics"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/metrics"}, &resp); err != nil {
		return nil, fmt.Errorf("get metrics: %w", err)
	}
	return resp.Metrics, nil
}

// GetAthletes lists the organization's athletes. Inactive athletes are only
// included on request.
func (c *Client) GetAthletes(ctx context.Context, includeInactive bool) ([]Athlete, error) {
	q := url.Values{}
	if includeInactive {
		q.Set("includeInactive", strconv.FormatBool(true))
	}
	var resp struct {
		Athletes []Athlete `json:"athletes"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/athletes", query: q}, &resp); err != nil {
		return nil, fmt.Errorf("get athletes: %w", err)
	}
	return resp.Athletes, nil
}

// ResolveTestTypeID maps a test-type display name to its id. The literal
// "all" (or an empty name) resolves to no filter.
func (c *Client) ResolveTestTypeID(ctx context.Context, name string) (string, error) {
	if name == "" || name == "all" {
		return "", nil
	}
	types, err := c.GetTestTypes(ctx)
	if err != nil {
		return "", err
	}
	for _, tt := range types {
		if tt.Name == name || tt.ID == name || tt.CanonicalID == name {
			return tt.ID, nil
		}
	}
	return "", fmt.Errorf("%w: unknown test type %q", common.ErrValidation, name)
}
