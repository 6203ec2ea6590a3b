package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/plyometrics/forcecloud/internal/common"
)

// NewAthlete is the payload for creating or updating an athlete. For updates
// the ID must be set; for creates it is assigned by the server.
type NewAthlete struct {
	ID       string            `json:"id,omitempty"`
	Name     string            `json:"name"`
	Active   *bool             `json:"active,omitempty"`
	Teams    []string          `json:"teams,omitempty"`
	Groups   []string          `json:"groups,omitempty"`
	External map[string]string `json:"external,omitempty"`
}

// AthleteWriteResult reports the outcome of a bulk athlete write: which
// payloads the server accepted and, per rejected payload, why.
type AthleteWriteResult struct {
	Accepted int               `json:"accepted"`
	Failures map[string]string `json:"failures"`
}

// CreateAthletes creates one or more athletes. A single athlete posts to
// /athletes; more than one posts to the bulk endpoint.
func (c *Client) CreateAthletes(ctx context.Context, athletes []NewAthlete) (*AthleteWriteResult, error) {
	if len(athletes) == 0 {
		return &AthleteWriteResult{}, nil
	}

	path := "/athletes/bulk"
	var body any = struct {
		Athletes []NewAthlete `json:"athletes"`
	}{athletes}
	if len(athletes) == 1 {
		path = "/athletes"
		body = athletes[0]
	}

	var result AthleteWriteResult
	err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &result)
	if err != nil {
		return nil, fmt.Errorf("create athletes: %w", err)
	}
	c.log.Info(ctx, "athletes created", "accepted", result.Accepted, "failed", len(result.Failures))
	return &result, nil
}

// UpdateAthletes updates existing athletes through the bulk endpoint.
// Each payload must carry the athlete id being updated.
func (c *Client) UpdateAthletes(ctx context.Context, athletes []NewAthlete) (*AthleteWriteResult, error) {
	if len(athletes) == 0 {
		return &AthleteWriteResult{}, nil
	}
	for _, a := range athletes {
		if a.ID == "" {
			return nil, fmt.Errorf("update athletes: %w: every athlete needs an id", common.ErrValidation)
		}
	}

	body := struct {
		Athletes []NewAthlete `json:"athletes"`
	}{athletes}

	var result AthleteWriteResult
	err := c.do(ctx, request{method: http.MethodPut, path: "/athletes/bulk", body: body}, &result)
	if err != nil {
		return nil, fmt.Errorf("update athletes: %w", err)
	}
	c.log.Info(ctx, "athletes updated", "accepted", result.Accepted, "failed", len(result.Failures))
	return &result, nil
}
