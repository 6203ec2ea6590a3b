package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Tag labels a test type (e.g. "baseline", "return-to-play").
type Tag struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TestType describes one test protocol. CanonicalID is stable across renames
// and keys the force-time column-set lookup.
type TestType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CanonicalID string `json:"canonicalId"`
	Tags        []Tag  `json:"tags"`
}

// Athlete is one athlete in the organization. External maps a third-party
// provider name to that provider's id for this athlete.
type Athlete struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Active   bool              `json:"active"`
	Teams    []string          `json:"teams"`
	Groups   []string          `json:"groups"`
	External map[string]string `json:"external"`
}

// Team and Group are organizational containers for athletes.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MetricDefinition describes one metric a test type can produce.
type MetricDefinition struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Units      string `json:"units"`
	TestTypeID string `json:"testTypeId"`
}

// Metric is one named result value on a trial. A nil Value means the server
// reported the metric as null for this trial.
type Metric struct {
	Name  string
	Value *float64
}

// Trial is one executed test instance. Metrics preserves the server's key
// order, since the column-ordering contract of the flattened row depends on
// it and JSON maps would lose it.
type Trial struct {
	ID        string
	Active    bool
	Timestamp int64
	Segment   string
	TestType  TestType
	Athlete   Athlete
	Metrics   []Metric
}

// trialStructuralFields are the keys handled specially by UnmarshalJSON;
// every other key on a trial object is a metric.
var trialStructuralFields = map[string]struct{}{
	"id": {}, "active": {}, "timestamp": {}, "segment": {},
	"testType": {}, "athlete": {},
}

// UnmarshalJSON walks the trial object token by token so metric keys keep
// the order the server sent them in.
func (t *Trial) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("trial: expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("trial field %q: %w", key, err)
		}

		if _, structural := trialStructuralFields[key]; !structural {
			var v *float64
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("trial metric %q: %w", key, err)
			}
			t.Metrics = append(t.Metrics, Metric{Name: key, Value: v})
			continue
		}

		var dst any
		switch key {
		case "id":
			dst = &t.ID
		case "active":
			dst = &t.Active
		case "timestamp":
			dst = &t.Timestamp
		case "segment":
			dst = &t.Segment
		case "testType":
			dst = &t.TestType
		case "athlete":
			dst = &t.Athlete
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("trial field %q: %w", key, err)
		}
	}

	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
