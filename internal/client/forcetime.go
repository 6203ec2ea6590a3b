package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/plyometrics/forcecloud/internal/common"
	"github.com/plyometrics/forcecloud/internal/table"
)

// Force-time result column names.
const (
	ColTime          = "time_s"
	ColForceRight    = "force_right"
	ColForceLeft     = "force_left"
	ColForceCombined = "force_combined"
	ColVelocity      = "velocity_m_s"
	ColDisplacement  = "displacement_m"
	ColPower         = "power_w"
)

// Wire keys of the sample arrays in a force-time payload.
const (
	keyTime          = "Time(s)"
	keyForceRight    = "RightForce(N)"
	keyForceLeft     = "LeftForce(N)"
	keyForceCombined = "CombinedForce(N)"
	keyVelocity      = "Velocity(m/s)"
	keyDisplacement  = "Displacement(m)"
	keyPower         = "Power(W)"
)

// Tri-axial arrays: per-axis left/right forces and moments. These are
// included in the result only when the payload carries non-empty arrays;
// otherwise the column is absent, not null.
var triaxialColumns = []struct {
	key string
	col string
}{
	{"LeftForceX(N)", "force_left_x"},
	{"LeftForceY(N)", "force_left_y"},
	{"RightForceX(N)", "force_right_x"},
	{"RightForceY(N)", "force_right_y"},
	{"LeftMomentX(Nm)", "moment_left_x"},
	{"LeftMomentY(Nm)", "moment_left_y"},
	{"RightMomentX(Nm)", "moment_right_x"},
	{"RightMomentY(Nm)", "moment_right_y"},
}

// forceTimeCategory selects which primary columns a test type's force-time
// trace carries.
type forceTimeCategory int

const (
	// categoryFull: left/right/combined force plus velocity, displacement
	// and power (jump protocols).
	categoryFull forceTimeCategory = iota
	// categoryCombined: combined force only (running and weigh-in
	// protocols recorded on a single summed channel).
	categoryCombined
	// categoryReduced: per-plate and combined force without the derived
	// kinematics (isometric protocols).
	categoryReduced
)

// categoryByCanonicalID is a static lookup keyed by canonical test-type id.
// Unknown ids fall back to the full set.
var categoryByCanonicalID = map[string]forceTimeCategory{
	"countermovement-jump":     categoryFull,
	"squat-jump":               categoryFull,
	"drop-jump":                categoryFull,
	"multi-rebound":            categoryFull,
	"cmj-rebound":              categoryFull,
	"land-and-hold":            categoryFull,
	"free-run":                 categoryCombined,
	"sprint":                   categoryCombined,
	"weigh-in":                 categoryCombined,
	"isometric-mid-thigh-pull": categoryReduced,
	"isometric-squat":          categoryReduced,
	"quiet-stand":              categoryReduced,
}

// primaryColumns lists the populated primary columns per category, in result
// order.
var primaryColumns = map[forceTimeCategory][]struct {
	key string
	col string
}{
	categoryFull: {
		{keyForceRight, ColForceRight},
		{keyForceLeft, ColForceLeft},
		{keyForceCombined, ColForceCombined},
		{keyVelocity, ColVelocity},
		{keyDisplacement, ColDisplacement},
		{keyPower, ColPower},
	},
	categoryCombined: {
		{keyForceCombined, ColForceCombined},
	},
	categoryReduced: {
		{keyForceRight, ColForceRight},
		{keyForceLeft, ColForceLeft},
		{keyForceCombined, ColForceCombined},
	},
}

type forceTimeResponse struct {
	TestID              string               `json:"testId"`
	CanonicalTestTypeID string               `json:"canonicalTestTypeId"`
	Samples             map[string][]float64 `json:"samples"`
}

// GetForceTime fetches one trial's raw per-millisecond samples and assembles
// a time-series table. The column set is a static function of the trial's
// canonical test-type id; primary arrays the server omitted are backfilled
// with zeros to the length of the time array rather than failing.
func (c *Client) GetForceTime(ctx context.Context, testID string) (*table.Table, error) {
	if testID == "" {
		return nil, fmt.Errorf("get force-time: %w: test id must not be empty", common.ErrValidation)
	}

	var resp forceTimeResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/forcetime/" + testID}, &resp)
	if err != nil {
		return nil, fmt.Errorf("get force-time %s: %w", testID, err)
	}

	times := resp.Samples[keyTime]
	if len(times) == 0 {
		return nil, fmt.Errorf("get force-time %s: %w: payload has no time array", testID, common.ErrServer)
	}

	category := categoryByCanonicalID[resp.CanonicalTestTypeID]

	cols := []string{ColTime}
	series := [][]float64{times}
	for _, pc := range primaryColumns[category] {
		vals := resp.Samples[pc.key]
		if len(vals) == 0 {
			vals = make([]float64, len(times))
		}
		cols = append(cols, pc.col)
		series = append(series, vals)
	}
	for _, tc := range triaxialColumns {
		vals := resp.Samples[tc.key]
		if len(vals) == 0 {
			continue
		}
		cols = append(cols, tc.col)
		series = append(series, vals)
	}

	tbl := table.New(cols...)
	for i := range times {
		row := make(table.Row, len(cols))
		for j, col := range cols {
			if i < len(series[j]) {
				row[col] = series[j][i]
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	c.log.Info(ctx, "force-time fetched", "testId", testID, "samples", len(times), "columns", len(cols))
	return tbl, nil
}
