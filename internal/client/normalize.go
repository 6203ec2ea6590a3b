package client

import (
	"sort"

	"github.com/plyometrics/forcecloud/internal/table"
)

// Flattened-row column names for the structural part of a trial. Metric
// columns follow these, in server order.
const (
	ColID        = "id"
	ColActive    = "active"
	ColTimestamp = "timestamp"
	ColSegment   = "segment"

	ColTestTypeID        = "testType_id"
	ColTestTypeName      = "testType_name"
	ColTestTypeCanonical = "testType_canonicalId"
	ColTestTypeTagIDs    = "testType_tags_id"
	ColTestTypeTagNames  = "testType_tags_name"
	ColTestTypeTagDescs  = "testType_tags_desc"

	ColAthleteID       = "athlete_id"
	ColAthleteName     = "athlete_name"
	ColAthleteActive   = "athlete_active"
	ColAthleteTeams    = "athlete_teams"
	ColAthleteGroups   = "athlete_groups"
	ColAthleteExternal = "athlete_external"
)

// structuralColumns is the fixed column prefix of every flattened trial row:
// id/active/timestamp/segment first, then testType_*, then athlete_*.
var structuralColumns = []string{
	ColID, ColActive, ColTimestamp, ColSegment,
	ColTestTypeID, ColTestTypeName, ColTestTypeCanonical,
	ColTestTypeTagIDs, ColTestTypeTagNames, ColTestTypeTagDescs,
	ColAthleteID, ColAthleteName, ColAthleteActive,
	ColAthleteTeams, ColAthleteGroups, ColAthleteExternal,
}

// StructuralColumns returns the fixed column prefix of a flattened trial row.
func StructuralColumns() []string {
	return append([]string{}, structuralColumns...)
}

// IsStructuralColumn reports whether col belongs to the fixed prefix rather
// than the open metric set.
func IsStructuralColumn(col string) bool {
	for _, c := range structuralColumns {
		if c == col {
			return true
		}
	}
	return false
}

// NormalizeTrial projects a trial onto a flat row. List-valued fields
// collapse to delimited strings per the table package's flattening rules;
// metric values land under their server-assigned names with nil for null.
// The returned column slice is the row's full ordering contract: structural
// columns first, then metrics in server order. Normalization is
// deterministic: the same trial always yields the same row (external-id
// providers are emitted in sorted order since the wire format is a map).
func NormalizeTrial(tr *Trial) (table.Row, []string) {
	row := table.Row{
		ColID:        tr.ID,
		ColActive:    tr.Active,
		ColTimestamp: tr.Timestamp,
		ColSegment:   tr.Segment,

		ColTestTypeID:        tr.TestType.ID,
		ColTestTypeName:      tr.TestType.Name,
		ColTestTypeCanonical: tr.TestType.CanonicalID,

		ColAthleteID:     tr.Athlete.ID,
		ColAthleteName:   tr.Athlete.Name,
		ColAthleteActive: tr.Athlete.Active,
		ColAthleteTeams:  table.JoinList(tr.Athlete.Teams),
		ColAthleteGroups: table.JoinList(tr.Athlete.Groups),
	}

	ids := make([]string, 0, len(tr.TestType.Tags))
	names := make([]string, 0, len(tr.TestType.Tags))
	descs := make([]string, 0, len(tr.TestType.Tags))
	for _, tag := range tr.TestType.Tags {
		ids = append(ids, tag.ID)
		names = append(names, tag.Name)
		descs = append(descs, tag.Description)
	}
	row[ColTestTypeTagIDs] = table.JoinList(ids)
	row[ColTestTypeTagNames] = table.JoinList(names)
	row[ColTestTypeTagDescs] = table.JoinDescriptions(descs)

	providers := make([]string, 0, len(tr.Athlete.External))
	for name := range tr.Athlete.External {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	pairs := make([]table.Pair, 0, len(providers))
	for _, name := range providers {
		pairs = append(pairs, table.Pair{Name: name, Value: tr.Athlete.External[name]})
	}
	row[ColAthleteExternal] = table.JoinPairs(pairs)

	cols := StructuralColumns()
	for _, m := range tr.Metrics {
		cols = append(cols, m.Name)
		if m.Value == nil {
			row[m.Name] = nil
		} else {
			row[m.Name] = *m.Value
		}
	}
	return row, cols
}
