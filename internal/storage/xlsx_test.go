package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/plyometrics/forcecloud/internal/table"
)

func TestSheetName(t *testing.T) {
	tests := []struct {
		segment any
		want    string
	}{
		{"CMJ:1", "CMJ"},
		{"SJ-2", "SJ"},
		{"IMTP", "IMTP"},
		{nil, "tests"},
		{table.NA, "tests"},
	}
	for _, tc := range tests {
		got := sheetName(table.Row{"segment": tc.segment})
		assert.Equal(t, tc.want, got, "segment %v", tc.segment)
	}
}

func TestWriteXLSX_PartitionsBySegmentPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tests.xlsx")
	require.NoError(t, writeXLSXFile(path, sampleTable()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"CMJ", "SJ"}, f.GetSheetList())
}

func TestWriteXLSX_DropsAllMissingMetricColumnsPerSheet(t *testing.T) {
	tbl := sampleTable()
	path := filepath.Join(t.TempDir(), "tests.xlsx")
	require.NoError(t, writeXLSXFile(path, tbl))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// peak_power_w is present on the CMJ row but missing on the SJ row.
	cmjRows, err := f.GetRows("CMJ")
	require.NoError(t, err)
	assert.Contains(t, cmjRows[0], "peak_power_w")

	sjRows, err := f.GetRows("SJ")
	require.NoError(t, err)
	assert.NotContains(t, sjRows[0], "peak_power_w")

	// Structural columns survive even when every value is NA.
	assert.Contains(t, sjRows[0], "athlete_teams")
}
