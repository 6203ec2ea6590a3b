package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plyometrics/forcecloud/internal/common"
	"github.com/plyometrics/forcecloud/internal/storage"
)

func TestRootCmd_RegistersAllCommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{
		"login-check", "athletes", "teams", "groups", "tags",
		"test-types", "metrics", "tests", "forcetime", "build", "sync",
	} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, "command %s", name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestParseDateFlag(t *testing.T) {
	got, err := parseDateFlag("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = parseDateFlag("2026-08-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local), got)

	got, err = parseDateFlag("2026-08-01T15:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, int64(1785596645), got.Unix())

	_, err = parseDateFlag("August 1st")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestResolveFormat(t *testing.T) {
	f, err := resolveFormat("out.parquet", "xlsx")
	require.NoError(t, err)
	assert.Equal(t, storage.FormatXLSX, f, "explicit flag wins over the extension")

	f, err = resolveFormat("out.parquet", "")
	require.NoError(t, err)
	assert.Equal(t, storage.FormatParquet, f)

	f, err = resolveFormat("out", "")
	require.NoError(t, err)
	assert.Equal(t, storage.FormatCSV, f)

	_, err = resolveFormat("out.csv", "bogus")
	require.Error(t, err)
}
