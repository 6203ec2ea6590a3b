// Package storage persists flattened trial tables to the supported file
// formats and reads them back for syncing. Paths of the form s3://bucket/key
// are staged through a local temp file and transferred with the AWS SDK.
package storage

import (
	"fmt"
	"strings"

	"github.com/plyometrics/forcecloud/internal/common"
)

// Format identifies a persistence format for the local database file.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
	FormatGob     Format = "gob"
	FormatGobGzip Format = "gob.gz"
	FormatSQLite  Format = "sqlite"
)

// Housekeeping columns carried on every persisted row, taken from the tests
// query response envelope. The syncer reads last_sync_time back to decide
// where the next delta fetch starts.
const (
	ColLastTestTime = "last_test_time"
	ColLastSyncTime = "last_sync_time"
)

var formatExtensions = map[Format]string{
	FormatCSV:     ".csv",
	FormatXLSX:    ".xlsx",
	FormatParquet: ".parquet",
	FormatGob:     ".gob",
	FormatGobGzip: ".gob.gz",
	FormatSQLite:  ".sqlite",
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV, FormatXLSX, FormatParquet, FormatGob, FormatGobGzip, FormatSQLite:
		return Format(strings.ToLower(s)), nil
	case "db":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%w: unknown file format %q", common.ErrConfig, s)
}

// FormatFromPath infers the format from a path's extension.
func FormatFromPath(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".gob.gz"):
		return FormatGobGzip, nil
	case strings.HasSuffix(lower, ".gob"):
		return FormatGob, nil
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV, nil
	case strings.HasSuffix(lower, ".xlsx"):
		return FormatXLSX, nil
	case strings.HasSuffix(lower, ".parquet"):
		return FormatParquet, nil
	case strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".db"):
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%w: cannot infer file format from path %q", common.ErrConfig, path)
}

// EnsureExtension appends the format's extension when the path does not
// already carry it.
func EnsureExtension(path string, f Format) string {
	ext := formatExtensions[f]
	if ext == "" {
		return path
	}
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ext) {
		return path
	}
	if f == FormatSQLite && strings.HasSuffix(lower, ".db") {
		return path
	}
	return path + ext
}
