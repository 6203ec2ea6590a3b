package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/plyometrics/forcecloud/internal/table"
)

// Write persists tbl to path in the given format, creating parent
// directories as needed. An s3:// path is written to a staged temp file and
// uploaded.
func Write(ctx context.Context, path string, f Format, tbl *table.Table) error {
	path = EnsureExtension(path, f)

	if isS3Path(path) {
		tmp, err := os.CreateTemp("", "forcecloud-*"+formatExtensions[f])
		if err != nil {
			return fmt.Errorf("stage temp file: %w", err)
		}
		tmpPath := tmp.Name()
		tmp.Close()
		defer os.Remove(tmpPath)

		if err := writeLocal(tmpPath, f, tbl); err != nil {
			return err
		}
		return uploadS3(ctx, tmpPath, path)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o770); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return writeLocal(path, f, tbl)
}

// Read loads a persisted table, inferring the format from the extension.
// An s3:// path is downloaded to a staged temp file first.
func Read(ctx context.Context, path string) (*table.Table, Format, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}

	local := path
	if isS3Path(path) {
		tmp, err := os.CreateTemp("", "forcecloud-*"+formatExtensions[f])
		if err != nil {
			return nil, "", fmt.Errorf("stage temp file: %w", err)
		}
		local = tmp.Name()
		tmp.Close()
		defer os.Remove(local)

		if err := downloadS3(ctx, path, local); err != nil {
			return nil, "", err
		}
	}

	tbl, err := readLocal(local, f)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return tbl, f, nil
}

func writeLocal(path string, f Format, tbl *table.Table) error {
	var err error
	switch f {
	case FormatCSV:
		err = writeCSVFile(path, tbl)
	case FormatXLSX:
		err = writeXLSXFile(path, tbl)
	case FormatParquet:
		err = writeParquetFile(path, tbl)
	case FormatGob, FormatGobGzip:
		err = writeGobFile(path, tbl, f == FormatGobGzip)
	case FormatSQLite:
		err = writeSQLiteFile(path, tbl)
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readLocal(path string, f Format) (*table.Table, error) {
	switch f {
	case FormatCSV:
		return readCSVFile(path)
	case FormatXLSX:
		return readXLSXFile(path)
	case FormatParquet:
		return readParquetFile(path)
	case FormatGob, FormatGobGzip:
		return readGobFile(path, f == FormatGobGzip)
	case FormatSQLite:
		return readSQLiteFile(path)
	}
	return nil, fmt.Errorf("unsupported format %q", f)
}
