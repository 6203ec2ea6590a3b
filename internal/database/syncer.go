package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/plyometrics/forcecloud/internal/client"
	"github.com/plyometrics/forcecloud/internal/common"
	"github.com/plyometrics/forcecloud/internal/logging"
	"github.com/plyometrics/forcecloud/internal/storage"
	"github.com/plyometrics/forcecloud/internal/table"
)

// Syncer reconciles a persisted database file against a delta fetch of
// trials created or modified since the file's last sync watermark.
type Syncer struct {
	client *client.Client
	log    logging.Logger
}

func NewSyncer(c *client.Client, log logging.Logger) *Syncer {
	if log == nil {
		log = logging.Default()
	}
	return &Syncer{client: c, log: log.With("component", "database")}
}

// Sync reads the table at path, fetches the delta since its newest
// last_sync_time, and merges it in: rows whose id reappears are overwritten
// wholesale with the delta's copy, unseen ids are appended, nothing is ever
// deleted, and both sides are restricted to their common columns before
// combining. The merged table is written back to path, or to newPath when
// given (leaving the original untouched); a newPath with a recognized
// extension also converts the output to that format.
func (s *Syncer) Sync(ctx context.Context, path string, includeInactive bool, newPath string) error {
	existing, format, err := storage.Read(ctx, path)
	if err != nil {
		return fmt.Errorf("sync database: %w", err)
	}
	if len(existing.Rows) == 0 {
		return fmt.Errorf("sync database: %w: %s holds no rows", common.ErrValidation, path)
	}

	target, outFormat := path, format
	if newPath != "" {
		target = newPath
		// A newPath whose extension names a format converts on write;
		// otherwise the source format is kept.
		if f, err := storage.FormatFromPath(newPath); err == nil {
			outFormat = f
		}
	}

	lastSync := maxColumn(existing, storage.ColLastSyncTime)
	if lastSync == 0 {
		return fmt.Errorf("sync database: %w: %s carries no %s column", common.ErrValidation, path, storage.ColLastSyncTime)
	}

	result, err := s.client.ListTests(ctx, client.TestFilter{
		From:            time.Unix(lastSync, 0),
		Sync:            true,
		IncludeInactive: includeInactive,
		TypeID:          homogeneousTestType(existing),
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Info(ctx, "database already up to date", "path", path)
			if newPath != "" {
				return storage.Write(ctx, newPath, outFormat, existing)
			}
			return nil
		}
		return fmt.Errorf("sync database: %w", err)
	}

	delta := table.New(result.Table.Columns...)
	appendWithWatermarks(delta, result)

	merged := table.Merge(existing, delta)

	if err := storage.Write(ctx, target, outFormat, merged); err != nil {
		return fmt.Errorf("sync database: %w", err)
	}
	s.log.Info(ctx, "database synced",
		"path", target,
		"rows", len(merged.Rows),
		"deltaRows", len(delta.Rows),
		"since", time.Unix(lastSync, 0).Local().Format(time.RFC1123))
	return nil
}

// maxColumn returns the largest numeric value in col, or 0 when absent.
func maxColumn(tbl *table.Table, col string) int64 {
	var max int64
	for _, row := range tbl.Rows {
		if v := int64(table.Number(row[col])); v > max {
			max = v
		}
	}
	return max
}

// homogeneousTestType returns the single testType_id shared by every row,
// or "" when the table mixes types (the delta then fetches all types).
func homogeneousTestType(tbl *table.Table) string {
	var typeID string
	for _, row := range tbl.Rows {
		v := table.FormatCell(row[client.ColTestTypeID])
		if v == table.NA {
			return ""
		}
		if typeID == "" {
			typeID = v
			continue
		}
		if v != typeID {
			return ""
		}
	}
	return typeID
}
