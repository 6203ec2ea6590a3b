// Package database builds and incrementally syncs a local flat-file copy of
// an organization's test trials by driving the tests endpoint in time
// windows and reconciling results by trial id.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/plyometrics/forcecloud/internal/client"
	"github.com/plyometrics/forcecloud/internal/common"
	"github.com/plyometrics/forcecloud/internal/logging"
	"github.com/plyometrics/forcecloud/internal/storage"
	"github.com/plyometrics/forcecloud/internal/table"
)

// DefaultWindowDays bounds one backfill request. The API caps response size
// per request; walking fixed windows keeps each response within memory.
const DefaultWindowDays = 14

// Builder populates a local database file from a full historical backfill.
type Builder struct {
	client *client.Client
	log    logging.Logger
	now    func() time.Time
}

func NewBuilder(c *client.Client, log logging.Logger) *Builder {
	if log == nil {
		log = logging.Default()
	}
	return &Builder{client: c, log: log.With("component", "database"), now: time.Now}
}

// BuildOptions parameterizes a backfill.
type BuildOptions struct {
	// StartDate is how far back the backfill walks.
	StartDate time.Time
	// TestType is a display name, id, or "all" (the default).
	TestType string
	// IncludeInactive keeps trials flagged inactive upstream.
	IncludeInactive bool
	// OutputPath is a local path or s3://bucket/key; the format's extension
	// is appended when missing.
	OutputPath string
	Format     storage.Format
	// WindowDays overrides DefaultWindowDays when positive.
	WindowDays int
}

// Build walks backward from now to StartDate in WindowDays-sized buckets,
// listing tests per bucket, then de-duplicates by id, sorts newest-first,
// and persists the result. A bucket that errors contributes nothing and the
// walk continues: an empty window reports as not-found and must not kill a
// long backfill.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) error {
	if opts.StartDate.IsZero() {
		return fmt.Errorf("build database: %w: start date is required", common.ErrValidation)
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("build database: %w: output path is required", common.ErrValidation)
	}
	windowDays := opts.WindowDays
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	typeID, err := b.client.ResolveTestTypeID(ctx, opts.TestType)
	if err != nil {
		return fmt.Errorf("build database: %w", err)
	}

	now := b.now()
	if !opts.StartDate.Before(now) {
		return fmt.Errorf("build database: %w: start date must be in the past", common.ErrValidation)
	}

	window := time.Duration(windowDays) * 24 * time.Hour
	combined := table.New(client.StructuralColumns()...)

	buckets := 0
	for end := now; end.After(opts.StartDate); {
		start := end.Add(-window)
		if start.Before(opts.StartDate) {
			start = opts.StartDate
		}
		buckets++

		result, err := b.client.ListTests(ctx, client.TestFilter{
			From:            start,
			To:              end,
			IncludeInactive: opts.IncludeInactive,
			TypeID:          typeID,
		})
		if err != nil {
			b.log.Warn(ctx, "bucket contributed nothing",
				"from", start.Format(time.DateOnly),
				"to", end.Format(time.DateOnly),
				"error", err)
			end = start
			continue
		}

		appendWithWatermarks(combined, result)
		end = start
	}

	combined.DeduplicateByID()
	combined.SortByTimestampDesc()

	if err := storage.Write(ctx, opts.OutputPath, opts.Format, combined); err != nil {
		return fmt.Errorf("build database: %w", err)
	}
	b.log.Info(ctx, "database built",
		"rows", len(combined.Rows),
		"buckets", buckets,
		"path", storage.EnsureExtension(opts.OutputPath, opts.Format))
	return nil
}

// appendWithWatermarks copies a query result into dst, stamping every row
// with the envelope's last_test_time / last_sync_time housekeeping columns.
func appendWithWatermarks(dst *table.Table, result *client.TestResult) {
	for _, row := range result.Table.Rows {
		row[storage.ColLastTestTime] = result.LastTestTime.Unix()
		row[storage.ColLastSyncTime] = result.LastSyncTime.Unix()
		dst.Append(row, append(result.Table.Columns, storage.ColLastTestTime, storage.ColLastSyncTime)...)
	}
}
