package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/plyometrics/forcecloud/internal/client"
	"github.com/plyometrics/forcecloud/internal/common"
	"github.com/plyometrics/forcecloud/internal/storage"
)

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse date %q (want YYYY-MM-DD or RFC3339)", common.ErrValidation, s)
}

func newTestsCmd(app *App) *cobra.Command {
	var (
		from, to   string
		sync       bool
		inactive   bool
		athleteID  string
		typeID     string
		teamIDs    []string
		groupIDs   []string
		out        string
		formatName string
	)
	cmd := &cobra.Command{
		Use:   "tests",
		Short: "Query test trials, printing a summary or writing a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fromT, err := parseDateFlag(from)
			if err != nil {
				return err
			}
			toT, err := parseDateFlag(to)
			if err != nil {
				return err
			}

			c, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			result, err := c.ListTests(cmd.Context(), client.TestFilter{
				From:            fromT,
				To:              toT,
				Sync:            sync,
				IncludeInactive: inactive,
				AthleteID:       athleteID,
				TypeID:          typeID,
				TeamIDs:         teamIDs,
				GroupIDs:        groupIDs,
			})
			if err != nil {
				return err
			}

			if out == "" {
				fmt.Fprintf(os.Stdout, "%d trials, lastTestTime %s, lastSyncTime %s\n",
					len(result.Table.Rows),
					result.LastTestTime.Local().Format(time.RFC1123),
					result.LastSyncTime.Local().Format(time.RFC1123))
				return nil
			}

			format, err := resolveFormat(out, formatName)
			if err != nil {
				return err
			}
			return storage.Write(cmd.Context(), out, format, result.Table)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start of the time range")
	cmd.Flags().StringVar(&to, "to", "", "end of the time range")
	cmd.Flags().BoolVar(&sync, "sync", false, "interpret the range as created-or-modified (incremental)")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "include inactive trials")
	cmd.Flags().StringVar(&athleteID, "athlete", "", "filter by athlete id")
	cmd.Flags().StringVar(&typeID, "type", "", "filter by test-type id")
	cmd.Flags().StringSliceVar(&teamIDs, "team", nil, "filter by team id(s)")
	cmd.Flags().StringSliceVar(&groupIDs, "group", nil, "filter by group id(s)")
	cmd.Flags().StringVar(&out, "out", "", "write results to this file instead of printing")
	cmd.Flags().StringVar(&formatName, "format", "", "output format (default inferred from --out)")
	return cmd
}

// resolveFormat picks the output format from an explicit name or the path's
// extension, defaulting to csv when neither decides.
func resolveFormat(path, formatName string) (storage.Format, error) {
	if formatName != "" {
		return storage.ParseFormat(formatName)
	}
	if f, err := storage.FormatFromPath(path); err == nil {
		return f, nil
	}
	return storage.FormatCSV, nil
}

func newForceTimeCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "forcetime <test-id>",
		Short: "Fetch one trial's raw force-time samples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			tbl, err := c.GetForceTime(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out == "" {
				return storage.WriteCSV(os.Stdout, tbl)
			}
			format, err := resolveFormat(out, "")
			if err != nil {
				return err
			}
			return storage.Write(cmd.Context(), out, format, tbl)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write samples to this file instead of stdout")
	return cmd
}
