package cli

import (
	"github.com/spf13/cobra"

	"github.com/plyometrics/forcecloud/internal/database"
)

func newBuildCmd(app *App) *cobra.Command {
	var (
		start      string
		testType   string
		inactive   bool
		out        string
		formatName string
		windowDays int
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Backfill a local database file from historical trials",
		RunE: func(cmd *cobra.Command, args []string) error {
			startT, err := parseDateFlag(start)
			if err != nil {
				return err
			}
			format, err := resolveFormat(out, formatName)
			if err != nil {
				return err
			}

			c, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			window := windowDays
			if window <= 0 {
				window = app.cfg.WindowDays
			}
			return database.NewBuilder(c, app.log).Build(cmd.Context(), database.BuildOptions{
				StartDate:       startT,
				TestType:        testType,
				IncludeInactive: inactive,
				OutputPath:      out,
				Format:          format,
				WindowDays:      window,
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "how far back to backfill (YYYY-MM-DD)")
	cmd.Flags().StringVar(&testType, "type", "all", "test type name or id, or all")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "include inactive trials")
	cmd.Flags().StringVar(&out, "out", "", "output path (local or s3://bucket/key)")
	cmd.Flags().StringVar(&formatName, "format", "", "output format (default inferred from --out)")
	cmd.Flags().IntVar(&windowDays, "window", 0, "bucket size in days (default from config)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newSyncCmd(app *App) *cobra.Command {
	var (
		inactive bool
		newPath  string
	)
	cmd := &cobra.Command{
		Use:   "sync <path>",
		Short: "Sync a local database file with trials changed since its last sync",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			return database.NewSyncer(c, app.log).Sync(cmd.Context(), args[0], inactive, newPath)
		},
	}
	cmd.Flags().BoolVar(&inactive, "inactive", false, "include inactive trials")
	cmd.Flags().StringVar(&newPath, "new-path", "", "write the merged table here, leaving the original untouched")
	return cmd
}
