// Package cli implements the forcecloud command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/plyometrics/forcecloud/internal/client"
	"github.com/plyometrics/forcecloud/internal/config"
	"github.com/plyometrics/forcecloud/internal/logging"
)

// App carries the state shared by all commands: configuration resolved from
// file/env/flags and a logger.
type App struct {
	cfg *config.Config
	log logging.Logger

	configPath string
	region     string
	token      string
	verbose    bool
}

// NewRootCmd builds the forcecloud command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	root := &cobra.Command{
		Use:           "forcecloud",
		Short:         "Client for the ForceCloud force-plate testing API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&app.configPath, "config", "", "path to config file (default ~/.forcecloud.yaml)")
	pf.StringVar(&app.region, "region", "", "API region: Americas, Europe, Asia/Pacific, Dev")
	pf.StringVar(&app.token, "token", "", "refresh token (default $FORCECLOUD_REFRESH_TOKEN, else prompted)")
	pf.BoolVarP(&app.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newLoginCheckCmd(app),
		newAthletesCmd(app),
		newTeamsCmd(app),
		newGroupsCmd(app),
		newTagsCmd(app),
		newTestTypesCmd(app),
		newMetricsCmd(app),
		newTestsCmd(app),
		newForceTimeCmd(app),
		newBuildCmd(app),
		newSyncCmd(app),
	)
	return root
}

func (a *App) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.region != "" {
		cfg.Region = a.region
	}
	if a.token != "" {
		cfg.RefreshToken = a.token
	}
	a.cfg = cfg

	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	a.log = logging.NewSlogLogger(slog.New(h))
	return nil
}

func newLoginCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login-check",
		Short: "Verify the refresh token by logging in and reporting the session expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			sess := c.Session()
			fmt.Fprintf(os.Stdout, "login ok, session expires %s\n",
				sess.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}
}

// connect logs into the configured region and returns a ready client. The
// refresh token comes from the flag, environment, or config file; when all
// are empty the user is prompted without echo.
func (a *App) connect(ctx context.Context) (*client.Client, error) {
	region, err := client.ParseRegion(a.cfg.Region)
	if err != nil {
		return nil, err
	}

	token := a.cfg.RefreshToken
	if token == "" {
		token, err = promptToken(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("read refresh token: %w", err)
		}
	}

	c := client.New(a.log)
	if err := c.Login(ctx, token, region); err != nil {
		return nil, err
	}
	return c, nil
}
