package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/plyometrics/forcecloud/internal/table"
)

func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func newAthletesCmd(app *App) *cobra.Command {
	var inactive bool
	cmd := &cobra.Command{
		Use:   "athletes",
		Short: "List the organization's athletes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			athletes, err := c.GetAthletes(cmd.Context(), inactive)
			if err != nil {
				return err
			}
			w := newTabWriter()
			fmt.Fprintln(w, "ID\tNAME\tACTIVE\tTEAMS\tGROUPS\tEXTERNAL")
			for _, a := range athletes {
				pairs := make([]table.Pair, 0, len(a.External))
				for name, id := range a.External {
					pairs = append(pairs, table.Pair{Name: name, Value: id})
				}
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\t%s\n",
					a.ID, a.Name, a.Active,
					strings.Join(a.Teams, ","), strings.Join(a.Groups, ","),
					table.JoinPairs(pairs))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&inactive, "inactive", false, "include inactive athletes")
	return cmd
}

func newTeamsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			teams, err := c.GetTeams(cmd.Context())
			if err != nil {
				return err
			}
			w := newTabWriter()
			fmt.Fprintln(w, "ID\tNAME")
			for _, t := range teams {
				fmt.Fprintf(w, "%s\t%s\n", t.ID, t.Name)
			}
			return w.Flush()
		},
	}
}

func newGroupsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			groups, err := c.GetGroups(cmd.Context())
			if err != nil {
				return err
			}
			w := newTabWriter()
			fmt.Fprintln(w, "ID\tNAME")
			for _, g := range groups {
				fmt.Fprintf(w, "%s\t%s\n", g.ID, g.Name)
			}
			return w.Flush()
		},
	}
}

func newTagsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List test-type tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			tags, err := c.GetTags(cmd.Context())
			if err != nil {
				return err
			}
			w := newTabWriter()
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, t := range tags {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, t.Description)
			}
			return w.Flush()
		},
	}
}

func newTestTypesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "test-types",
		Short: "List test types",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			types, err := c.GetTestTypes(cmd.Context())
			if err != nil {
				return err
			}
			w := newTabWriter()
			fmt.Fprintln(w, "ID\tNAME\tCANONICAL")
			for _, tt := range types {
				fmt.Fprintf(w, "%s\t%s\t%s\n", tt.ID, tt.Name, tt.CanonicalID)
			}
			return w.Flush()
		},
	}
}

func newMetricsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List metric definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			metrics, err := c.GetMetrics(cmd.Context())
			if err != nil {
				return err
			}
			w := newTabWriter()
			fmt.Fprintln(w, "ID\tLABEL\tUNITS\tTEST TYPE")
			for _, m := range metrics {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Label, m.Units, m.TestTypeID)
			}
			return w.Flush()
		},
	}
}
