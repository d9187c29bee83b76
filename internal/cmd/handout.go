package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dendrascience/sbdatacore/handout"
	"github.com/dendrascience/sbdatacore/internal/metrics"
	"github.com/dendrascience/sbdatacore/permissions"
	"github.com/dendrascience/sbdatacore/summary"
	"github.com/dendrascience/sbdatacore/udb"
)

// NewHandoutCmd creates and returns the handout subcommand for the sbdatacore CLI.
// It runs a complete hand-out of one base directory.
func NewHandoutCmd(flags *globalFlags) *cobra.Command {
	var (
		dryRun           bool
		skipInvalidDates bool
		noPermissions    bool
		metricsFile      string
	)

	cmd := &cobra.Command{
		Use:   "handout BASE_DIR",
		Short: "Move deposited data into the per-user archive",
		Long: `Move everything below BASE_DIR/incoming into BASE_DIR/data/users.

The user database is printed first, then the content of incoming, then the
content of the archive after the run. The run fails when any file is left
below incoming; such files are listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(flags, args[0])
			if err != nil {
				return err
			}
			defer e.log.Sync()

			if cmd.Flags().Changed("skip-invalid-dates") {
				e.cfg.SkipInvalidDates = skipInvalidDates
			}
			if noPermissions {
				e.cfg.Permissions.Enabled = false
			}
			if metricsFile != "" {
				e.cfg.Metrics.Textfile = metricsFile
			}

			db, err := e.userDB()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User database: %s\n\n", e.paths.UserDB)
			printUsers(out, db)
			fmt.Fprintln(out)

			if tree, err := summary.Tree(e.paths.Incoming); err == nil {
				fmt.Fprintf(out, "Content of %s\n%s\n", e.paths.Incoming, tree)
			}

			opts := e.handoutOptions(db)
			opts.DryRun = dryRun
			if e.cfg.Permissions.Enabled {
				opts.Finalizer = &permissions.Finalizer{
					Runner:  permissions.ExecRunner{},
					Setfacl: e.cfg.Permissions.Setfacl,
					Getfacl: e.cfg.Permissions.Getfacl,
					Log:     e.log,
				}
			}
			if e.cfg.Metrics.Textfile != "" {
				opts.Metrics = metrics.New()
			}

			rep, runErr := handout.Run(cmd.Context(), opts)
			if opts.Metrics != nil && !dryRun {
				if err := opts.Metrics.WriteTextfile(e.cfg.Metrics.Textfile); err != nil {
					e.log.Warn("Failed to write metrics", zap.String("path", e.cfg.Metrics.Textfile), zap.Error(err))
				}
			}
			if runErr != nil {
				for _, f := range rep.Leftovers {
					fmt.Fprintf(out, "left behind: %s\n", f)
				}
				return runErr
			}

			if dryRun {
				printPlan(out, rep.Plan)
				return nil
			}
			if tree, err := summary.Tree(e.paths.Destination); err == nil {
				fmt.Fprintf(out, "Content of %s\n%s", e.paths.Destination, tree)
			}
			fmt.Fprintf(out, "\nMoved %d files and %d directories (run %s)\n",
				rep.Moves.Files, rep.Moves.Directories, rep.RunID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Log moves without performing them")
	cmd.Flags().BoolVar(&skipInvalidDates, "skip-invalid-dates", false, "Skip containers with an unusable date stamp instead of failing")
	cmd.Flags().BoolVar(&noPermissions, "no-permissions", false, "Do not finalize permissions")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write run metrics to this node-exporter textfile")

	return cmd
}

// printUsers prints storage identity -> facility users, one per line.
func printUsers(w io.Writer, db *udb.DB) {
	byStorage := db.ByStorage()
	ids := db.StorageIdentities()
	width := 0
	for _, id := range ids {
		width = max(width, len(id))
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "(no users defined)")
		return
	}
	for _, id := range ids {
		fmt.Fprintf(w, "%-*s  %s\n", width, id, strings.Join(byStorage[id], ", "))
	}
}
