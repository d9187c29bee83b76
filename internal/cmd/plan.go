package cmd

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dendrascience/sbdatacore/handout"
	"github.com/dendrascience/sbdatacore/planner"
	"github.com/dendrascience/sbdatacore/util"
)

// NewPlanCmd creates and returns the plan subcommand for the sbdatacore CLI.
// It computes a move plan without touching the filesystem.
func NewPlanCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "plan BASE_DIR",
		Short: "Show what a hand-out would move",
		Long: `Scan BASE_DIR/incoming and print every planned move as SOURCE -> TARGET.

With --output the plan is written as JSON instead, for review before a
hand-out. Files that no sample selects and sources selected by more than one
sample are listed after the moves.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(flags, args[0])
			if err != nil {
				return err
			}
			defer e.log.Sync()

			db, err := e.userDB()
			if err != nil {
				return err
			}
			plan, _, err := handout.Plan(e.handoutOptions(db))
			if err != nil {
				return err
			}
			plan.RunID = uuid.New().String()

			if output != "" {
				if err := util.WriteJSONFile(output, plan); err != nil {
					return fmt.Errorf("writing plan: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d moves to %s\n", len(plan.Items), output)
				return nil
			}
			printPlan(cmd.OutOrStdout(), plan)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the plan as JSON to this file")

	return cmd
}

func printPlan(w io.Writer, plan *planner.Plan) {
	for _, item := range plan.Items {
		fmt.Fprintf(w, "%s -> %s\n", item.Source, item.Target())
	}
	for _, f := range plan.Unmatched {
		fmt.Fprintf(w, "unmatched: %s\n", f)
	}
	for _, f := range plan.Collisions() {
		fmt.Fprintf(w, "collision: %s\n", f)
	}
	for _, s := range plan.Skipped {
		fmt.Fprintf(w, "skipped: %s (%s)\n", s.Container, s.Reason)
	}
	fmt.Fprintf(w, "%d files, %d directories, dates %v\n", len(plan.Files()), len(plan.Directories()), plan.Dates)
}
