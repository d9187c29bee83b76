package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dendrascience/sbdatacore/summary"
)

// NewSummaryCmd creates and returns the summary subcommand for the sbdatacore CLI.
func NewSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [PATH]",
		Short: "Print a directory tree with numbered files folded into ranges",
		Long: `Print the directory tree below PATH. Each directory holding files shows
its file count; numbered files are shown as (pattern, range), for example
(Pin1_1_#####.cbf, 1-12), followed by the files that belong to no sequence.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			tree, err := summary.Tree(path)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tree)
			return nil
		},
	}
}
