package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dendrascience/sbdatacore/summary"
)

// NewCountCmd creates and returns the count subcommand for the sbdatacore CLI.
// It reports files, sequences and residual files per directory.
func NewCountCmd() *cobra.Command {
	var (
		path      string
		emptyDirs bool
	)

	cmd := &cobra.Command{
		Use:   "count [PATH]",
		Short: "Count files in a directory tree",
		Long: `Count the files of every directory below PATH.

For each directory the number of files, the number of numbered sequences
and the number of files outside any sequence are printed, followed by the
totals. Useful for checking that incoming is empty after a hand-out.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				path = args[0]
			}
			return runCount(cmd, path, emptyDirs)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "./", "Path to count files in")
	cmd.Flags().BoolVar(&emptyDirs, "all", false, "Also list directories without files")

	return cmd
}

func runCount(cmd *cobra.Command, path string, emptyDirs bool) error {
	counts, err := summary.Census(path)
	if err != nil {
		return fmt.Errorf("counting files: %w", err)
	}

	out := cmd.OutOrStdout()
	var files, groups, residual int
	for _, c := range counts {
		files += c.Files
		groups += c.Groups
		residual += c.Residual
		if c.Files == 0 && !emptyDirs {
			continue
		}
		fmt.Fprintf(out, "%s: %d files, %d sequences, %d residual\n", c.Path, c.Files, c.Groups, c.Residual)
	}
	fmt.Fprintf(out, "Total files: %d (%d sequences, %d residual) in %d directories\n", files, groups, residual, len(counts))
	return nil
}
