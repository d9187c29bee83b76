package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dendrascience/sbdatacore/internal/seed"
)

// NewSeedCmd creates and returns the seed subcommand for the sbdatacore CLI.
// It writes a simulated beamline landing area for trying out hand-outs.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath  string
		screenSets  int
		collectSets int
		frames      string
		listFiles   bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write simulated beamline data",
		Long: `Write a simulated landing area for testing sbdatacore.

Creates OUTPUT/incoming with two facility users, four dates and five pins.
Each pin gets screening images; most also get collected frames and XDS and
DIALS result directories. A matching user database is written to
OUTPUT/data.base and an empty OUTPUT/data is created. Each file contains a
single UUID line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := seed.Options{ScreenSets: screenSets, CollectSets: collectSets, Frames: frames}
			return runSeed(cmd, outputPath, opts, listFiles)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVar(&screenSets, "screen-sets", seed.DefaultOptions.ScreenSets, "Screening sets per pin")
	cmd.Flags().IntVar(&collectSets, "collect-sets", seed.DefaultOptions.CollectSets, "Collection sets per collecting pin")
	cmd.Flags().StringVar(&frames, "frames", seed.DefaultOptions.Frames, "Frame numbers per collection set, as a range expression")
	cmd.Flags().BoolVar(&listFiles, "list", false, "List every file written")

	cmd.MarkFlagRequired("output")

	return cmd
}

func runSeed(cmd *cobra.Command, outputPath string, opts seed.Options, listFiles bool) error {
	written, err := seed.BuildWith(outputPath, opts)
	if err != nil {
		return fmt.Errorf("failed to write seed data: %w", err)
	}

	out := cmd.OutOrStdout()
	if listFiles {
		for _, f := range written {
			fmt.Fprintln(out, f)
		}
	}
	fmt.Fprintf(out, "Created %d files below %s\n", len(written), filepath.Join(outputPath, "incoming"))
	fmt.Fprintf(out, "User database: %s\n", filepath.Join(outputPath, "data.base"))
	return nil
}
