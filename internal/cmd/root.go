package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dendrascience/sbdatacore/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	udbPath    string
	verbose    bool
}

// NewRootCmd creates and returns the root cobra command for the sbdatacore CLI.
// It sets up all subcommands, command groups, and basic configuration.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "sbdatacore",
		Short: "sbdatacore - hand out beamline data to its owners",
		Long: `sbdatacore moves crystallography data deposited by a beamline into a
per-user archive.

Data lands as <facility user>/<date>/<container>/{screen,collect}/ below an
incoming directory. sbdatacore groups the numbered frames into samples,
resolves the facility user to a storage identity through a user database and
moves every sample to

  data/users/<identity>/<facility>/<YYYY_MM_DD>/<container>/<sample>/

with derived results under processed/<method>. Permissions of every touched
date directory are then reset so only the owner and the identity can read it.

Use subcommands to perform different operations:
  - handout: Run a complete hand-out
  - plan: Show what a hand-out would move
  - preview: Mount the planned layout read-only
  - summary: Print a folded directory tree
  - count: Count files, sequences and residual files
  - users: List the user database
  - perms: Check or apply archive permissions
  - seed: Write simulated beamline data
  - version: Print build information`,
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&flags.udbPath, "udb", "", "User database file (overrides SBDATACORE_UDB)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	groupHandout := "handout"
	groupUtilities := "utilities"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupHandout,
		Title: "Hand-out Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	handoutCmd := NewHandoutCmd(flags)
	planCmd := NewPlanCmd(flags)
	previewCmd := NewPreviewCmd(flags)
	permsCmd := NewPermsCmd(flags)
	summaryCmd := NewSummaryCmd()
	countCmd := NewCountCmd()
	usersCmd := NewUsersCmd(flags)
	seedCmd := NewSeedCmd()
	versionCmd := NewVersionCmd()

	handoutCmd.GroupID = groupHandout
	planCmd.GroupID = groupHandout
	previewCmd.GroupID = groupHandout
	permsCmd.GroupID = groupHandout
	summaryCmd.GroupID = groupUtilities
	countCmd.GroupID = groupUtilities
	usersCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	rootCmd.AddCommand(handoutCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(permsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
