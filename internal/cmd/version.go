package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dendrascience/sbdatacore/util"
	"github.com/dendrascience/sbdatacore/version"
)

// NewVersionCmd creates and returns the version subcommand for the sbdatacore CLI.
func NewVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetInfo()
			if asJSON {
				return util.WriteJSON(cmd.OutOrStdout(), info)
			}
			version.Write(cmd.OutOrStdout(), info)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
