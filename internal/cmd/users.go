package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewUsersCmd creates and returns the users subcommand for the sbdatacore CLI.
func NewUsersCmd(flags *globalFlags) *cobra.Command {
	var lookup string

	cmd := &cobra.Command{
		Use:   "users [BASE_DIR]",
		Short: "List the user database",
		Long: `Print every storage identity with the facility users that map to it.

The database is taken from --udb, SBDATACORE_UDB or BASE_DIR/data.base, in
that order. With --lookup, resolve a single facility user instead; this fails
when the user maps to no identity or to more than one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := "."
			if len(args) > 0 {
				base = args[0]
			}
			e, err := loadEnv(flags, base)
			if err != nil {
				return err
			}
			db, err := e.userDB()
			if err != nil {
				return err
			}
			if lookup != "" {
				id, err := db.Lookup(lookup)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			}
			printUsers(cmd.OutOrStdout(), db)
			return nil
		},
	}

	cmd.Flags().StringVar(&lookup, "lookup", "", "Resolve this facility user to its storage identity")

	return cmd
}
