package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dendrascience/sbdatacore/permissions"
)

// NewPermsCmd creates and returns the perms subcommand for the sbdatacore CLI.
// It groups the permission report and the manual permission fix.
func NewPermsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perms",
		Short: "Check or apply archive permissions",
	}
	cmd.AddCommand(newPermsCheckCmd(flags))
	cmd.AddCommand(newPermsApplyCmd(flags))
	return cmd
}

func newFinalizer(flags *globalFlags) (*permissions.Finalizer, func(), error) {
	e, err := loadEnv(flags, ".")
	if err != nil {
		return nil, nil, err
	}
	f := &permissions.Finalizer{
		Runner:  permissions.ExecRunner{},
		Setfacl: e.cfg.Permissions.Setfacl,
		Getfacl: e.cfg.Permissions.Getfacl,
		Log:     e.log,
	}
	return f, func() { e.log.Sync() }, nil
}

func newPermsCheckCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check DIR",
		Short: "Print mode and ACL of every entry below DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, done, err := newFinalizer(flags)
			if err != nil {
				return err
			}
			defer done()

			report, err := f.Check(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), permissions.FormatReport(report))
			return nil
		},
	}
}

func newPermsApplyCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "apply DIR IDENTITY",
		Short: "Make every entry below DIR owner-only and grant IDENTITY rwx",
		Long: `Reset the ACL of every entry below DIR, set its mode to 0700 and grant
IDENTITY read, write and execute through an ACL entry. DIR itself is not
changed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, done, err := newFinalizer(flags)
			if err != nil {
				return err
			}
			defer done()

			n, err := f.Apply(cmd.Context(), args[0], args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d entries below %s\n", n, args[0])
			return err
		},
	}
}
