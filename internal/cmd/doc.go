// Package cmd provides the command-line interface implementation for sbdatacore.
//
// Each subcommand lives in its own file with a constructor returning a
// *cobra.Command. Commands that operate on a base directory share an env
// built from the YAML configuration, environment overrides and the global
// flags, so every command resolves incoming, destination and the user
// database the same way.
//
// The command tree is grouped into hand-out operations (handout, plan,
// preview, perms) and utilities (summary, count, users, seed, version).
package cmd
