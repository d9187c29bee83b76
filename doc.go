// Package main provides the sbdatacore command-line interface.
//
// sbdatacore hands out crystallography data deposited by a beamline below
// an incoming directory to a per-user archive, resolving facility users to
// storage identities through a plain-text user database and restricting
// access to each identity once the data is in place.
//
// The main binary supports multiple subcommands:
//   - handout: Move incoming data into the archive and finalize permissions
//   - plan: Print or save the planned moves
//   - preview: Mount the planned archive layout read-only
//   - perms: Check or apply archive permissions
//   - summary, count, users, seed, version: Utilities
package main
