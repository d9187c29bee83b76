// Package version reports the sbdatacore build.
//
// Version, Commit and Date may be injected at link time:
//
//	-ldflags "-X github.com/dendrascience/sbdatacore/version.Version=v1.2.0"
//
// Otherwise the module version and VCS settings recorded by the Go toolchain
// are used.
package version
