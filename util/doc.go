// Package util provides the filesystem helpers shared by the sbdatacore
// packages.
//
// It covers counting and listing the files left under a directory tree
// (used to check that a handout run emptied the landing area), hashing file
// contents to verify cross-device copies, writing JSON documents for operator
// review, and deriving stable inode numbers for the read-only plan preview
// filesystem.
package util
