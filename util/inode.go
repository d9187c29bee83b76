package util

import (
	"github.com/taigrr/colorhash"
)

// RootInode is reserved for the root of a mounted tree.
const RootInode uint64 = 1

// InodeForPath derives a stable inode number from a path so that repeated
// lookups of the same node report the same inode.
func InodeForPath(path string) uint64 {
	h := colorhash.HashString(path)
	if h < 0 {
		h = -h
	}
	// keep clear of the reserved root inode
	return uint64(h) + RootInode + 1
}
