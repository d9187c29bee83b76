// Package preview implements a read-only FUSE filesystem showing the
// archive layout a move plan would produce, before anything is moved.
//
// The mounted tree mirrors the destination root:
//   - Directories on the way to each target are synthesized from the plan
//   - Planned files appear under their target names and read through to
//     their current source location
//   - Planned derived-result directories are mirrored from their source,
//     contents listed on demand
//
// Inode numbers are derived from the virtual path so that repeated lookups
// agree. Nothing in the source tree is modified. The main entry point is
// New, whose result can be served with bazil.org/fuse/fs.Serve.
package preview
