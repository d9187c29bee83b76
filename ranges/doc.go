// Package ranges encodes and decodes serialized (numbered) filenames.
//
// A detector frame such as Pin1_1_00007.cbf belongs to a family of names
// that differ only in a fixed-width run of digits before the extension. This
// package turns such families into a compact (wildcard pattern, range
// expression) pair and back:
//
//	[Pin1_1_00001.cbf ... Pin1_1_00012.cbf]  <->  ("Pin1_1_#####.cbf", "1-12")
//
// Range expressions are comma-joined tokens, each either "n" or "a-b", with
// consecutive integers merged into a single token. The parser also accepts
// the space-separated form operators used to type by hand ("1-9 10 11").
//
// Group partitions an arbitrary directory listing into such families plus
// the residual names that carry no trailing digit run.
package ranges
