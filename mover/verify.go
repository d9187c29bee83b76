package mover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dendrascience/sbdatacore/util"
)

// IncompleteRunError lists the files still present below a source root
// after a run.
type IncompleteRunError struct {
	Root      string
	Leftovers []string
}

func (e *IncompleteRunError) Error() string {
	const shown = 5
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d file(s) left under %s", ErrIncompleteRun, len(e.Leftovers), e.Root)
	for i, f := range e.Leftovers {
		if i == shown {
			b.WriteString(", ...")
			break
		}
		sep := ", "
		if i == 0 {
			sep = ": "
		}
		b.WriteString(sep + f)
	}
	return b.String()
}

func (e *IncompleteRunError) Is(target error) bool {
	return target == ErrIncompleteRun
}

// Verify checks the post-condition of a run: no file may remain below root.
// Directories do not count.
func Verify(root string) error {
	files, err := util.ListFiles(root)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", root, err)
	}
	if len(files) > 0 {
		return &IncompleteRunError{Root: root, Leftovers: files}
	}
	return nil
}

// PruneEmptyDirs removes every directory below root that holds, recursively,
// nothing but empty directories. Root itself is kept. It returns the number
// of directories removed.
func PruneEmptyDirs(root string) (int, error) {
	info, err := os.Stat(root)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, util.ErrExpectedDirectory
	}
	removed := 0
	_, err = prune(root, true, &removed)
	return removed, err
}

// prune reports whether dir ended up empty and was removed.
func prune(dir string, keep bool, removed *int) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return false, nil
		}
		return false, err
	}
	remaining := len(entries)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		gone, err := prune(filepath.Join(dir, e.Name()), false, removed)
		if err != nil {
			return false, err
		}
		if gone {
			remaining--
		}
	}
	if keep || remaining > 0 {
		return false, nil
	}
	if err := os.Remove(dir); err != nil {
		return false, err
	}
	*removed++
	return true, nil
}
