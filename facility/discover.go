package facility

import (
	"os"
	"path/filepath"
	"slices"
)

// PathsAtDepth returns the directories exactly depth edges below root,
// sorted. Directories that cannot be read are skipped silently, and
// symbolic links to directories are followed.
func PathsAtDepth(root string, depth int) []string {
	var found []string
	var walk func(dir string, level int)
	walk = func(dir string, level int) {
		if level == depth {
			found = append(found, dir)
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if isDir(path, e) {
				walk(path, level+1)
			}
		}
	}
	if depth < 0 {
		return nil
	}
	walk(root, 0)
	slices.Sort(found)
	return found
}

func isDir(path string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
