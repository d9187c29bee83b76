// Package summary renders directory trees with serialized files folded
// into (pattern, range) lines.
//
//	incoming/
//	└── kamala/
//	    └── 12323/
//	        └── snoopy/
//	            ├── collect/ (12 files)
//	            │       (Pin1_1_#####.cbf, 1-12)
//	            └── screen/ (2 files)
//	                    (Pin1_0_#####.cbf, 1-2)
package summary

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dendrascience/sbdatacore/ranges"
	"github.com/dendrascience/sbdatacore/util"
)

const (
	branch  = "├── "
	last    = "└── "
	pipe    = "│   "
	blank   = "    "
	filePad = "    "
)

// Tree renders the directory tree rooted at path.
func Tree(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", util.ErrExpectedDirectory
	}

	dirs, files, err := split(path)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(dirLine(filepath.Base(filepath.Clean(path)), len(files)))
	writeFiles(&b, filePad, files)
	if err := writeDirs(&b, path, "", dirs); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeDirs(b *strings.Builder, parent, prefix string, dirs []string) error {
	for i, name := range dirs {
		connector, ext := branch, pipe
		if i == len(dirs)-1 {
			connector, ext = last, blank
		}
		dir := filepath.Join(parent, name)
		sub, files, err := split(dir)
		if err != nil {
			return err
		}
		b.WriteString(prefix + connector + dirLine(name, len(files)))
		writeFiles(b, prefix+ext+filePad, files)
		if err := writeDirs(b, dir, prefix+ext, sub); err != nil {
			return err
		}
	}
	return nil
}

func dirLine(name string, files int) string {
	if files == 0 {
		return name + "/\n"
	}
	return fmt.Sprintf("%s/ (%d files)\n", name, files)
}

func writeFiles(b *strings.Builder, indent string, files []string) {
	for _, line := range FileLines(files) {
		b.WriteString(indent + line + "\n")
	}
}

// FileLines folds names into one "(pattern, range)" line per serialized
// family followed by the remaining names.
func FileLines(names []string) []string {
	groups, residual := ranges.Group(names)
	lines := make([]string, 0, len(groups)+len(residual))
	for _, g := range groups {
		lines = append(lines, fmt.Sprintf("(%s, %s)", g.Pattern, g.Range))
	}
	return append(lines, residual...)
}

// split lists dir into sorted subdirectory and file names. Unreadable
// directories are shown as empty.
func split(dir string) (dirs, files []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsPermission(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		} else {
			files = append(files, e.Name())
		}
	}
	slices.Sort(dirs)
	slices.Sort(files)
	return dirs, files, nil
}

// DirCount is the file census of one directory.
type DirCount struct {
	Path     string
	Files    int
	Groups   int
	Residual int
}

// Census counts the files, serialized families and residual files of every
// directory below and including path, in walk order.
func Census(path string) ([]DirCount, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, util.ErrExpectedDirectory
	}
	var out []DirCount
	var visit func(string) error
	visit = func(dir string) error {
		dirs, files, err := split(dir)
		if err != nil {
			return err
		}
		groups, residual := ranges.Group(files)
		out = append(out, DirCount{Path: dir, Files: len(files), Groups: len(groups), Residual: len(residual)})
		for _, d := range dirs {
			if err := visit(filepath.Join(dir, d)); err != nil {
				return err
			}
		}
		return nil
	}
	return out, visit(path)
}
