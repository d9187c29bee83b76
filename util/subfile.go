package util

import (
	"io/fs"
	"os"
	"path/filepath"
)

// CountFiles counts every non-directory entry below path, recursively.
func CountFiles(path string) (int, error) {
	count := 0
	err := walkFiles(path, func(string) {
		count++
	})
	return count, err
}

// ListFiles returns the paths of every non-directory entry below path, in
// lexical order.
func ListFiles(path string) ([]string, error) {
	var files []string
	err := walkFiles(path, func(p string) {
		files = append(files, p)
	})
	return files, err
}

func walkFiles(path string, visit func(string)) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return ErrExpectedDirectory
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			visit(p)
		}
		return nil
	})
}
