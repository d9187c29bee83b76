// Package mover applies a move plan to the filesystem.
//
// Application is "move if present": an item whose source has already gone
// is skipped, so an interrupted run can be re-planned and re-applied over the
// remaining files. Directory moves relocate the whole directory and are never
// flattened into per-file moves.
package mover

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/dendrascience/sbdatacore/planner"
	"github.com/dendrascience/sbdatacore/util"
)

var (
	ErrDestinationExists = errors.New("destination already exists")
	ErrIncompleteRun     = errors.New("files remain in the source tree")
	ErrChecksumMismatch  = errors.New("copy does not match source")
)

// Result counts what Apply did.
type Result struct {
	Files       int
	Directories int
	Skipped     int // sources already gone
	Copied      int // moves that crossed a device boundary
}

// Moved is the number of entries relocated.
func (r Result) Moved() int {
	return r.Files + r.Directories
}

// Mover executes MoveItems. The zero value moves for real and discards logs.
type Mover struct {
	DryRun bool
	Log    *zap.Logger
}

// Apply executes items in order. It stops at the first failure and returns
// the counts so far along with the error.
func (m *Mover) Apply(ctx context.Context, items []planner.MoveItem) (Result, error) {
	log := m.Log
	if log == nil {
		log = zap.NewNop()
	}

	var res Result
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		info, err := os.Lstat(item.Source)
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("Source already moved", zap.String("source", item.Source))
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("checking %s: %w", item.Source, err)
		}
		if item.Kind == planner.Directory && !info.IsDir() {
			return res, fmt.Errorf("%s: planned as a directory move but is not a directory", item.Source)
		}

		target := item.Target()
		if m.DryRun {
			log.Info("Would move",
				zap.String("source", item.Source),
				zap.String("target", target),
				zap.Stringer("kind", item.Kind))
			count(&res, item.Kind)
			continue
		}

		if err := os.MkdirAll(item.Destination, 0o755); err != nil {
			return res, fmt.Errorf("creating %s: %w", item.Destination, err)
		}
		if _, err := os.Lstat(target); err == nil {
			return res, fmt.Errorf("%w: %s", ErrDestinationExists, target)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return res, fmt.Errorf("checking %s: %w", target, err)
		}

		copied, err := move(item.Source, target)
		if err != nil {
			return res, fmt.Errorf("moving %s to %s: %w", item.Source, target, err)
		}
		if copied {
			res.Copied++
		}
		count(&res, item.Kind)
		log.Debug("Moved",
			zap.String("source", item.Source),
			zap.String("target", target),
			zap.Stringer("kind", item.Kind))
	}
	return res, nil
}

func count(res *Result, k planner.Kind) {
	if k == planner.Directory {
		res.Directories++
		return
	}
	res.Files++
}

// move renames src to dst, falling back to copy and remove when the two
// live on different devices. It reports whether the fallback was used.
func move(src, dst string) (bool, error) {
	err := os.Rename(src, dst)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return false, err
	}
	if err := copyTree(src, dst); err != nil {
		os.RemoveAll(dst)
		return true, err
	}
	return true, os.RemoveAll(src)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	want := fmt.Sprintf("%x", h.Sum(nil))
	got, err := util.FileDigest(dst)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: %s", ErrChecksumMismatch, dst)
	}
	return nil
}
