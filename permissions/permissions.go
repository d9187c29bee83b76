// Package permissions finalizes ownership of handed-out data: every entry
// below a destination directory is made owner-only and the storage identity
// is granted rwx through a POSIX ACL.
package permissions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Runner runs an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return out, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// OwnerOnly is the mode applied to every finalized entry.
const OwnerOnly fs.FileMode = 0o700

// Finalizer applies and reports permissions.
type Finalizer struct {
	Runner  Runner
	Setfacl string // defaults to "setfacl"
	Getfacl string // defaults to "getfacl"
	Log     *zap.Logger
}

// NewFinalizer returns a Finalizer that shells out to the system ACL tools.
func NewFinalizer(log *zap.Logger) *Finalizer {
	return &Finalizer{Runner: ExecRunner{}, Log: log}
}

func (f *Finalizer) runner() Runner {
	if f.Runner == nil {
		return ExecRunner{}
	}
	return f.Runner
}

func (f *Finalizer) setfacl() string {
	if f.Setfacl == "" {
		return "setfacl"
	}
	return f.Setfacl
}

func (f *Finalizer) getfacl() string {
	if f.Getfacl == "" {
		return "getfacl"
	}
	return f.Getfacl
}

func (f *Finalizer) log() *zap.Logger {
	if f.Log == nil {
		return zap.NewNop()
	}
	return f.Log
}

// Apply finalizes every descendant of dir; dir itself is left alone. For
// each entry the existing ACL is removed, the mode is set to 0700 and the
// identity is granted rwx. Failures on individual entries do not stop the
// walk; they are returned together. It returns the number of entries
// handled.
func (f *Finalizer) Apply(ctx context.Context, dir, identity string) (int, error) {
	if identity == "" {
		return 0, errors.New("permissions: empty identity")
	}
	paths, err := descendants(dir)
	if err != nil {
		return 0, err
	}

	run := f.runner()
	grant := fmt.Sprintf("u:%s:rwx", identity)
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if _, err := run.Run(ctx, f.setfacl(), "-b", path); err != nil {
			errs = append(errs, err)
		}
		if err := os.Chmod(path, OwnerOnly); err != nil {
			errs = append(errs, err)
		}
		if _, err := run.Run(ctx, f.setfacl(), "-m", grant, path); err != nil {
			errs = append(errs, err)
		}
	}

	f.log().Info("Finalized permissions",
		zap.String("dir", dir),
		zap.String("identity", identity),
		zap.Int("entries", len(paths)),
		zap.Int("errors", len(errs)))
	return len(paths), errors.Join(errs...)
}

// Entry is one line of a permission report.
type Entry struct {
	Path string
	Mode fs.FileMode
	ACL  string // getfacl -p output
}

// Check reports the mode and ACL of every descendant of dir.
func (f *Finalizer) Check(ctx context.Context, dir string) ([]Entry, error) {
	paths, err := descendants(dir)
	if err != nil {
		return nil, err
	}
	run := f.runner()
	report := make([]Entry, 0, len(paths))
	for _, path := range paths {
		info, err := os.Lstat(path)
		if err != nil {
			return report, err
		}
		acl, err := run.Run(ctx, f.getfacl(), "-p", path)
		if err != nil {
			return report, err
		}
		report = append(report, Entry{Path: path, Mode: info.Mode().Perm(), ACL: string(acl)})
	}
	return report, nil
}

// FormatReport renders a permission report as text.
func FormatReport(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "Permissions for %s: %03o\n", e.Path, e.Mode)
		fmt.Fprintf(&b, "ACLs for %s:\n%s", e.Path, e.ACL)
		if !strings.HasSuffix(e.ACL, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// descendants lists every entry below dir in walk order, excluding dir.
func descendants(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", dir)
	}
	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}
