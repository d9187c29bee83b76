package preview

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	"github.com/dendrascience/sbdatacore/planner"
	"github.com/dendrascience/sbdatacore/util"
)

var (
	_ fusefs.FS                 = (*FS)(nil)
	_ fusefs.Node               = (*Dir)(nil)
	_ fusefs.NodeStringLookuper = (*Dir)(nil)
	_ fusefs.HandleReadDirAller = (*Dir)(nil)
	_ fusefs.Node               = (*File)(nil)
	_ fusefs.HandleReadAller    = (*File)(nil)
)

// FS is a read-only view of where a plan would put every entry.
type FS struct {
	root    *Dir
	created time.Time
	skipped int
}

// New lays out plan relative to destRoot. Moves targeting a path outside
// destRoot, or a path an earlier move already claimed, are left out.
func New(plan *planner.Plan, destRoot string) *FS {
	f := &FS{created: plan.Created}
	if f.created.IsZero() {
		f.created = time.Now()
	}
	f.root = &Dir{fs: f, vpath: "/", children: map[string]node{}}

	for _, item := range plan.Items {
		rel, err := filepath.Rel(destRoot, item.Target())
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			f.skipped++
			continue
		}
		if !f.insert(filepath.ToSlash(rel), item) {
			f.skipped++
		}
	}
	return f
}

// Skipped is the number of plan items that could not be placed.
func (f *FS) Skipped() int {
	return f.skipped
}

// Root returns the root directory node.
func (f *FS) Root() (fusefs.Node, error) {
	return f.root, nil
}

func (f *FS) insert(rel string, item planner.MoveItem) bool {
	parts := strings.Split(rel, "/")
	dir := f.root
	for _, part := range parts[:len(parts)-1] {
		child, ok := dir.children[part]
		if !ok {
			sub := &Dir{fs: f, vpath: path.Join(dir.vpath, part), children: map[string]node{}}
			dir.children[part] = sub
			dir = sub
			continue
		}
		sub, ok := child.(*Dir)
		if !ok || sub.children == nil {
			return false
		}
		dir = sub
	}

	name := parts[len(parts)-1]
	if _, taken := dir.children[name]; taken {
		return false
	}
	vpath := path.Join(dir.vpath, name)
	if item.Kind == planner.Directory {
		dir.children[name] = &Dir{fs: f, vpath: vpath, source: item.Source}
	} else {
		dir.children[name] = &File{vpath: vpath, source: item.Source}
	}
	return true
}

type node interface {
	fusefs.Node
	direntType() fuse.DirentType
	inode() uint64
}

// Dir is either a directory synthesized from the plan (children set) or a
// derived-result directory mirrored from its current source location.
type Dir struct {
	fs       *FS
	vpath    string
	children map[string]node
	source   string
}

func (d *Dir) inode() uint64 {
	if d.vpath == "/" {
		return util.RootInode
	}
	return util.InodeForPath(d.vpath)
}

func (d *Dir) direntType() fuse.DirentType { return fuse.DT_Dir }

// Attr returns directory attributes.
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = d.inode()
	a.Mode = os.ModeDir | 0o555
	a.Mtime = d.fs.created
	a.Ctime = d.fs.created
	a.Atime = d.fs.created
	if d.source != "" {
		if info, err := os.Stat(d.source); err == nil {
			a.Mtime = info.ModTime()
			a.Ctime = info.ModTime()
		}
	}
	return nil
}

// Lookup resolves a child by name.
func (d *Dir) Lookup(ctx context.Context, name string) (fusefs.Node, error) {
	if d.children != nil {
		if child, ok := d.children[name]; ok {
			return child, nil
		}
		return nil, syscall.ENOENT
	}
	child, err := d.mirrored(name)
	if err != nil {
		return nil, err
	}
	return child, nil
}

func (d *Dir) mirrored(name string) (node, error) {
	src := filepath.Join(d.source, name)
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, syscall.ENOENT
		}
		return nil, err
	}
	vpath := path.Join(d.vpath, name)
	if info.IsDir() {
		return &Dir{fs: d.fs, vpath: vpath, source: src}, nil
	}
	return &File{vpath: vpath, source: src}, nil
}

// ReadDirAll lists the directory, sorted by name.
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	var dirents []fuse.Dirent
	if d.children != nil {
		for name, child := range d.children {
			dirents = append(dirents, fuse.Dirent{Inode: child.inode(), Name: name, Type: child.direntType()})
		}
	} else {
		entries, err := os.ReadDir(d.source)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, syscall.ENOENT
			}
			return nil, err
		}
		for _, e := range entries {
			child, err := d.mirrored(e.Name())
			if err != nil {
				continue
			}
			dirents = append(dirents, fuse.Dirent{Inode: child.inode(), Name: e.Name(), Type: child.direntType()})
		}
	}
	slices.SortFunc(dirents, func(a, b fuse.Dirent) int {
		return strings.Compare(a.Name, b.Name)
	})
	return dirents, nil
}

// File serves the content of a planned file from its source location.
type File struct {
	vpath  string
	source string
}

func (f *File) inode() uint64 { return util.InodeForPath(f.vpath) }

func (f *File) direntType() fuse.DirentType { return fuse.DT_File }

// Attr returns file attributes taken from the source file.
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	info, err := os.Stat(f.source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return syscall.ENOENT
		}
		return err
	}
	a.Inode = f.inode()
	a.Mode = 0o444
	a.Size = uint64(info.Size())
	a.Mtime = info.ModTime()
	a.Ctime = info.ModTime()
	a.Atime = time.Now()
	return nil
}

// ReadAll reads the source file.
func (f *File) ReadAll(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.source)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, syscall.ENOENT
	}
	return data, err
}
