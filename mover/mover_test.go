package mover

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dendrascience/sbdatacore/planner"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestApply(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "incoming", "collect")
	dst := filepath.Join(root, "data", "Pin1")
	write(t, filepath.Join(src, "Pin1_1_00001.cbf"), "frame")
	write(t, filepath.Join(src, "XDS_Pin1_1", "results.txt"), "xds")
	write(t, filepath.Join(src, "XDS_Pin1_1", "nested", "INTEGRATE.LP"), "lp")

	items := []planner.MoveItem{
		{Source: filepath.Join(src, "Pin1_1_00001.cbf"), Destination: filepath.Join(dst, "collect"), Kind: planner.File, Sample: "Pin1"},
		{Source: filepath.Join(src, "XDS_Pin1_1"), Destination: filepath.Join(dst, "processed", "XDS"), Kind: planner.Directory, Sample: "Pin1", Method: "XDS"},
	}

	m := &Mover{}
	res, err := m.Apply(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, Result{Files: 1, Directories: 1}, res)
	assert.Equal(t, 2, res.Moved())

	assert.NoFileExists(t, filepath.Join(src, "Pin1_1_00001.cbf"))
	assert.NoDirExists(t, filepath.Join(src, "XDS_Pin1_1"))
	data, err := os.ReadFile(filepath.Join(dst, "collect", "Pin1_1_00001.cbf"))
	require.NoError(t, err)
	assert.Equal(t, "frame", string(data))
	// the directory keeps its own name and contents
	assert.FileExists(t, filepath.Join(dst, "processed", "XDS", "XDS_Pin1_1", "nested", "INTEGRATE.LP"))

	// a second application over the same plan only skips
	res, err = m.Apply(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 2}, res)
}

func TestApply_DryRun(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "Pin1_0_00001.cbf")
	write(t, src, "x")

	core, logs := observer.New(zapcore.InfoLevel)
	m := &Mover{DryRun: true, Log: zap.New(core)}
	res, err := m.Apply(context.Background(), []planner.MoveItem{
		{Source: src, Destination: filepath.Join(root, "out"), Kind: planner.File},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Files)
	assert.FileExists(t, src)
	assert.NoDirExists(t, filepath.Join(root, "out"))
	require.Equal(t, 1, logs.FilterMessage("Would move").Len())
	assert.Equal(t, filepath.Join(root, "out", "Pin1_0_00001.cbf"), logs.All()[0].ContextMap()["target"])
}

func TestApply_DirectoryTargetExists(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "DIALS_Pin1_1")
	dest := filepath.Join(root, "out")
	write(t, filepath.Join(src, "a.txt"), "a")
	write(t, filepath.Join(dest, "DIALS_Pin1_1", "b.txt"), "b")

	_, err := (&Mover{}).Apply(context.Background(), []planner.MoveItem{
		{Source: src, Destination: dest, Kind: planner.Directory},
	})
	assert.ErrorIs(t, err, ErrDestinationExists)
	assert.DirExists(t, src)
}

func TestApply_FileTargetExists(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "Pin1_1_00001.cbf")
	dest := filepath.Join(root, "out")
	archived := filepath.Join(dest, "Pin1_1_00001.cbf")
	write(t, src, "new")
	write(t, archived, "archived")

	res, err := (&Mover{}).Apply(context.Background(), []planner.MoveItem{
		{Source: src, Destination: dest, Kind: planner.File},
	})
	assert.ErrorIs(t, err, ErrDestinationExists)
	assert.Equal(t, 0, res.Moved())
	assert.FileExists(t, src)

	data, err := os.ReadFile(archived)
	require.NoError(t, err)
	assert.Equal(t, "archived", string(data))
}

func TestApply_KindMismatch(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "not_a_dir")
	write(t, src, "x")

	_, err := (&Mover{}).Apply(context.Background(), []planner.MoveItem{
		{Source: src, Destination: filepath.Join(root, "out"), Kind: planner.Directory},
	})
	assert.Error(t, err)
	assert.FileExists(t, src)
}

func TestApply_Cancelled(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "f")
	write(t, src, "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Mover{}).Apply(ctx, []planner.MoveItem{{Source: src, Destination: root}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.FileExists(t, src)
}

func TestCopyTree(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	write(t, filepath.Join(src, "a.txt"), "a")
	write(t, filepath.Join(src, "sub", "b.txt"), "b")
	require.NoError(t, os.Symlink("a.txt", filepath.Join(src, "link")))

	dst := filepath.Join(root, "dst")
	require.NoError(t, copyTree(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
	link, err := os.Readlink(filepath.Join(dst, "link"))
	require.NoError(t, err)
	assert.Equal(t, "a.txt", link)

	assert.ErrorIs(t, copyFile(filepath.Join(src, "a.txt"), filepath.Join(dst, "a.txt"), 0o644), os.ErrExist)
}

func TestVerify(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "kamala", "12323", "snoopy", "screen"), 0o755))
	assert.NoError(t, Verify(root))

	leftover := filepath.Join(root, "kamala", "12323", "snoopy", "screen", "notes.txt")
	write(t, leftover, "x")
	err := Verify(root)
	assert.ErrorIs(t, err, ErrIncompleteRun)

	var incomplete *IncompleteRunError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []string{leftover}, incomplete.Leftovers)
	assert.Contains(t, err.Error(), "1 file(s) left")
	assert.Contains(t, err.Error(), leftover)
}

func TestIncompleteRunError_Truncates(t *testing.T) {
	err := &IncompleteRunError{Root: "/r", Leftovers: []string{"a", "b", "c", "d", "e", "f", "g"}}
	assert.Equal(t, ErrIncompleteRun.Error()+": 7 file(s) left under /r: a, b, c, d, e, ...", err.Error())
}

func TestPruneEmptyDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "kamala", "12323", "snoopy", "screen"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "mike", "010124", "mother", "collect"), 0o755))
	keep := filepath.Join(root, "mike", "021224", "mother", "screen", "odd.txt")
	write(t, keep, "x")

	removed, err := PruneEmptyDirs(root)
	require.NoError(t, err)
	assert.Equal(t, 7, removed)
	assert.DirExists(t, root)
	assert.NoDirExists(t, filepath.Join(root, "kamala"))
	assert.NoDirExists(t, filepath.Join(root, "mike", "010124"))
	assert.FileExists(t, keep)

	_, err = PruneEmptyDirs(keep)
	assert.Error(t, err)
}
