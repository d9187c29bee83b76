package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dendrascience/sbdatacore/handout"
	"github.com/dendrascience/sbdatacore/preview"
	"github.com/dendrascience/sbdatacore/version"
)

// NewPreviewCmd creates and returns the preview subcommand for the sbdatacore CLI.
// It mounts the planned archive layout read-only.
func NewPreviewCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "preview BASE_DIR MOUNTPOINT",
		Short: "Mount the planned archive layout read-only",
		Long: `Plan a hand-out of BASE_DIR and mount the resulting archive layout at
MOUNTPOINT without moving anything.

Files read through to their current location below incoming. The plan is
computed once at mount time. MOUNTPOINT may not lie inside BASE_DIR or
contain it. Interrupt to unmount.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, flags, args[0], args[1])
		},
	}
}

func runPreview(cmd *cobra.Command, flags *globalFlags, base, mountpoint string) error {
	if pathsOverlap(base, mountpoint) {
		return fmt.Errorf("mountpoint %s overlaps base directory %s", mountpoint, base)
	}

	e, err := loadEnv(flags, base)
	if err != nil {
		return err
	}
	defer e.log.Sync()
	log := e.log

	db, err := e.userDB()
	if err != nil {
		return err
	}
	plan, _, err := handout.Plan(e.handoutOptions(db))
	if err != nil {
		return err
	}
	filesystem := preview.New(plan, e.paths.Destination)
	if n := filesystem.Skipped(); n > 0 {
		log.Warn("Some planned moves are not shown", zap.Int("count", n))
	}

	if err := os.MkdirAll(mountpoint, 0o755); err != nil {
		return fmt.Errorf("failed to create mountpoint: %w", err)
	}
	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("sbdatacore"),
		fuse.Subtype("sbdatacore"),
		fuse.ReadOnly(),
	)
	if err != nil {
		return err
	}
	defer c.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	done := make(chan struct{})
	defer close(done)
	go unmountOnSignal(cmd.Context(), log, mountpoint, sigChan, done)

	log.Info("Preview mounted",
		zap.String("version", version.GetVersion()),
		zap.String("mountpoint", mountpoint),
		zap.String("base", e.paths.Base),
		zap.Int("moves", len(plan.Items)))
	if err := fs.Serve(c, filesystem); err != nil {
		return err
	}
	log.Info("Shutdown complete")
	return nil
}

// unmountOnSignal unmounts mountpoint on interrupt or cancellation. It
// returns without unmounting once done is closed.
func unmountOnSignal(ctx context.Context, log *zap.Logger, mountpoint string, sig <-chan os.Signal, done <-chan struct{}) {
	select {
	case <-done:
		return
	case <-sig:
		log.Info("Received interrupt signal, unmounting")
	case <-ctx.Done():
	}
	if err := unmount(mountpoint); err != nil {
		log.Warn("Unmount failed", zap.Error(err))
	}
}

var unmount = fuse.Unmount

// pathsOverlap reports whether one path is the other or lies inside it.
func pathsOverlap(a, b string) bool {
	absA, err := filepath.Abs(a)
	if err != nil {
		return true
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return true
	}
	return within(absA, absB) || within(absB, absA)
}

func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
