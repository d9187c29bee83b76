// Package handout runs one complete hand-out of facility data: discover
// source containers, plan, move, finalize permissions on every touched
// date directory, then check that the incoming root holds no files.
package handout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dendrascience/sbdatacore/facility"
	"github.com/dendrascience/sbdatacore/internal/metrics"
	"github.com/dendrascience/sbdatacore/mover"
	"github.com/dendrascience/sbdatacore/planner"
)

// Finalizer applies final permissions below a destination directory.
type Finalizer interface {
	Apply(ctx context.Context, dir, identity string) (int, error)
}

// Options configure a run.
type Options struct {
	Incoming string // landing root
	Depth    int    // container depth below Incoming
	Planner  planner.Config
	Resolver planner.Resolver

	DryRun    bool
	Finalizer Finalizer // nil leaves permissions alone
	Metrics   *metrics.Metrics
	Log       *zap.Logger
	RunID     string // generated when empty
}

// Report describes a finished run.
type Report struct {
	RunID      string
	Containers []string
	Plan       *planner.Plan
	Moves      mover.Result
	Finalized  int // entries whose permissions were set
	Pruned     int
	Leftovers  []string
	Duration   time.Duration
}

// Plan discovers containers and computes the plan without touching the
// filesystem.
func Plan(opts Options) (*planner.Plan, planner.Inventory, error) {
	containers := facility.PathsAtDepth(opts.Incoming, opts.Depth)
	cfg := opts.Planner
	if cfg.LandingRoot == "" {
		cfg.LandingRoot = opts.Incoming
	}
	p := planner.New(cfg, opts.Resolver, logger(opts))
	return p.Build(containers)
}

// Run performs a full hand-out. A run that leaves files below the incoming
// root fails with an error matching mover.ErrIncompleteRun; the report is
// filled as far as the run got.
func Run(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()
	rep := &Report{RunID: opts.RunID}
	if rep.RunID == "" {
		rep.RunID = uuid.New().String()
	}
	log := logger(opts).With(zap.String("run_id", rep.RunID))
	opts.Log = log

	err := run(ctx, opts, rep)
	rep.Duration = time.Since(start)
	if opts.Metrics != nil && !opts.DryRun {
		opts.Metrics.ObserveRun(start, err == nil)
	}
	if err != nil {
		log.Error("Run failed", zap.Error(err), zap.Duration("duration", rep.Duration))
		return rep, err
	}
	log.Info("Run complete",
		zap.Int("moved", rep.Moves.Moved()),
		zap.Int("skipped", rep.Moves.Skipped),
		zap.Int("pruned", rep.Pruned),
		zap.Duration("duration", rep.Duration))
	return rep, nil
}

func run(ctx context.Context, opts Options, rep *Report) error {
	log := opts.Log
	m := opts.Metrics

	plan, inv, err := Plan(opts)
	rep.Containers = inv.Containers()
	if err != nil {
		return err
	}
	plan.RunID = rep.RunID
	rep.Plan = plan
	log.Info("Planned",
		zap.Int("containers", len(rep.Containers)),
		zap.Int("files", len(plan.Files())),
		zap.Int("directories", len(plan.Directories())),
		zap.Strings("dates", plan.Dates))
	if m != nil {
		recordPlan(m, plan, inv)
	}
	for _, f := range plan.Unmatched {
		log.Warn("File matches no sample", zap.String("path", f))
	}

	mv := &mover.Mover{DryRun: opts.DryRun, Log: log}
	rep.Moves, err = mv.Apply(ctx, plan.Items)
	if m != nil {
		m.MovedTotal.WithLabelValues(planner.File.String()).Add(float64(rep.Moves.Files))
		m.MovedTotal.WithLabelValues(planner.Directory.String()).Add(float64(rep.Moves.Directories))
		m.CopiedTotal.Add(float64(rep.Moves.Copied))
	}
	if err != nil {
		return err
	}
	if opts.DryRun {
		return nil
	}

	if opts.Finalizer != nil {
		var errs []error
		for _, top := range plan.TopLevel {
			n, err := opts.Finalizer.Apply(ctx, top.Path, top.StorageUser)
			rep.Finalized += n
			if err != nil {
				errs = append(errs, fmt.Errorf("finalizing %s: %w", top.Path, err))
			}
		}
		if err := errors.Join(errs...); err != nil {
			return err
		}
	}

	verr := mover.Verify(opts.Incoming)
	var incomplete *mover.IncompleteRunError
	if errors.As(verr, &incomplete) {
		rep.Leftovers = incomplete.Leftovers
	}
	if m != nil {
		m.LeftoverFiles.Set(float64(len(rep.Leftovers)))
	}
	if verr != nil {
		return verr
	}

	rep.Pruned, err = mover.PruneEmptyDirs(opts.Incoming)
	if m != nil {
		m.PrunedTotal.Add(float64(rep.Pruned))
	}
	return err
}

func recordPlan(m *metrics.Metrics, plan *planner.Plan, inv planner.Inventory) {
	m.ContainersTotal.Add(float64(len(inv)))
	m.PlannedTotal.WithLabelValues(planner.File.String()).Add(float64(len(plan.Files())))
	m.PlannedTotal.WithLabelValues(planner.Directory.String()).Add(float64(len(plan.Directories())))
	m.CollisionsTotal.Add(float64(len(plan.Collisions())))
	m.UnmatchedTotal.Add(float64(len(plan.Unmatched)))
	m.SkippedTotal.Add(float64(len(plan.Skipped)))
	for _, ids := range inv {
		m.SamplesTotal.Add(float64(len(ids)))
	}
}

func logger(opts Options) *zap.Logger {
	if opts.Log == nil {
		return zap.NewNop()
	}
	return opts.Log
}
