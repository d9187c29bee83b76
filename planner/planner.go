// Package planner turns the landing area into a move plan.
//
// Planning runs in two phases over a snapshot of the filesystem. Scan lists
// the acquisition locations of every source container and collects the
// sample identifiers of its serialized data files. Plan lists them again,
// selects every entry whose name contains a sample identifier, and computes
// where it belongs in the archive:
//
//	<destination>/<storage user>/<facility>/<YYYY_MM_DD>/<container>/<sample>/<location>/
//	<destination>/<storage user>/<facility>/<YYYY_MM_DD>/<container>/<sample>/processed/<method>/
//
// Nothing is moved here; the returned Plan is applied by package mover.
// Re-running Scan and Plan against an unchanged tree yields the same plan.
package planner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dendrascience/sbdatacore/dates"
	"github.com/dendrascience/sbdatacore/facility"
	"github.com/dendrascience/sbdatacore/ranges"
)

// Resolver maps a facility user name to its single storage identity.
type Resolver interface {
	Resolve(facilityUser string) (string, error)
}

// Config holds the layout rules of a planner.
type Config struct {
	RootMarker       string    // marks the landing root inside container paths
	LandingRoot      string    // when set, container paths are parsed relative to its parent
	DestinationRoot  string    // archive root, e.g. <base>/data/users
	Facility         string    // facility directory below the storage user, e.g. ALS
	Locations        []string  // acquisition subdirectories, e.g. screen, collect
	Extensions       []string  // data extensions that define samples, without dot
	Methods          []string  // derived-result tags in priority order
	ProcessedDir     string    // directory holding derived results, e.g. processed
	Reference        time.Time // date stamps are resolved against this day; zero means now
	SkipInvalidDates bool      // skip a container with a bad date stamp instead of failing
}

// Planner computes move plans. It holds no state between calls.
type Planner struct {
	cfg      Config
	resolver Resolver
	log      *zap.Logger
}

// New returns a planner. A nil logger discards output.
func New(cfg Config, resolver Resolver, log *zap.Logger) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ProcessedDir == "" {
		cfg.ProcessedDir = "processed"
	}
	return &Planner{cfg: cfg, resolver: resolver, log: log}
}

// Scan builds the sample inventory of the given source containers.
func (p *Planner) Scan(containers []string) (Inventory, error) {
	inv := make(Inventory, len(containers))
	for _, container := range containers {
		samples := make(map[string]struct{})
		for _, location := range p.cfg.Locations {
			names, err := listFiles(filepath.Join(container, location))
			if err != nil {
				return nil, fmt.Errorf("scanning %s: %w", container, err)
			}
			groups, _ := ranges.Group(names)
			for _, g := range groups {
				if !slices.Contains(p.cfg.Extensions, g.Extension()) {
					continue
				}
				for _, member := range g.Members {
					samples[SampleID(member)] = struct{}{}
				}
			}
		}
		ids := make([]string, 0, len(samples))
		for id := range samples {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		inv[container] = ids
		p.log.Debug("Scanned container",
			zap.String("container", container),
			zap.Strings("samples", ids))
	}
	return inv, nil
}

// Plan computes the moves for every container of inv.
func (p *Planner) Plan(inv Inventory) (*Plan, error) {
	ref := p.cfg.Reference
	if ref.IsZero() {
		ref = time.Now()
	}

	plan := &Plan{Created: time.Now().UTC()}
	dateSet := make(map[string]struct{})
	topSet := make(map[string]TopLevel)

	for _, container := range inv.Containers() {
		items, unmatched, top, err := p.planContainer(container, inv[container], ref)
		if err != nil {
			if p.cfg.SkipInvalidDates && isDateError(err) {
				p.log.Warn("Skipping container with unusable date stamp",
					zap.String("container", container),
					zap.Error(err))
				plan.Skipped = append(plan.Skipped, Skip{Container: container, Reason: err.Error()})
				continue
			}
			return nil, err
		}
		plan.Items = append(plan.Items, items...)
		plan.Unmatched = append(plan.Unmatched, unmatched...)
		if len(items) > 0 {
			dateSet[top.Date] = struct{}{}
			topSet[top.Path] = top
		}
	}

	// files first, then derived-result directories
	slices.SortStableFunc(plan.Items, func(a, b MoveItem) int {
		return int(a.Kind) - int(b.Kind)
	})

	for d := range dateSet {
		plan.Dates = append(plan.Dates, d)
	}
	slices.Sort(plan.Dates)
	for _, top := range topSet {
		plan.TopLevel = append(plan.TopLevel, top)
	}
	slices.SortFunc(plan.TopLevel, func(a, b TopLevel) int {
		return strings.Compare(a.Path, b.Path)
	})

	for _, src := range plan.Collisions() {
		p.log.Warn("Entry matches more than one sample; only the first move will apply",
			zap.String("source", src))
	}
	return plan, nil
}

// Build runs Scan followed by Plan.
func (p *Planner) Build(containers []string) (*Plan, Inventory, error) {
	inv, err := p.Scan(containers)
	if err != nil {
		return nil, nil, err
	}
	plan, err := p.Plan(inv)
	if err != nil {
		return nil, inv, err
	}
	return plan, inv, nil
}

func (p *Planner) planContainer(container string, samples []string, ref time.Time) (items []MoveItem, unmatched []string, top TopLevel, err error) {
	id, err := facility.Parse(p.identityPath(container), p.cfg.RootMarker)
	if err != nil {
		return nil, nil, top, err
	}
	date, err := dates.Convert(id.DateToken, ref)
	if err != nil {
		return nil, nil, top, fmt.Errorf("container %s: %w", container, err)
	}
	storageUser, err := p.resolver.Resolve(id.User)
	if err != nil {
		return nil, nil, top, fmt.Errorf("container %s: %w", container, err)
	}

	top = TopLevel{
		Path:        filepath.Join(p.cfg.DestinationRoot, storageUser, p.cfg.Facility, date),
		StorageUser: storageUser,
		Date:        date,
	}
	containerDest := filepath.Join(top.Path, id.Container)

	for _, location := range p.cfg.Locations {
		dir := filepath.Join(container, location)
		entries, err := readDir(dir)
		if err != nil {
			return nil, nil, top, fmt.Errorf("planning %s: %w", container, err)
		}
		matched := make(map[string]bool, len(entries))
		for _, sample := range samples {
			for _, e := range entries {
				if !strings.Contains(e.Name(), sample) {
					continue
				}
				matched[e.Name()] = true
				source := filepath.Join(dir, e.Name())
				if !e.IsDir() {
					items = append(items, MoveItem{
						Source:      source,
						Destination: filepath.Join(containerDest, sample, location),
						Kind:        File,
						Sample:      sample,
					})
					continue
				}
				method := p.methodTag(filepath.Join(location, e.Name()))
				items = append(items, MoveItem{
					Source:      source,
					Destination: filepath.Join(containerDest, sample, p.cfg.ProcessedDir, method),
					Kind:        Directory,
					Sample:      sample,
					Method:      method,
				})
			}
		}
		for _, e := range entries {
			if !e.IsDir() && !matched[e.Name()] {
				unmatched = append(unmatched, filepath.Join(dir, e.Name()))
			}
		}
	}
	return items, unmatched, top, nil
}

// identityPath strips everything above the landing root from container so
// that directories holding the landing area cannot match the root marker.
func (p *Planner) identityPath(container string) string {
	if p.cfg.LandingRoot == "" {
		return container
	}
	rel, err := filepath.Rel(filepath.Dir(filepath.Clean(p.cfg.LandingRoot)), container)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return container
	}
	return rel
}

// methodTag returns the first configured method occurring in rel, the
// entry's path relative to its container, or "" when none does.
func (p *Planner) methodTag(rel string) string {
	for _, m := range p.cfg.Methods {
		if strings.Contains(rel, m) {
			return m
		}
	}
	return ""
}

// SampleID is the part of a data file name before its first underscore.
func SampleID(name string) string {
	id, _, _ := strings.Cut(name, "_")
	return id
}

func isDateError(err error) bool {
	return errors.Is(err, dates.ErrInvalidDate) || errors.Is(err, dates.ErrInvalidDateFormat)
}

// readDir lists dir, treating a missing location as empty.
func readDir(dir string) ([]os.DirEntry, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}
	return os.ReadDir(dir)
}

func listFiles(dir string) ([]string, error) {
	entries, err := readDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
