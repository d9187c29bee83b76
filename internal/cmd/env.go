package cmd

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dendrascience/sbdatacore/handout"
	"github.com/dendrascience/sbdatacore/internal/config"
	"github.com/dendrascience/sbdatacore/internal/logging"
	"github.com/dendrascience/sbdatacore/planner"
	"github.com/dendrascience/sbdatacore/udb"
)

// env is what a command needs to work on one base directory.
type env struct {
	cfg   *config.Config
	paths config.Paths
	log   *zap.Logger
}

// loadEnv reads configuration, applies command-line overrides and builds the
// logger. Paths are resolved against base.
func loadEnv(flags *globalFlags, base string) (*env, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.udbPath != "" {
		cfg.UserDB = flags.udbPath
	}
	if flags.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	paths, err := cfg.Resolve(base)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logging.Config{Level: cfg.Logging.Level, Encoding: cfg.Logging.Encoding})
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, paths: paths, log: log}, nil
}

func (e *env) userDB() (*udb.DB, error) {
	db, err := udb.Load(e.paths.UserDB)
	if err != nil {
		return nil, fmt.Errorf("%w (set SBDATACORE_UDB or pass --udb)", err)
	}
	return db, nil
}

func (e *env) plannerConfig() planner.Config {
	return planner.Config{
		RootMarker:       e.cfg.RootMarker,
		DestinationRoot:  e.paths.Destination,
		Facility:         e.cfg.Facility,
		Locations:        e.cfg.Locations,
		Extensions:       e.cfg.Extensions,
		Methods:          e.cfg.Methods,
		ProcessedDir:     e.cfg.ProcessedDir,
		Reference:        time.Now(),
		SkipInvalidDates: e.cfg.SkipInvalidDates,
	}
}

func (e *env) handoutOptions(db *udb.DB) handout.Options {
	return handout.Options{
		Incoming: e.paths.Incoming,
		Depth:    e.cfg.Depth,
		Planner:  e.plannerConfig(),
		Resolver: db,
		Log:      e.log,
	}
}
