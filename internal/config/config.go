// Package config loads the handout configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the complete handout configuration.
type Config struct {
	Incoming         string   `yaml:"incoming"`
	Destination      string   `yaml:"destination"`
	RootMarker       string   `yaml:"root_marker"`
	Facility         string   `yaml:"facility"`
	Depth            int      `yaml:"depth"`
	Locations        []string `yaml:"locations"`
	Extensions       []string `yaml:"extensions"`
	Methods          []string `yaml:"methods"`
	ProcessedDir     string   `yaml:"processed_dir"`
	UserDB           string   `yaml:"user_db"`
	SkipInvalidDates bool     `yaml:"skip_invalid_dates"`

	Permissions PermissionsConfig `yaml:"permissions"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// PermissionsConfig controls permission finalization.
type PermissionsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Setfacl string `yaml:"setfacl"`
	Getfacl string `yaml:"getfacl"`
}

// MetricsConfig controls run metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // node-exporter textfile; empty disables
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"` // console or json
}

// DefaultConfig returns the layout used at the beamline.
func DefaultConfig() *Config {
	return &Config{
		Incoming:     "incoming",
		Destination:  filepath.Join("data", "users"),
		RootMarker:   "incoming",
		Facility:     "ALS",
		Depth:        3,
		Locations:    []string{"screen", "collect"},
		Extensions:   []string{"edf", "img", "cbf"},
		Methods:      []string{"xia2", "XDS", "DIALS"},
		ProcessedDir: "processed",
		Permissions: PermissionsConfig{
			Enabled: true,
			Setfacl: "setfacl",
			Getfacl: "getfacl",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SBDATACORE_UDB"); v != "" {
		c.UserDB = v
	}
	if v := os.Getenv("SBDATACORE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SBDATACORE_METRICS_TEXTFILE"); v != "" {
		c.Metrics.Textfile = v
	}
}

// Validate checks the configuration for values no run can work with.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Locations) == 0 {
		errs = append(errs, errors.New("no acquisition locations configured"))
	}
	if len(c.Extensions) == 0 {
		errs = append(errs, errors.New("no data extensions configured"))
	}
	if c.Depth < 1 {
		errs = append(errs, fmt.Errorf("container depth must be at least 1, got %d", c.Depth))
	}
	if c.RootMarker == "" {
		errs = append(errs, errors.New("root marker is empty"))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}
	switch c.Logging.Encoding {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log encoding %q (valid: console, json)", c.Logging.Encoding))
	}
	return errors.Join(errs...)
}

// Paths are the configured locations resolved against a base directory.
type Paths struct {
	Base        string
	Incoming    string
	Destination string
	UserDB      string
}

// Resolve makes the incoming, destination and user database paths absolute
// relative to base. An unset user database defaults to base/data.base.
func (c *Config) Resolve(base string) (Paths, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return Paths{}, err
	}
	udb := c.UserDB
	if udb == "" {
		udb = "data.base"
	}
	return Paths{
		Base:        abs,
		Incoming:    under(abs, c.Incoming),
		Destination: under(abs, c.Destination),
		UserDB:      under(abs, udb),
	}, nil
}

func under(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
