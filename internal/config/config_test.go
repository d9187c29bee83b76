package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SBDATACORE_UDB", "SBDATACORE_LOG_LEVEL", "SBDATACORE_METRICS_TEXTFILE"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "ALS", cfg.Facility)
	assert.Equal(t, 3, cfg.Depth)
	assert.Equal(t, []string{"screen", "collect"}, cfg.Locations)
	assert.Equal(t, []string{"xia2", "XDS", "DIALS"}, cfg.Methods)
	assert.True(t, cfg.Permissions.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sbdatacore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
facility: BL821
methods: [autoPROC, XDS]
skip_invalid_dates: true
permissions:
  enabled: false
logging:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "BL821", cfg.Facility)
	assert.Equal(t, []string{"autoPROC", "XDS"}, cfg.Methods)
	assert.True(t, cfg.SkipInvalidDates)
	assert.False(t, cfg.Permissions.Enabled)
	assert.Equal(t, "setfacl", cfg.Permissions.Setfacl, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"screen", "collect"}, cfg.Locations)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depth: [1,"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cfg.yaml")
	cfg := DefaultConfig()
	cfg.Facility = "SSRL"
	require.NoError(t, cfg.Save(path))

	clearEnv(t)
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SBDATACORE_UDB", "/etc/sbdatacore/users")
	t.Setenv("SBDATACORE_LOG_LEVEL", "warn")
	t.Setenv("SBDATACORE_METRICS_TEXTFILE", "/var/lib/node_exporter/sbdatacore.prom")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	assert.Equal(t, "/etc/sbdatacore/users", cfg.UserDB)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/var/lib/node_exporter/sbdatacore.prom", cfg.Metrics.Textfile)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "no locations", mutate: func(c *Config) { c.Locations = nil }, wantErr: "locations"},
		{name: "no extensions", mutate: func(c *Config) { c.Extensions = nil }, wantErr: "extensions"},
		{name: "zero depth", mutate: func(c *Config) { c.Depth = 0 }, wantErr: "depth"},
		{name: "empty marker", mutate: func(c *Config) { c.RootMarker = "" }, wantErr: "root marker"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "log level"},
		{name: "bad encoding", mutate: func(c *Config) { c.Logging.Encoding = "xml" }, wantErr: "log encoding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestResolve(t *testing.T) {
	base := t.TempDir()
	cfg := DefaultConfig()
	paths, err := cfg.Resolve(base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "incoming"), paths.Incoming)
	assert.Equal(t, filepath.Join(base, "data", "users"), paths.Destination)
	assert.Equal(t, filepath.Join(base, "data.base"), paths.UserDB)

	cfg.UserDB = "/srv/udb"
	cfg.Destination = "/archive/./users"
	paths, err = cfg.Resolve(base)
	require.NoError(t, err)
	assert.Equal(t, "/srv/udb", paths.UserDB)
	assert.Equal(t, "/archive/users", paths.Destination)
}
