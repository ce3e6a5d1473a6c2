package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "hydro.json", cfg.Data.Schemes)
	assert.Equal(t, "mlwplaces_point.json", cfg.Data.Places)
	assert.Equal(t, "hotosm_mwi_roads_lines_geojson.geojson", cfg.Data.Roads)
	assert.Equal(t, DefaultSourceProjection, cfg.Projection.Source)
	assert.True(t, cfg.Projection.Auto)
	assert.InDelta(t, -13.5, cfg.Map.CenterLat, 0.0001)
	assert.InDelta(t, 34.0, cfg.Map.CenterLon, 0.0001)
	assert.Equal(t, 6, cfg.Map.Zoom)
	assert.Equal(t, 7, cfg.Map.PlacesZoom)
	assert.InDelta(t, -13.9826, cfg.Map.PlacesCenterLat, 0.0001)
	assert.InDelta(t, 33.773762, cfg.Map.PlacesCenterLon, 0.0001)
	assert.Equal(t, 20, cfg.Proximity.Limit)
	assert.InDelta(t, 50.0, cfg.Proximity.WithinKM, 0.001)
	assert.InDelta(t, 10.0, cfg.Proximity.BufferKM, 0.001)
	assert.Equal(t, []string{"primary", "secondary", "tertiary"}, cfg.Roads.MajorTypes)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 8501, cfg.Server.Port)
	assert.Empty(t, cfg.Data.Sources.Schemes)
	assert.Equal(t, 2*time.Minute, cfg.Fetch.Timeout)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.InDelta(t, 2.0, cfg.Fetch.RatePerHost, 0.001)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
data:
  schemes: data/hydro.geojson
log:
  level: debug
  format: console
server:
  port: 9090
proximity:
  within_km: 25
roads:
  major_types: [primary, trunk]
fetch:
  timeout: 30s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/hydro.geojson", cfg.Data.Schemes)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 25.0, cfg.Proximity.WithinKM, 0.001)
	assert.Equal(t, []string{"primary", "trunk"}, cfg.Roads.MajorTypes)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	// Defaults still apply for unset values
	assert.InDelta(t, 10.0, cfg.Proximity.BufferKM, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("HYDROMAP_STORE_DRIVER", "sqlite")
	t.Setenv("HYDROMAP_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("HYDROMAP_SERVER_PORT", "3000")
	t.Setenv("HYDROMAP_DATA_SCHEMES", "/srv/hydro.json")
	t.Setenv("HYDROMAP_DATA_SOURCES_ROADS", "https://example.org/roads.geojson")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "/srv/hydro.json", cfg.Data.Schemes)
	assert.Equal(t, "https://example.org/roads.geojson", cfg.Data.Sources.Roads)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Data.Schemes = "hydro.json"
	cfg.Map.OutputDir = "."
	cfg.Proximity.Limit = 20
	cfg.Proximity.WithinKM = 50
	cfg.Proximity.BufferKM = 10
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "file:hydromap.db"
	cfg.Server.Port = 8501
	return cfg
}

func TestValidateRender(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("render"))

	cfg.Map.OutputDir = ""
	err := cfg.Validate("render")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "map.output_dir is required")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate("serve"))
}

func TestValidateStore(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("store"))

	cfg.Store.Driver = "duckdb"
	cfg.Store.DatabaseURL = ""
	err := cfg.Validate("store")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be sqlite or postgres")
	assert.Contains(t, err.Error(), "store.database_url is required")
}

func TestValidateProximityBounds(t *testing.T) {
	cfg := validDefaults()
	cfg.Proximity.WithinKM = 0
	cfg.Proximity.BufferKM = -1
	cfg.Proximity.Limit = -5

	err := cfg.Validate("render")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "proximity.within_km")
	assert.Contains(t, err.Error(), "proximity.buffer_km")
	assert.Contains(t, err.Error(), "proximity.limit")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
