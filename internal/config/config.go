package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data       DataConfig       `yaml:"data" mapstructure:"data"`
	Projection ProjectionConfig `yaml:"projection" mapstructure:"projection"`
	Map        MapConfig        `yaml:"map" mapstructure:"map"`
	Proximity  ProximityConfig  `yaml:"proximity" mapstructure:"proximity"`
	Roads      RoadsConfig      `yaml:"roads" mapstructure:"roads"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// DataConfig points at the input GeoJSON layers.
type DataConfig struct {
	Schemes string `yaml:"schemes" mapstructure:"schemes"`
	Places  string `yaml:"places" mapstructure:"places"`
	Roads   string `yaml:"roads" mapstructure:"roads"`
	// Sources are optional download URLs for the layers above.
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`
}

// SourcesConfig holds remote URLs for the input layers.
type SourcesConfig struct {
	Schemes string `yaml:"schemes" mapstructure:"schemes"`
	Places  string `yaml:"places" mapstructure:"places"`
	Roads   string `yaml:"roads" mapstructure:"roads"`
}

// ProjectionConfig describes the coordinate system of the scheme layer.
// Source is a proj4 definition. With Auto set, coordinates that already
// fall inside the geographic range are kept as longitude/latitude.
type ProjectionConfig struct {
	Source string `yaml:"source" mapstructure:"source"`
	Auto   bool   `yaml:"auto" mapstructure:"auto"`
}

// MapConfig configures rendered map pages.
type MapConfig struct {
	OutputDir  string  `yaml:"output_dir" mapstructure:"output_dir"`
	CenterLat  float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLon  float64 `yaml:"center_lon" mapstructure:"center_lon"`
	Zoom       int     `yaml:"zoom" mapstructure:"zoom"`
	PlacesZoom int     `yaml:"places_zoom" mapstructure:"places_zoom"`
	// The places map is centred on Lilongwe rather than the country.
	PlacesCenterLat float64 `yaml:"places_center_lat" mapstructure:"places_center_lat"`
	PlacesCenterLon float64 `yaml:"places_center_lon" mapstructure:"places_center_lon"`
	RoadsZoom       int     `yaml:"roads_zoom" mapstructure:"roads_zoom"`
	StyleFile       string  `yaml:"style_file" mapstructure:"style_file"`
}

// ProximityConfig tunes the proximity engine.
type ProximityConfig struct {
	Limit    int     `yaml:"limit" mapstructure:"limit"`
	WithinKM float64 `yaml:"within_km" mapstructure:"within_km"`
	BufferKM float64 `yaml:"buffer_km" mapstructure:"buffer_km"`
}

// RoadsConfig selects which highway types make up the road network.
type RoadsConfig struct {
	MajorTypes []string `yaml:"major_types" mapstructure:"major_types"`
}

// StoreConfig configures the result store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// FetchConfig tunes layer downloads.
type FetchConfig struct {
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxRetries  int           `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerHost float64       `yaml:"rate_per_host" mapstructure:"rate_per_host"`
}

// ServerConfig configures the dashboard server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultSourceProjection is Cape / UTM zone 36S (EPSG:22236), the projection
// of the hydro survey export.
const DefaultSourceProjection = "+proj=utm +zone=36 +south +a=6378249.145 +b=6356514.966398753 +towgs84=-136,-108,-292,0,0,0,0 +units=m +no_defs"

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HYDROMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.schemes", "hydro.json")
	v.SetDefault("data.places", "mlwplaces_point.json")
	v.SetDefault("data.roads", "hotosm_mwi_roads_lines_geojson.geojson")
	v.SetDefault("data.sources.schemes", "")
	v.SetDefault("data.sources.places", "")
	v.SetDefault("data.sources.roads", "")
	v.SetDefault("projection.source", DefaultSourceProjection)
	v.SetDefault("projection.auto", true)
	v.SetDefault("map.output_dir", ".")
	v.SetDefault("map.center_lat", -13.5)
	v.SetDefault("map.center_lon", 34.0)
	v.SetDefault("map.zoom", 6)
	v.SetDefault("map.places_zoom", 7)
	v.SetDefault("map.places_center_lat", -13.9826)
	v.SetDefault("map.places_center_lon", 33.773762)
	v.SetDefault("map.roads_zoom", 10)
	v.SetDefault("map.style_file", "")
	v.SetDefault("proximity.limit", 20)
	v.SetDefault("proximity.within_km", 50.0)
	v.SetDefault("proximity.buffer_km", 10.0)
	v.SetDefault("roads.major_types", []string{"primary", "secondary", "tertiary"})
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "file:hydromap.db")
	v.SetDefault("fetch.timeout", 2*time.Minute)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.rate_per_host", 2.0)
	v.SetDefault("server.port", 8501)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// Validate checks the settings required by a command mode.
// Modes: "render", "serve", "store".
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Proximity.WithinKM <= 0 {
		errs = append(errs, "proximity.within_km must be > 0")
	}
	if c.Proximity.BufferKM <= 0 {
		errs = append(errs, "proximity.buffer_km must be > 0")
	}
	if c.Proximity.Limit < 0 {
		errs = append(errs, "proximity.limit must be >= 0")
	}
	if c.Data.Schemes == "" {
		errs = append(errs, "data.schemes is required")
	}

	switch mode {
	case "render":
		if c.Map.OutputDir == "" {
			errs = append(errs, "map.output_dir is required")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	case "store":
		switch c.Store.Driver {
		case "sqlite", "postgres":
		default:
			errs = append(errs, "store.driver must be sqlite or postgres")
		}
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
