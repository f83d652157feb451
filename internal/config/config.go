package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"aquamonitor/internal/models"
)

// Config represents configuration data for the telemetry service.
type Config struct {
	Addr    string        `yaml:"addr"`
	Influx  InfluxConfig  `yaml:"influx"`
	Widgets WidgetsConfig `yaml:"widgets"`
}

// InfluxConfig points at the upstream InfluxDB 1.x endpoint.
type InfluxConfig struct {
	Host            string `yaml:"host"`
	Token           string `yaml:"token"`
	Database        string `yaml:"database"`
	RetentionPolicy string `yaml:"retention_policy"`
}

// WidgetsConfig is the dashboard catalog. Every request streams a
// filtered view of this fixed set of widgets.
type WidgetsConfig struct {
	Tiles  []models.TileTemplate  `yaml:"tiles"`
	Charts []models.ChartTemplate `yaml:"charts"`
}

// DefaultConfig returns defaults for everything that has a sensible
// default. The Influx endpoint does not, so Load validates it.
func DefaultConfig() Config {
	return Config{
		Addr: ":8080",
		Influx: InfluxConfig{
			Database:        "telemetry",
			RetentionPolicy: "autogen",
		},
	}
}

// Load reads configuration from a yaml file and validates it.
func Load(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}
	if cfg.Influx.Host == "" {
		return Config{}, errors.New("influx.host is required")
	}
	if cfg.Influx.Database == "" {
		cfg.Influx.Database = DefaultConfig().Influx.Database
	}
	if cfg.Influx.RetentionPolicy == "" {
		cfg.Influx.RetentionPolicy = DefaultConfig().Influx.RetentionPolicy
	}
	for i, tile := range cfg.Widgets.Tiles {
		if tile.ID == "" {
			return Config{}, fmt.Errorf("tile %d is missing id", i)
		}
		if tile.Query == "" {
			return Config{}, fmt.Errorf("tile %s is missing query", tile.ID)
		}
	}
	for i, chart := range cfg.Widgets.Charts {
		if chart.ID == "" {
			return Config{}, fmt.Errorf("chart %d is missing id", i)
		}
		if len(chart.Series) == 0 {
			return Config{}, fmt.Errorf("chart %s must define at least one series", chart.ID)
		}
		for j, series := range chart.Series {
			if series.ID == "" {
				return Config{}, fmt.Errorf("chart %s series %d is missing id", chart.ID, j)
			}
			if series.Query == "" {
				return Config{}, fmt.Errorf("chart %s series %s is missing query", chart.ID, series.ID)
			}
		}
	}
	return cfg, nil
}
