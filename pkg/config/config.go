// Package config loads stationboard settings from YAML files and
// STATIONBOARD_<SECTION>_<KEY> environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	dashboard "github.com/goliatone/go-stationboard/components/dashboard"
	"github.com/goliatone/go-stationboard/pkg/stationdata"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STATIONBOARD"

// Config holds every stationboard setting.
type Config struct {
	Server   ServerConfig  `mapstructure:"server"   yaml:"server"`
	Dataset  DatasetConfig `mapstructure:"dataset"  yaml:"dataset"`
	Render   RenderConfig  `mapstructure:"render"   yaml:"render"`
	Manifest string        `mapstructure:"manifest" yaml:"manifest"`
	Logging  LoggingConfig `mapstructure:"logging"  yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr      string `mapstructure:"addr"      yaml:"addr"`
	BasePath  string `mapstructure:"base_path" yaml:"base_path"`
	Transport string `mapstructure:"transport" yaml:"transport"` // "http" or "fiber"
}

// DatasetConfig locates StationsInfo1.json.
type DatasetConfig struct {
	Path    string        `mapstructure:"path"    yaml:"path"`
	URL     string        `mapstructure:"url"     yaml:"url"`
	APIKey  string        `mapstructure:"api_key" yaml:"api_key"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// RenderConfig sizes surfaces and controls caching.
type RenderConfig struct {
	MainWidth       float64       `mapstructure:"main_width"       yaml:"main_width"`
	MainHeight      float64       `mapstructure:"main_height"      yaml:"main_height"`
	SecondaryWidth  float64       `mapstructure:"secondary_width"  yaml:"secondary_width"`
	SecondaryHeight float64       `mapstructure:"secondary_height" yaml:"secondary_height"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"        yaml:"cache_ttl"`
	Backend         string        `mapstructure:"backend"          yaml:"backend"` // "svg" or "echarts"
	Prerender       bool          `mapstructure:"prerender"        yaml:"prerender"`
	Locale          string        `mapstructure:"locale"           yaml:"locale"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads path when set, then applies environment overrides.
// An empty path uses defaults plus environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_path", "/stationboard")
	v.SetDefault("server.transport", "http")

	v.SetDefault("dataset.path", dashboard.DefaultDatasetPath)
	v.SetDefault("dataset.url", "")
	v.SetDefault("dataset.api_key", "")
	v.SetDefault("dataset.timeout", stationdata.DefaultTimeout)

	v.SetDefault("render.main_width", dashboard.DefaultMainSize.Width)
	v.SetDefault("render.main_height", dashboard.DefaultMainSize.Height)
	v.SetDefault("render.secondary_width", dashboard.DefaultSecondarySize.Width)
	v.SetDefault("render.secondary_height", dashboard.DefaultSecondarySize.Height)
	v.SetDefault("render.cache_ttl", 5*time.Minute)
	v.SetDefault("render.backend", "svg")
	v.SetDefault("render.prerender", false)
	v.SetDefault("render.locale", "")

	v.SetDefault("manifest", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Server.Transport {
	case "http", "fiber":
	default:
		errs = append(errs, fmt.Errorf("config: server.transport must be http or fiber, got %q", c.Server.Transport))
	}
	switch c.Render.Backend {
	case "svg", "echarts":
	default:
		errs = append(errs, fmt.Errorf("config: render.backend must be svg or echarts, got %q", c.Render.Backend))
	}
	if !c.Render.MainSize().Valid() || !c.Render.SecondarySize().Valid() {
		errs = append(errs, errors.New("config: render sizes must be positive"))
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// MainSize is the configured main surface size.
func (r RenderConfig) MainSize() dashboard.Size {
	return dashboard.Size{Width: r.MainWidth, Height: r.MainHeight}
}

// SecondarySize is the configured secondary surface size.
func (r RenderConfig) SecondarySize() dashboard.Size {
	return dashboard.Size{Width: r.SecondaryWidth, Height: r.SecondaryHeight}
}

// Source builds the dataset source described by the dataset section.
func (d DatasetConfig) Source() (dashboard.DatasetSource, error) {
	return stationdata.NewSource(stationdata.Config{
		Path:    d.Path,
		URL:     d.URL,
		APIKey:  d.APIKey,
		Timeout: d.Timeout,
	})
}

// NewLogger builds a slog logger writing to w.
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: logging.level %q: %w", value, err)
	}
	return level, nil
}
