// Package config loads memgraph's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/memgraph/pkg/cache"
	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/graph"
	"github.com/matzehuels/memgraph/pkg/interact"
	"github.com/matzehuels/memgraph/pkg/layout/force"
	"github.com/matzehuels/memgraph/pkg/render"
	"github.com/matzehuels/memgraph/pkg/source"
	"github.com/matzehuels/memgraph/pkg/source/mongo"
)

// Source kinds.
const (
	SourceAPI    = "api"
	SourceFile   = "file"
	SourceMongo  = "mongo"
	SourceSample = "sample"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the whole configuration file.
type Config struct {
	Source SourceConfig `toml:"source"`
	Mongo  mongo.Config `toml:"mongo"`
	Cache  CacheConfig  `toml:"cache"`
	Layout force.Config `toml:"layout"`
	View   ViewConfig   `toml:"view"`
	Server ServerConfig `toml:"server"`
}

// SourceConfig selects where graphs come from.
type SourceConfig struct {
	Kind        string   `toml:"kind"` // "api", "file", "mongo", "sample"
	URL         string   `toml:"url"`
	Path        string   `toml:"path"`
	Timeout     Duration `toml:"timeout"`
	Query       string   `toml:"query"`
	MinStrength float64  `toml:"min_strength"`
}

// Request returns the default fetch request.
func (s SourceConfig) Request() source.Request {
	return source.Request{Query: s.Query, MinStrength: s.MinStrength}.Normalize()
}

// CacheConfig selects the response cache.
type CacheConfig struct {
	Backend string            `toml:"backend"` // "none", "file", "redis"
	Dir     string            `toml:"dir"`
	TTL     Duration          `toml:"ttl"`
	Redis   cache.RedisConfig `toml:"redis"`
}

// ViewConfig tunes the viewer and rendered output.
type ViewConfig struct {
	MinScale      float64 `toml:"min_scale"`
	MaxScale      float64 `toml:"max_scale"`
	FPS           int     `toml:"fps"`
	TicksPerFrame int     `toml:"ticks_per_frame"`
	DateLayout    string  `toml:"date_layout"`
	LabelMaxRunes int     `toml:"label_max_runes"`
	Title         string  `toml:"title"`
	Legend        string  `toml:"legend"` // help line in SVG output; empty hides it
}

// Zoom returns the configured zoom bounds.
func (v ViewConfig) Zoom() interact.Zoom {
	return interact.Zoom{MinScale: v.MinScale, MaxScale: v.MaxScale}
}

// Style returns the render style for a canvas of the given size.
func (v ViewConfig) Style(width, height float64) render.Style {
	s := render.DefaultStyle()
	s.Width, s.Height = width, height
	if v.LabelMaxRunes > 0 {
		s.LabelMaxRunes = v.LabelMaxRunes
	}
	return s
}

// ServerConfig configures the demo graph server.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	// Data is a graph JSON file to serve; empty serves the built-in sample.
	Data string `toml:"data"`
}

// Duration is a time.Duration written as "10s" in TOML.
type Duration struct{ time.Duration }

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:        SourceAPI,
			URL:         "http://localhost:8000",
			Timeout:     Duration{10 * time.Second},
			MinStrength: graph.DefaultMinStrength,
		},
		Mongo: mongo.Config{
			URI:      "mongodb://localhost:27017",
			Database: "memories",
		},
		Cache: CacheConfig{
			Backend: CacheNone,
			TTL:     Duration{cache.DefaultTTL},
			Redis:   cache.RedisConfig{Addr: "localhost:6379", Prefix: cache.DefaultRedisPrefix},
		},
		Layout: force.DefaultConfig(),
		View: ViewConfig{
			MinScale:      interact.DefaultMinScale,
			MaxScale:      interact.DefaultMaxScale,
			FPS:           render.DefaultFPS,
			TicksPerFrame: 1,
			DateLayout:    interact.DefaultDateLayout,
			LabelMaxRunes: render.DefaultStyle().LabelMaxRunes,
			Title:         "Memory Connection Graph",
			Legend:        "Drag nodes to adjust positions. Line thickness indicates connection strength.",
		},
		Server: ServerConfig{
			Addr:           ":8000",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
	}
}

// Dir returns $XDG_CONFIG_HOME/memgraph, or ~/.config/memgraph.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "memgraph")
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path, or DefaultPath when path is empty, over the defaults.
// A missing default file is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks values that would fail later in a less helpful place.
func (c *Config) Validate() error {
	if !slices.Contains([]string{SourceAPI, SourceFile, SourceMongo, SourceSample}, c.Source.Kind) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q", c.Source.Kind)
	}
	if c.Source.Kind == SourceFile && c.Source.Path == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "source.path is required for file sources")
	}
	if err := c.Source.Request().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "source.min_strength")
	}
	if !slices.Contains([]string{CacheNone, CacheFile, CacheRedis, ""}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if err := c.Layout.WithDefaults().Validate(); err != nil {
		return err
	}
	if v := c.View; v.MinScale < 0 || v.MaxScale < 0 || (v.MaxScale > 0 && v.MinScale > v.MaxScale) {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid zoom bounds [%v, %v]", v.MinScale, v.MaxScale)
	}
	if c.View.FPS < 0 || c.View.TicksPerFrame < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fps and ticks_per_frame must not be negative")
	}
	return nil
}

// String renders the effective configuration as TOML.
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("# encode: %v", err)
	}
	return b.String()
}
