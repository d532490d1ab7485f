// Package config loads the assemblage TOML configuration file.
//
// Every section is optional. Missing keys keep their defaults and command
// line flags override whatever the file sets:
//
//	[layout]
//	width = 1200
//	height = 800
//	variation = "organic"
//	complexity = 6
//	max_fragments = 8
//	allow_repetition = true
//	masks = true
//	seed = 42
//
//	[fill]
//	enabled = true
//	target_blank_ratio = 0.03
//	max_iterations = 10
//	min_blank_area_size = 1000
//
//	[render]
//	formats = ["svg", "png"]
//	scale = 2.0
//
//	[cache]
//	backend = "file"   # file, redis or none
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[store]
//	backend = "memory" # memory or mongo
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "assemblage"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/assemblage/pkg/pipeline"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Backend names.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Config is the decoded configuration file.
type Config struct {
	Layout Layout `toml:"layout"`
	Fill   Fill   `toml:"fill"`
	Render Render `toml:"render"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
	Store  Store  `toml:"store"`
}

// Layout holds composition settings.
type Layout struct {
	Width           float64 `toml:"width"`
	Height          float64 `toml:"height"`
	ImageCount      int     `toml:"image_count"`
	Variation       string  `toml:"variation"`
	Complexity      float64 `toml:"complexity"`
	MaxFragments    int     `toml:"max_fragments"`
	AllowRepetition bool    `toml:"allow_repetition"`
	MaxRepeats      int     `toml:"max_repeats"`
	Masks           bool    `toml:"masks"`
	Seed            uint64  `toml:"seed"`
}

// Fill holds negative-space filler settings.
type Fill struct {
	Enabled          bool    `toml:"enabled"`
	TargetBlankRatio float64 `toml:"target_blank_ratio"`
	MaxIterations    int     `toml:"max_iterations"`
	MinBlankAreaSize float64 `toml:"min_blank_area_size"`
}

// Render holds output settings.
type Render struct {
	Formats    []string `toml:"formats"`
	Background string   `toml:"background"`
	Outline    bool     `toml:"outline"`
	Scale      float64  `toml:"scale"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Prefix        string   `toml:"prefix"`
	TTL           Duration `toml:"ttl"`
}

// Server holds HTTP API settings.
type Server struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Store selects the composition archive backend.
type Store struct {
	Backend       string `toml:"backend"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: Layout{
			Width:           pipeline.DefaultWidth,
			Height:          pipeline.DefaultHeight,
			ImageCount:      pipeline.DefaultImageCount,
			Variation:       string(pipeline.DefaultVariation),
			Complexity:      pipeline.DefaultComplexity,
			MaxFragments:    pipeline.DefaultMaxFragments,
			AllowRepetition: true,
			Masks:           true,
			Seed:            pipeline.DefaultSeed,
		},
		Fill: Fill{
			Enabled:          true,
			TargetBlankRatio: 0.03,
			MaxIterations:    10,
			MinBlankAreaSize: 1000,
		},
		Render: Render{
			Formats: []string{pipeline.FormatSVG},
			Scale:   pipeline.DefaultScale,
		},
		Cache: Cache{
			Backend: BackendFile,
			Prefix:  "assemblage:",
		},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{60 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Store: Store{
			Backend:       BackendMemory,
			MongoDatabase: "assemblage",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/assemblage/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "assemblage", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "assemblage", FileName), nil
}

// Load reads the config file at path on top of the defaults. An empty path
// uses DefaultPath; a missing default file yields the defaults. A missing
// explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML text on top of the defaults.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks backend names and option ranges.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendNone, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return fmt.Errorf("cache.redis_addr is required for the redis backend")
	}
	switch c.Store.Backend {
	case BackendMemory, BackendMongo:
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	if c.Store.Backend == BackendMongo && c.Store.MongoURI == "" {
		return fmt.Errorf("store.mongo_uri is required for the mongo backend")
	}
	opts := c.PipelineOptions()
	return opts.ValidateAndSetDefaults()
}

// PipelineOptions converts the layout, fill and render sections into
// pipeline options.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Width:            c.Layout.Width,
		Height:           c.Layout.Height,
		ImageCount:       c.Layout.ImageCount,
		Variation:        c.Layout.Variation,
		Complexity:       c.Layout.Complexity,
		MaxFragments:     c.Layout.MaxFragments,
		NoRepetition:     !c.Layout.AllowRepetition,
		NoMasks:          !c.Layout.Masks,
		Seed:             c.Layout.Seed,
		NoFill:           !c.Fill.Enabled,
		TargetBlankRatio: c.Fill.TargetBlankRatio,
		MaxIterations:    c.Fill.MaxIterations,
		MinBlankAreaSize: c.Fill.MinBlankAreaSize,
		Formats:          append([]string(nil), c.Render.Formats...),
		Background:       c.Render.Background,
		Outline:          c.Render.Outline,
		Scale:            c.Render.Scale,
	}
}
