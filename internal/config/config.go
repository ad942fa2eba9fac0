// Package config loads masonry's TOML configuration file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "MASONRY_CONFIG"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Contact stores.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the full configuration.
type Config struct {
	Server    Server                   `toml:"server"`
	Cache     Cache                    `toml:"cache"`
	Contacts  Contacts                 `toml:"contacts"`
	Layout    Layout                   `toml:"layout"`
	Animation masonry.AnimationOptions `toml:"animation"`
}

// Server configures the HTTP API.
type Server struct {
	Addr            string        `toml:"addr"`
	Gallery         string        `toml:"gallery"` // manifest served by /api/portfolio
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// Contacts selects where contact form submissions are stored.
type Contacts struct {
	Store    string `toml:"store"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Layout overrides the column breakpoints.
type Layout struct {
	Breakpoints masonry.Policy `toml:"breakpoints"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":3001",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Cache: Cache{
			Backend: CacheFile,
			Prefix:  "masonry:",
		},
		Contacts: Contacts{
			Store:    StoreMemory,
			Database: "masonry",
		},
		Layout:    Layout{Breakpoints: masonry.DefaultPolicy()},
		Animation: masonry.DefaultAnimation(),
	}
}

// Path returns the config file location: $MASONRY_CONFIG, or
// ~/.config/masonry/config.toml (XDG_CONFIG_HOME respected).
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "masonry", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "masonry", "config.toml"), nil
}

// Load reads the config at path on top of the defaults. A missing file at
// the default location is not an error; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
		explicit = os.Getenv(EnvPath) != ""
	}

	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	cfg.Layout.Breakpoints = cfg.Layout.Breakpoints.Sorted()
	cfg.Animation.From, _ = masonry.ParseOrigin(string(cfg.Animation.From))
	return cfg, nil
}

// Validate checks value ranges and enum fields.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}

	switch c.Contacts.Store {
	case StoreMemory:
	case StoreMongo:
		if c.Contacts.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "contacts.mongo_uri is required for the mongo store")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown contact store %q", c.Contacts.Store)
	}

	for _, bp := range c.Layout.Breakpoints {
		if bp.Columns < 1 || bp.Columns > masonry.MaxColumns || bp.MinWidth < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid breakpoint %+v", bp)
		}
	}

	if _, err := masonry.ParseOrigin(string(c.Animation.From)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "animation.from")
	}
	return nil
}
