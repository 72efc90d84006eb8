// Package config loads toposort settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/toposort/config.toml, falling back to
// ~/.config/toposort/config.toml. Every key is optional:
//
//	[log]
//	level = "debug"
//
//	[cache]
//	disabled = false
//	dir = "/var/cache/toposort"
//	redis_url = "redis://localhost:6379/0"
//	prefix = "team-a"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//	max_relations = 10000
//
//	[render]
//	detailed = true
//
// When redis_url is set, renders are cached in Redis instead of dir. A
// prefix namespaces the keys so several deployments can share one Redis.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/toposort/pkg/errors"
)

// AppName names the configuration and cache directories.
const AppName = "toposort"

// Defaults.
const (
	DefaultLogLevel     = "info"
	DefaultCacheTTL     = "168h"
	DefaultAddr         = ":8080"
	DefaultMaxRelations = 10000
)

// Config holds all settings.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// CacheConfig configures the render cache.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
	TTL      string `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	MaxRelations int    `toml:"max_relations"`
}

// RenderConfig configures diagram rendering.
type RenderConfig struct {
	Detailed bool `toml:"detailed"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: DefaultLogLevel},
		Cache:  CacheConfig{TTL: DefaultCacheTTL},
		Server: ServerConfig{Addr: DefaultAddr, MaxRelations: DefaultMaxRelations},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// DefaultCacheDir returns the default file cache directory.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the file at path on top of [Default] and validates the result.
// A missing file yields ErrCodeFileNotFound; unknown keys and invalid
// values yield ErrCodeInvalidConfig.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault reads the file at [DefaultPath], returning [Default] if it
// does not exist.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Validate rejects settings the rest of the program cannot use.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "log.level")
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "cache.ttl")
	}
	if ttl <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Server.Addr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	if c.Server.MaxRelations <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server.max_relations must be positive, got %d", c.Server.MaxRelations)
	}
	return nil
}

// LogLevel returns the parsed log level. Call after [Config.Validate].
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// CacheTTL returns the parsed cache TTL. Call after [Config.Validate].
func (c *Config) CacheTTL() time.Duration {
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || ttl <= 0 {
		ttl, _ = time.ParseDuration(DefaultCacheTTL)
	}
	return ttl
}

// CacheDir returns the configured cache directory or [DefaultCacheDir].
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}
