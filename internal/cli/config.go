package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ordrect/ordrect/pkg/cache"
)

// Config holds the CLI configuration loaded from a TOML file.
//
// Configuration is looked up in this order:
//  1. the --config flag
//  2. ./ordrect.toml
//  3. $XDG_CONFIG_HOME/ordrect/config.toml (or ~/.config/ordrect/config.toml)
//
// A missing file is not an error: defaults apply.
type Config struct {
	// Units is the default grid resolution for the show command.
	Units int `toml:"units"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the artifact cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir is the file cache directory. Empty means ~/.cache/ordrect.
	Dir string `toml:"dir"`

	// TTL bounds entry lifetime, as a Go duration string (e.g. "24h").
	// Empty means entries never expire.
	TTL string `toml:"ttl"`

	// RedisURL is the connection URL for the redis backend.
	RedisURL string `toml:"redis_url"`

	// Scope namespaces all cache keys. Set it when several deployments
	// share one redis so their artifacts stay separate.
	Scope string `toml:"scope"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `toml:"addr"`
}

// defaultConfig returns the configuration used when no file is present.
func defaultConfig() Config {
	return Config{
		Units: 40,
		Cache: CacheConfig{
			Backend:  "file",
			TTL:      "24h",
			RedisURL: "redis://localhost:6379/0",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// loadConfig reads the configuration from path, or from the standard
// locations when path is empty.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfig()
		if path == "" {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// findConfig returns the first standard config path that exists.
func findConfig() string {
	candidates := []string{"ordrect.toml"}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}
	if configHome != "" {
		candidates = append(candidates, filepath.Join(configHome, "ordrect", "config.toml"))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "", "file", "redis", "none":
	default:
		return fmt.Errorf("unknown cache backend %q (valid: file, redis, none)", c.Cache.Backend)
	}
	if c.Units < 2 {
		return fmt.Errorf("units must be >= 2, got %d", c.Units)
	}
	if _, err := c.cacheTTL(); err != nil {
		return err
	}
	return nil
}

// cacheTTL parses the configured TTL. Empty means no expiration.
func (c Config) cacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.Cache.TTL, err)
	}
	return ttl, nil
}

// keyer returns the cache key scheme, namespaced when cache.scope is set.
func (c Config) keyer() cache.Keyer {
	if c.Cache.Scope != "" {
		return cache.NewScopedKeyer(nil, c.Cache.Scope+":")
	}
	return cache.NewDefaultKeyer()
}

// openCache constructs the configured cache backend.
func openCache(cfg Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCacheURL(cfg.Cache.RedisURL)
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the default file cache directory (~/.cache/ordrect).
func cacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "ordrect"), nil
}
