package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by Load. RESULTCACHE_CONFIG pins the
// config file path; the rest override individual fields.
const (
	EnvConfig   = "RESULTCACHE_CONFIG"
	EnvEnabled  = "RESULTCACHE_ENABLED"
	EnvDir      = "RESULTCACHE_DIR"
	EnvMaxMB    = "RESULTCACHE_MAX_MB"
	EnvTTLDays  = "RESULTCACHE_TTL_DAYS"
	EnvLogLevel = "RESULTCACHE_LOG_LEVEL"
)

// projectFile is the per-project config file name searched for upward from
// the working directory.
const projectFile = ".resultcache.yaml"

// Load builds the effective configuration: defaults, then the config file,
// then environment overrides. An empty path triggers the standard search;
// a missing file in the search path is not an error, but a pinned path that
// cannot be read is.
func Load(path string) (Config, error) {
	cfg := Default()

	pinned := path != ""
	if !pinned {
		if env := os.Getenv(EnvConfig); env != "" {
			path, pinned = env, true
		} else {
			path = findFile()
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("%w: %s: %v", ErrMalformedFile, path, err)
			}
		case pinned:
			return Config{}, fmt.Errorf("%w: %s: %v", ErrUnreadableFile, path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefault is Load with the standard file search.
func LoadDefault() (Config, error) {
	return Load("")
}

// findFile walks from the working directory to the filesystem root looking
// for the project file, then falls back to the per-user config. Returns ""
// when nothing exists.
func findFile() string {
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, projectFile)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".config", "resultcache", "config.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// applyEnv overlays RESULTCACHE_* variables onto cfg. Unset variables leave
// the existing value alone; set-but-malformed ones are errors rather than
// silent fallbacks.
func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvEnabled); ok {
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrBadEnvValue, EnvEnabled, v)
		}
		cfg.Cache.Enabled = b
	}
	if v, ok := os.LookupEnv(EnvDir); ok && v != "" {
		cfg.Cache.Dir = v
	}
	if v, ok := os.LookupEnv(EnvMaxMB); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrBadEnvValue, EnvMaxMB, v)
		}
		cfg.Cache.MaxMB = n
	}
	if v, ok := os.LookupEnv(EnvTTLDays); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrBadEnvValue, EnvTTLDays, v)
		}
		cfg.Cache.TTLDays = n
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Telemetry.LogLevel = strings.ToLower(v)
	}
	return nil
}

// parseBool accepts the usual strconv spellings plus yes/no and on/off.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New("not a boolean")
	}
	return b, nil
}
