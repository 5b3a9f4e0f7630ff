package config

import "errors"

// Sentinel errors returned by Load and Config.Validate. Callers should match
// with errors.Is; loader errors wrap these with file and field context.
var (
	// ErrInvalidMaxMB indicates a non-positive cache size budget.
	ErrInvalidMaxMB = errors.New("config: max_mb must be positive")

	// ErrInvalidTTLDays indicates a negative TTL (zero means no expiry).
	ErrInvalidTTLDays = errors.New("config: ttl_days must not be negative")

	// ErrInvalidLogLevel indicates an unrecognized log level.
	ErrInvalidLogLevel = errors.New("config: log level must be one of debug, info, warn, error")

	// ErrEmptyDir indicates an empty cache directory path.
	ErrEmptyDir = errors.New("config: cache dir must not be empty")

	// ErrUnreadableFile indicates the pinned config file could not be read.
	ErrUnreadableFile = errors.New("config: cannot read config file")

	// ErrMalformedFile indicates the config file is not valid YAML.
	ErrMalformedFile = errors.New("config: malformed config file")

	// ErrBadEnvValue indicates an environment override that does not parse.
	ErrBadEnvValue = errors.New("config: malformed environment value")
)
