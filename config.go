package clish

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the engine's optional YAML-loaded configuration: plugin
// search path, lock-retry tuning, and the quiet/dry-run/lockless/stop-
// on-error defaults the CLI surface's flags can also override.
// LockRetries and LockRetrySecs are loaded and validated, but AcquireLock
// does not read them: it always makes lockRetries attempts
// lockRetryInterval apart.
type Config struct {
	PluginPath      string `yaml:"plugin_path" validate:"omitempty,dirpath"`
	LockPath        string `yaml:"lock_path" validate:"omitempty,filepath"`
	LockRetries     int    `yaml:"lock_retries" validate:"gte=0"`
	LockRetrySecs   int    `yaml:"lock_retry_seconds" validate:"gte=0"`
	Quiet           bool   `yaml:"quiet"`
	DryRun          bool   `yaml:"dry_run"`
	Lockless        bool   `yaml:"lockless"`
	StopOnError     bool   `yaml:"stop_on_error"`
}

// DefaultConfig returns the zero-value configuration with its
// non-boolean defaults filled in.
func DefaultConfig() Config {
	return Config{LockRetries: lockRetries, LockRetrySecs: int(lockRetryInterval.Seconds())}
}

var validate = validator.New()

// LoadConfig reads and validates a YAML config file at path, starting
// from DefaultConfig so unset fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("clish: read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("clish: parse config %q: %w", path, err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return cfg, fmt.Errorf("clish: invalid config %q: %w", path, err)
	}

	return cfg, nil
}
