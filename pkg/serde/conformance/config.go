package conformance

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the tunable knobs of the conformance suite. All fields have
// working defaults; loading from a config file is optional.
type Config struct {
	// WorkerCount is the number of concurrent workers in the duplication
	// safety check.
	WorkerCount int `mapstructure:"worker-count"`

	// DurationBudgetMillis is the wall-clock budget of each duplication
	// safety worker, in milliseconds.
	DurationBudgetMillis int `mapstructure:"duration-budget-millis"`

	// ChannelCapacity is the initial capacity of byte channels created by
	// the suite.
	ChannelCapacity int `mapstructure:"channel-capacity"`
}

const (
	defaultWorkerCount          = 10
	defaultDurationBudgetMillis = 120
	defaultChannelCapacity      = 128
)

// DefaultConfig returns the configuration used when nothing is loaded.
func DefaultConfig() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

// applyDefaults applies default values to the configuration.
func applyDefaults(cfg *Config) {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = defaultWorkerCount
	}
	if cfg.DurationBudgetMillis == 0 {
		cfg.DurationBudgetMillis = defaultDurationBudgetMillis
	}
	if cfg.ChannelCapacity == 0 {
		cfg.ChannelCapacity = defaultChannelCapacity
	}
}

// Validate checks the configuration for values the suite cannot run with.
func (c Config) Validate() error {
	if c.WorkerCount < 1 {
		return fmt.Errorf("worker count must be positive, got %d", c.WorkerCount)
	}
	if c.DurationBudgetMillis < 1 {
		return fmt.Errorf("duration budget must be positive, got %d ms", c.DurationBudgetMillis)
	}
	if c.ChannelCapacity < 0 {
		return fmt.Errorf("channel capacity must not be negative, got %d", c.ChannelCapacity)
	}
	return nil
}

// NewViper creates a viper instance bound to the file named by CONFIG_PATH
// (default ./configs/config.yml), with environment variable overrides.
// A .env file is loaded first if present.
func NewViper() (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: failed to load .env file: %v\n", err)
	}

	v := viper.New()
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yml"
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file [%s] does not exist: %w", configPath, err)
	}
	v.SetConfigFile(configPath)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file [%s]: %w", configPath, err)
	}
	return v, nil
}

// newConfig loads the "conformance" section from viper and applies defaults.
// A missing section yields the default configuration.
func newConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if sub := v.Sub("conformance"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load conformance config: %w", err)
		}
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("conformance config validation failed: %w", err)
	}
	return cfg, nil
}
