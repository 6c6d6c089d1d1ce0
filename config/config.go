// Package config provides configuration management for the interview
// orchestration core with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables with the INTERVIEWMESH_ prefix
//  2. Config file (config.yaml in the working directory or ~/.interviewmesh/)
//  3. Default values
//
// Error handling uses sentinel errors so callers can branch with errors.Is
// and wrap with fmt.Errorf("%w: details", ErrXxx).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hupe1980/interviewmesh/core"
)

var (
	// ErrInvalidProvider indicates the generation provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidMode indicates the default operating mode is unknown.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrInvalidWindow indicates the history window is out of range.
	ErrInvalidWindow = errors.New("invalid history window")

	// ErrInvalidCacheTTL indicates the response cache TTL is out of range.
	ErrInvalidCacheTTL = errors.New("invalid cache ttl")

	// ErrInvalidMaxRetries indicates the generation retry budget is negative.
	ErrInvalidMaxRetries = errors.New("invalid max retries")
)

// Generation provider identifiers used in Config.Provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderMock      = "mock"
)

// Config stores the orchestration core's configuration.
type Config struct {
	// Generation backend
	Provider    string  `mapstructure:"provider" json:"provider"`
	ModelName   string  `mapstructure:"model_name" json:"model_name"`
	Temperature float64 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`
	APIKey      string  `mapstructure:"api_key" json:"-"` // SENSITIVE: never serialized

	// Invocation policy
	MaxRetries       int `mapstructure:"max_retries" json:"max_retries"`
	PlanningInterval int `mapstructure:"planning_interval" json:"planning_interval"`

	// Orchestration
	DefaultMode   string `mapstructure:"default_mode" json:"default_mode"`
	HistoryWindow int    `mapstructure:"history_window" json:"history_window"`
	MaxQuestions  int    `mapstructure:"max_questions" json:"max_questions"`

	// Response cache
	CacheTTL        time.Duration `mapstructure:"cache_ttl" json:"cache_ttl"`
	CacheMaxEntries int           `mapstructure:"cache_max_entries" json:"cache_max_entries"`

	// Event bus
	EventRingSize int `mapstructure:"event_ring_size" json:"event_ring_size"`

	// Logging
	LogLevel  string `mapstructure:"log_level" json:"log_level"`
	LogFormat string `mapstructure:"log_format" json:"log_format"`
}

// Load reads the configuration with environment > file > defaults priority.
// A missing config file is not an error; validation failures are.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".interviewmesh"))
	}

	setDefaults(v)

	v.SetEnvPrefix("INTERVIEWMESH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in defaults without consulting files or the
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always unmarshal and validate cleanly.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderAnthropic)
	v.SetDefault("model_name", "")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("max_tokens", 4096)

	v.SetDefault("max_retries", 2)
	v.SetDefault("planning_interval", 5)

	v.SetDefault("default_mode", string(core.ModeInterviewOnly))
	v.SetDefault("history_window", 20)
	v.SetDefault("max_questions", 10)

	v.SetDefault("cache_ttl", 2*time.Minute)
	v.SetDefault("cache_max_entries", 1024)

	v.SetDefault("event_ring_size", 100)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

// Mode returns the configured default operating mode.
func (c *Config) Mode() core.Mode { return core.Mode(c.DefaultMode) }

// Validate checks all values, failing fast with a sentinel error.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderMock:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProvider, c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: %v (want 0..2)", ErrInvalidTemperature, c.Temperature)
	}
	if c.MaxTokens <= 0 || c.MaxTokens > 200000 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxTokens, c.MaxTokens)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxRetries, c.MaxRetries)
	}
	if !core.Mode(c.DefaultMode).Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.DefaultMode)
	}
	if c.HistoryWindow <= 0 || c.HistoryWindow > 1000 {
		return fmt.Errorf("%w: %d (want 1..1000)", ErrInvalidWindow, c.HistoryWindow)
	}
	if c.CacheTTL <= 0 || c.CacheTTL > time.Hour {
		return fmt.Errorf("%w: %s (want >0 and <=1h)", ErrInvalidCacheTTL, c.CacheTTL)
	}
	return nil
}
