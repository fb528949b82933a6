package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"uffetcher/internal/sii"
)

// Config holds all configuration for the UF service.
type Config struct {
	// SourceBaseURL is the SII host serving the yearly UF pages (configurable for testing)
	SourceBaseURL string        `mapstructure:"source_base_url"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	ListenAddr    string        `mapstructure:"listen_addr"`
	MonthCase     string        `mapstructure:"month_case"`
	LogLevel      string        `mapstructure:"log_level"`
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Recognized environment variables (all optional):
//   - UF_SOURCE_BASE_URL (defaults to https://www.sii.cl)
//   - UF_FETCH_TIMEOUT (defaults to 10s)
//   - UF_LISTEN_ADDR (defaults to :8000)
//   - UF_MONTH_CASE ("capitalized" or "lower", defaults to capitalized)
//   - UF_LOG_LEVEL (defaults to info)
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("UF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("source_base_url", sii.DefaultBaseURL)
	v.SetDefault("fetch_timeout", "10s")
	v.SetDefault("listen_addr", ":8000")
	v.SetDefault("month_case", string(sii.MonthCaseCapitalized))
	v.SetDefault("log_level", "info")

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.uffetcher")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	var problems []string

	if c.SourceBaseURL == "" {
		problems = append(problems, "UF_SOURCE_BASE_URL must not be empty")
	}
	if c.FetchTimeout <= 0 {
		problems = append(problems, "UF_FETCH_TIMEOUT must be positive")
	}
	if _, err := sii.ParseMonthCase(c.MonthCase); err != nil {
		problems = append(problems, "UF_MONTH_CASE: "+err.Error())
	}
	if _, err := c.SlogLevel(); err != nil {
		problems = append(problems, "UF_LOG_LEVEL: "+err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SourceOptions converts the config into options for the SII source
func (c *Config) SourceOptions() sii.Options {
	monthCase, _ := sii.ParseMonthCase(c.MonthCase)
	return sii.Options{
		BaseURL:   c.SourceBaseURL,
		Timeout:   c.FetchTimeout,
		MonthCase: monthCase,
	}
}

// SlogLevel parses LogLevel
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
