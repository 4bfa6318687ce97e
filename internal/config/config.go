// Package config loads application configuration from defaults, an
// optional YAML file and PAGOS_-prefixed environment variables, in that
// precedence order (environment wins).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// PAGOS_SERVER_PORT.
const EnvPrefix = "PAGOS"

// DefaultConfigFile is the config file looked up next to the working
// directory when PAGOS_CONFIG_FILE is not set.
const DefaultConfigFile = "config.yaml"

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Data     DataConfig     `yaml:"data" envconfig:"DATA"`
	Forecast ForecastConfig `yaml:"forecast" envconfig:"FORECAST"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains request rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// DataConfig describes where report folders live and how uploads are
// handled.
type DataConfig struct {
	// Roots are the report folder roots loaded by default, typically one
	// per year.
	Roots []string `yaml:"roots" envconfig:"ROOTS"`
	// UploadDir is where uploaded archives are extracted.
	UploadDir string `yaml:"upload_dir" envconfig:"UPLOAD_DIR"`
	// MaxUploadBytes bounds accepted archive size.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
}

// ForecastConfig carries the forecasting defaults.
type ForecastConfig struct {
	// DefaultSteps is the horizon used when a request does not name one.
	DefaultSteps int `yaml:"default_steps" envconfig:"DEFAULT_STEPS"`
	// SeasonalPeriods is the default seasonal cycle length (7 for daily
	// data with a weekly cycle).
	SeasonalPeriods int `yaml:"seasonal_periods" envconfig:"SEASONAL_PERIODS"`
	// MinPoints is the smallest series a forecast is attempted on.
	MinPoints int `yaml:"min_points" envconfig:"MIN_POINTS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/pagos.log",
		},
		Data: DataConfig{
			UploadDir:      "data/uploads",
			MaxUploadBytes: 64 * 1024 * 1024,
		},
		Forecast: ForecastConfig{
			DefaultSteps:    30,
			SeasonalPeriods: 7,
			MinPoints:       8,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file when
// present, then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	path := os.Getenv(EnvPrefix + "_CONFIG_FILE")
	if path == "" {
		path = DefaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid log output: %s", c.Logging.Output)
	}
	if c.Forecast.DefaultSteps < 1 {
		return fmt.Errorf("forecast default_steps must be positive: %d", c.Forecast.DefaultSteps)
	}
	if c.Forecast.MinPoints < 2 {
		return fmt.Errorf("forecast min_points must be at least 2: %d", c.Forecast.MinPoints)
	}
	if c.Data.MaxUploadBytes < 1 {
		return fmt.Errorf("max_upload_bytes must be positive: %d", c.Data.MaxUploadBytes)
	}
	return nil
}
