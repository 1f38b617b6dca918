package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"DATABASE"`
	Dashboard DashboardConfig `yaml:"dashboard" envconfig:"DASHBOARD"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// DatabaseConfig contains the warehouse connection configuration
type DatabaseConfig struct {
	DSN          string        `yaml:"dsn" envconfig:"DSN"`
	MaxConns     int32         `yaml:"max_conns" envconfig:"MAX_CONNS" default:"4"`
	QueryTimeout time.Duration `yaml:"query_timeout" envconfig:"QUERY_TIMEOUT" default:"30s"`
	// CacheTTL bounds how long a query result is served from cache.
	CacheTTL time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" default:"60s"`
}

// DashboardConfig contains the analytical defaults for the dashboard
type DashboardConfig struct {
	// GapThreshold is the single tunable governing session granularity:
	// trades farther apart than this start a new trade group.
	GapThreshold time.Duration `yaml:"gap_threshold" envconfig:"GAP_THRESHOLD" default:"60s"`
	// TimeEncoding selects the chart time axis encoding: "iso8601" or "epoch_ms".
	TimeEncoding string `yaml:"time_encoding" envconfig:"TIME_ENCODING" default:"epoch_ms"`
	// Theme selects the chart palette: "light" or "dark".
	Theme              string        `yaml:"theme" envconfig:"THEME" default:"light"`
	TopTradersLimit    int           `yaml:"top_traders_limit" envconfig:"TOP_TRADERS_LIMIT" default:"10"`
	TopTradersPnLFloor float64       `yaml:"top_traders_pnl_floor" envconfig:"TOP_TRADERS_PNL_FLOOR" default:"1000"`
	SessionTTL         time.Duration `yaml:"session_ttl" envconfig:"SESSION_TTL" default:"30m"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("TP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Database.DSN == "" {
		envConfig.Database.DSN = fileConfig.Database.DSN
	}
	if envConfig.Dashboard.GapThreshold == 0 {
		envConfig.Dashboard.GapThreshold = fileConfig.Dashboard.GapThreshold
	}
	if envConfig.Dashboard.TimeEncoding == "" {
		envConfig.Dashboard.TimeEncoding = fileConfig.Dashboard.TimeEncoding
	}
	if envConfig.Dashboard.Theme == "" {
		envConfig.Dashboard.Theme = fileConfig.Dashboard.Theme
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Dashboard.GapThreshold <= 0 {
		return fmt.Errorf("grouping gap threshold must be positive")
	}

	switch c.Dashboard.TimeEncoding {
	case "iso8601", "epoch_ms":
	default:
		return fmt.Errorf("invalid time encoding: %q", c.Dashboard.TimeEncoding)
	}

	switch c.Dashboard.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("invalid theme: %q", c.Dashboard.Theme)
	}

	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConns:     4,
			QueryTimeout: 30 * time.Second,
			CacheTTL:     60 * time.Second,
		},
		Dashboard: DashboardConfig{
			GapThreshold:       60 * time.Second,
			TimeEncoding:       "epoch_ms",
			Theme:              "light",
			TopTradersLimit:    10,
			TopTradersPnLFloor: 1000,
			SessionTTL:         30 * time.Minute,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
	}
}
