package config

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Forecaster types
const (
	ForecasterHistoricalShift = "historical_shift"
	ForecasterOnlineML        = "online_ml"
)

// Online model families
const (
	ModelSeasonalAR   = "seasonal_ar"
	ModelScaledLinear = "scaled_linear"
)

// History window and forecast horizon bounds
const (
	MinHistoryDays   = 1
	MaxHistoryDays   = 30
	MinForecastHours = 1
	MaxForecastHours = 720
)

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig       `mapstructure:"server"`
	Stats       StatsConfig        `mapstructure:"stats"`
	Storage     StorageConfig      `mapstructure:"storage"`
	Queue       QueueConfig        `mapstructure:"queue"`
	Update      UpdateConfig       `mapstructure:"update"`
	Auth        AuthConfig         `mapstructure:"auth"`
	Logging     LoggingConfig      `mapstructure:"logging"`
	Forecasters []ForecasterConfig `mapstructure:"forecasters"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// StatsConfig represents the statistics source configuration
type StatsConfig struct {
	BaseURL  string        `mapstructure:"base_url"`  // Recorder API base URL
	APIKey   string        `mapstructure:"api_key"`   // Optional API key for the recorder
	Timeout  time.Duration `mapstructure:"timeout"`   // Per-fetch timeout
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // TTL for cached window fetches (0 disables caching)
}

// StorageConfig represents model state storage configuration
type StorageConfig struct {
	ModelDir string `mapstructure:"model_dir"` // Directory for persisted model blobs
}

// QueueConfig represents message queue configuration
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB     int    `mapstructure:"redis_db"`     // Redis database number (default: 0)
	RedisStream string `mapstructure:"redis_stream"` // Redis stream prefix (default: "sensorcast")

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"` // Kafka broker addresses
}

// UpdateConfig represents the forecast refresh schedule
type UpdateConfig struct {
	// Interval between update cycles. Hourly by default, matching the
	// recorder's hourly statistics granularity.
	Interval time.Duration `mapstructure:"interval"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
}

// ForecasterConfig declares a single forecaster instance
type ForecasterConfig struct {
	ID   string `mapstructure:"id"`   // Unique instance identity; generated when omitted
	Name string `mapstructure:"name"` // Human-readable name
	Type string `mapstructure:"type"` // historical_shift or online_ml

	// Historical shift settings
	SourceEntity string `mapstructure:"source_entity"` // Entity whose history is shifted

	// Online ML settings
	InputEntities []string `mapstructure:"input_entities"` // Feature entities (>= 1)
	OutputEntity  string   `mapstructure:"output_entity"`  // Predicted entity
	Model         string   `mapstructure:"model"`          // seasonal_ar or scaled_linear

	HistoryDays   int `mapstructure:"history_days"`   // Lookback window, 1-30 days
	ForecastHours int `mapstructure:"forecast_hours"` // Forecast horizon; 0 disables cycling for historical_shift
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}

	if err := c.Update.Validate(); err != nil {
		return fmt.Errorf("update config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	seen := make(map[string]bool, len(c.Forecasters))
	for i := range c.Forecasters {
		fc := &c.Forecasters[i]
		if fc.ID == "" {
			fc.ID = uuid.New().String()
		}
		if seen[fc.ID] {
			return fmt.Errorf("forecaster config: duplicate id %q", fc.ID)
		}
		seen[fc.ID] = true

		if err := fc.Validate(); err != nil {
			return fmt.Errorf("forecaster %q: %w", fc.ID, err)
		}
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}
	return nil
}

// Validate validates storage configuration
func (c *StorageConfig) Validate() error {
	if c.ModelDir == "" {
		return fmt.Errorf("model_dir is required")
	}
	return nil
}

// Validate validates update configuration
func (c *UpdateConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("update.interval must be positive")
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}

// Validate validates a single forecaster instance configuration
func (c *ForecasterConfig) Validate() error {
	switch c.Type {
	case ForecasterHistoricalShift:
		if c.SourceEntity == "" {
			return fmt.Errorf("source_entity is required")
		}
		if c.HistoryDays < MinHistoryDays || c.HistoryDays > MaxHistoryDays {
			return fmt.Errorf("history_days must be between %d and %d, got %d",
				MinHistoryDays, MaxHistoryDays, c.HistoryDays)
		}
		if c.ForecastHours != 0 &&
			(c.ForecastHours < MinForecastHours || c.ForecastHours > MaxForecastHours) {
			return fmt.Errorf("forecast_hours must be between %d and %d, got %d",
				MinForecastHours, MaxForecastHours, c.ForecastHours)
		}

	case ForecasterOnlineML:
		if len(c.InputEntities) == 0 {
			return fmt.Errorf("at least one input entity is required")
		}
		if c.OutputEntity == "" {
			return fmt.Errorf("output_entity is required")
		}
		for _, in := range c.InputEntities {
			if in == c.OutputEntity {
				return fmt.Errorf("output entity %q must not appear among inputs", c.OutputEntity)
			}
		}
		if c.HistoryDays < MinHistoryDays || c.HistoryDays > MaxHistoryDays {
			return fmt.Errorf("history_days must be between %d and %d, got %d",
				MinHistoryDays, MaxHistoryDays, c.HistoryDays)
		}
		if c.ForecastHours < MinForecastHours || c.ForecastHours > MaxForecastHours {
			return fmt.Errorf("forecast_hours must be between %d and %d, got %d",
				MinForecastHours, MaxForecastHours, c.ForecastHours)
		}
		if c.Model != ModelSeasonalAR && c.Model != ModelScaledLinear {
			return fmt.Errorf("model must be %q or %q, got %q",
				ModelSeasonalAR, ModelScaledLinear, c.Model)
		}

	default:
		return fmt.Errorf("type must be %q or %q, got %q",
			ForecasterHistoricalShift, ForecasterOnlineML, c.Type)
	}

	return nil
}
