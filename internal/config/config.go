package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// TelegramConfig holds the downstream messaging sink configuration.
// BotToken and ChatID come from the environment (TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID) and are required.
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DispatchConfig holds delivery retry behavior configuration
type DispatchConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

// StorageConfig holds history ledger configuration
type StorageConfig struct {
	MaxHistory int    `mapstructure:"max_history"`
	DBPath     string `mapstructure:"db_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables. A missing
// config file is not an error; defaults and environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("ALERT_RELAY")
	v.AutomaticEnv()

	// Sink credentials use the well-known variable names of the original
	// deployment rather than the ALERT_RELAY prefix.
	_ = v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	_ = v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")

	// Telegram defaults
	v.SetDefault("telegram.request_timeout", "10s")

	// Dispatch defaults
	v.SetDefault("dispatch.max_attempts", 3)
	v.SetDefault("dispatch.backoff_base", "1s")

	// Storage defaults: the ledger is volatile unless an explicit path is set
	v.SetDefault("storage.max_history", 50)
	v.SetDefault("storage.db_path", ":memory:")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Server config
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}

	// Validate Telegram config: missing credentials are a fatal startup error
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required (set TELEGRAM_BOT_TOKEN)")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required (set TELEGRAM_CHAT_ID)")
	}
	if c.Telegram.RequestTimeout <= 0 {
		return fmt.Errorf("telegram.request_timeout must be positive")
	}

	// Validate Dispatch config
	if c.Dispatch.MaxAttempts < 1 {
		return fmt.Errorf("dispatch.max_attempts must be at least 1")
	}
	if c.Dispatch.BackoffBase <= 0 {
		return fmt.Errorf("dispatch.backoff_base must be positive")
	}

	// Validate Storage config
	if c.Storage.MaxHistory < 1 {
		return fmt.Errorf("storage.max_history must be at least 1")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// ListenAddr returns the host:port pair the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
