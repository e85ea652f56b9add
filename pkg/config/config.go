package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Content   ContentConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Feed      FeedConfig
	Logging   LoggingConfig
	Telemetry TelemetryConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
	Host string
}

// ContentConfig holds content API configuration
type ContentConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// DatabaseConfig holds database configuration. An empty URL disables the
// desk/column store.
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL     string
	Enabled bool
}

// SessionConfig holds local session store configuration
type SessionConfig struct {
	Path     string
	InMemory bool
}

// FeedConfig holds feed pagination configuration
type FeedConfig struct {
	DefaultLimit int
	MaxLimit     int
	CacheTTL     time.Duration
	WatchTimeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// TelemetryConfig holds observability configuration
type TelemetryConfig struct {
	Enabled           bool
	JaegerURL         string
	PrometheusEnabled bool
	PrometheusPort    int
	ServiceName       string
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	// Load from environment
	viper.SetEnvPrefix("GOATCAST")
	viper.AutomaticEnv()

	// Load from config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.goatcast")
	viper.AddConfigPath("/etc/goatcast")

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found; this is OK if we have env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getInt("http_server_port", 8080),
			Host: getString("http_server_host", "0.0.0.0"),
		},
		Content: ContentConfig{
			BaseURL: getString("content_api_url", "https://api.neynar.com/v2/farcaster"),
			APIKey:  getString("content_api_key", "NEYNAR_API_DOCS"),
			Timeout: getDuration("content_api_timeout", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL: getString("database_url", ""),
		},
		Redis: RedisConfig{
			URL:     getString("redis_url", ""),
			Enabled: getString("redis_url", "") != "",
		},
		Session: SessionConfig{
			Path:     getString("session_path", "./data/session"),
			InMemory: getBool("session_in_memory", false),
		},
		Feed: FeedConfig{
			DefaultLimit: getInt("feed_default_limit", 10),
			MaxLimit:     getInt("feed_max_limit", 100),
			CacheTTL:     getDuration("feed_cache_ttl", time.Minute),
			WatchTimeout: getDuration("watch_timeout", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getString("log_level", "INFO"),
			Format: getString("log_format", "json"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           getBool("telemetry_enabled", true),
			JaegerURL:         getString("jaeger_url", "http://localhost:14268/api/traces"),
			PrometheusEnabled: getBool("prometheus_enabled", true),
			PrometheusPort:    getInt("prometheus_port", 9090),
			ServiceName:       getString("service_name", "goatcast"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("http_server_port", 8080)
	viper.SetDefault("http_server_host", "0.0.0.0")
	viper.SetDefault("content_api_url", "https://api.neynar.com/v2/farcaster")
	viper.SetDefault("content_api_key", "NEYNAR_API_DOCS")
	viper.SetDefault("content_api_timeout", 30*time.Second)
	viper.SetDefault("session_path", "./data/session")
	viper.SetDefault("feed_default_limit", 10)
	viper.SetDefault("feed_max_limit", 100)
	viper.SetDefault("feed_cache_ttl", time.Minute)
	viper.SetDefault("watch_timeout", 10*time.Second)
	viper.SetDefault("log_level", "INFO")
	viper.SetDefault("log_format", "json")
	viper.SetDefault("telemetry_enabled", true)
	viper.SetDefault("prometheus_enabled", true)
	viper.SetDefault("prometheus_port", 9090)
	viper.SetDefault("service_name", "goatcast")
}

func getString(key, defaultValue string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	// Also check environment variable directly
	if val := os.Getenv("GOATCAST_" + toEnvKey(key)); val != "" {
		return val
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	if val := os.Getenv("GOATCAST_" + toEnvKey(key)); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	if val := os.Getenv("GOATCAST_" + toEnvKey(key)); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	if val := os.Getenv("GOATCAST_" + toEnvKey(key)); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultValue
}

func toEnvKey(key string) string {
	// Convert snake_case to UPPER_SNAKE_CASE
	result := ""
	for i, r := range key {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result += "_"
		}
		if r == '-' || r == '_' {
			result += "_"
		} else {
			result += string(r)
		}
	}
	return result
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Content.BaseURL == "" {
		return fmt.Errorf("content_api_url is required")
	}
	if c.Content.APIKey == "" {
		return fmt.Errorf("content_api_key is required")
	}
	if c.Content.Timeout <= 0 {
		return fmt.Errorf("content_api_timeout must be positive")
	}
	if c.Feed.MaxLimit <= 0 || c.Feed.MaxLimit > 500 {
		return fmt.Errorf("feed_max_limit must be between 1 and 500")
	}
	if c.Feed.DefaultLimit <= 0 || c.Feed.DefaultLimit > c.Feed.MaxLimit {
		return fmt.Errorf("feed_default_limit must be between 1 and feed_max_limit")
	}
	if c.Feed.WatchTimeout <= 0 {
		return fmt.Errorf("watch_timeout must be positive")
	}
	if !c.Session.InMemory && c.Session.Path == "" {
		return fmt.Errorf("session_path is required unless session_in_memory is set")
	}
	return nil
}
