// Package config provides configuration management for the GroupOrder Hub server.
// Configuration can be loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Backup   BackupConfig   `mapstructure:"backup"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address in host:port format.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig holds the data file settings.
type StorageConfig struct {
	// DataFile is the path of the JSON document all application data
	// is persisted to.
	DataFile string `mapstructure:"data_file"`
}

// SessionsConfig holds session store settings.
type SessionsConfig struct {
	// Backend selects the session store: "memory" or "redis".
	Backend string `mapstructure:"backend"`

	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds Redis connection settings for the session store.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address in host:port format.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// DemoMode disables all mutating member endpoints, for public
	// demo deployments.
	DemoMode bool `mapstructure:"demo_mode"`

	// BootstrapAdminPassword and BootstrapUserAdminPassword are the
	// initial passwords of the seeded admin accounts. Only used on
	// first start against an empty data file.
	BootstrapAdminPassword     string `mapstructure:"bootstrap_admin_password"`
	BootstrapUserAdminPassword string `mapstructure:"bootstrap_user_admin_password"`
}

// SeedConfig holds first-run seeding settings.
type SeedConfig struct {
	// Admins seeds the two bootstrap admin accounts on an empty store.
	Admins bool `mapstructure:"admins"`

	// Catalog seeds a small starter product catalog on an empty store.
	Catalog bool `mapstructure:"catalog"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled determines if metrics collection is active.
	Enabled bool `mapstructure:"enabled"`

	// Path is the URL path for the metrics endpoint.
	Path string `mapstructure:"path"`
}

// BackupConfig holds the periodic S3 snapshot backup settings.
type BackupConfig struct {
	// Enabled determines if the backup scheduler runs.
	Enabled bool `mapstructure:"enabled"`

	// Interval is how often the data file is uploaded.
	Interval time.Duration `mapstructure:"interval"`

	S3 S3BackupConfig `mapstructure:"s3"`
}

// S3BackupConfig holds the S3 target for snapshot backups.
type S3BackupConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// Load reads configuration from the specified file and environment variables.
// Environment variables take precedence over file values.
// Environment variables are prefixed with GROUPORDER_ and use _ as separator.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Environment variable configuration
	v.SetEnvPrefix("GROUPORDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file configuration
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/grouporder")
	}

	// Read config file (optional - environment variables can be used instead)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is acceptable - use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	// Storage defaults
	v.SetDefault("storage.data_file", "./storage/app-data.json")

	// Session defaults
	v.SetDefault("sessions.backend", "memory")
	v.SetDefault("sessions.redis.host", "localhost")
	v.SetDefault("sessions.redis.port", 6379)
	v.SetDefault("sessions.redis.password", "")
	v.SetDefault("sessions.redis.db", 0)

	// Auth defaults
	v.SetDefault("auth.demo_mode", false)
	v.SetDefault("auth.bootstrap_admin_password", "")
	v.SetDefault("auth.bootstrap_user_admin_password", "")

	// Seed defaults
	v.SetDefault("seed.admins", true)
	v.SetDefault("seed.catalog", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Backup defaults
	v.SetDefault("backup.enabled", false)
	v.SetDefault("backup.interval", 1*time.Hour)
	v.SetDefault("backup.s3.endpoint", "")
	v.SetDefault("backup.s3.region", "us-east-1")
	v.SetDefault("backup.s3.bucket", "")
	v.SetDefault("backup.s3.prefix", "grouporder/")
	v.SetDefault("backup.s3.use_path_style", false)
}

// Validate checks the configuration for required values and valid ranges.
func (c *Config) Validate() error {
	// Validate server configuration
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	// Validate storage configuration
	if c.Storage.DataFile == "" {
		return fmt.Errorf("storage.data_file is required")
	}

	// Validate session configuration
	validBackends := map[string]bool{"memory": true, "redis": true}
	if !validBackends[c.Sessions.Backend] {
		return fmt.Errorf("sessions.backend must be 'memory' or 'redis'")
	}
	if c.Sessions.Backend == "redis" && c.Sessions.Redis.Host == "" {
		return fmt.Errorf("sessions.redis.host is required for redis backend")
	}

	// Validate backup configuration
	if c.Backup.Enabled {
		if c.Backup.S3.Bucket == "" {
			return fmt.Errorf("backup.s3.bucket is required when backup is enabled")
		}
		if c.Backup.Interval <= 0 {
			return fmt.Errorf("backup.interval must be positive")
		}
	}

	// Validate logging configuration
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, fatal, panic")
	}

	return nil
}

// MustLoad loads configuration or panics on error.
// Useful for main function initialization.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
