// Package config handles application configuration loading and validation using Viper.
package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // quota days are cut in a named zone even on minimal images

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Imaging   ImagingConfig   `mapstructure:"imaging"`
	Suggester SuggesterConfig `mapstructure:"suggester"`
	Quota     QuotaConfig     `mapstructure:"quota"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Environment     string `mapstructure:"environment"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"` // "postgres" or "sqlite"
	Postgres PostgresConfig `mapstructure:"postgres"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains PostgreSQL database connection and pool settings.
type PostgresConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// SQLiteConfig contains the SQLite file location.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig contains Redis connection settings. Redis is optional; when
// Enabled is false per-user locks are held in process.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	LockTTL  int    `mapstructure:"lock_ttl"` // seconds
}

// StorageConfig selects where processed item images are written.
type StorageConfig struct {
	Driver string      `mapstructure:"driver"` // "local" or "s3"
	Local  LocalConfig `mapstructure:"local"`
	S3     S3Config    `mapstructure:"s3"`
}

// LocalConfig stores images on the local filesystem.
type LocalConfig struct {
	Dir     string `mapstructure:"dir"`
	BaseURL string `mapstructure:"base_url"`
}

// S3Config stores images in an S3 compatible bucket.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Endpoint  string `mapstructure:"endpoint"`
	PublicURL string `mapstructure:"public_url"`
}

// ImagingConfig contains the upload image pipeline settings.
type ImagingConfig struct {
	BackgroundRemovalURL string `mapstructure:"background_removal_url"`
	TimeoutSeconds       int    `mapstructure:"timeout_seconds"`
	Workers              int    `mapstructure:"workers"`
	MaxDimension         int    `mapstructure:"max_dimension"` // longest side of stored images, px
}

// SuggesterConfig contains the outfit suggester settings.
type SuggesterConfig struct {
	Provider       string  `mapstructure:"provider"` // "http" or "local"
	BaseURL        string  `mapstructure:"base_url"`
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	Temperature    float64 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// QuotaConfig contains daily caps and free-tier limits.
type QuotaConfig struct {
	UploadXPDailyCap  int    `mapstructure:"upload_xp_daily_cap"`
	FreeAIDailyLimit  int    `mapstructure:"free_ai_daily_limit"`
	FreeWardrobeLimit int    `mapstructure:"free_wardrobe_limit"`
	Timezone          string `mapstructure:"timezone"`
}

// MinRetentionDays keeps a full month of action logs, which the monthly
// leaderboard sums over.
const MinRetentionDays = 30

// SchedulerConfig contains the action log retention job settings.
type SchedulerConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	RetentionTime string `mapstructure:"retention_time"` // HH:MM
	RetentionDays int    `mapstructure:"retention_days"`
	Timezone      string `mapstructure:"timezone"`
}

// MetricsConfig contains Prometheus metrics exporter settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig contains application logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 15)
	v.SetDefault("server.shutdown_timeout", 10)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlite.path", "wardrobe.db")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.max_open_conns", 20)
	v.SetDefault("database.postgres.max_idle_conns", 5)
	v.SetDefault("database.postgres.conn_max_lifetime", 300)
	v.SetDefault("database.redis.port", 6379)
	v.SetDefault("database.redis.pool_size", 10)
	v.SetDefault("database.redis.lock_ttl", 30)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.dir", "uploads")
	v.SetDefault("storage.local.base_url", "/uploads")

	v.SetDefault("imaging.timeout_seconds", 20)
	v.SetDefault("imaging.workers", 4)
	v.SetDefault("imaging.max_dimension", 1024)

	v.SetDefault("suggester.provider", "http")
	v.SetDefault("suggester.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("suggester.model", "llama-3.3-70b-versatile")
	v.SetDefault("suggester.temperature", 0.7)
	v.SetDefault("suggester.timeout_seconds", 15)

	v.SetDefault("quota.upload_xp_daily_cap", 5)
	v.SetDefault("quota.free_ai_daily_limit", 1)
	v.SetDefault("quota.free_wardrobe_limit", 30)
	v.SetDefault("quota.timezone", "Europe/Istanbul")

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.retention_time", "03:30")
	v.SetDefault("scheduler.retention_days", 90)
	v.SetDefault("scheduler.timezone", "Europe/Istanbul")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/wardrobe-stylist/")
	}

	// Server configuration
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.environment", "SERVER_ENVIRONMENT")

	// Database configuration
	_ = v.BindEnv("database.driver", "DATABASE_DRIVER")
	_ = v.BindEnv("database.sqlite.path", "SQLITE_PATH")
	_ = v.BindEnv("database.postgres.host", "POSTGRES_HOST")
	_ = v.BindEnv("database.postgres.port", "POSTGRES_PORT")
	_ = v.BindEnv("database.postgres.database", "POSTGRES_DB")
	_ = v.BindEnv("database.postgres.user", "POSTGRES_USER")
	_ = v.BindEnv("database.postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("database.postgres.ssl_mode", "POSTGRES_SSL_MODE")

	// Redis configuration
	_ = v.BindEnv("database.redis.enabled", "REDIS_ENABLED")
	_ = v.BindEnv("database.redis.host", "REDIS_HOST")
	_ = v.BindEnv("database.redis.port", "REDIS_PORT")
	_ = v.BindEnv("database.redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("database.redis.db", "REDIS_DB")

	// Storage configuration
	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = v.BindEnv("storage.local.dir", "STORAGE_LOCAL_DIR")
	_ = v.BindEnv("storage.s3.region", "S3_REGION")
	_ = v.BindEnv("storage.s3.bucket", "S3_BUCKET")
	_ = v.BindEnv("storage.s3.access_key", "S3_ACCESS_KEY")
	_ = v.BindEnv("storage.s3.secret_key", "S3_SECRET_KEY")
	_ = v.BindEnv("storage.s3.endpoint", "S3_ENDPOINT")
	_ = v.BindEnv("storage.s3.public_url", "S3_PUBLIC_URL")

	// Imaging and suggester configuration
	_ = v.BindEnv("imaging.background_removal_url", "BACKGROUND_REMOVAL_URL")
	_ = v.BindEnv("suggester.provider", "SUGGESTER_PROVIDER")
	_ = v.BindEnv("suggester.base_url", "SUGGESTER_BASE_URL")
	_ = v.BindEnv("suggester.api_key", "SUGGESTER_API_KEY", "GROQ_API_KEY")
	_ = v.BindEnv("suggester.model", "SUGGESTER_MODEL")

	// Logging configuration
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
	_ = v.BindEnv("logging.output", "LOG_OUTPUT")

	// Scheduler configuration
	_ = v.BindEnv("scheduler.enabled", "SCHEDULER_ENABLED")
	_ = v.BindEnv("scheduler.retention_days", "SCHEDULER_RETENTION_DAYS")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.SQLite.Path == "" {
			return fmt.Errorf("database.sqlite.path is required")
		}
	case "postgres":
		if c.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if c.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if c.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}

	if c.Database.Redis.Enabled && c.Database.Redis.Host == "" {
		return fmt.Errorf("database.redis.host is required when redis is enabled")
	}

	switch c.Storage.Driver {
	case "local":
		if c.Storage.Local.Dir == "" {
			return fmt.Errorf("storage.local.dir is required")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required")
		}
		if c.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required")
		}
	default:
		return fmt.Errorf("storage.driver must be local or s3, got %q", c.Storage.Driver)
	}

	switch c.Suggester.Provider {
	case "local":
	case "http":
		if c.Suggester.BaseURL == "" {
			return fmt.Errorf("suggester.base_url is required for the http provider")
		}
	default:
		return fmt.Errorf("suggester.provider must be http or local, got %q", c.Suggester.Provider)
	}

	if c.Quota.UploadXPDailyCap < 0 || c.Quota.FreeAIDailyLimit < 0 || c.Quota.FreeWardrobeLimit < 0 {
		return fmt.Errorf("quota limits must not be negative")
	}
	if _, err := time.LoadLocation(c.Quota.Timezone); err != nil {
		return fmt.Errorf("invalid quota.timezone %q: %w", c.Quota.Timezone, err)
	}

	if c.Scheduler.RetentionDays < MinRetentionDays {
		return fmt.Errorf("scheduler.retention_days must be at least %d, got %d", MinRetentionDays, c.Scheduler.RetentionDays)
	}

	return nil
}

// GetLocation returns the timezone used to cut calendar days for quotas and wear logs.
func (c *QuotaConfig) GetLocation() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// GetLocation returns the scheduler timezone location.
func (c *SchedulerConfig) GetLocation() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Timeout returns the suggester call bound.
func (c *SuggesterConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the background removal call bound.
func (c *ImagingConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
