package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Redis   RedisConfig
	Backup  BackupConfig
	Logging LoggingConfig
	Ledger  LedgerConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

type StorageConfig struct {
	Driver     string
	FilePath   string
	SQLitePath string
	RedisKey   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type BackupConfig struct {
	Schedule string
	Dir      string
	Keep     int
}

type LoggingConfig struct {
	Level  string
	Format string
}

type LedgerConfig struct {
	// SettleOnMarkPaid makes MarkFullyPaid record a closing payment for the
	// remaining balance instead of only flipping the status. Off by default
	// to keep the historical behavior.
	SettleOnMarkPaid bool
}

// Storage drivers
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("STORAGE_DRIVER", DriverFile)
	viper.SetDefault("STORAGE_FILE_PATH", "data/lendbook.json")
	viper.SetDefault("STORAGE_SQLITE_PATH", "data/lendbook.db")
	viper.SetDefault("STORAGE_REDIS_KEY", "lendbook:snapshot")
	viper.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("BACKUP_SCHEDULE", "0 0 * * * *")
	viper.SetDefault("BACKUP_DIR", "data/backups")
	viper.SetDefault("BACKUP_KEEP", 10)
	viper.SetDefault("SETTLE_ON_MARK_PAID", false)

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	config := Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Host: viper.GetString("SERVER_HOST"),
			Env:  viper.GetString("ENV"),
		},
		Storage: StorageConfig{
			Driver:     viper.GetString("STORAGE_DRIVER"),
			FilePath:   viper.GetString("STORAGE_FILE_PATH"),
			SQLitePath: viper.GetString("STORAGE_SQLITE_PATH"),
			RedisKey:   viper.GetString("STORAGE_REDIS_KEY"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Backup: BackupConfig{
			Schedule: viper.GetString("BACKUP_SCHEDULE"),
			Dir:      viper.GetString("BACKUP_DIR"),
			Keep:     viper.GetInt("BACKUP_KEEP"),
		},
		Logging: LoggingConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Ledger: LedgerConfig{
			SettleOnMarkPaid: viper.GetBool("SETTLE_ON_MARK_PAID"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.FilePath == "" {
			return fmt.Errorf("STORAGE_FILE_PATH is required for the file driver")
		}
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("STORAGE_SQLITE_PATH is required for the sqlite driver")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis driver")
		}
		if c.Storage.RedisKey == "" {
			return fmt.Errorf("STORAGE_REDIS_KEY is required for the redis driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Backup.Keep <= 0 {
		return fmt.Errorf("BACKUP_KEEP must be greater than 0")
	}

	// Validate backup schedule (six-field cron expression, seconds first)
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.Backup.Schedule); err != nil {
		return fmt.Errorf("BACKUP_SCHEDULE must be a valid cron expression: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}
