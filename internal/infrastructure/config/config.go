package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	SRS      SRSConfig      `mapstructure:"srs"`
	Session  SessionConfig  `mapstructure:"session"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig holds database configuration. The sqlite driver only uses
// Path; the postgres driver uses the host/port/credential fields.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// SRSConfig tunes the scheduling algorithm
type SRSConfig struct {
	EaseFloor       float64 `mapstructure:"ease_floor"`
	InitialEase     float64 `mapstructure:"initial_ease"`
	MaxIntervalDays int     `mapstructure:"max_interval_days"`
	NewPerReview    int     `mapstructure:"new_per_review"`
}

// SessionConfig holds review session defaults
type SessionConfig struct {
	Limit      int    `mapstructure:"limit"`
	Direction  string `mapstructure:"direction"`
	PromptMode string `mapstructure:"prompt_mode"`
}

// ReminderConfig bounds the hours during which due reminders fire
type ReminderConfig struct {
	StartHour int `mapstructure:"start_hour"`
	EndHour   int `mapstructure:"end_hour"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName(".vox")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")

	setDefaults()

	viper.SetEnvPrefix("vox")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("database.driver", "sqlite3")
	viper.SetDefault("database.path", "vox.db")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "vox")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("srs.ease_floor", 1.3)
	viper.SetDefault("srs.initial_ease", 2.5)
	viper.SetDefault("srs.max_interval_days", 365)
	viper.SetDefault("srs.new_per_review", 4)

	viper.SetDefault("session.limit", 10)
	viper.SetDefault("session.direction", "front-to-back")
	viper.SetDefault("session.prompt_mode", "text")

	viper.SetDefault("reminder.start_hour", 9)
	viper.SetDefault("reminder.end_hour", 21)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
