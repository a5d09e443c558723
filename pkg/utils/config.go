package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Booking  BookingConfig
	Events   EventsConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	// lumberjack rotation
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

type StoreConfig struct {
	Driver string // postgres | memory
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	MaxConns     int32
	EnsureSchema bool
}

type RedisConfig struct {
	Enabled   bool
	Addr      string
	Password  string
	DB        int
	LayoutTTL time.Duration
}

type BookingConfig struct {
	// ConfirmOnReserve issues tickets as confirmed; otherwise they start pending.
	ConfirmOnReserve bool
	MaxBatchSeats    int
}

type EventsConfig struct {
	Enabled bool
}

// LoadConfig reads the .env file at path (if present) and overlays the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "bus-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("LOG_MAX_SIZE_MB", 10)
	v.SetDefault("LOG_MAX_BACKUPS", 7)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_ENSURE_SCHEMA", true)
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_LAYOUT_TTL", 10*time.Minute)
	v.SetDefault("BOOKING_CONFIRM_ON_RESERVE", true)
	v.SetDefault("BOOKING_MAX_BATCH_SEATS", 4)
	v.SetDefault("EVENTS_ENABLED", true)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),

			LogMaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			LogMaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			LogMaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Store: StoreConfig{
			Driver: v.GetString("STORE_DRIVER"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			Name:         v.GetString("DB_NAME"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASS"),
			MaxConns:     v.GetInt32("DB_MAX_CONNS"),
			EnsureSchema: v.GetBool("DB_ENSURE_SCHEMA"),
		},
		Redis: RedisConfig{
			Enabled:   v.GetBool("REDIS_ENABLED"),
			Addr:      v.GetString("REDIS_ADDR"),
			Password:  v.GetString("REDIS_PASSWORD"),
			DB:        v.GetInt("REDIS_DB"),
			LayoutTTL: v.GetDuration("REDIS_LAYOUT_TTL"),
		},
		Booking: BookingConfig{
			ConfirmOnReserve: v.GetBool("BOOKING_CONFIRM_ON_RESERVE"),
			MaxBatchSeats:    v.GetInt("BOOKING_MAX_BATCH_SEATS"),
		},
		Events: EventsConfig{
			Enabled: v.GetBool("EVENTS_ENABLED"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the application cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Name == "" || c.Database.User == "" {
			return errors.New("DB_NAME and DB_USER are required for the postgres store")
		}
	case StoreDriverMemory:
	default:
		return errors.New("STORE_DRIVER must be postgres or memory")
	}
	if c.Booking.MaxBatchSeats < 1 {
		return errors.New("BOOKING_MAX_BATCH_SEATS must be at least 1")
	}
	return nil
}
