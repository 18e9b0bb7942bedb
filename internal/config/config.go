package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Mongo    MongoConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	NewRelic NewRelicConfig
	Log      LogConfig
	Fare     FareConfig
	Admin    AdminConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	StaticDir    string
}

// StorageConfig selects the booking store.
type StorageConfig struct {
	Driver string
}

// MongoConfig holds MongoDB configuration.
type MongoConfig struct {
	URI      string
	Database string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// KafkaConfig holds the booking event publisher configuration.
// An empty broker list disables publishing.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Format string
}

// FareConfig controls server-side fare verification.
type FareConfig struct {
	Verify    bool
	Tolerance float64
}

// AdminConfig controls the operator routes.
type AdminConfig struct {
	RoutesEnabled bool
}

var defaults = map[string]any{
	"SERVER_PORT":           "5000",
	"SERVER_READ_TIMEOUT":   "10s",
	"SERVER_WRITE_TIMEOUT":  "10s",
	"STATIC_DIR":            "",
	"STORAGE_DRIVER":        "",
	"USE_MONGODB":           false,
	"MONGODB_URI":           "mongodb://localhost:27017/rulerride",
	"MONGODB_DATABASE":      "rulerride",
	"DB_HOST":               "localhost",
	"DB_PORT":               "5432",
	"DB_USER":               "postgres",
	"DB_PASSWORD":           "postgres",
	"DB_NAME":               "ruralride",
	"DB_SSLMODE":            "disable",
	"REDIS_ENABLED":         false,
	"REDIS_ADDR":            "localhost:6379",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"BOOKING_CACHE_TTL":     "30s",
	"KAFKA_BROKERS":         "",
	"KAFKA_TOPIC":           "booking-events",
	"NEW_RELIC_APP_NAME":    "ruralride",
	"NEW_RELIC_LICENSE_KEY": "",
	"NEW_RELIC_ENABLED":     false,
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "text",
	"FARE_VERIFY":           false,
	"FARE_TOLERANCE":        0.1,
	"ADMIN_ROUTES_ENABLED":  false,
}

// Load reads configuration from the environment, falling back to envFile and then to defaults.
// A missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
			StaticDir:    v.GetString("STATIC_DIR"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			CacheTTL: v.GetDuration("BOOKING_CACHE_TTL"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		NewRelic: NewRelicConfig{
			AppName:    v.GetString("NEW_RELIC_APP_NAME"),
			LicenseKey: v.GetString("NEW_RELIC_LICENSE_KEY"),
			Enabled:    v.GetBool("NEW_RELIC_ENABLED"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Fare: FareConfig{
			Verify:    v.GetBool("FARE_VERIFY"),
			Tolerance: v.GetFloat64("FARE_TOLERANCE"),
		},
		Admin: AdminConfig{
			RoutesEnabled: v.GetBool("ADMIN_ROUTES_ENABLED"),
		},
	}

	driver, err := resolveDriver(v.GetString("STORAGE_DRIVER"), v.GetBool("USE_MONGODB"))
	if err != nil {
		return nil, err
	}
	cfg.Storage.Driver = driver

	if cfg.Fare.Tolerance < 0 {
		return nil, fmt.Errorf("FARE_TOLERANCE must not be negative, got %v", cfg.Fare.Tolerance)
	}
	return cfg, nil
}

// resolveDriver picks the storage driver. An explicit driver wins over USE_MONGODB.
func resolveDriver(driver string, useMongo bool) (string, error) {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case "":
		if useMongo {
			return StorageMongo, nil
		}
		return StorageMemory, nil
	case StorageMemory, StorageMongo, StoragePostgres:
		return d, nil
	default:
		return "", fmt.Errorf("unknown STORAGE_DRIVER %q", driver)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
