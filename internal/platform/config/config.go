package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage and cache drivers understood by the entrypoint.
const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	StorageDriver string
	DatabaseURL   string
	EnableDBCheck bool
	SQLitePath    string
	JWTSecret     string

	CacheDriver   string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Events are only published when at least one broker is configured.
	KafkaBrokers []string
	KafkaTopic   string

	CORSAllowedOrigins []string
	RateLimit          string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("SQLITE_PATH", "cash_memo.db")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("CACHE_DRIVER", CacheMemory)
	viper.SetDefault("CACHE_TTL", "5m")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "cash-memo-events")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "300-M")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:          viper.GetString("PORT"),
		IsProduction:  viper.GetBool("IS_PRODUCTION"),
		StorageDriver: strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		DatabaseURL:   viper.GetString("PGSQL_URL"),
		EnableDBCheck: viper.GetBool("ENABLE_DB_CHECK"),
		SQLitePath:    viper.GetString("SQLITE_PATH"),
		JWTSecret:     viper.GetString("JWT_SECRET"),
		CacheDriver:   strings.ToLower(viper.GetString("CACHE_DRIVER")),
		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		RedisDB:       viper.GetInt("REDIS_DB"),
		KafkaBrokers:  splitList(viper.GetString("KAFKA_BROKERS")),
		KafkaTopic:    viper.GetString("KAFKA_TOPIC"),
		RateLimit:     viper.GetString("RATE_LIMIT"),

		CORSAllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	ttlStr := viper.GetString("CACHE_TTL")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid value for CACHE_TTL (%q): must be a positive duration", ttlStr)
	}
	cfg.CacheTTL = ttl

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %s", StoragePostgres)
		}
	case StorageSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required when STORAGE_DRIVER is %s", StorageSQLite)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	switch cfg.CacheDriver {
	case CacheMemory, CacheRedis:
	default:
		return nil, fmt.Errorf("unknown CACHE_DRIVER %q", cfg.CacheDriver)
	}

	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}

// splitList parses a comma separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
