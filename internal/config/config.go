package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"task_manager/internal/logger"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	AppPort     string
	StoreDriver string

	MongoURI      string
	MongoDatabase string
	DatabaseURL   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIRateLimit  int
	APIRateWindow time.Duration

	LogLevel string
	LogJSON  bool

	ShutdownTimeout time.Duration
}

// Load reads .env (if present) and the process environment.
// Missing required settings terminate the process.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from a lookup function
func FromEnv(getenv func(string) string) (*Config, error) {
	driver := strings.ToLower(strings.TrimSpace(getenv("STORE_DRIVER")))
	if driver == "" {
		driver = DriverMongo
	}

	cfg := &Config{
		AppPort:         "3000",
		StoreDriver:     driver,
		MongoDatabase:   "taskdb",
		APIRateLimit:    100,
		APIRateWindow:   time.Minute,
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
	}

	switch driver {
	case DriverMongo:
		cfg.MongoURI = getenv("MONGODB_URI")
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGODB_URI is not set")
		}
		if v := getenv("MONGODB_DATABASE"); v != "" {
			cfg.MongoDatabase = v
		}
	case DriverPostgres:
		cfg.DatabaseURL = getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set")
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}

	if v := getenv("PORT"); v != "" {
		cfg.AppPort = v
	}

	cfg.RedisAddr = getenv("REDIS_ADDR")
	cfg.RedisPassword = getenv("REDIS_PASSWORD")
	if v := getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RedisDB = n
		}
	}

	if v := getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.APIRateLimit = n
		}
	}
	if v := getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.APIRateWindow = time.Duration(n) * time.Second
		}
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	cfg.LogJSON = strings.EqualFold(getenv("LOG_FORMAT"), "json")

	if v := getenv("SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ShutdownTimeout = time.Duration(n) * time.Second
		}
	}

	return cfg, nil
}
