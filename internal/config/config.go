package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	HTTPPort        string
	APIBaseURL      string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	StorageBackend string
	SQLitePath     string
	RedisAddr      string
	RedisPassword  string
	RedisKeyPrefix string
	RedisTTL       time.Duration
	MongoURI       string
	MongoDBName    string
	CartStorageKey string

	SearchDebounce time.Duration
	PageSize       int
	MaxPageSize    int

	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment, after applying a
// .env file from the working directory if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8090"),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080/api/v1"), "/"),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendSQLite)),
		SQLitePath:     getEnv("SQLITE_PATH", "./storefront.db"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "storefront:"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:    getEnv("MONGO_DB_NAME", "storefront"),
		CartStorageKey: getEnv("CART_STORAGE_KEY", "cart"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RedisTTL, err = getDuration("REDIS_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.SearchDebounce, err = getDuration("SEARCH_DEBOUNCE", 300*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = getInt("PAGE_SIZE", 6); err != nil {
		return nil, err
	}
	if cfg.MaxPageSize, err = getInt("MAX_PAGE_SIZE", 50); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case BackendSQLite, BackendRedis, BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.MaxPageSize < c.PageSize {
		return fmt.Errorf("MAX_PAGE_SIZE (%d) must not be below PAGE_SIZE (%d)", c.MaxPageSize, c.PageSize)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}
