package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config 应用配置
type Config struct {
	Env      string `validate:"required"`
	Port     string `validate:"required,numeric"`
	LogLevel string `validate:"oneof=trace debug info warn error"`

	DBDriver        string `validate:"oneof=postgres sqlite"`
	DatabaseURL     string `validate:"required_if=DBDriver postgres"`
	DBPath          string `validate:"required_if=DBDriver sqlite"`
	DBAutoMigrate   bool
	DBMaxOpenConns  int `validate:"gte=1"`
	DBMaxIdleConns  int `validate:"gte=0"`
	DBConnLifetime  time.Duration
	MoviesCacheTTL  time.Duration `validate:"gte=0"`
	RefCacheSize    int           `validate:"gte=1"`
	RefCacheTTL     time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// Load 加载配置
func Load() (*Config, error) {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "filmes")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := getEnv("DATABASE_URL", fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL))

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "3000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBDriver:        getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:     dbURL,
		DBPath:          getEnv("DB_PATH", "filmes.db"),
		DBAutoMigrate:   getEnvBool("DB_AUTO_MIGRATE", false),
		DBMaxOpenConns:  getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnLifetime:  getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		MoviesCacheTTL:  getEnvDuration("MOVIES_CACHE_TTL", 30*time.Second),
		RefCacheSize:    getEnvInt("REFERENCE_CACHE_SIZE", 256),
		RefCacheTTL:     getEnvDuration("REFERENCE_CACHE_TTL", 5*time.Minute),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("配置校验失败: %w", err)
	}

	return cfg, nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvDuration 支持 "30s" 形式，纯数字按秒处理
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}
