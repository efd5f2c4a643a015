// Package config loads shared configuration blocks from environment, .env and config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DatabaseConfig holds relational store settings.
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// KafkaConfig holds broker settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// RedisConfig holds Redis connection settings. An empty Address disables Redis.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	PoolSize int
}

// RateLimitConfig holds per-actor request limits.
type RateLimitConfig struct {
	RPS    float64
	Burst  int
	Window time.Duration
}

// CacheConfig holds directory cache settings.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// Load reads .env (if present), config.yaml (if present) and environment variables
// with the given prefix, e.g. prefix SHAREIT maps key db_host to SHAREIT_DB_HOST.
func Load(prefix string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_port", "9090")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "")

	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "shareit")
	v.SetDefault("db_password", "shareit")
	v.SetDefault("db_name", "shareit")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_sqlite_path", "shareit.db")

	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("kafka_group_prefix", "shareit-")

	v.SetDefault("redis_address", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_pool_size", 10)

	v.SetDefault("rate_limit_rps", 20.0)
	v.SetDefault("rate_limit_burst", 40)
	v.SetDefault("rate_limit_window", "1s")

	v.SetDefault("user_cache_size", 1024)
	v.SetDefault("user_cache_ttl", "5m")
}

// GetServicePort returns the listen address (":port") stored under key.
func GetServicePort(v *viper.Viper, key string) string {
	port := strings.TrimSpace(v.GetString(strings.ToLower(key)))
	if port == "" {
		port = "9090"
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

// GetAppEnv returns the deployment environment name.
func GetAppEnv(v *viper.Viper) string {
	return v.GetString("app_env")
}

// GetLogLevel returns the optional log level override.
func GetLogLevel(v *viper.Viper) string {
	return v.GetString("log_level")
}

// LoadDatabaseConfig reads the database block. dbNameKey selects the database name key.
func LoadDatabaseConfig(v *viper.Viper, dbNameKey string) DatabaseConfig {
	return DatabaseConfig{
		Driver:     strings.ToLower(v.GetString("db_driver")),
		Host:       v.GetString("db_host"),
		Port:       v.GetString("db_port"),
		User:       v.GetString("db_user"),
		Password:   v.GetString("db_password"),
		DBName:     v.GetString(strings.ToLower(dbNameKey)),
		SSLMode:    v.GetString("db_sslmode"),
		SQLitePath: v.GetString("db_sqlite_path"),
	}
}

// LoadKafkaConfig reads the Kafka block. Brokers are comma separated.
func LoadKafkaConfig(v *viper.Viper) KafkaConfig {
	return KafkaConfig{
		Brokers:     splitList(v.GetString("kafka_brokers")),
		GroupPrefix: v.GetString("kafka_group_prefix"),
	}
}

// LoadRedisConfig reads the Redis block.
func LoadRedisConfig(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Address:  v.GetString("redis_address"),
		Password: v.GetString("redis_password"),
		DB:       v.GetInt("redis_db"),
		PoolSize: v.GetInt("redis_pool_size"),
	}
}

// LoadRateLimitConfig reads the rate limit block.
func LoadRateLimitConfig(v *viper.Viper) RateLimitConfig {
	return RateLimitConfig{
		RPS:    v.GetFloat64("rate_limit_rps"),
		Burst:  v.GetInt("rate_limit_burst"),
		Window: v.GetDuration("rate_limit_window"),
	}
}

// LoadCacheConfig reads a cache block whose keys start with prefix, e.g. "user_cache".
func LoadCacheConfig(v *viper.Viper, prefix string) CacheConfig {
	return CacheConfig{
		Size: v.GetInt(prefix + "_size"),
		TTL:  v.GetDuration(prefix + "_ttl"),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
