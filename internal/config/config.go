package config

import (
	"github.com/shareit-team/shareit-server/pkg/config"
)

// ServiceConfig holds all configuration for the shareit server.
type ServiceConfig struct {
	Port            string
	AppEnv          string
	LogLevel        string
	DBConfig        config.DatabaseConfig
	KafkaConfig     config.KafkaConfig
	RedisConfig     config.RedisConfig
	RateLimitConfig config.RateLimitConfig
	UserCacheConfig config.CacheConfig
}

// Load reads configuration from environment variables prefixed with SHAREIT_,
// a .env file and an optional config.yaml.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("SHAREIT")
	if err != nil {
		return nil, err
	}

	return &ServiceConfig{
		Port:            config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:          config.GetAppEnv(v),
		LogLevel:        config.GetLogLevel(v),
		DBConfig:        config.LoadDatabaseConfig(v, "DB_NAME"),
		KafkaConfig:     config.LoadKafkaConfig(v),
		RedisConfig:     config.LoadRedisConfig(v),
		RateLimitConfig: config.LoadRateLimitConfig(v),
		UserCacheConfig: config.LoadCacheConfig(v, "user_cache"),
	}, nil
}

// UsesAutoMigrate reports whether the schema is created from the GORM models
// instead of the SQL migrations.
func (c *ServiceConfig) UsesAutoMigrate() bool {
	return c.AppEnv == "development" || c.DBConfig.Driver == "sqlite"
}
