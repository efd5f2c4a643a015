package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	v, err := Load("SHAREIT_TEST")
	require.NoError(t, err)

	assert.Equal(t, ":9090", GetServicePort(v, "SERVICE_PORT"))
	assert.Equal(t, "development", GetAppEnv(v))

	db := LoadDatabaseConfig(v, "DB_NAME")
	assert.Equal(t, "postgres", db.Driver)
	assert.Equal(t, "shareit", db.DBName)

	kafka := LoadKafkaConfig(v)
	assert.Equal(t, []string{"localhost:9092"}, kafka.Brokers)

	cache := LoadCacheConfig(v, "user_cache")
	assert.Equal(t, 1024, cache.Size)
	assert.Equal(t, 5*time.Minute, cache.TTL)
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SHAREIT_TEST_SERVICE_PORT", "8081")
	t.Setenv("SHAREIT_TEST_DB_DRIVER", "SQLite")
	t.Setenv("SHAREIT_TEST_KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SHAREIT_TEST_REDIS_ADDRESS", "localhost:6379")
	t.Setenv("SHAREIT_TEST_RATE_LIMIT_WINDOW", "2s")

	v, err := Load("SHAREIT_TEST")
	require.NoError(t, err)

	assert.Equal(t, ":8081", GetServicePort(v, "SERVICE_PORT"))
	assert.Equal(t, "sqlite", LoadDatabaseConfig(v, "DB_NAME").Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, LoadKafkaConfig(v).Brokers)
	assert.Equal(t, "localhost:6379", LoadRedisConfig(v).Address)
	assert.Equal(t, 2*time.Second, LoadRateLimitConfig(v).Window)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
