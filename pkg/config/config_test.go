package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 30*time.Minute, c.Dashboard.CacheTTL)
	assert.Equal(t, 10*time.Second, c.Dashboard.FetchTimeout)
	assert.Equal(t, 6, c.Dashboard.TrendCap)
	assert.Equal(t, 30, c.Dashboard.DefaultDays)
	assert.Equal(t, -1, c.Kafka.RequiredAcks)
	assert.False(t, c.Redis.Enabled)
	assert.False(t, c.Kafka.Enabled)
	assert.False(t, c.ClickHouse.Enabled)
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
dashboard:
  cache_ttl: 5m
  workers: 2
log:
  format: console
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, 5*time.Minute, c.Dashboard.CacheTTL)
	assert.Equal(t, 2, c.Dashboard.Workers)
	assert.Equal(t, "console", c.Log.Format)
	assert.Equal(t, 6, c.Dashboard.TrendCap)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"dashboard.cache_ttl":    "dashboard:\n  cache_ttl: -1s\n",
		"dashboard.default_days": "dashboard:\n  default_days: 365\n",
		"log.format":             "log:\n  format: xml\n",
		"kafka.brokers":          "kafka:\n  enabled: true\n",
		"clickhouse.host":        "clickhouse:\n  enabled: true\n",
	}
	for field, body := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("MARKETSNAP_PORT", "7070")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CLICKHOUSE_HOST", "ch")

	c, err := LoadWithEnv("")
	require.NoError(t, err)

	assert.Equal(t, 7070, c.Server.Port)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, "redis:6379", c.Redis.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.True(t, c.Kafka.Enabled)
	assert.True(t, c.ClickHouse.Enabled)
	assert.Equal(t, "ch", c.ClickHouse.Host)
}

func TestLoadWithEnvBadPort(t *testing.T) {
	t.Setenv("MARKETSNAP_PORT", "eighty")
	_, err := LoadWithEnv("")
	assert.ErrorContains(t, err, "MARKETSNAP_PORT")
}
