package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"STORE_DRIVER", "STORE_PATH", "DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_KEY",
		"EVENTBUS_DRIVER", "NATS_URL", "HTTP_ADDRESS", "ALLOWED_ORIGINS", "RATE_LIMIT",
		"LOG_LEVEL", "LOG_FORMAT", "ENV", "EXPORT_FILENAME",
		"OTLP_ENDPOINT", "OTLP_INSECURE", "TRACE_SAMPLE_RATE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, StoreFile, cfg.Store.Driver)
	assert.Equal(t, "players.json", cfg.Store.Path)
	assert.Equal(t, "player_data.xlsx", cfg.Export.Filename)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  driver: redis
redis:
  addr: cache:6379
  key: league:roster
http:
  address: ":9090"
  read_timeout: 3s
observability:
  log_format: json
`), 0o644))

	t.Setenv("REDIS_KEY", "override")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, StoreRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "override", cfg.Redis.Key)
	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTP.WriteTimeout, "unset fields keep defaults")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
	assert.Empty(t, cfg.Observability.OTLPEndpoint, "tracing stays off unless configured")
}

func TestLoadConfig_TracingEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OTLP_ENDPOINT", "collector:4317")
	t.Setenv("OTLP_INSECURE", "true")
	t.Setenv("TRACE_SAMPLE_RATE", "0.25")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "collector:4317", cfg.Observability.OTLPEndpoint)
	assert.True(t, cfg.Observability.OTLPInsecure)
	assert.Equal(t, 0.25, cfg.Observability.TraceSampleRate)

	t.Setenv("TRACE_SAMPLE_RATE", "lots")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "TRACE_SAMPLE_RATE")
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("store: [unclosed"), 0o644))
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "failed to unmarshal config")
	})
	t.Run("postgres without dsn", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DRIVER", StorePostgres)
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "DATABASE_URL")
	})
	t.Run("unknown driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STORE_DRIVER", "sqlite")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, `unknown store driver "sqlite"`)
	})
	t.Run("bad rate limit", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RATE_LIMIT", "fast")
		_, err := LoadConfig("")
		assert.ErrorContains(t, err, "RATE_LIMIT")
	})
}
