package appconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFlagToEnvironment(t *testing.T) {
	assert.Equal(t, Test, EnvFlagToEnvironment("test"))
	assert.Equal(t, Production, EnvFlagToEnvironment("Production"))
	assert.Equal(t, Production, EnvFlagToEnvironment("prod"))
	assert.Equal(t, Development, EnvFlagToEnvironment("development"))
	assert.Equal(t, Development, EnvFlagToEnvironment("staging"))

	assert.Equal(t, "production", Production.String())
	assert.Equal(t, "test", Test.String())
	assert.Equal(t, "development", Development.String())
}

func TestParseFile(t *testing.T) {
	data := []byte(`
server:
  port: 8080
  env: production
  apiKeys: [alpha, beta]
  rateLimit: 20
feed:
  url: https://example.com/RATP_GTFS_LINES.zip
  projection: lambert93
  defaultTransferTime: 3m
  refreshInterval: 12h
routing:
  maxSpeed: 30
  transferPenalty: 1m
  expansionBudget: 50000
logging:
  level: debug
  file: /var/log/metrograph.log
colors:
  METRO_1: "#f2c931"
`)

	cfg, err := ParseFile(data)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.ApiKeys)
	require.NotNil(t, cfg.Feed.DefaultTransferTime)
	assert.Equal(t, 3*time.Minute, *cfg.Feed.DefaultTransferTime)
	assert.Equal(t, 12*time.Hour, cfg.Feed.RefreshInterval)
	assert.Equal(t, 30.0, cfg.Routing.MaxSpeed)
	assert.Equal(t, time.Minute, cfg.Routing.TransferPenalty)
	assert.Equal(t, 50000, cfg.Routing.ExpansionBudget)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "#f2c931", cfg.Colors["METRO_1"])
}

func TestParseFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad port", "server:\n  port: 70000\n"},
		{"bad env", "server:\n  env: staging\n"},
		{"bad projection", "feed:\n  projection: mercator\n"},
		{"bad color", "colors:\n  METRO_1: yellow\n"},
		{"negative penalty", "routing:\n  transferPenalty: -1m\n"},
		{"not yaml", "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 4001\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4001, cfg.Server.Port)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("METROGRAPH_TEST_KEY=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("METROGRAPH_TEST_KEY") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("METROGRAPH_TEST_KEY"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "absent.env")))
}
