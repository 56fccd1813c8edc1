package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfig_Defaults(t *testing.T) {
	cfg, err := LoadServerConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./search_data", cfg.DataDir)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "@every 5m", cfg.SnapshotSpec)
	assert.Equal(t, 2, cfg.MaxWorkers)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.DatabaseEnabled())
}

func TestLoadServerConfig_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:candidates.db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "30s")

	cfg, err := LoadServerConfig("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.CacheEnabled())
	assert.True(t, cfg.DatabaseEnabled())
}

func TestLoadServerConfig_EnvFile(t *testing.T) {
	// godotenv.Load does not override variables that are already set, so
	// register cleanup for the keys the file introduces.
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o600))

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadServerConfig_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := LoadServerConfig(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestServerConfig_Validate(t *testing.T) {
	valid := ServerConfig{DatabaseDriver: "postgres", LogFormat: "text", MaxWorkers: 1}
	assert.NoError(t, valid.Validate())

	badDriver := valid
	badDriver.DatabaseDriver = "mysql"
	assert.Error(t, badDriver.Validate())

	badFormat := valid
	badFormat.LogFormat = "xml"
	assert.Error(t, badFormat.Validate())

	noWorkers := valid
	noWorkers.MaxWorkers = 0
	assert.Error(t, noWorkers.Validate())
}
