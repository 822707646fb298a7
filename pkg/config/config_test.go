package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TYPESENSE_URL", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)

	assert.Equal(t, "http://localhost:8108", cfg.Typesense.URL)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, int64(16*1024*1024), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TYPESENSE_URL", "http://test-typesense:8108")
	t.Setenv("TYPESENSE_API_KEY", "test-key")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("DB_NAME", "vendors_test")
	t.Setenv("ALLOWED_ORIGINS", "https://vendors.example, ,https://admin.example")
	t.Setenv("CACHE_WARM_INTERVAL", "0s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://test-typesense:8108", cfg.Typesense.URL)
	assert.Equal(t, "test-key", cfg.Typesense.APIKey)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Contains(t, cfg.Database.DatabaseDSN(), "dbname=vendors_test")
	assert.Equal(t, []string{"https://vendors.example", "https://admin.example"}, cfg.Server.AllowedOrigins)
	assert.Zero(t, cfg.Redis.WarmInterval)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("REDIS_PORT=6380\n"), 0o600))
	t.Setenv("REDIS_PORT", "")
	os.Unsetenv("REDIS_PORT")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:6380", cfg.Redis.RedisAddr())
}

func TestLoad_S3RequiresBucket(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
