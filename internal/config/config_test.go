package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: https://api.idish.example/
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "idish-gateway", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "https://api.idish.example", cfg.Backend.BaseURL, "trailing slash trimmed")
	assert.Equal(t, 24*60*60, cfg.Session.TTLSeconds)
	assert.Equal(t, "idish_session", cfg.Session.CookieName)
	assert.Equal(t, "placeholder", cfg.Upload.Mode)
	assert.Equal(t, "dishes", cfg.Upload.Bucket)
	assert.Equal(t, float64(1), cfg.RateLimit.LoginRPS)
	assert.Equal(t, 5, cfg.RateLimit.LoginBurst)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("IDISH_BACKEND_URL", "https://backend.test")

	path := writeConfig(t, `
backend:
  base_url: ${IDISH_BACKEND_URL}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://backend.test", cfg.Backend.BaseURL)
}

func TestValidate(t *testing.T) {
	t.Run("MissingBackend", func(t *testing.T) {
		path := writeConfig(t, `
app:
  name: test
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend base_url is required")
	})

	t.Run("NonHTTPBackend", func(t *testing.T) {
		path := writeConfig(t, `
backend:
  base_url: ftp://nope
`)
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("MinioWithoutEndpoint", func(t *testing.T) {
		path := writeConfig(t, `
backend:
  base_url: https://api.idish.example
upload:
  mode: minio
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upload.minio.endpoint")
	})

	t.Run("UnknownUploadMode", func(t *testing.T) {
		path := writeConfig(t, `
backend:
  base_url: https://api.idish.example
upload:
  mode: carrier-pigeon
`)
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("RedisEnabledNeedsAddress", func(t *testing.T) {
		path := writeConfig(t, `
backend:
  base_url: https://api.idish.example
redis:
  enabled: true
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis.address")
	})
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
