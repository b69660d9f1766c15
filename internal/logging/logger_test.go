package logging

import (
	"os"
	"path/filepath"
	"testing"

	"idish/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	logger, closer, err := New(config.LoggingConfig{}, config.AppConfig{Name: "idish-gateway"})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Nil(t, closer, "stdout output needs no closer")
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.log")
	logger, closer, err := New(config.LoggingConfig{Level: "debug", Output: "file", FilePath: path},
		config.AppConfig{Name: "idish-gateway", Environment: "test"})
	require.NoError(t, err)
	require.NotNil(t, closer)

	logger.Info().Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), `"app":"idish-gateway"`)
}

func TestNewFileOutputRequiresPath(t *testing.T) {
	_, _, err := New(config.LoggingConfig{Output: "file"}, config.AppConfig{})
	require.Error(t, err)
}

func TestComponent(t *testing.T) {
	logger, _, err := New(config.LoggingConfig{}, config.AppConfig{})
	require.NoError(t, err)
	child := Component(logger, "web")
	assert.NotNil(t, child)
}
