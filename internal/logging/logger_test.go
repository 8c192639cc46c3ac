package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bazaaradmin/internal/config"
)

func TestNewWritesToFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bazaar.log")
	logger, err := New(config.LoggingConfig{Level: "debug", File: path, JSON: true})
	require.NoError(t, err)

	logger.Info("hello", zap.String("resource", "products"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "products")
}

func TestNewBadLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bazaar.log")
	logger, err := New(config.LoggingConfig{Level: "chatty", File: path, JSON: true})
	require.NoError(t, err)

	logger.Debug("invisible")
	logger.Info("visible")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "invisible")
	assert.Contains(t, string(data), "visible")
}

func TestQuietWithoutFileIsNop(t *testing.T) {
	logger := Quiet(config.LoggingConfig{})
	require.NotNil(t, logger)
	logger.Info("goes nowhere")
}
