package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_WritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrograph.log")

	logger, closer := NewLogger(slog.LevelInfo, FileOptions{Filename: path, MaxSizeMB: 1, MaxBackups: 2})
	require.NotNil(t, closer)

	logger.Info("graph_built", slog.Int("stations", 3))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"graph_built"`)
	assert.Contains(t, string(data), `"stations":3`)
}

func TestNewLogger_StdoutOnly(t *testing.T) {
	logger, closer := NewLogger(slog.LevelWarn, FileOptions{})
	require.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}
