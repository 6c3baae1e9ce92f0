package logger_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/filenotify/internal/logger"
)

func TestNewSystemLogger_WritesJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, closer, err := logger.NewSystemLogger(dir, slog.LevelInfo)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("dispatch complete", "tenant_id", "t1")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "system.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"dispatch complete"`)
	assert.Contains(t, string(data), `"tenant_id":"t1"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNewConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewConsoleLogger(&buf, slog.LevelWarn)

	log.Info("skipped")
	log.Warn("channel send failed", "channel", "SMS")

	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), `"channel":"SMS"`)
}
