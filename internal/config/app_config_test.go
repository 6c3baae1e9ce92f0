package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &AppConfig{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, c.SlogLevel())
		})
	}
}

func TestAppConfig_Paths(t *testing.T) {
	c := &AppConfig{DataDir: "/data"}
	assert.Equal(t, "/data/logs", c.LogDir())
	assert.Equal(t, "/data/filenotify.db", c.DBPath())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FILENOTIFY_DATA_DIR", "/tmp/test-filenotify")
	t.Setenv("AUDIT_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8990, cfg.Port)
	assert.Equal(t, "/tmp/test-filenotify", cfg.DataDir)
	assert.Equal(t, 120*time.Second, cfg.VisibilityTimeout())
	assert.Equal(t, time.Second, cfg.PollingInterval())
	assert.Equal(t, time.Duration(0), cfg.PollingMinInterval())
	assert.Equal(t, 10*time.Second, cfg.PollingMaxInterval())
	assert.InDelta(t, 2.0, cfg.QueuePollingIntervalExponent, 0)
	assert.Equal(t, 4, cfg.DispatchWorkers)
	assert.Equal(t, 5, cfg.QueueMaxDequeueCount)
	assert.Equal(t, AuditBackendSQLite, cfg.AuditBackend)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FILENOTIFY_DATA_DIR", "/srv/filenotify")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("AUDIT_BACKEND", "Redis")
	t.Setenv("QUEUE_POLLING_MAX_INTERVAL_SECONDS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
	assert.True(t, cfg.SMSConfigured())
	assert.Equal(t, AuditBackendRedis, cfg.AuditBackend)
	assert.Equal(t, 30*time.Second, cfg.PollingMaxInterval())
}

func TestLoad_InvalidAuditBackend(t *testing.T) {
	t.Setenv("FILENOTIFY_DATA_DIR", "/tmp/x")
	t.Setenv("AUDIT_BACKEND", "cassandra")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUDIT_BACKEND")
}

func TestValidate_PollingBounds(t *testing.T) {
	c := &AppConfig{AuditBackend: AuditBackendSQLite, QueuePollingMinIntervalSeconds: 20, QueuePollingMaxIntervalSeconds: 10}
	assert.Error(t, c.Validate())
}
