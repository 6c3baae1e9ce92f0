package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Audit backends.
const (
	AuditBackendSQLite = "sqlite"
	AuditBackendRedis  = "redis"
)

// AppConfig holds all application-level configuration loaded from environment variables.
type AppConfig struct {
	// Port is the HTTP server port. Defaults to 8990.
	Port int `envconfig:"PORT" default:"8990"`

	// DataDir is the root data directory. Defaults to ~/.filenotify.
	DataDir string `envconfig:"FILENOTIFY_DATA_DIR"`

	// CORSAllowedOrigins enables CORS on the API for these origins.
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	// LogLevel sets the minimum log level (debug, info, warn, error). Defaults to info.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	SMTPHost       string `envconfig:"SMTP_HOST"`
	SMTPPort       int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername   string `envconfig:"SMTP_USERNAME"`
	SMTPPassword   string `envconfig:"SMTP_PASSWORD"`
	MailFrom       string `envconfig:"MAIL_FROM"`
	SMTPEncryption string `envconfig:"SMTP_ENCRYPTION" default:"ssl_tls"`

	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `envconfig:"TWILIO_FROM_NUMBER"`

	// WebhookBaseURL is the API base the webhook endpoint path is appended to.
	WebhookBaseURL string `envconfig:"WEBHOOK_BASE_URL"`

	QueueVisibilityTimeoutSeconds  int     `envconfig:"QUEUE_VISIBILITY_TIMEOUT_SECONDS" default:"120"`
	QueuePollingIntervalSeconds    int     `envconfig:"QUEUE_POLLING_INTERVAL_SECONDS" default:"1"`
	QueuePollingMinIntervalSeconds int     `envconfig:"QUEUE_POLLING_MIN_INTERVAL_SECONDS" default:"0"`
	QueuePollingMaxIntervalSeconds int     `envconfig:"QUEUE_POLLING_MAX_INTERVAL_SECONDS" default:"10"`
	QueuePollingIntervalExponent   float64 `envconfig:"QUEUE_POLLING_INTERVAL_EXPONENT" default:"2"`
	QueueMaxDequeueCount           int     `envconfig:"QUEUE_MAX_DEQUEUE_COUNT" default:"5"`
	DispatchWorkers                int     `envconfig:"DISPATCH_WORKERS" default:"4"`

	// AuditBackend selects where audit records go: sqlite or redis.
	AuditBackend  string `envconfig:"AUDIT_BACKEND" default:"sqlite"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Load reads AppConfig from environment variables using envconfig.
// DataDir defaults to ~/.filenotify if not set.
func Load() (*AppConfig, error) {
	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".filenotify")
	}
	c.AuditBackend = strings.ToLower(strings.TrimSpace(c.AuditBackend))
	if c.AuditBackend == "" {
		c.AuditBackend = AuditBackendSQLite
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values envconfig cannot.
func (c *AppConfig) Validate() error {
	switch c.AuditBackend {
	case AuditBackendSQLite, AuditBackendRedis:
	default:
		return fmt.Errorf("invalid AUDIT_BACKEND %q: want %s or %s", c.AuditBackend, AuditBackendSQLite, AuditBackendRedis)
	}
	if c.QueuePollingMinIntervalSeconds > c.QueuePollingMaxIntervalSeconds {
		return fmt.Errorf("QUEUE_POLLING_MIN_INTERVAL_SECONDS (%d) exceeds QUEUE_POLLING_MAX_INTERVAL_SECONDS (%d)",
			c.QueuePollingMinIntervalSeconds, c.QueuePollingMaxIntervalSeconds)
	}
	return nil
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogDir returns the path to the log directory (~/.filenotify/logs).
func (c *AppConfig) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// DBPath returns the path to the SQLite database.
func (c *AppConfig) DBPath() string {
	return filepath.Join(c.DataDir, "filenotify.db")
}

// VisibilityTimeout returns the queue visibility timeout.
func (c *AppConfig) VisibilityTimeout() time.Duration {
	return time.Duration(c.QueueVisibilityTimeoutSeconds) * time.Second
}

// PollingInterval returns the base queue polling interval.
func (c *AppConfig) PollingInterval() time.Duration {
	return time.Duration(c.QueuePollingIntervalSeconds) * time.Second
}

// PollingMinInterval returns the lower bound of the polling backoff.
func (c *AppConfig) PollingMinInterval() time.Duration {
	return time.Duration(c.QueuePollingMinIntervalSeconds) * time.Second
}

// PollingMaxInterval returns the upper bound of the polling backoff.
func (c *AppConfig) PollingMaxInterval() time.Duration {
	return time.Duration(c.QueuePollingMaxIntervalSeconds) * time.Second
}

// SMSConfigured reports whether Twilio credentials are present.
func (c *AppConfig) SMSConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}
