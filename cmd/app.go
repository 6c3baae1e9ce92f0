package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/shaharia-lab/filenotify/internal/config"
	"github.com/shaharia-lab/filenotify/internal/dispatch"
	"github.com/shaharia-lab/filenotify/internal/eventbus"
	"github.com/shaharia-lab/filenotify/internal/notification"
	"github.com/shaharia-lab/filenotify/internal/service"
	"github.com/shaharia-lab/filenotify/internal/storage"
)

// app is the wired object graph shared by the subcommands.
type app struct {
	cfg         *config.AppConfig
	logger      *slog.Logger
	db          *sql.DB
	redis       *redis.Client
	metrics     *prometheus.Registry
	bus         eventbus.Bus
	registry    *notification.Registry
	coordinator *dispatch.Coordinator
	queue       storage.UploadQueue
	prefs       storage.PreferenceStore
	svc         service.NotificationService
}

// newApp opens the stores and builds the channel registry and coordinator.
func newApp(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*app, error) {
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", cfg.DataDir, err)
	}

	db, fresh, err := storage.NewSQLiteDB(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if fresh {
		logger.Info("initialized new database", "path", cfg.DBPath())
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		metrics:  prometheus.NewRegistry(),
		bus:      eventbus.New(0, logger),
		registry: notification.NewRegistry(),
		queue:    storage.NewSQLiteUploadQueue(db),
		prefs:    storage.NewSQLitePreferenceStore(db),
	}
	a.metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.bus.Subscribe(eventbus.LogListener(logger))
	a.bus.Subscribe(eventbus.CountingListener(a.metrics))

	audit, err := a.auditStore(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	status := storage.NewSQLiteStatusStore(db)

	a.registerChannels()

	a.coordinator = dispatch.New(dispatch.Config{
		Resolver: dispatch.NewResolver(a.prefs, a.registry, logger),
		Recorder: dispatch.NewRecorder(audit, status, logger),
		Logger:   logger,
		Metrics:  dispatch.NewMetrics(a.metrics),
	})
	a.svc = service.NewNotificationService(a.coordinator, audit, status, a.prefs, a.queue, a.bus)
	return a, nil
}

// auditStore returns the configured audit backend.
func (a *app) auditStore(ctx context.Context) (storage.AuditStore, error) {
	switch a.cfg.AuditBackend {
	case config.AuditBackendRedis:
		a.redis = redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		store := storage.NewRedisAuditStore(a.redis, "")
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("connecting to redis at %s: %w", a.cfg.RedisAddr, err)
		}
		a.logger.Info("audit backend ready", "backend", "redis", "addr", a.cfg.RedisAddr)
		return store, nil
	default:
		a.logger.Info("audit backend ready", "backend", "sqlite")
		return storage.NewSQLiteAuditStore(a.db), nil
	}
}

// registerChannels registers a factory for every channel whose transport is
// configured. Dispatching to an unregistered channel fails fast.
func (a *app) registerChannels() {
	cfg := a.cfg

	if cfg.SMTPHost != "" {
		smtp := notification.SMTPConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			Username:   cfg.SMTPUsername,
			Password:   cfg.SMTPPassword,
			FromAddr:   cfg.MailFrom,
			Encryption: cfg.SMTPEncryption,
		}
		a.registry.Register(notification.ChannelEmail, func() (notification.Channel, error) {
			return notification.NewEmailChannel(smtp), nil
		})
	}

	if cfg.SMSConfigured() {
		twilio := notification.TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			FromNumber: cfg.TwilioFromNumber,
		}
		a.registry.Register(notification.ChannelSMS, func() (notification.Channel, error) {
			sender, err := notification.NewTwilioSender(twilio)
			if err != nil {
				return nil, err
			}
			return notification.NewSMSChannel(sender), nil
		})
	}

	if cfg.WebhookBaseURL != "" {
		base := cfg.WebhookBaseURL
		a.registry.Register(notification.ChannelHTTPWebhook, func() (notification.Channel, error) {
			return notification.NewWebhookChannel(base, nil)
		})
	}

	kinds := a.registry.Kinds()
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	a.logger.Info("channels registered", "channels", names)
	if len(kinds) == 0 {
		a.logger.Warn("no notification channels configured")
	}
}

// webhookEndpoint is the fixed webhook target, or "" when webhooks are off.
func (a *app) webhookEndpoint() string {
	if a.cfg.WebhookBaseURL == "" {
		return ""
	}
	return notification.WebhookEndpoint(a.cfg.WebhookBaseURL)
}

// Close releases the event bus, Redis client and database.
func (a *app) Close() error {
	a.bus.Close()
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.db.Close())
	return errors.Join(errs...)
}
