package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaharia-lab/filenotify/internal/api"
	"github.com/shaharia-lab/filenotify/internal/build"
	"github.com/shaharia-lab/filenotify/internal/config"
	"github.com/shaharia-lab/filenotify/internal/consumer"
	"github.com/shaharia-lab/filenotify/internal/logger"
	"github.com/shaharia-lab/filenotify/internal/server"
)

// NewServeCmd returns the "serve" subcommand that runs the API and the queue
// consumer.
func NewServeCmd(cfg *config.AppConfig) *cobra.Command {
	var (
		port       int
		workers    int
		noConsumer bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and the upload event consumer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// CLI flags override env config.
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("workers") {
				cfg.DispatchWorkers = workers
			}

			logFile := filepath.Join(cfg.LogDir(), "system.log")
			if err := runServe(cfg, !noConsumer); err != nil {
				fmt.Fprintf(os.Stderr, "An error occurred. Please check the logs at: %s\n", logFile)
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", cfg.Port, "HTTP server port (overrides PORT env var)")
	cmd.Flags().IntVar(&workers, "workers", cfg.DispatchWorkers, "Concurrent dispatches (overrides DISPATCH_WORKERS env var)")
	cmd.Flags().BoolVar(&noConsumer, "no-consumer", false, "Serve the API only; do not poll the upload event queue")

	return cmd
}

func runServe(cfg *config.AppConfig, withConsumer bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sysLogger, logCloser, err := logger.NewSystemLogger(cfg.LogDir(), cfg.SlogLevel())
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	sysLogger.Info("filenotify starting",
		slog.Int("port", cfg.Port),
		slog.String("data_dir", cfg.DataDir),
		slog.String("audit_backend", cfg.AuditBackend),
		slog.String("version", build.Version),
		slog.String("commit", build.CommitSHA),
		slog.String("build_date", build.BuildDate),
	)

	a, err := newApp(ctx, cfg, sysLogger)
	if err != nil {
		sysLogger.Error("startup failed", "error", err)
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			sysLogger.Error("closing resources", "error", err)
		}
	}()

	if withConsumer {
		c, err := consumer.New(consumer.Config{
			Queue:       a.queue,
			Preferences: a.prefs,
			Dispatcher:  a.coordinator,
			Logger:      sysLogger,
			Polling: consumer.PollingConfig{
				Interval: cfg.PollingInterval(),
				Min:      cfg.PollingMinInterval(),
				Max:      cfg.PollingMaxInterval(),
				Exponent: cfg.QueuePollingIntervalExponent,
			},
			WebhookEndpoint:   a.webhookEndpoint(),
			VisibilityTimeout: cfg.VisibilityTimeout(),
			Workers:           cfg.DispatchWorkers,
			MaxDequeueCount:   cfg.QueueMaxDequeueCount,
			EventPublisher:    a.bus,
		})
		if err != nil {
			return fmt.Errorf("creating consumer: %w", err)
		}
		if err := c.Start(ctx); err != nil {
			return fmt.Errorf("starting consumer: %w", err)
		}
		defer func() {
			if err := c.Stop(); err != nil {
				sysLogger.Warn("stopping consumer", "error", err)
			}
		}()
	}

	srv := server.New(server.Config{
		API:            api.New(a.svc, sysLogger),
		Port:           cfg.Port,
		Logger:         sysLogger,
		Gatherer:       a.metrics,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	url := fmt.Sprintf("http://localhost:%d", cfg.Port)
	channels := make([]string, 0)
	for _, k := range a.registry.Kinds() {
		channels = append(channels, k.String())
	}
	printBanner(os.Stdout, build.Version, url, filepath.Join(cfg.LogDir(), "system.log"), channels)
	sysLogger.Info("server ready", "url", url, "consumer", withConsumer)

	start := time.Now()
	err = srv.Run(ctx)
	sysLogger.Info("server stopped", "uptime", time.Since(start).Round(time.Second))
	return err
}
