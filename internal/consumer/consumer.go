// Package consumer polls the upload event queue and dispatches a
// notification for every event it receives.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/shaharia-lab/filenotify/internal/notification"
	"github.com/shaharia-lab/filenotify/internal/storage"
)

// Event type constants for dispatch lifecycle notifications.
const (
	EventDispatchCompleted = "filenotify.dispatch.completed"
	EventDispatchFailed    = "filenotify.dispatch.failed"
	EventEventDropped      = "filenotify.event.dropped"
)

const (
	defaultWorkers         = 4
	defaultBatchSize       = 10
	defaultVisibility      = 120 * time.Second
	defaultMaxDequeueCount = 5
)

// Dispatcher sends one notification request.
type Dispatcher interface {
	Dispatch(ctx context.Context, req notification.Request) (notification.Report, error)
}

// EventPublisher allows the consumer to emit lifecycle events without
// depending on a concrete event bus implementation.
type EventPublisher interface {
	Publish(eventType string, payload map[string]string)
}

// Config holds the consumer configuration.
type Config struct {
	Queue       storage.UploadQueue
	Preferences storage.PreferenceStore
	Dispatcher  Dispatcher
	Logger      *slog.Logger
	Polling     PollingConfig

	// WebhookEndpoint is used for webhook recipients configured without an
	// address.
	WebhookEndpoint   string
	VisibilityTimeout time.Duration
	Workers           int
	BatchSize         int
	// MaxDequeueCount drops an event received more often than this.
	MaxDequeueCount int
	// EventPublisher is optional.
	EventPublisher EventPublisher
}

// Consumer polls the queue on a gocron duration job.
type Consumer struct {
	cron      gocron.Scheduler
	cfg       Config
	logger    *slog.Logger
	semaphore chan struct{}
	wg        sync.WaitGroup

	mu       sync.Mutex
	idle     int
	nextPoll time.Time
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Consumer.
func New(cfg Config) (*Consumer, error) {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating gocron scheduler: %w", err)
	}

	cfg.Polling = cfg.Polling.withDefaults()
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.VisibilityTimeout <= 0 {
		cfg.VisibilityTimeout = defaultVisibility
	}
	if cfg.MaxDequeueCount <= 0 {
		cfg.MaxDequeueCount = defaultMaxDequeueCount
	}

	return &Consumer{
		cron:      cron,
		cfg:       cfg,
		logger:    cfg.Logger,
		semaphore: make(chan struct{}, cfg.Workers),
		now:       time.Now,
	}, nil
}

// Start schedules the polling job and starts the gocron scheduler.
func (c *Consumer) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	_, err := c.cron.NewJob(
		gocron.DurationJob(c.cfg.Polling.Interval),
		gocron.NewTask(c.tick),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("scheduling queue poll: %w", err)
	}

	c.cron.Start()
	c.logger.Info("queue consumer started",
		"interval", c.cfg.Polling.Interval, "workers", c.cfg.Workers)
	return nil
}

// Stop shuts down the scheduler and waits for in-flight dispatches.
func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	err := c.cron.Shutdown()
	c.wg.Wait()
	return err
}

// tick polls unless the idle backoff says to wait.
func (c *Consumer) tick() {
	c.mu.Lock()
	if c.now().Before(c.nextPoll) {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	n, err := c.Poll(c.ctx)
	if err != nil {
		c.logger.Error("queue poll failed", "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if n > 0 {
		c.idle = 0
		c.nextPoll = time.Time{}
		return
	}
	c.nextPoll = c.now().Add(c.cfg.Polling.NextInterval(c.idle))
	if c.idle < maxIdleSteps {
		c.idle++
	}
}

// Poll receives one batch and hands every event to the worker pool. It
// returns the number of events received.
func (c *Consumer) Poll(ctx context.Context) (int, error) {
	events, err := c.cfg.Queue.Receive(ctx, c.cfg.BatchSize, c.cfg.VisibilityTimeout)
	if err != nil {
		return 0, fmt.Errorf("receiving upload events: %w", err)
	}

	for _, qe := range events {
		select {
		case c.semaphore <- struct{}{}:
		case <-ctx.Done():
			return len(events), ctx.Err()
		}
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			defer func() { <-c.semaphore }()
			c.handle(ctx, qe)
		}()
	}
	return len(events), nil
}

// Wait blocks until every dispatch started by Poll has finished.
func (c *Consumer) Wait() {
	c.wg.Wait()
}

// handle dispatches one queued event. The event is deleted once a report is
// produced, whatever the per-channel outcomes. Errors before that leave it on
// the queue for redelivery.
func (c *Consumer) handle(ctx context.Context, qe storage.QueuedEvent) {
	ev := qe.Event
	logger := c.logger.With("queue_id", qe.ID, "tenant_id", ev.TenantID, "file_id", ev.FileID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("upload event handler panicked", "panic", r)
		}
	}()

	if qe.DequeueCount > c.cfg.MaxDequeueCount {
		logger.Warn("dropping upload event after repeated failures", "dequeue_count", qe.DequeueCount)
		c.delete(ctx, logger, qe.ID)
		c.publish(EventEventDropped, ev, map[string]string{"dequeue_count": strconv.Itoa(qe.DequeueCount)})
		return
	}

	req, err := BuildRequest(ctx, c.cfg.Preferences, ev, c.cfg.WebhookEndpoint)
	if err != nil {
		logger.Error("building dispatch request failed", "error", err)
		return
	}

	report, err := c.cfg.Dispatcher.Dispatch(ctx, req)
	if err != nil {
		logger.Error("dispatch failed", "error", err)
		c.publish(EventDispatchFailed, ev, map[string]string{"error": err.Error()})
		return
	}

	c.delete(ctx, logger, qe.ID)
	c.publish(EventDispatchCompleted, ev, map[string]string{
		"delivered": strconv.Itoa(report.Delivered()),
		"failed":    strconv.Itoa(report.Failed()),
	})
}

func (c *Consumer) delete(ctx context.Context, logger *slog.Logger, id int64) {
	if err := c.cfg.Queue.Delete(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Error("deleting upload event failed", "error", err)
	}
}

func (c *Consumer) publish(eventType string, ev storage.UploadEvent, extra map[string]string) {
	if c.cfg.EventPublisher == nil {
		return
	}
	payload := map[string]string{
		"tenant_id":     ev.TenantID,
		"file_id":       ev.FileID,
		"upload_status": string(ev.UploadStatus),
	}
	for k, v := range extra {
		payload[k] = v
	}
	c.cfg.EventPublisher.Publish(eventType, payload)
}
