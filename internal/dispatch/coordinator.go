// Package dispatch fans a single upload notification request out to the
// tenant's configured channels and records the outcome of every channel.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shaharia-lab/filenotify/internal/notification"
)

const defaultSendTimeout = 30 * time.Second

// Config holds the coordinator dependencies.
type Config struct {
	Resolver *Resolver
	Recorder StatusRecorder
	Logger   *slog.Logger
	Metrics  *Metrics

	// SendTimeout bounds a single channel send. Zero uses 30s.
	SendTimeout time.Duration
}

// Coordinator turns one Request into per-channel sends and persistence calls.
type Coordinator struct {
	resolver    *Resolver
	recorder    StatusRecorder
	logger      *slog.Logger
	metrics     *Metrics
	sendTimeout time.Duration
}

// New creates a Coordinator.
func New(cfg Config) *Coordinator {
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &Coordinator{
		resolver:    cfg.Resolver,
		recorder:    cfg.Recorder,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		sendTimeout: timeout,
	}
}

type partition struct {
	kind    notification.ChannelKind
	channel notification.Channel
}

// Dispatch resolves the tenant's channels for the request's upload status,
// sends to every channel that has recipients and persists each outcome.
//
// Per-channel send and persistence failures are reported in the returned
// Report. An error is returned only when the request cannot be dispatched at
// all, in which case nothing has been sent.
func (c *Coordinator) Dispatch(ctx context.Context, req notification.Request) (notification.Report, error) {
	report := notification.Report{TenantID: req.TenantID, FileID: req.FileID}
	c.metrics.observeDispatch()

	kinds, err := c.resolver.ResolveChannels(ctx, req.TenantID, string(req.UploadStatus))
	if err != nil {
		return report, fmt.Errorf("resolving channels: %w", err)
	}

	parts := make([]partition, 0, len(kinds))
	for _, kind := range kinds {
		if len(req.RecipientsFor(kind)) == 0 {
			c.logger.Debug("no recipients for configured channel",
				"tenant_id", req.TenantID, "file_id", req.FileID, "channel", kind.String())
			continue
		}
		ch, err := c.resolver.Channel(kind)
		if err != nil {
			return report, fmt.Errorf("channel %s: %w", kind, err)
		}
		parts = append(parts, partition{kind: kind, channel: ch})
	}

	if len(parts) == 0 {
		c.logger.Info("nothing to dispatch",
			"tenant_id", req.TenantID, "file_id", req.FileID, "event_type", string(req.UploadStatus))
		return report, nil
	}

	report.Outcomes = make([]notification.Outcome, len(parts))
	var wg sync.WaitGroup
	for i, p := range parts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report.Outcomes[i] = c.runPartition(ctx, req, p)
		}()
	}
	wg.Wait()

	c.logger.Info("dispatch complete",
		"tenant_id", req.TenantID, "file_id", req.FileID,
		"delivered", report.Delivered(), "failed", report.Failed())
	return report, nil
}

// runPartition sends to one channel and then records the result. A panic
// while persisting is recovered here so sibling partitions are unaffected.
func (c *Coordinator) runPartition(ctx context.Context, req notification.Request, p partition) (out notification.Outcome) {
	logger := c.logger.With("tenant_id", req.TenantID, "file_id", req.FileID, "channel", p.kind.String())
	out = notification.Outcome{Channel: p.kind, Status: notification.Failed}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("partition panicked", "panic", r)
			out.PersistError = fmt.Sprintf("panic: %v", r)
			c.metrics.observePersistFailure(p.kind)
		}
	}()

	start := time.Now()
	sendErr := c.send(ctx, p.channel, req)
	if sendErr != nil {
		out.Reason = sendErr.Error()
		logger.Warn("channel send failed", "error", sendErr)
	} else {
		out.Status = notification.Delivered
	}
	c.metrics.observeSend(p.kind, out.Status, time.Since(start))

	// Persisted for failed sends as well; the notified flag means "attempted".
	if err := c.recorder.Record(ctx, req, p.kind, sendErr == nil); err != nil {
		out.PersistError = err.Error()
		c.metrics.observePersistFailure(p.kind)
		return out
	}
	out.Persisted = true
	return out
}

// send calls the channel under the send timeout and converts a panic into a
// failed send so the outcome is still persisted.
func (c *Coordinator) send(ctx context.Context, ch notification.Channel, req notification.Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("channel panicked: %v", r)
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, c.sendTimeout)
	defer cancel()
	return ch.Send(sendCtx, req)
}
